package ranking

// Policy selects how an arrangement is scored.
type Policy string

const (
	// PolicyExact awards one point per position holding the expected item.
	PolicyExact Policy = "exact"
	// PolicyWeightedTopK awards a point per answer-key member placed anywhere in
	// the top M, plus a bonus of M-i+1 for an exact match at position i.
	PolicyWeightedTopK Policy = "weighted-topk"
)

func (p Policy) Valid() bool {
	return p == PolicyExact || p == PolicyWeightedTopK
}

// PositionStatus is the per-position annotation rendered after submission.
type PositionStatus string

const (
	StatusCorrect   PositionStatus = "correct"
	StatusIncorrect PositionStatus = "incorrect"
	StatusUnfilled  PositionStatus = "unfilled"
)

// ScoreResult is the outcome of scoring one arrangement.
type ScoreResult struct {
	Policy   Policy           `json:"policy"`
	Total    int              `json:"totalScore"`
	MaxScore int              `json:"maxScore"` // display hint only, never a ceiling
	Statuses []PositionStatus `json:"perPositionStatus"`
}

// Scorer maps ranked positions ("" for empty) and an answer key to a result.
// Implementations must be pure.
type Scorer interface {
	Score(positions, answerKey []string) ScoreResult
}

// ScorerFor returns the scorer for policy.
func ScorerFor(policy Policy) (Scorer, error) {
	switch policy {
	case PolicyExact:
		return ExactScorer{}, nil
	case PolicyWeightedTopK:
		return WeightedTopKScorer{}, nil
	default:
		return nil, configf("unknown scoring policy %q", policy)
	}
}

// ComputeScore validates answerKey against m and scores m's positions with policy.
func ComputeScore(m Model, answerKey []string, policy Policy) (ScoreResult, error) {
	scorer, err := ScorerFor(policy)
	if err != nil {
		return ScoreResult{}, err
	}
	if err := validateAnswerKey(answerKey, m.Has, m.capacity()); err != nil {
		return ScoreResult{}, err
	}
	return scorer.Score(m.Positions(), answerKey), nil
}

// Has reports whether id is held by any container.
func (m Model) Has(id string) bool {
	_, ok := m.where[id]
	return ok
}

func validateAnswerKey(key []string, known func(string) bool, capacity int) error {
	if len(key) == 0 {
		return configf("answer key is empty")
	}
	if len(key) > capacity {
		return configf("answer key has %d entries for %d positions", len(key), capacity)
	}
	seen := make(map[string]struct{}, len(key))
	for i, id := range key {
		if !known(id) {
			return configf("answer key position %d references unknown item %q", i+1, id)
		}
		if _, dup := seen[id]; dup {
			return configf("answer key repeats item %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func positionAt(positions []string, i int) string {
	if i < len(positions) {
		return positions[i]
	}
	return ""
}

func statusAt(placed, expected string) PositionStatus {
	switch {
	case placed == "":
		return StatusUnfilled
	case placed == expected:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

// ExactScorer implements PolicyExact.
type ExactScorer struct{}

func (ExactScorer) Score(positions, answerKey []string) ScoreResult {
	res := ScoreResult{
		Policy:   PolicyExact,
		MaxScore: len(answerKey),
		Statuses: make([]PositionStatus, len(answerKey)),
	}
	for i, expected := range answerKey {
		res.Statuses[i] = statusAt(positionAt(positions, i), expected)
		if res.Statuses[i] == StatusCorrect {
			res.Total++
		}
	}
	return res
}

// WeightedTopKScorer implements PolicyWeightedTopK. Points are computed over
// the items in the first M positions with empty positions dropped; Statuses
// stay indexed by position.
type WeightedTopKScorer struct{}

func (WeightedTopKScorer) Score(positions, answerKey []string) ScoreResult {
	m := len(answerKey)
	res := ScoreResult{
		Policy:   PolicyWeightedTopK,
		MaxScore: 2 * m,
		Statuses: make([]PositionStatus, m),
	}
	inKey := make(map[string]struct{}, m)
	userTop := make([]string, 0, m)
	for i, expected := range answerKey {
		inKey[expected] = struct{}{}
		placed := positionAt(positions, i)
		res.Statuses[i] = statusAt(placed, expected)
		if placed != "" {
			userTop = append(userTop, placed)
		}
	}
	for i, id := range userTop {
		if _, ok := inKey[id]; ok {
			res.Total++
		}
		if id == answerKey[i] {
			res.Total += m - i
		}
	}
	return res
}
