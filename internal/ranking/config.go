package ranking

// Config parameterizes one quiz: layout, scoring policy and answer key.
type Config struct {
	Policy          Policy      `json:"policy" yaml:"policy"`
	RankedPositions int         `json:"rankedPositions" yaml:"rankedPositions"`
	Prefill         PrefillMode `json:"prefill" yaml:"prefill"`
	AnswerKey       []string    `json:"answerKey" yaml:"answerKey"`
}

// PrefillMode returns the configured mode, defaulting to empty slots.
func (c Config) Mode() PrefillMode {
	if c.Prefill == "" {
		return PrefillEmptySlots
	}
	return c.Prefill
}

// Validate checks the settings against reg before any model is built or scored.
func (c Config) Validate(reg *Registry) error {
	if !c.Policy.Valid() {
		return configf("unknown scoring policy %q", c.Policy)
	}
	if c.RankedPositions <= 0 {
		return configf("ranked positions must be positive, got %d", c.RankedPositions)
	}
	mode := c.Mode()
	if !mode.Valid() {
		return configf("unknown prefill mode %q", mode)
	}
	if mode == PrefillFlatPool && c.RankedPositions > reg.Len() {
		return configf("%d ranked positions for %d items", c.RankedPositions, reg.Len())
	}
	return validateAnswerKey(c.AnswerKey, reg.Has, c.RankedPositions)
}

// MaxScore is the display hint shown next to a score.
func (c Config) MaxScore() int {
	if c.Policy == PolicyWeightedTopK {
		return 2 * len(c.AnswerKey)
	}
	return len(c.AnswerKey)
}

// NewModel validates c and returns the initial model for reg.
func (c Config) NewModel(reg *Registry) (Model, error) {
	if err := c.Validate(reg); err != nil {
		return Model{}, err
	}
	return CreateInitialModel(reg, c.RankedPositions, c.Mode())
}

// Score scores m under c's policy and answer key.
func (c Config) Score(m Model) (ScoreResult, error) {
	return ComputeScore(m, c.AnswerKey, c.Policy)
}
