package memory

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
	"ranking-quiz-service/internal/domain"
	"ranking-quiz-service/internal/ranking"
)

// StaticQuizLoader is a loader backed by an in-memory catalog.
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := l.quizzes[quizID]; ok {
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// Quizzes lists the catalog sorted by id.
func (l *StaticQuizLoader) Quizzes() []domain.Quiz {
	out := make([]domain.Quiz, 0, len(l.quizzes))
	for _, q := range l.quizzes {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type catalogFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// LoadCatalogFile reads a YAML quiz catalog and validates every quiz in it.
func LoadCatalogFile(path string) (map[string]domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog.
func ParseCatalog(data []byte) (map[string]domain.Quiz, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	quizzes := make(map[string]domain.Quiz, len(file.Quizzes))
	for _, q := range file.Quizzes {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := quizzes[q.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate quiz id %q", q.ID)
		}
		quizzes[q.ID] = q
	}
	return quizzes, nil
}

// DefaultCatalog is the built-in set of quizzes served when no catalog file is configured.
func DefaultCatalog() map[string]domain.Quiz {
	top5 := []string{"opt1", "opt2", "opt3", "opt4", "opt5"}
	return map[string]domain.Quiz{
		"mountains": {
			ID:       "mountains",
			Title:    "Highest mountains",
			Question: "Drag the ten peaks into order from highest (1) to lowest (10).",
			Items: numbered("Mount Everest", "K2", "Kangchenjunga", "Lhotse", "Makalu",
				"Cho Oyu", "Dhaulagiri I", "Manaslu", "Nanga Parbat", "Annapurna I"),
			Settings: ranking.Config{
				Policy:          ranking.PolicyExact,
				RankedPositions: 10,
				Prefill:         ranking.PrefillFlatPool,
				AnswerKey:       []string{"opt1", "opt2", "opt3", "opt4", "opt5", "opt6", "opt7", "opt8", "opt9", "opt10"},
			},
		},
		"sushi": {
			ID:       "sushi",
			Title:    "Favourite sushi toppings",
			Question: "Pick the top five from the options and drag them into places 1 to 5.",
			Items: numbered("Aji", "Tamago", "Natto gunkan", "Saba", "Salmon",
				"Aburi salmon", "Ikura", "Chutoro", "Chawanmushi", "Negitoro"),
			Settings: ranking.Config{
				Policy:          ranking.PolicyWeightedTopK,
				RankedPositions: 5,
				Prefill:         ranking.PrefillEmptySlots,
				AnswerKey:       top5,
			},
		},
		"dinosaur": {
			ID:       "dinosaur",
			Title:    "Favourite prehistoric creatures",
			Question: "Pick the top five from the options and drag them into places 1 to 5.",
			Items: numbered("Mosasaurus", "Gallimimus", "Therizinosaurus", "Tyrannosaurus", "Compsognathus",
				"Spinosaurus", "Giganotosaurus", "Baryonyx", "Dodo", "Utahraptor"),
			Settings: ranking.Config{
				Policy:          ranking.PolicyWeightedTopK,
				RankedPositions: 5,
				Prefill:         ranking.PrefillEmptySlots,
				AnswerKey:       top5,
			},
		},
	}
}

func numbered(labels ...string) []ranking.Item {
	items := make([]ranking.Item, len(labels))
	for i, label := range labels {
		items[i] = ranking.Item{ID: fmt.Sprintf("opt%d", i+1), Label: label}
	}
	return items
}
