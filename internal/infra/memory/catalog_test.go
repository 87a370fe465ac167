package memory

import (
	"testing"

	"ranking-quiz-service/internal/ranking"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()
	for id, quiz := range catalog {
		if err := quiz.Validate(); err != nil {
			t.Fatalf("quiz %s invalid: %v", id, err)
		}
	}
	loader := NewStaticQuizLoader(catalog)
	quizzes := loader.Quizzes()
	if len(quizzes) != 3 || quizzes[0].ID != "dinosaur" {
		t.Fatalf("unexpected catalog listing %+v", quizzes)
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
quizzes:
  - id: planets
    title: Largest planets
    question: Rank by diameter
    items:
      - {id: jupiter, label: Jupiter}
      - {id: saturn, label: Saturn}
      - {id: uranus, label: Uranus}
    settings:
      policy: weighted-topk
      rankedPositions: 2
      prefill: empty-slots
      answerKey: [jupiter, saturn]
`)
	quizzes, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	quiz, ok := quizzes["planets"]
	if !ok {
		t.Fatalf("planets missing from %v", quizzes)
	}
	if quiz.Settings.Policy != ranking.PolicyWeightedTopK || len(quiz.Items) != 3 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestParseCatalogRejectsBadAnswerKey(t *testing.T) {
	data := []byte(`
quizzes:
  - id: planets
    title: Largest planets
    items:
      - {id: jupiter, label: Jupiter}
    settings:
      policy: exact
      rankedPositions: 1
      answerKey: [pluto]
`)
	if _, err := ParseCatalog(data); err == nil {
		t.Fatalf("expected error for unknown answer key item")
	}
}
