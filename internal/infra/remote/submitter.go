package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"ranking-quiz-service/internal/domain"
)

// ErrRejected is returned when the score service refuses a submission outright.
var ErrRejected = errors.New("score submission rejected")

// Submitter posts scores to an external score endpoint, retrying transient failures.
type Submitter struct {
	url        string
	client     *http.Client
	log        *zap.Logger
	newBackOff func() backoff.BackOff
}

// Option customizes a Submitter.
type Option func(*Submitter)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Submitter) { s.client = client }
}

// WithBackOff replaces the retry policy; tests use a constant zero backoff.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Submitter) { s.newBackOff = newBackOff }
}

func NewSubmitter(url string, log *zap.Logger, opts ...Option) *Submitter {
	s := &Submitter{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Submit sends {quizTitle,user,score}. 5xx, 429 and transport errors are retried
// until the backoff gives up or ctx ends; other non-2xx answers are final.
func (s *Submitter) Submit(ctx context.Context, submission domain.ScoreSubmission) (domain.Ack, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.Ack{}, fmt.Errorf("encode submission: %w", err)
	}

	var ack domain.Ack
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("score service answered %d", resp.StatusCode)
		case resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			return backoff.Permanent(fmt.Errorf("decode ack: %w", err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		s.log.Warn("score submission retry",
			zap.String("quiz", submission.QuizTitle),
			zap.String("user", submission.User),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return domain.Ack{}, err
	}
	return ack, nil
}
