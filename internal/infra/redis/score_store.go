package redis

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"ranking-quiz-service/internal/domain"
)

// ScoreStore keeps the best score per user in a sorted set and the time the
// best was reached in a companion hash:
//
//	ZADD quiz:{title}:scores GT CH {score} {user}
//	HSET quiz:{title}:scored_at {user} {unix millis}
type ScoreStore struct {
	client *redis.Client
	clock  func() time.Time
}

func NewScoreStore(client *redis.Client) *ScoreStore {
	return &ScoreStore{client: client, clock: time.Now}
}

func (s *ScoreStore) Record(ctx context.Context, submission domain.ScoreSubmission) error {
	changed, err := s.client.ZAddArgs(ctx, s.scoresKey(submission.QuizTitle), redis.ZAddArgs{
		GT: true,
		Ch: true,
		Members: []redis.Z{{
			Score:  float64(submission.Score),
			Member: submission.User,
		}},
	}).Result()
	if err != nil {
		return err
	}
	if changed == 0 {
		return nil
	}
	return s.client.HSet(ctx, s.timesKey(submission.QuizTitle), submission.User, s.clock().UnixMilli()).Err()
}

func (s *ScoreStore) Best(ctx context.Context, quizTitle string) ([]domain.ScoreEntry, error) {
	members, err := s.client.ZRevRangeWithScores(ctx, s.scoresKey(quizTitle), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	users := make([]string, len(members))
	for i, m := range members {
		users[i], _ = m.Member.(string)
	}
	times, err := s.client.HMGet(ctx, s.timesKey(quizTitle), users...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ScoreEntry, len(members))
	for i, m := range members {
		entries[i] = domain.ScoreEntry{User: users[i], Score: int(m.Score)}
		if raw, ok := times[i].(string); ok {
			if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entries[i].RecordedAt = time.UnixMilli(ms)
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
	return entries, nil
}

func (s *ScoreStore) scoresKey(quizTitle string) string {
	return "quiz:" + quizTitle + ":scores"
}

func (s *ScoreStore) timesKey(quizTitle string) string {
	return "quiz:" + quizTitle + ":scored_at"
}
