package app

import (
	"sort"
	"sync"
	"time"

	"ranking-quiz-service/internal/domain"
)

// Board is an in-memory leaderboard of best scores for one quiz title.
type Board struct {
	title       string
	now         func() time.Time
	mu          sync.RWMutex
	entries     map[string]*boardEntry
	subscribers map[chan domain.Leaderboard]struct{}
}

type boardEntry struct {
	user      string
	score     int
	reachedAt time.Time
}

// NewBoard seeds a board from previously recorded scores.
func NewBoard(title string, history []domain.ScoreEntry) *Board {
	return NewBoardWithClock(title, history, time.Now)
}

// NewBoardWithClock allows deterministic timestamps in tests.
func NewBoardWithClock(title string, history []domain.ScoreEntry, now func() time.Time) *Board {
	b := &Board{
		title:       title,
		now:         now,
		entries:     make(map[string]*boardEntry, len(history)),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
	for _, h := range history {
		b.raiseLocked(h.User, h.Score, h.RecordedAt)
	}
	return b
}

// Record keeps the user's best score and broadcasts when it improved.
func (b *Board) Record(user string, score int) domain.Leaderboard {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.raiseLocked(user, score, b.now()) {
		return b.snapshotLocked()
	}
	return b.broadcastLocked()
}

// Snapshot returns the current ordering without notifying subscribers.
func (b *Board) Snapshot() domain.Leaderboard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Subscribe returns a channel that receives leaderboard updates, starting with
// the current snapshot. The caller must invoke cancel to avoid leaks.
func (b *Board) Subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	// The buffer is still empty, so this send cannot block while the lock is held.
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	ch <- b.snapshotLocked()
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *Board) raiseLocked(user string, score int, at time.Time) bool {
	if entry, ok := b.entries[user]; ok {
		if score <= entry.score {
			return false
		}
		entry.score = score
		entry.reachedAt = at
		return true
	}
	b.entries[user] = &boardEntry{user: user, score: score, reachedAt: at}
	return true
}

func (b *Board) broadcastLocked() domain.Leaderboard {
	lb := b.snapshotLocked()
	for ch := range b.subscribers {
		select {
		case ch <- lb:
		default:
			// drop the stale update so a slow reader never blocks scoring
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (b *Board) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, domain.LeaderboardEntry{User: e.user, Score: e.score})
	}

	// score desc, then whoever reached it first, then name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		ei := b.entries[entries[i].User]
		ej := b.entries[entries[j].User]
		if !ei.reachedAt.Equal(ej.reachedAt) {
			return ei.reachedAt.Before(ej.reachedAt)
		}
		return entries[i].User < entries[j].User
	})

	return domain.Leaderboard{
		QuizTitle: b.title,
		Entries:   entries,
		UpdatedAt: b.now(),
	}
}
