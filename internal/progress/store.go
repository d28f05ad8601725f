package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/abhisek/fjala/internal/content"
	"github.com/abhisek/fjala/internal/spacedrep"
)

// Keys used in the key-value backend.
const (
	KeyTotalXP          = "totalXP"
	KeyStreakCount      = "streakCount"
	KeyLastPracticeDate = "lastPracticeDate"
	KeyDialect          = "dialect"
	PracticeKeyPrefix   = "practice:"
)

// PracticeKey returns the key holding the practice record of a lesson.
func PracticeKey(lessonID string) string {
	return PracticeKeyPrefix + lessonID
}

// KV is the storage backend of a KVStore.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// DeletePrefix removes every key starting with prefix. An empty
	// prefix removes everything.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Store is the learner's progress: XP, day streak, dialect preference
// and one spaced-repetition record per lesson.
type Store interface {
	TotalXP(ctx context.Context) (int, error)
	// AddXP adds delta and returns the new total.
	AddXP(ctx context.Context, delta int) (int, error)

	// Streak returns the day streak as of now, which is 0 unless the
	// learner practiced today or yesterday.
	Streak(ctx context.Context, now time.Time) (int, error)
	// TouchStreak marks now as a practice day and returns the streak.
	TouchStreak(ctx context.Context, now time.Time) (int, error)
	// LastPracticeDate returns YYYY-MM-DD, or "" if never practiced.
	LastPracticeDate(ctx context.Context) (string, error)

	PracticeRecord(ctx context.Context, lessonID string) (spacedrep.Record, error)
	SavePracticeRecord(ctx context.Context, lessonID string, rec spacedrep.Record) error

	// Dialect returns the stored preference and whether one is set.
	Dialect(ctx context.Context) (content.Dialect, bool, error)
	SetDialect(ctx context.Context, d content.Dialect) error

	// Reset forgets XP, streak and practice records. The dialect
	// preference is kept.
	Reset(ctx context.Context) error
}

// Snapshot is a point-in-time view of the headline numbers.
type Snapshot struct {
	TotalXP          int             `json:"total_xp"`
	Streak           int             `json:"streak"`
	LastPracticeDate string          `json:"last_practice_date,omitempty"`
	Dialect          content.Dialect `json:"dialect"`
}

// Load reads a Snapshot from s. Without a stored preference the dialect
// is fallback.
func Load(ctx context.Context, s Store, now time.Time, fallback content.Dialect) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.TotalXP, err = s.TotalXP(ctx); err != nil {
		return snap, err
	}
	if snap.Streak, err = s.Streak(ctx, now); err != nil {
		return snap, err
	}
	if snap.LastPracticeDate, err = s.LastPracticeDate(ctx); err != nil {
		return snap, err
	}
	d, ok, err := s.Dialect(ctx)
	if err != nil {
		return snap, err
	}
	if !ok {
		d = fallback
	}
	snap.Dialect = d
	return snap, nil
}

// KVStore implements Store over a KV backend. Read-modify-write cycles
// are serialized within the process; across processes the last write
// wins.
type KVStore struct {
	mu sync.Mutex
	kv KV
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a Store backed by kv.
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv}
}

// NewMemoryStore creates a Store that keeps everything in memory.
func NewMemoryStore() *KVStore {
	return NewKVStore(NewMemoryKV())
}

func (s *KVStore) getInt(ctx context.Context, key string) (int, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Corrupt counters read as zero, matching a fresh install.
		return 0, nil
	}
	return n, nil
}

func (s *KVStore) getString(ctx context.Context, key string) (string, error) {
	v, _, err := s.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (s *KVStore) TotalXP(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getInt(ctx, KeyTotalXP)
}

func (s *KVStore) AddXP(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.getInt(ctx, KeyTotalXP)
	if err != nil {
		return 0, err
	}
	total += delta
	if err := s.kv.Set(ctx, KeyTotalXP, strconv.Itoa(total)); err != nil {
		return 0, fmt.Errorf("set %s: %w", KeyTotalXP, err)
	}
	return total, nil
}

func (s *KVStore) Streak(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	streak, err := s.getInt(ctx, KeyStreakCount)
	if err != nil {
		return 0, err
	}
	last, err := s.getString(ctx, KeyLastPracticeDate)
	if err != nil {
		return 0, err
	}
	return ValidStreak(streak, last, now), nil
}

func (s *KVStore) TouchStreak(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	streak, err := s.getInt(ctx, KeyStreakCount)
	if err != nil {
		return 0, err
	}
	last, err := s.getString(ctx, KeyLastPracticeDate)
	if err != nil {
		return 0, err
	}

	today := Date(now)
	if last == today {
		return ValidStreak(streak, last, now), nil
	}

	next := AdvanceStreak(streak, last, now)
	if err := s.kv.Set(ctx, KeyStreakCount, strconv.Itoa(next)); err != nil {
		return 0, fmt.Errorf("set %s: %w", KeyStreakCount, err)
	}
	if err := s.kv.Set(ctx, KeyLastPracticeDate, today); err != nil {
		return 0, fmt.Errorf("set %s: %w", KeyLastPracticeDate, err)
	}
	return next, nil
}

func (s *KVStore) LastPracticeDate(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getString(ctx, KeyLastPracticeDate)
}

func (s *KVStore) PracticeRecord(ctx context.Context, lessonID string) (spacedrep.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := PracticeKey(lessonID)
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	rec := spacedrep.Record{}
	if !ok || v == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return rec, nil
}

func (s *KVStore) SavePracticeRecord(ctx context.Context, lessonID string, rec spacedrep.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := PracticeKey(lessonID)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Dialect(ctx context.Context) (content.Dialect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.getString(ctx, KeyDialect)
	if err != nil {
		return "", false, err
	}
	d, ok := content.ParseDialect(v)
	return d, ok, nil
}

func (s *KVStore) SetDialect(ctx context.Context, d content.Dialect) error {
	if _, ok := content.ParseDialect(string(d)); !ok {
		return fmt.Errorf("unknown dialect %q", d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, KeyDialect, string(d)); err != nil {
		return fmt.Errorf("set %s: %w", KeyDialect, err)
	}
	return nil
}

func (s *KVStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range []string{KeyTotalXP, KeyStreakCount, KeyLastPracticeDate, PracticeKeyPrefix} {
		if err := s.kv.DeletePrefix(ctx, key); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
	}
	return nil
}
