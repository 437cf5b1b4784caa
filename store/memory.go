package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// Memory is an in-process Collection used by tests. It honors the same
// contract as the Mongo adapter: ordered List, caller-assigned ids,
// shallow-merge Patch, and whole-snapshot subscriber delivery after
// every write.
type Memory[T Record] struct {
	less func(a, b T) bool

	mu      sync.Mutex
	recs    []T
	subs    map[int]chan []T
	nextID  int
	failErr error
}

func NewMemory[T Record](less func(a, b T) bool) *Memory[T] {
	return &Memory[T]{
		less: less,
		subs: make(map[int]chan []T),
	}
}

// FailWith makes every subsequent operation return err (nil resets).
// Lets tests exercise store-unavailable paths.
func (s *Memory[T]) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Memory[T]) List(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, s.failErr)
	}
	return s.snapshotLocked(), nil
}

func (s *Memory[T]) Insert(ctx context.Context, rec T) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, s.failErr)
	}
	s.recs = append(s.recs, rec)
	s.notifyLocked()
	return rec.RecordID(), nil
}

func (s *Memory[T]) Patch(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, s.failErr)
	}
	for i, rec := range s.recs {
		if rec.RecordID() != id {
			continue
		}
		merged, err := merge(rec, fields)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		s.recs[i] = merged
		s.notifyLocked()
		return nil
	}
	return ErrNotFound
}

func (s *Memory[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, s.failErr)
	}
	for i, rec := range s.recs {
		if rec.RecordID() == id {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			s.notifyLocked()
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory[T]) Subscribe() (<-chan []T, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan []T, 1)
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(cur)
		}
	}
	return ch, cancel
}

func (s *Memory[T]) snapshotLocked() []T {
	snap := make([]T, len(s.recs))
	copy(snap, s.recs)
	sort.SliceStable(snap, func(i, j int) bool { return s.less(snap[i], snap[j]) })
	return snap
}

func (s *Memory[T]) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		deliver(ch, snap)
	}
}

// merge shallow-merges patch fields into a record via a bson round
// trip, mirroring how a document store applies a $set.
func merge[T Record](rec T, fields map[string]any) (T, error) {
	var out T
	raw, err := bson.Marshal(rec)
	if err != nil {
		return out, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return out, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return out, err
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
