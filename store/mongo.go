package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sort direction for a collection's indexed field.
const (
	Asc  = 1
	Desc = -1
)

// Mongo adapts one *mongo.Collection to the Collection contract. After
// every successful write it re-reads the full collection and fans the
// snapshot out to all subscribers, which is how the push feed stays a
// whole-snapshot feed rather than a diff stream.
type Mongo[T Record] struct {
	coll      *mongo.Collection
	sortField string
	sortOrder int
	onChange  func() // optional cross-instance change hook

	mu     sync.Mutex
	subs   map[int]chan []T
	nextID int
}

func NewMongo[T Record](coll *mongo.Collection, sortField string, sortOrder int, onChange func()) *Mongo[T] {
	return &Mongo[T]{
		coll:      coll,
		sortField: sortField,
		sortOrder: sortOrder,
		onChange:  onChange,
		subs:      make(map[int]chan []T),
	}
}

func (s *Mongo[T]) List(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: s.sortField, Value: s.sortOrder}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	recs := []T{}
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return recs, nil
}

func (s *Mongo[T]) Insert(ctx context.Context, rec T) (string, error) {
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.notify(ctx)
	return rec.RecordID(), nil
}

func (s *Mongo[T]) Patch(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *Mongo[T]) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	s.notify(ctx)
	return nil
}

func (s *Mongo[T]) Subscribe() (<-chan []T, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan []T, 1)
	s.subs[id] = ch
	s.mu.Unlock()

	// deliver the current snapshot so the subscriber starts warm
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap, err := s.List(ctx)
		if err != nil {
			log.Println("initial snapshot failed:", err)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.subs[id]; ok {
			// don't clobber a post-write snapshot that beat us here
			select {
			case cur <- snap:
			default:
			}
		}
	}()

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

// Refresh re-reads the collection and pushes the snapshot to all
// subscribers. Called when another instance reports a change.
func (s *Mongo[T]) Refresh(ctx context.Context) {
	snap, err := s.List(ctx)
	if err != nil {
		log.Println("refresh snapshot failed:", err)
		return
	}
	s.broadcast(snap)
}

func (s *Mongo[T]) notify(ctx context.Context) {
	snap, err := s.List(ctx)
	if err != nil {
		log.Println("post-write snapshot failed:", err)
		return
	}
	s.broadcast(snap)
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Mongo[T]) broadcast(snap []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		deliver(ch, snap)
	}
}

// deliver replaces any undelivered snapshot with the newer one. Only
// the holder of s.mu sends on subscriber channels, so the drain cannot
// race another sender.
func deliver[T any](ch chan []T, snap []T) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
