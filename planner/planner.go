// Package planner owns the in-memory view of the itineraries
// collection and every mutation against it. The store's snapshot feed
// is the only thing that writes the cache; mutations go through the
// store and wait for the echo, so the cache never becomes a second
// source of truth.
package planner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ourdates/models"
	"ourdates/store"
	"ourdates/utils"
)

// ErrNotFound aliases the store sentinel so callers match one error.
var ErrNotFound = store.ErrNotFound

// ValidationError reports a request rejected before any write was
// attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Manager is the itinerary aggregate manager. Mutations on the same
// itinerary are serialized by a per-id lock, and each mutation computes
// its base from the previous mutation's written result (the pending
// overlay) rather than from a cache that may not have echoed yet. Two
// back-to-back AddActivity calls therefore cannot assign the same
// order and silently lose one addition.
type Manager struct {
	store store.Collection[models.Itinerary]

	mu       sync.RWMutex
	snapshot []models.Itinerary
	byID     map[string]models.Itinerary
	pending  map[string]models.Itinerary

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	cancel func()
	done   chan struct{}
	now    func() time.Time
}

// New subscribes to the itineraries collection and starts consuming
// snapshots. Close releases the subscription.
func New(st store.Collection[models.Itinerary]) *Manager {
	m := &Manager{
		store:   st,
		byID:    make(map[string]models.Itinerary),
		pending: make(map[string]models.Itinerary),
		locks:   make(map[string]*sync.Mutex),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	ch, cancel := st.Subscribe()
	m.cancel = cancel
	go m.consume(ch)
	return m
}

func (m *Manager) Close() {
	m.cancel()
	<-m.done
}

func (m *Manager) consume(ch <-chan []models.Itinerary) {
	defer close(m.done)
	for snap := range ch {
		byID := make(map[string]models.Itinerary, len(snap))
		for _, it := range snap {
			byID[it.ID] = it
		}
		m.mu.Lock()
		m.snapshot = snap
		m.byID = byID
		// snapshots can arrive out of order (a cross-instance refresh may
		// have read pre-write state), so an overlay entry is dropped only
		// once the snapshot has caught up to its write
		for id, pend := range m.pending {
			if rec, ok := byID[id]; ok && rec.UpdatedAt >= pend.UpdatedAt {
				delete(m.pending, id)
			}
		}
		m.mu.Unlock()
	}
}

// lock acquires the per-itinerary mutation lock. The caller must call
// the returned unlock.
func (m *Manager) lock(id string) func() {
	m.locksMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.locksMu.Unlock()
	l.Lock()
	return l.Unlock
}

// current returns the mutation base for an itinerary: the pending
// overlay when a write is in flight, the cached snapshot otherwise.
func (m *Manager) current(id string) (models.Itinerary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.pending[id]; ok {
		return it, true
	}
	it, ok := m.byID[id]
	return it, ok
}

// stamp returns the updatedAt value for a mutation on base, strictly
// after base's last update. Per-id timestamps are what lets consume
// tell a stale snapshot from the echo of the latest write.
func (m *Manager) stamp(base models.Itinerary) int64 {
	now := m.now().UnixMilli()
	if now <= base.UpdatedAt {
		now = base.UpdatedAt + 1
	}
	return now
}

// CreateInput is the caller-supplied part of a new itinerary.
type CreateInput struct {
	Title          string                 `json:"title"`
	Date           int64                  `json:"date"`
	Description    string                 `json:"description"`
	Activities     []models.Activity      `json:"activities"`
	TravelSegments []models.TravelSegment `json:"travelSegments"`
	KeyLocations   []models.KeyLocation   `json:"keyLocations"`
	Budget         *models.Budget         `json:"budget"`
}

// Create inserts a new upcoming itinerary with defaulted collections,
// budget, memories and timestamps.
func (m *Manager) Create(ctx context.Context, in CreateInput) (string, error) {
	if strings.TrimSpace(in.Title) == "" {
		return "", &ValidationError{Field: "title", Reason: "required"}
	}
	if in.Date == 0 {
		return "", &ValidationError{Field: "date", Reason: "required"}
	}

	now := m.now().UnixMilli()
	acts := make([]models.Activity, len(in.Activities))
	copy(acts, in.Activities)
	for i := range acts {
		if acts[i].ID == "" {
			acts[i].ID = utils.GetUUID()
		}
		acts[i].Order = i
	}

	budget := models.Budget{}
	if in.Budget != nil {
		budget = *in.Budget
	}
	segments := in.TravelSegments
	if segments == nil {
		segments = []models.TravelSegment{}
	}
	locations := in.KeyLocations
	if locations == nil {
		locations = []models.KeyLocation{}
	}

	it := models.Itinerary{
		ID:             utils.GetUUID(),
		Title:          in.Title,
		Date:           in.Date,
		Description:    in.Description,
		Status:         models.StatusUpcoming,
		Activities:     acts,
		TravelSegments: segments,
		KeyLocations:   locations,
		Budget:         budget,
		Memories:       models.Memories{Photos: []string{}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	id, err := m.store.Insert(ctx, it)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.pending[it.ID] = it
	m.mu.Unlock()
	return id, nil
}

// Update shallow-merges fields into the stored document. Unknown ids
// surface as the adapter's not-found error; there is no local
// pre-check.
func (m *Manager) Update(ctx context.Context, id string, fields map[string]any) error {
	unlock := m.lock(id)
	defer unlock()

	delete(fields, "id")
	if base, ok := m.current(id); ok {
		fields["updatedAt"] = m.stamp(base)
	} else {
		fields["updatedAt"] = m.now().UnixMilli()
	}
	return m.store.Patch(ctx, id, fields)
}

// Remove deletes an itinerary.
func (m *Manager) Remove(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
	return nil
}

// AddActivity appends an activity at the end of the timeline with the
// next dense order value.
func (m *Manager) AddActivity(ctx context.Context, itineraryID string, act models.Activity) (models.Activity, error) {
	unlock := m.lock(itineraryID)
	defer unlock()

	base, ok := m.current(itineraryID)
	if !ok {
		return models.Activity{}, ErrNotFound
	}
	if strings.TrimSpace(act.Title) == "" {
		return models.Activity{}, &ValidationError{Field: "title", Reason: "required"}
	}
	if act.ID == "" {
		act.ID = utils.GetUUID()
	}
	act.Completed = false
	act.Order = len(base.Activities)

	acts := make([]models.Activity, 0, len(base.Activities)+1)
	acts = append(acts, base.Activities...)
	acts = append(acts, act)
	if err := m.writeActivities(ctx, base, acts); err != nil {
		return models.Activity{}, err
	}
	return act, nil
}

// ActivityPatch is a partial activity update; nil fields are left
// untouched. Order is not patchable, ReorderActivities owns it.
type ActivityPatch struct {
	Title     *string                `json:"title"`
	Type      *string                `json:"type"`
	StartTime *string                `json:"startTime"`
	EndTime   *string                `json:"endTime"`
	Location  *models.Location       `json:"location"`
	Notes     *string                `json:"notes"`
	Tips      *string                `json:"tips"`
	Budget    *models.ActivityBudget `json:"budget"`
	Completed *bool                  `json:"completed"`
}

// UpdateActivity merges a partial update into one activity and writes
// the whole array back.
func (m *Manager) UpdateActivity(ctx context.Context, itineraryID, activityID string, patch ActivityPatch) error {
	unlock := m.lock(itineraryID)
	defer unlock()

	base, ok := m.current(itineraryID)
	if !ok {
		return ErrNotFound
	}

	acts := make([]models.Activity, len(base.Activities))
	copy(acts, base.Activities)
	idx := -1
	for i := range acts {
		if acts[i].ID == activityID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	a := &acts[idx]
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.StartTime != nil {
		a.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		a.EndTime = *patch.EndTime
	}
	if patch.Location != nil {
		a.Location = patch.Location
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.Tips != nil {
		a.Tips = *patch.Tips
	}
	if patch.Budget != nil {
		a.Budget = *patch.Budget
	}
	if patch.Completed != nil {
		a.Completed = *patch.Completed
	}

	return m.writeActivities(ctx, base, acts)
}

// DeleteActivity removes one activity and re-derives order as the new
// array index for every remaining activity, keeping the order values a
// dense 0..n-1 permutation.
func (m *Manager) DeleteActivity(ctx context.Context, itineraryID, activityID string) error {
	unlock := m.lock(itineraryID)
	defer unlock()

	base, ok := m.current(itineraryID)
	if !ok {
		return ErrNotFound
	}

	acts := make([]models.Activity, 0, len(base.Activities))
	for _, a := range base.Activities {
		if a.ID != activityID {
			acts = append(acts, a)
		}
	}
	if len(acts) == len(base.Activities) {
		return ErrNotFound
	}
	for i := range acts {
		acts[i].Order = i
	}

	return m.writeActivities(ctx, base, acts)
}

// ReorderActivities rewrites the timeline in the supplied id sequence.
// The id list must be exactly a permutation of the current activity
// ids; anything else is rejected before a write is attempted.
func (m *Manager) ReorderActivities(ctx context.Context, itineraryID string, orderedIDs []string) error {
	unlock := m.lock(itineraryID)
	defer unlock()

	base, ok := m.current(itineraryID)
	if !ok {
		return ErrNotFound
	}
	if len(orderedIDs) != len(base.Activities) {
		return &ValidationError{Field: "orderedIds", Reason: "must list every activity id exactly once"}
	}

	byID := make(map[string]models.Activity, len(base.Activities))
	for _, a := range base.Activities {
		byID[a.ID] = a
	}

	acts := make([]models.Activity, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		a, ok := byID[id]
		if !ok {
			return &ValidationError{Field: "orderedIds", Reason: "must list every activity id exactly once"}
		}
		delete(byID, id)
		a.Order = i
		acts = append(acts, a)
	}

	return m.writeActivities(ctx, base, acts)
}

// MarkCompleted transitions an itinerary to completed. The transition
// is one-way and idempotent; no check is made that the activities are
// actually done.
func (m *Manager) MarkCompleted(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	base, ok := m.current(id)
	now := m.now().UnixMilli()
	if ok {
		now = m.stamp(base)
	}
	err := m.store.Patch(ctx, id, map[string]any{"status": models.StatusCompleted, "updatedAt": now})
	if err != nil {
		return err
	}
	if ok {
		base.Status = models.StatusCompleted
		base.UpdatedAt = now
		m.setPending(base)
	}
	return nil
}

// AttachMemories replaces the memories object wholesale.
func (m *Manager) AttachMemories(ctx context.Context, id string, mem models.Memories) error {
	unlock := m.lock(id)
	defer unlock()

	if mem.Rating != nil && (*mem.Rating < 1 || *mem.Rating > 5) {
		return &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if mem.Photos == nil {
		mem.Photos = []string{}
	}

	base, ok := m.current(id)
	now := m.now().UnixMilli()
	if ok {
		now = m.stamp(base)
	}
	err := m.store.Patch(ctx, id, map[string]any{"memories": mem, "updatedAt": now})
	if err != nil {
		return err
	}
	if ok {
		base.Memories = mem
		base.UpdatedAt = now
		m.setPending(base)
	}
	return nil
}

// AddMemoryPhoto appends a stored photo path to the memories.
func (m *Manager) AddMemoryPhoto(ctx context.Context, id, photo string) error {
	unlock := m.lock(id)
	defer unlock()

	base, ok := m.current(id)
	if !ok {
		return ErrNotFound
	}
	mem := base.Memories
	photos := make([]string, 0, len(mem.Photos)+1)
	photos = append(photos, mem.Photos...)
	mem.Photos = append(photos, photo)

	now := m.stamp(base)
	err := m.store.Patch(ctx, id, map[string]any{"memories": mem, "updatedAt": now})
	if err != nil {
		return err
	}
	base.Memories = mem
	base.UpdatedAt = now
	m.setPending(base)
	return nil
}

func (m *Manager) writeActivities(ctx context.Context, base models.Itinerary, acts []models.Activity) error {
	now := m.stamp(base)
	err := m.store.Patch(ctx, base.ID, map[string]any{"activities": acts, "updatedAt": now})
	if err != nil {
		return err
	}
	base.Activities = acts
	base.UpdatedAt = now
	m.setPending(base)
	return nil
}

func (m *Manager) setPending(it models.Itinerary) {
	m.mu.Lock()
	m.pending[it.ID] = it
	m.mu.Unlock()
}
