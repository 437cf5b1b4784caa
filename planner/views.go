package planner

import (
	"time"

	"ourdates/dateutil"
	"ourdates/models"
)

// List returns the cached collection in delivery order (descending by
// date, as the store's index delivers it).
func (m *Manager) List() []models.Itinerary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Itinerary, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}

// ListUpcoming returns the itineraries still in the upcoming state.
func (m *Manager) ListUpcoming() []models.Itinerary {
	return m.filter(models.StatusUpcoming)
}

// ListCompleted returns the itineraries marked completed.
func (m *Manager) ListCompleted() []models.Itinerary {
	return m.filter(models.StatusCompleted)
}

func (m *Manager) filter(status string) []models.Itinerary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Itinerary{}
	for _, it := range m.snapshot {
		if it.Status == status {
			out = append(out, it)
		}
	}
	return out
}

// NextUpcoming returns the upcoming itinerary with the earliest date.
// Equal dates tie-break on the lowest id so the answer is
// deterministic.
func (m *Manager) NextUpcoming() (models.Itinerary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best models.Itinerary
	found := false
	for _, it := range m.snapshot {
		if it.Status != models.StatusUpcoming {
			continue
		}
		if !found || it.Date < best.Date || (it.Date == best.Date && it.ID < best.ID) {
			best = it
			found = true
		}
	}
	return best, found
}

// GetByID looks up a cached itinerary.
func (m *Manager) GetByID(id string) (models.Itinerary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.byID[id]
	return it, ok
}

// Summary aggregates an itinerary's derived numbers: the countdown to
// date day, budget totals and activity completion.
type Summary struct {
	ID                  string                  `json:"id"`
	Title               string                  `json:"title"`
	Status              string                  `json:"status"`
	RelativeDate        string                  `json:"relativeDate"`
	Countdown           dateutil.CountdownParts `json:"countdown"`
	EstimatedTotal      float64                 `json:"estimatedTotal"`
	ActualTotal         *float64                `json:"actualTotal"`
	ActivityEstimated   float64                 `json:"activityEstimated"`
	ActivityActual      float64                 `json:"activityActual"`
	ActivitiesCompleted int                     `json:"activitiesCompleted"`
	ActivityCount       int                     `json:"activityCount"`
}

// Summarize computes the Summary for one itinerary against an injected
// current time.
func (m *Manager) Summarize(id string, now time.Time) (Summary, bool) {
	it, ok := m.GetByID(id)
	if !ok {
		return Summary{}, false
	}

	s := Summary{
		ID:             it.ID,
		Title:          it.Title,
		Status:         it.Status,
		RelativeDate:   dateutil.RelativeDateLabel(time.UnixMilli(it.Date), now),
		Countdown:      dateutil.Countdown(time.UnixMilli(it.Date), now),
		EstimatedTotal: it.Budget.Estimated.Total,
		ActualTotal:    it.Budget.Actual.Total,
		ActivityCount:  len(it.Activities),
	}
	for _, a := range it.Activities {
		if a.Budget.Estimated != nil {
			s.ActivityEstimated += *a.Budget.Estimated
		}
		if a.Budget.Actual != nil {
			s.ActivityActual += *a.Budget.Actual
		}
		if a.Completed {
			s.ActivitiesCompleted++
		}
	}
	return s, true
}
