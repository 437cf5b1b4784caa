package itineraries

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"ourdates/models"
	"ourdates/planner"
	"ourdates/store"
)

func newTestHandler(t *testing.T) (*Handler, *planner.Manager, *store.Memory[models.Itinerary]) {
	t.Helper()
	st := store.NewMemory[models.Itinerary](func(a, b models.Itinerary) bool { return a.Date > b.Date })
	m := planner.New(st)
	t.Cleanup(m.Close)
	h := NewHandler(m, t.TempDir(), "http://localhost:5173")
	h.Clock = func() time.Time { return time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC) }
	return h, m, st
}

func params(id string) httprouter.Params {
	return httprouter.Params{{Key: "id", Value: id}}
}

func createOne(t *testing.T, h *Handler, m *planner.Manager, body string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateItinerary(w, req, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp["id"]
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		_, ok := m.GetByID(id)
		return ok
	}, time.Second, 5*time.Millisecond)
	return id
}

func TestCreateAndFetchItinerary(t *testing.T) {
	h, m, _ := newTestHandler(t)

	id := createOne(t, h, m, `{"title":"Chinatown Day","date":1771027200000,"activities":[{"title":"Dim Sum"}]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/all/"+id, nil)
	w := httptest.NewRecorder()
	h.GetItinerary(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	var it models.Itinerary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &it))
	require.Equal(t, "Chinatown Day", it.Title)
	require.Equal(t, models.StatusUpcoming, it.Status)
	require.Len(t, it.Activities, 1)

	w = httptest.NewRecorder()
	h.GetItinerary(w, req, params("ghost"))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateItineraryRejectsMissingTitle(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries", strings.NewReader(`{"date":123}`))
	w := httptest.NewRecorder()
	h.CreateItinerary(w, req, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItineraryWhitelist(t *testing.T) {
	h, m, _ := newTestHandler(t)
	id := createOne(t, h, m, `{"title":"Old","date":1771027200000}`)

	// status and memories are not reachable through the generic update
	req := httptest.NewRequest(http.MethodPut, "/api/itineraries/"+id,
		strings.NewReader(`{"status":"completed","memories":{"reflection":"x"}}`))
	w := httptest.NewRecorder()
	h.UpdateItinerary(w, req, params(id))
	require.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/itineraries/"+id,
		strings.NewReader(`{"title":"New","status":"completed"}`))
	w = httptest.NewRecorder()
	h.UpdateItinerary(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		it, ok := m.GetByID(id)
		return ok && it.Title == "New"
	}, time.Second, 5*time.Millisecond)

	it, _ := m.GetByID(id)
	require.Equal(t, models.StatusUpcoming, it.Status, "status must only change through the complete endpoint")
}

func TestMarkCompletedEndpoint(t *testing.T) {
	h, m, _ := newTestHandler(t)
	id := createOne(t, h, m, `{"title":"Day","date":1771027200000}`)

	req := httptest.NewRequest(http.MethodPut, "/api/itineraries/"+id+"/complete", nil)
	w := httptest.NewRecorder()
	h.MarkCompleted(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		it, ok := m.GetByID(id)
		return ok && it.Status == models.StatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestAddAndReorderActivitiesEndpoints(t *testing.T) {
	h, m, _ := newTestHandler(t)
	id := createOne(t, h, m, `{"title":"Day","date":1771027200000,"activities":[{"id":"a","title":"A"},{"id":"b","title":"B"}]}`)

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/"+id+"/activities",
		strings.NewReader(`{"title":"C","startTime":"19:00"}`))
	w := httptest.NewRecorder()
	h.AddActivity(w, req, params(id))
	require.Equal(t, http.StatusCreated, w.Code)

	var added models.Activity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	require.Equal(t, 2, added.Order)

	req = httptest.NewRequest(http.MethodPost, "/api/itineraries/"+id+"/activities/reorder",
		strings.NewReader(`{"orderedIds":["b","`+added.ID+`","a"]}`))
	w = httptest.NewRecorder()
	h.ReorderActivities(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		it, ok := m.GetByID(id)
		return ok && len(it.Activities) == 3 && it.Activities[0].ID == "b"
	}, time.Second, 5*time.Millisecond)

	// partial id list is rejected before any write
	req = httptest.NewRequest(http.MethodPost, "/api/itineraries/"+id+"/activities/reorder",
		strings.NewReader(`{"orderedIds":["a"]}`))
	w = httptest.NewRecorder()
	h.ReorderActivities(w, req, params(id))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarLinkAndQREndpoints(t *testing.T) {
	h, m, _ := newTestHandler(t)
	id := createOne(t, h, m, `{"title":"Stargazing","date":1771027200000}`)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/all/"+id+"/calendar-link", nil)
	w := httptest.NewRecorder()
	h.GetCalendarLink(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp["url"], "calendar.google.com/calendar/render?action=TEMPLATE")
	require.Contains(t, resp["url"], "Stargazing")

	req = httptest.NewRequest(http.MethodGet, "/api/itineraries/all/"+id+"/qr", nil)
	w = httptest.NewRecorder()
	h.GetShareQR(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Body.Bytes())
}

func TestGetSummaryEndpoint(t *testing.T) {
	h, m, _ := newTestHandler(t)
	date := time.Date(2026, time.January, 13, 12, 0, 0, 0, time.UTC).UnixMilli()
	id := createOne(t, h, m, `{"title":"Soon","date":`+strconv.FormatInt(date, 10)+`}`)

	req := httptest.NewRequest(http.MethodGet, "/api/itineraries/all/"+id+"/summary", nil)
	w := httptest.NewRecorder()
	h.GetSummary(w, req, params(id))
	require.Equal(t, http.StatusOK, w.Code)

	var s planner.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	require.Equal(t, "in 3 days", s.RelativeDate)
	require.Equal(t, 3, s.Countdown.Days)
}
