package anniversaries

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"ourdates/models"
	"ourdates/store"
)

func newTestHandler() (*Handler, *store.Memory[models.Anniversary]) {
	st := store.NewMemory[models.Anniversary](func(a, b models.Anniversary) bool { return a.Date < b.Date })
	h := NewHandler(st)
	h.Clock = func() time.Time { return time.Date(2026, time.January, 10, 12, 0, 0, 0, time.Local) }
	return h, st
}

func TestCreateAnniversary(t *testing.T) {
	h, st := newTestHandler()

	body := `{"title":"First Date","date":1581638400000,"recurring":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/anniversaries", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateAnniversary(w, req, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])

	list, err := st.List(req.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Recurring)
	require.NotZero(t, list[0].CreatedAt)
}

func TestCreateAnniversaryValidation(t *testing.T) {
	h, _ := newTestHandler()

	for _, body := range []string{`{"date":123}`, `{"title":"x"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/api/anniversaries", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.CreateAnniversary(w, req, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestDeleteAnniversaryNotFound(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/api/anniversaries/ghost", nil)
	w := httptest.NewRecorder()
	h.DeleteAnniversary(w, req, httprouter.Params{{Key: "id", Value: "ghost"}})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNextAnniversary(t *testing.T) {
	h, st := newTestHandler()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	// recurring: original date years back, rolls over to Feb 14 this year
	recurring := models.Anniversary{
		ID: "rec", Title: "First Date", Recurring: true,
		Date: time.Date(2020, time.February, 14, 0, 0, 0, 0, time.Local).UnixMilli(),
	}
	// one-off in the past: never upcoming again
	past := models.Anniversary{
		ID: "old", Title: "Graduation",
		Date: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.Local).UnixMilli(),
	}
	// one-off further out than the recurring rollover
	later := models.Anniversary{
		ID: "fut", Title: "Trip",
		Date: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local).UnixMilli(),
	}
	for _, a := range []models.Anniversary{recurring, past, later} {
		_, err := st.Insert(ctx, a)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/anniversaries/next", nil)
	w := httptest.NewRecorder()
	h.GetNextAnniversary(w, req, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Anniversary models.Anniversary `json:"anniversary"`
		NextDate    int64              `json:"nextDate"`
		Countdown   struct {
			Days   int  `json:"days"`
			IsPast bool `json:"isPast"`
		} `json:"countdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Equal(t, "rec", resp.Anniversary.ID)
	want := time.Date(2026, time.February, 14, 0, 0, 0, 0, time.Local).UnixMilli()
	require.Equal(t, want, resp.NextDate)
	require.False(t, resp.Countdown.IsPast)
	require.Equal(t, 34, resp.Countdown.Days)
}

func TestGetNextAnniversaryEmpty(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/anniversaries/next", nil)
	w := httptest.NewRecorder()
	h.GetNextAnniversary(w, req, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}
