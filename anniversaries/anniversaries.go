// Package anniversaries handles the recurring and one-off milestone
// dates. An anniversary has no status; past vs upcoming is purely a
// function of the current time.
package anniversaries

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"ourdates/dateutil"
	"ourdates/models"
	"ourdates/store"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Store store.Collection[models.Anniversary]
	Clock func() time.Time
}

func NewHandler(st store.Collection[models.Anniversary]) *Handler {
	return &Handler{Store: st, Clock: time.Now}
}

// GET /api/anniversaries
func (h *Handler) GetAnniversaries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		log.Println("Error fetching anniversaries:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/anniversaries
func (h *Handler) CreateAnniversary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Title       string `json:"title"`
		Date        int64  `json:"date"`
		Description string `json:"description"`
		Recurring   bool   `json:"recurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(in.Title) == "" || in.Date == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Title and date are required")
		return
	}

	a := models.Anniversary{
		ID:          utils.GetUUID(),
		Title:       in.Title,
		Date:        in.Date,
		Description: in.Description,
		Recurring:   in.Recurring,
		CreatedAt:   h.Clock().UnixMilli(),
	}
	id, err := h.Store.Insert(r.Context(), a)
	if err != nil {
		log.Println("Error inserting anniversary:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"id": id})
}

// DELETE /api/anniversaries/:id
func (h *Handler) DeleteAnniversary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.Store.Delete(r.Context(), ps.ByName("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Anniversary not found")
			return
		}
		log.Println("Error deleting anniversary:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Anniversary deleted successfully"})
}

// GET /api/anniversaries/next
// Returns the anniversary whose (next) occurrence is closest in the
// future, with its countdown. Recurring anniversaries roll over to the
// next yearly occurrence; one-off dates count only while still ahead.
func (h *Handler) GetNextAnniversary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.Store.List(r.Context())
	if err != nil {
		log.Println("Error fetching anniversaries:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	now := h.Clock()
	var best *models.Anniversary
	var bestAt time.Time
	for i := range list {
		a := list[i]
		occurrence := time.UnixMilli(a.Date)
		if a.Recurring {
			occurrence = dateutil.NextOccurrence(occurrence, now)
		}
		if !dateutil.IsUpcoming(occurrence, now) {
			continue
		}
		if best == nil || occurrence.Before(bestAt) {
			best = &list[i]
			bestAt = occurrence
		}
	}
	if best == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No upcoming anniversaries")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"anniversary": best,
		"nextDate":    bestAt.UnixMilli(),
		"countdown":   dateutil.Countdown(bestAt, now),
	})
}
