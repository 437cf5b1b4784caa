package itineraries

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"ourdates/planner"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the itinerary aggregate manager over HTTP.
type Handler struct {
	Planner  *planner.Manager
	PhotoDir string
	BaseURL  string
	Clock    func() time.Time
}

func NewHandler(p *planner.Manager, photoDir, baseURL string) *Handler {
	return &Handler{
		Planner:  p,
		PhotoDir: photoDir,
		BaseURL:  baseURL,
		Clock:    time.Now,
	}
}

// respondError maps planner/store failures onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var ve *planner.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.RespondWithError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, planner.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
	default:
		log.Println("itinerary operation failed:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
	}
}

// GET /api/itineraries
func (h *Handler) GetItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Planner.List())
}

// GET /api/itineraries/upcoming
func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Planner.ListUpcoming())
}

// GET /api/itineraries/completed
func (h *Handler) GetCompleted(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Planner.ListCompleted())
}

// GET /api/itineraries/next
func (h *Handler) GetNext(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	it, ok := h.Planner.NextUpcoming()
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "No upcoming dates")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

// POST /api/itineraries
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in planner.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	id, err := h.Planner.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"id": id})
}

// GET /api/itineraries/all/:id
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := h.Planner.GetByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

// updatableFields is the whitelist for shallow merges; everything else
// in the payload is dropped.
var updatableFields = map[string]bool{
	"title":          true,
	"date":           true,
	"description":    true,
	"activities":     true,
	"travelSegments": true,
	"keyLocations":   true,
	"budget":         true,
}

// PUT /api/itineraries/:id
func (h *Handler) UpdateItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	fields := map[string]any{}
	for k, v := range payload {
		if updatableFields[k] {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No updatable fields in payload")
		return
	}

	if err := h.Planner.Update(r.Context(), ps.ByName("id"), fields); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary updated successfully"})
}

// DELETE /api/itineraries/:id
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.Planner.Remove(r.Context(), ps.ByName("id")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary deleted successfully"})
}

// PUT /api/itineraries/:id/complete
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.Planner.MarkCompleted(r.Context(), ps.ByName("id")); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary marked completed"})
}

// GET /api/itineraries/all/:id/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	summary, ok := h.Planner.Summarize(ps.ByName("id"), h.Clock())
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}
