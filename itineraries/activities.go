package itineraries

import (
	"encoding/json"
	"net/http"

	"ourdates/models"
	"ourdates/planner"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
)

// POST /api/itineraries/:id/activities
func (h *Handler) AddActivity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var act models.Activity
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	added, err := h.Planner.AddActivity(r.Context(), ps.ByName("id"), act)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, added)
}

// PUT /api/itineraries/:id/activities/:activityId
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var patch planner.ActivityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Planner.UpdateActivity(r.Context(), ps.ByName("id"), ps.ByName("activityId"), patch)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Activity updated successfully"})
}

// DELETE /api/itineraries/:id/activities/:activityId
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.Planner.DeleteActivity(r.Context(), ps.ByName("id"), ps.ByName("activityId"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Activity deleted successfully"})
}

// POST /api/itineraries/:id/activities/reorder
func (h *Handler) ReorderActivities(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Planner.ReorderActivities(r.Context(), ps.ByName("id"), body.OrderedIDs)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Activities reordered successfully"})
}
