// Package lovenotes handles the append-only message log. Notes are
// immutable once sent; there is deliberately no update or delete.
package lovenotes

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"ourdates/models"
	"ourdates/store"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	Store store.Collection[models.LoveNote]
	Clock func() time.Time
}

func NewHandler(st store.Collection[models.LoveNote]) *Handler {
	return &Handler{Store: st, Clock: time.Now}
}

// GET /api/lovenotes
func (h *Handler) GetLoveNotes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	notes, err := h.Store.List(r.Context())
	if err != nil {
		log.Println("Error fetching love notes:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, notes)
}

// POST /api/lovenotes
func (h *Handler) SendLoveNote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		FromName string `json:"fromName"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(in.FromName) == "" || strings.TrimSpace(in.Message) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Sender and message are required")
		return
	}

	note := models.LoveNote{
		ID:        utils.GetUUID(),
		FromName:  in.FromName,
		Message:   in.Message,
		CreatedAt: h.Clock().UnixMilli(),
	}
	id, err := h.Store.Insert(r.Context(), note)
	if err != nil {
		log.Println("Error inserting love note:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Store unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"id": id})
}
