package itineraries

import (
	"encoding/json"
	"net/http"
	"path"

	"ourdates/filemgr"
	"ourdates/models"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
)

// PUT /api/itineraries/:id/memories
func (h *Handler) AttachMemories(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var mem models.Memories
	if err := json.NewDecoder(r.Body).Decode(&mem); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.Planner.AttachMemories(r.Context(), ps.ByName("id"), mem); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Memories saved"})
}

// POST /api/itineraries/:id/photos
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	name, err := filemgr.SavePhoto(file, header, h.PhotoDir)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	photoPath := path.Join("/uploads/photos", name)
	if err := h.Planner.AddMemoryPhoto(r.Context(), ps.ByName("id"), photoPath); err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"photo": photoPath})
}
