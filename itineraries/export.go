package itineraries

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"time"

	"ourdates/dateutil"
	"ourdates/models"
	"ourdates/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GET /api/itineraries/all/:id/calendar-link
func (h *Handler) GetCalendarLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := h.Planner.GetByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"url": dateutil.BuildCalendarLink(it)})
}

func (h *Handler) shareURL(id string) string {
	return h.BaseURL + "/itineraries/" + id
}

// GET /api/itineraries/all/:id/qr
func (h *Handler) GetShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := h.Planner.GetByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	png, err := qrcode.Encode(h.shareURL(it.ID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// GET /api/itineraries/all/:id/print
func (h *Handler) PrintItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, ok := h.Planner.GetByID(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		return
	}

	pdf := buildItineraryPDF(it, h.shareURL(it.ID))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="itinerary.pdf"`)
	w.Write(buf.Bytes())
}

func buildItineraryPDF(it models.Itinerary, shareURL string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, it.Title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, dateutil.FormatLongDate(time.UnixMilli(it.Date)))
	pdf.Ln(10)

	if it.Description != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 6, it.Description, "", "L", false)
		pdf.Ln(4)
	}

	acts := make([]models.Activity, len(it.Activities))
	copy(acts, it.Activities)
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].Order < acts[j].Order })

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, "Timeline")
	pdf.Ln(9)

	for _, a := range acts {
		pdf.SetFont("Arial", "B", 11)
		line := a.Title
		if rangeStr, err := dateutil.FormatTimeRange(a.StartTime, a.EndTime); err == nil && rangeStr != "" {
			line = rangeStr + "  " + line
		}
		pdf.Cell(0, 7, line)
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 10)
		if a.Location != nil && a.Location.Name != "" {
			pdf.Cell(0, 6, "    "+a.Location.Name)
			pdf.Ln(5)
		}
		if dur, err := dateutil.DurationBetween(a.StartTime, a.EndTime); err == nil && dur != "" {
			pdf.Cell(0, 6, "    "+dur)
			pdf.Ln(5)
		}
		if a.Notes != "" {
			pdf.MultiCell(0, 5, "    "+a.Notes, "", "L", false)
		}
		pdf.Ln(2)
	}

	if len(it.KeyLocations) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Key Locations")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		for _, loc := range it.KeyLocations {
			line := loc.Name
			if loc.Address != "" {
				line += " - " + loc.Address
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(5)
		}
	}

	if it.Budget.Estimated.Total > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Budget")
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Estimated: $%.2f", it.Budget.Estimated.Total))
		pdf.Ln(5)
		if it.Budget.Actual.Total != nil {
			pdf.Cell(0, 6, fmt.Sprintf("Actual: $%.2f", *it.Budget.Actual.Total))
			pdf.Ln(5)
		}
	}

	// share QR in the bottom corner
	if png, err := qrcode.Encode(shareURL, qrcode.Medium, 256); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("share-qr", 170, 260, 25, 25, false, opts, 0, "")
	}

	return pdf
}
