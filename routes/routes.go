package routes

import (
	"ourdates/anniversaries"
	"ourdates/itineraries"
	"ourdates/live"
	"ourdates/lovenotes"
	"ourdates/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddItineraryRoutes(router *httprouter.Router, h *itineraries.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/itineraries", h.GetItineraries)                  // Fetch all itineraries
	router.GET("/api/itineraries/upcoming", h.GetUpcoming)            // Still-planned dates
	router.GET("/api/itineraries/completed", h.GetCompleted)          // Past dates
	router.GET("/api/itineraries/next", h.GetNext)                    // Next upcoming date
	router.POST("/api/itineraries", rl.Limit(h.CreateItinerary))      // Create a new itinerary
	router.GET("/api/itineraries/all/:id", h.GetItinerary)            // Fetch a single itinerary
	router.PUT("/api/itineraries/:id", rl.Limit(h.UpdateItinerary))   // Update an itinerary
	router.DELETE("/api/itineraries/:id", rl.Limit(h.DeleteItinerary))

	router.POST("/api/itineraries/:id/activities", rl.Limit(h.AddActivity))
	router.POST("/api/itineraries/:id/activities/reorder", rl.Limit(h.ReorderActivities))
	router.PUT("/api/itineraries/:id/activities/:activityId", rl.Limit(h.UpdateActivity))
	router.DELETE("/api/itineraries/:id/activities/:activityId", rl.Limit(h.DeleteActivity))

	router.PUT("/api/itineraries/:id/complete", rl.Limit(h.MarkCompleted))
	router.PUT("/api/itineraries/:id/memories", rl.Limit(h.AttachMemories))
	router.POST("/api/itineraries/:id/photos", rl.Limit(h.UploadPhoto))

	router.GET("/api/itineraries/all/:id/summary", h.GetSummary)
	router.GET("/api/itineraries/all/:id/calendar-link", h.GetCalendarLink)
	router.GET("/api/itineraries/all/:id/qr", h.GetShareQR)
	router.GET("/api/itineraries/all/:id/print", h.PrintItinerary)
}

func AddAnniversaryRoutes(router *httprouter.Router, h *anniversaries.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/anniversaries", h.GetAnniversaries)
	router.GET("/api/anniversaries/next", h.GetNextAnniversary)
	router.POST("/api/anniversaries", rl.Limit(h.CreateAnniversary))
	router.DELETE("/api/anniversaries/:id", rl.Limit(h.DeleteAnniversary))
}

func AddLoveNoteRoutes(router *httprouter.Router, h *lovenotes.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/lovenotes", h.GetLoveNotes)
	router.POST("/api/lovenotes", rl.Limit(h.SendLoveNote))
}

func AddLiveRoutes(router *httprouter.Router, feed *live.Feed) {
	router.GET("/ws/:collection", live.ServeWS(feed))
}
