package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"ourdates/anniversaries"
	"ourdates/db"
	"ourdates/itineraries"
	"ourdates/live"
	"ourdates/lovenotes"
	"ourdates/models"
	"ourdates/planner"
	"ourdates/ratelim"
	"ourdates/rdx"
	"ourdates/routes"
	"ourdates/store"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	rootCtx := context.Background()
	if err := db.Connect(rootCtx); err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	rdx.Connect()

	// one adapter per collection; each publishes a cross-instance
	// change event after every write
	itinStore := store.NewMongo[models.Itinerary](db.ItinerariesCollection, "date", store.Desc, func() { rdx.PublishChange("itineraries") })
	annStore := store.NewMongo[models.Anniversary](db.AnniversariesCollection, "date", store.Asc, func() { rdx.PublishChange("anniversaries") })
	noteStore := store.NewMongo[models.LoveNote](db.LoveNotesCollection, "createdAt", store.Asc, func() { rdx.PublishChange("lovenotes") })

	manager := planner.New(itinStore)

	// websocket feed: one watcher per collection
	feed := live.NewFeed()
	itinCh, itinCancel := itinStore.Subscribe()
	annCh, annCancel := annStore.Subscribe()
	noteCh, noteCancel := noteStore.Subscribe()
	live.Watch(feed, "itineraries", itinCh)
	live.Watch(feed, "anniversaries", annCh)
	live.Watch(feed, "lovenotes", noteCh)

	// refresh local snapshots when another instance reports a change
	subCtx, subCancel := context.WithCancel(rootCtx)
	go func() {
		for name := range rdx.SubscribeChanges(subCtx) {
			switch name {
			case "itineraries":
				itinStore.Refresh(subCtx)
			case "anniversaries":
				annStore.Refresh(subCtx)
			case "lovenotes":
				noteStore.Refresh(subCtx)
			}
		}
	}()

	rateLimiter := ratelim.NewRateLimiter()
	itinHandler := itineraries.NewHandler(manager, filepath.Join(uploadDir, "photos"), baseURL)
	annHandler := anniversaries.NewHandler(annStore)
	noteHandler := lovenotes.NewHandler(noteStore)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddItineraryRoutes(router, itinHandler, rateLimiter)
	routes.AddAnniversaryRoutes(router, annHandler, rateLimiter)
	routes.AddLoveNoteRoutes(router, noteHandler, rateLimiter)
	routes.AddLiveRoutes(router, feed)
	router.ServeFiles("/uploads/*filepath", http.Dir(uploadDir))

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}

	// release subscriptions and connections
	subCancel()
	manager.Close()
	itinCancel()
	annCancel()
	noteCancel()
	feed.Close()
	db.Disconnect(ctx)

	log.Println("✅ Server stopped cleanly")
}
