// Package server provides the HTTP API around the document generator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hireo/internal/cache"
	"github.com/jonathan/hireo/internal/db"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/server/ratelimit"
	"github.com/jonathan/hireo/internal/templates"
	"github.com/jonathan/hireo/internal/types"
	"github.com/jonathan/hireo/internal/validation"
)

// Store is the persistence the profile and document endpoints need.
type Store interface {
	CreateProfile(ctx context.Context, profile types.Profile) (*db.ProfileRecord, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*db.ProfileRecord, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, profile types.Profile) (bool, error)
	SaveDocument(ctx context.Context, rec *db.DocumentRecord) error
	GetDocument(ctx context.Context, id uuid.UUID) (*db.DocumentRecord, error)
	ListDocuments(ctx context.Context, profileID uuid.UUID, limit int) ([]db.DocumentRecord, error)
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	gen         *generator.Generator
	store       Store
	thumbs      cache.ThumbnailCache
	rateLimiter *ratelimit.Limiter
	previews    *previews
	checks      validation.Options
}

// Config holds server configuration
type Config struct {
	Port            int
	DatabaseURL     string
	Redis           cache.RedisConfig
	StrictTemplates bool
	// Checks are run on every generated plan and logged.
	Checks validation.Options
}

// New creates a new server instance. The database and Redis are optional:
// without a database the profile endpoints answer 503, without Redis
// thumbnails are cached in memory.
func New(cfg Config) (*Server, error) {
	registry, err := templates.NewDefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	gen := generator.New(registry, generator.Options{StrictTemplates: cfg.StrictTemplates})

	ctx := context.Background()

	var store Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		store = database
	} else {
		log.Println("DATABASE_URL not set, profile and document endpoints are disabled")
	}

	var thumbs cache.ThumbnailCache
	if cfg.Redis.Addr != "" {
		r, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Printf("Falling back to in-memory thumbnail cache: %v", err)
			thumbs = cache.NewMemory(cache.DefaultMemoryEntries)
		} else {
			thumbs = r
		}
	} else {
		thumbs = cache.NewMemory(cache.DefaultMemoryEntries)
	}

	s := newServer(gen, store, thumbs, ratelimit.NewLimiter(ratelimit.LoadConfig()))
	s.checks = cfg.Checks

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func newServer(gen *generator.Generator, store Store, thumbs cache.ThumbnailCache, limiter *ratelimit.Limiter) *Server {
	return &Server{
		gen:         gen,
		store:       store,
		thumbs:      thumbs,
		rateLimiter: limiter,
		previews:    newPreviews(),
	}
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleTemplates)

	// Generation
	mux.HandleFunc("POST /cv", s.handleCV)
	mux.HandleFunc("POST /cover-letter", s.handleCoverLetter)
	mux.HandleFunc("POST /thumbnail", s.handleThumbnail)
	mux.HandleFunc("POST /preview/{target}", s.handlePreview)
	mux.HandleFunc("POST /batch/stream", s.handleBatchStream)

	// Stored profiles and documents
	mux.HandleFunc("POST /profiles", s.handleCreateProfile)
	mux.HandleFunc("GET /profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("PUT /profiles/{id}", s.handleUpdateProfile)
	mux.HandleFunc("POST /profiles/{id}/cv", s.handleProfileCV)
	mux.HandleFunc("GET /profiles/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("GET /documents/{id}/thumbnail", s.handleDocumentThumbnail)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.previews.cancelAll()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.store != nil {
		s.store.Close()
	}
	if c, ok := s.thumbs.(*cache.Redis); ok {
		if err := c.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Page-Count, X-Content-Hash, X-Document-ID, X-Cache")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "disabled"}
	if s.store != nil {
		status["database"] = "ok"
		if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
			if err := p.Ping(r.Context()); err != nil {
				status["database"] = "unreachable"
			}
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
