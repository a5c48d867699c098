package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/generator"
)

// batchWorkers bounds concurrent generations of one batch stream.
const batchWorkers = 4

// SSEWriter helps write Server-Sent Events. It is safe for concurrent use.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete sends a completion event
func (s *SSEWriter) WriteComplete(batchID, status string) {
	s.WriteEvent("complete", map[string]string{ //nolint:errcheck
		"batch_id": batchID,
		"status":   status,
	})
}

// BatchEvent is the payload of one "document" event of a batch stream
type BatchEvent struct {
	TemplateID  string                `json:"template_id"`
	ThemeID     string                `json:"theme_id"`
	FontID      string                `json:"font_id"`
	PageCount   int                   `json:"page_count"`
	ContentHash string                `json:"content_hash"`
	Diagnostics generator.Diagnostics `json:"diagnostics"`
}

// handleBatchStream renders the posted profile with every CV template and
// streams one event per finished document.
func (s *Server) handleBatchStream(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCVRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	batchID := uuid.New().String()
	log.Printf("[batch] %s started", batchID)

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(batchWorkers)
	for _, tmpl := range s.gen.Registry().Templates(document.KindCV) {
		g.Go(func() error {
			one := req
			one.TemplateID = tmpl.ID
			doc, err := s.gen.GenerateCV(ctx, one)
			if err != nil {
				if generator.IsKind(err, generator.KindCancelled) {
					return err
				}
				return sse.WriteEvent("error", map[string]string{
					"template_id": tmpl.ID,
					"error":       publicMessage(err),
				})
			}
			s.afterGenerate(doc)
			return sse.WriteEvent("document", BatchEvent{
				TemplateID:  doc.TemplateID,
				ThemeID:     doc.ThemeID,
				FontID:      doc.FontID,
				PageCount:   doc.PageCount,
				ContentHash: doc.ContentHash,
				Diagnostics: doc.Diagnostics,
			})
		})
	}

	status := "completed"
	if err := g.Wait(); err != nil {
		log.Printf("[batch] %s stopped: %v", batchID, err)
		status = "cancelled"
	}
	sse.WriteComplete(batchID, status)
}
