package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/hireo/internal/cache"
	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/preview"
	"github.com/jonathan/hireo/internal/schemas"
	"github.com/jonathan/hireo/internal/types"
	"github.com/jonathan/hireo/internal/validation"
)

const (
	maxBodyBytes = 2 << 20
	maxPDFBytes  = 16 << 20
)

// TemplateResponse describes one template of the catalog
type TemplateResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	Kind         document.Kind `json:"kind"`
	Themes       []string      `json:"themes"`
	Fonts        []string      `json:"fonts"`
	DefaultOrder []string      `json:"default_order"`
}

// handleTemplates lists the template catalog, optionally filtered by kind
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	kind := document.Kind(r.URL.Query().Get("kind"))
	if kind != "" && kind != document.KindCV && kind != document.KindCoverLetter {
		s.writeError(w, &ErrValidation{Field: "kind", Message: "must be cv or cover_letter"})
		return
	}

	list := s.gen.Registry().Templates(kind)
	resp := make([]TemplateResponse, 0, len(list))
	for _, t := range list {
		order := make([]string, 0, len(t.DefaultOrder))
		for _, k := range t.DefaultOrder {
			order = append(order, k.String())
		}
		resp = append(resp, TemplateResponse{
			ID:           t.ID,
			Name:         t.Name,
			Category:     t.Category,
			Kind:         t.Kind,
			Themes:       t.ThemeIDs,
			Fonts:        t.FontIDs,
			DefaultOrder: order,
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCV generates a CV and returns the PDF
func (s *Server) handleCV(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCVRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.gen.GenerateCV(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterGenerate(doc)
	s.writePDF(w, doc, "cv.pdf")
}

// handleCoverLetter generates a cover letter and returns the PDF
func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateProfileField(body); err != nil {
		s.writeError(w, err)
		return
	}
	if err := schemas.ValidateCoverLetter(body); err != nil {
		s.writeError(w, err)
		return
	}

	var req generator.CoverLetterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	doc, err := s.gen.GenerateCoverLetter(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterGenerate(doc)
	s.writePDF(w, doc, "cover-letter.pdf")
}

// handleThumbnail rasterizes the first page of a posted PDF
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	width, height, err := thumbnailSize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdf, err := readBody(w, r, maxPDFBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}

	png, hit, err := s.cachedThumbnail(r.Context(), cache.Key(pdf, width, height), pdf, width, height)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePNG(w, png, hit)
}

// handlePreview generates a CV and returns a PNG of its first page. A newer
// request for the same target cancels this one.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	target := r.PathValue("target")
	ctx, done := s.previews.begin(r.Context(), target)
	defer done()

	width, height, err := thumbnailSize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req, err := decodeCVRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.gen.GenerateCV(ctx, req)
	if err == nil {
		var png []byte
		var hit bool
		png, hit, err = s.cachedThumbnail(ctx, cache.KeyForHash(doc.ContentHash, width, height), doc.Bytes, width, height)
		if err == nil {
			w.Header().Set("X-Page-Count", strconv.Itoa(doc.PageCount))
			w.Header().Set("X-Content-Hash", doc.ContentHash)
			s.writePNG(w, png, hit)
			return
		}
	}
	if sup := superseded(ctx); sup != nil {
		s.writeError(w, sup)
		return
	}
	s.writeError(w, err)
}

// cachedThumbnail returns the PNG for key, rendering and storing it on a
// miss. Cache failures are logged and otherwise ignored.
func (s *Server) cachedThumbnail(ctx context.Context, key string, pdf []byte, width, height int) ([]byte, bool, error) {
	if s.thumbs != nil {
		data, ok, err := s.thumbs.Get(ctx, key)
		if err != nil {
			log.Printf("Thumbnail cache get failed: %v", err)
		} else if ok {
			return data, true, nil
		}
	}

	png, err := s.gen.ThumbnailPNG(ctx, pdf, width, height)
	if err != nil {
		return nil, false, err
	}
	if s.thumbs != nil {
		if err := s.thumbs.Set(ctx, key, png); err != nil {
			log.Printf("Thumbnail cache set failed: %v", err)
		}
	}
	return png, false, nil
}

// afterGenerate logs what was recovered during generation and the plan checks.
func (s *Server) afterGenerate(doc *generator.Document) {
	for _, n := range doc.Diagnostics.Configuration() {
		log.Printf("[generate] %s %s: %s", doc.TemplateID, n.Field, n.Message)
	}
	if doc.Plan == nil {
		return
	}
	for _, v := range validation.ValidatePlan(doc.Plan, s.checks).Violations {
		log.Printf("[validate] %s %s", doc.TemplateID, v)
	}
}

func (s *Server) writePDF(w http.ResponseWriter, doc *generator.Document, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("X-Page-Count", strconv.Itoa(doc.PageCount))
	w.Header().Set("X-Content-Hash", doc.ContentHash)
	w.Header().Set("X-Template-ID", doc.TemplateID)
	if doc.Diagnostics.Degraded {
		w.Header().Set("X-Degraded", "true")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

func (s *Server) writePNG(w http.ResponseWriter, png []byte, hit bool) {
	w.Header().Set("Content-Type", "image/png")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		log.Printf("Error writing PNG response: %v", err)
	}
}

// writeError maps err to a status and a client-safe message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	s.errorResponse(w, status, publicMessage(err))
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "is empty"}
	}
	return body, nil
}

// decodeCVRequest reads a CV request and checks its profile and settings
// against the JSON schemas before decoding.
func decodeCVRequest(w http.ResponseWriter, r *http.Request) (generator.CVRequest, error) {
	var req generator.CVRequest
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return req, err
	}
	if err := validateProfileField(body); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return req, nil
}

// validateProfileField checks the profile and settings members of a request body.
func validateProfileField(body []byte) error {
	var raw struct {
		Profile  json.RawMessage `json:"profile"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if len(raw.Profile) > 0 {
		if err := schemas.ValidateProfile(raw.Profile); err != nil {
			return err
		}
	}
	if len(raw.Settings) > 0 {
		if err := schemas.ValidateSettings(raw.Settings); err != nil {
			return err
		}
	}
	return nil
}

// decodeProfile reads and validates a bare profile document.
func decodeProfile(w http.ResponseWriter, r *http.Request) (types.Profile, error) {
	var p types.Profile
	body, err := readBody(w, r, maxBodyBytes)
	if err != nil {
		return p, err
	}
	if err := schemas.ValidateProfile(body); err != nil {
		return p, err
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return p, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := p.Validate(); err != nil {
		return p, &ErrValidation{Field: "profile", Message: err.Error()}
	}
	return p, nil
}

// thumbnailSize reads the width and height query parameters.
func thumbnailSize(r *http.Request) (int, int, error) {
	width, err := queryInt(r, "width", generator.DefaultThumbnailWidth)
	if err != nil {
		return 0, 0, err
	}
	height, err := queryInt(r, "height", generator.DefaultThumbnailHeight)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > preview.MaxDimension {
		return 0, &ErrValidation{Field: name, Message: fmt.Sprintf("must be an integer between 1 and %d", preview.MaxDimension)}
	}
	return n, nil
}
