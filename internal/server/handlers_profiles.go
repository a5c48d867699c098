package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/hireo/internal/cache"
	"github.com/jonathan/hireo/internal/db"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/types"
)

const (
	defaultDocumentLimit = 20
	maxDocumentLimit     = 100
)

// ProfileCVRequest is the body of POST /profiles/{id}/cv
type ProfileCVRequest struct {
	TemplateID string               `json:"template_id"`
	Settings   types.CustomSettings `json:"settings"`
}

// requireStore writes 503 when the server runs without a database.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, &ErrStoreUnavailable{})
		return false
	}
	return true
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// handleCreateProfile stores a new profile
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	profile, err := decodeProfile(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.store.CreateProfile(r.Context(), profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleGetProfile returns a stored profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "profile", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleUpdateProfile replaces a stored profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	profile, err := decodeProfile(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ok, err := s.store.UpdateProfile(r.Context(), id, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "profile", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"id": id.String(), "status": "updated"})
}

// handleProfileCV generates a CV from a stored profile and stores the document
func (s *Server) handleProfileCV(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req ProfileCVRequest
	if r.ContentLength != 0 {
		body, err := readBody(w, r, maxBodyBytes)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := validateProfileField(body); err != nil {
			s.writeError(w, err)
			return
		}
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
			return
		}
	}

	rec, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "profile", ID: id})
		return
	}

	doc, err := s.gen.GenerateCV(r.Context(), generator.CVRequest{
		Profile:    rec.Profile,
		TemplateID: req.TemplateID,
		Settings:   req.Settings,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterGenerate(doc)

	stored := db.NewDocumentRecord(&id, doc)
	if err := s.store.SaveDocument(r.Context(), stored); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Document-ID", stored.ID.String())
	s.writePDF(w, doc, "cv.pdf")
}

// handleListDocuments lists the documents generated for a profile
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := defaultDocumentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = min(n, maxDocumentLimit)
	}

	docs, err := s.store.ListDocuments(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []db.DocumentRecord{}
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

// handleGetDocument returns a stored PDF
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	s.writePDF(w, &generator.Document{
		Bytes:       rec.PDF,
		PageCount:   rec.PageCount,
		Kind:        rec.Kind,
		TemplateID:  rec.TemplateID,
		ContentHash: rec.ContentHash,
	}, rec.ID.String()+".pdf")
}

// handleDocumentThumbnail returns the cached first-page thumbnail of a stored document
func (s *Server) handleDocumentThumbnail(w http.ResponseWriter, r *http.Request) {
	width, height, err := thumbnailSize(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	png, hit, err := s.cachedThumbnail(r.Context(), cache.KeyForHash(rec.ContentHash, width, height), rec.PDF, width, height)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writePNG(w, png, hit)
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*db.DocumentRecord, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}

	rec, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if rec == nil {
		s.writeError(w, &ErrNotFound{Resource: "document", ID: id})
		return nil, false
	}
	return rec, true
}
