package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hireo/internal/document"
	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/types"
)

// ProfileRecord is a stored profile.
type ProfileRecord struct {
	ID        uuid.UUID     `json:"id"`
	Profile   types.Profile `json:"profile"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DocumentRecord is a stored generated document. PDF is omitted from JSON.
type DocumentRecord struct {
	ID          uuid.UUID     `json:"id"`
	ProfileID   *uuid.UUID    `json:"profile_id,omitempty"`
	Kind        document.Kind `json:"kind"`
	TemplateID  string        `json:"template_id"`
	ThemeID     string        `json:"theme_id"`
	FontID      string        `json:"font_id"`
	PageCount   int           `json:"page_count"`
	ContentHash string        `json:"content_hash"`
	PDF         []byte        `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
}

// NewDocumentRecord builds a record for a generated document. The id is
// assigned here so callers can reference it before the insert.
func NewDocumentRecord(profileID *uuid.UUID, doc *generator.Document) *DocumentRecord {
	return &DocumentRecord{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Kind:        doc.Kind,
		TemplateID:  doc.TemplateID,
		ThemeID:     doc.ThemeID,
		FontID:      doc.FontID,
		PageCount:   doc.PageCount,
		ContentHash: doc.ContentHash,
		PDF:         doc.Bytes,
	}
}
