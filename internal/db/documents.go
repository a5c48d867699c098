package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hireo/internal/document"
)

const documentColumns = `id, profile_id, kind, template_id, theme_id, font_id, page_count, content_hash, created_at`

// SaveDocument stores a generated document. ID is assigned when unset.
func (db *DB) SaveDocument(ctx context.Context, rec *DocumentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, profile_id, kind, template_id, theme_id, font_id, page_count, content_hash, pdf)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		rec.ID, rec.ProfileID, string(rec.Kind), rec.TemplateID, rec.ThemeID, rec.FontID,
		rec.PageCount, rec.ContentHash, rec.PDF,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document with its PDF bytes. It returns nil, nil
// when no document exists.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentRecord, error) {
	var rec DocumentRecord
	var kind string
	err := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+`, pdf FROM documents WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ProfileID, &kind, &rec.TemplateID, &rec.ThemeID, &rec.FontID,
		&rec.PageCount, &rec.ContentHash, &rec.CreatedAt, &rec.PDF)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	rec.Kind = document.Kind(kind)
	return &rec, nil
}

// ListDocuments returns the most recent documents of a profile without
// their PDF bytes.
func (db *DB) ListDocuments(ctx context.Context, profileID uuid.UUID, limit int) ([]DocumentRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE profile_id = $1 ORDER BY created_at DESC LIMIT $2`,
		profileID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &kind, &rec.TemplateID, &rec.ThemeID, &rec.FontID,
			&rec.PageCount, &rec.ContentHash, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		rec.Kind = document.Kind(kind)
		docs = append(docs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// FindDocumentByHash returns the newest document with the given content
// hash, or nil, nil.
func (db *DB) FindDocumentByHash(ctx context.Context, hash string) (*DocumentRecord, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id FROM documents WHERE content_hash = $1 ORDER BY created_at DESC LIMIT 1`,
		hash,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return db.GetDocument(ctx, id)
}
