package postgres

import (
	"context"
	"database/sql"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

const documentColumns = `id, user_id, document_type, title, file, status, admin_notes, reviewed_by, reviewed_on,
	created_on, updated_on`

type documentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func scanDocument(s rowScanner) (*domain.Document, error) {
	d := &domain.Document{}
	err := s.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.Title, &d.File, &d.Status, &d.AdminNotes, &d.ReviewedBy,
		&d.ReviewedOn, &d.CreatedOn, &d.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	query := `INSERT INTO documents (user_id, document_type, title, file, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`
	now := time.Now().UTC()
	d.CreatedOn = now
	d.UpdatedOn = now
	logger.DatabaseCall("INSERT", "documents", "userID", d.UserID, "type", d.DocumentType)
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.DocumentType, d.Title, d.File, d.Status, now).Scan(&d.ID)
	logger.DatabaseResult("INSERT", 1, err, "documentID", d.ID)
	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id int32) (*domain.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "document", id)
	}
	return d, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, d *domain.Document, from domain.ReviewStatus) error {
	query := `UPDATE documents SET status=$1, admin_notes=$2, reviewed_by=$3, reviewed_on=$4, updated_on=$5
	          WHERE id=$6 AND status=$7`
	d.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, d.Status, d.AdminNotes, d.ReviewedBy, d.ReviewedOn, d.UpdatedOn, d.ID, from)
	if err != nil {
		return err
	}
	return guarded(result, "document", d.ID)
}

func (r *documentRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return guarded(result, "document", id)
}

func (r *documentRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Document, int32, error) {
	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "documents", w)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *d)
	}
	return docs, total, rows.Err()
}
