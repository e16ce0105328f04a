package postgres

import (
	"context"
	"database/sql"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

const claimColumns = `id, user_id, claim_type, title, description, amount_requested_cents, amount_approved_cents, status,
	supporting_document, admin_notes, reviewed_by, reviewed_on, created_on, updated_on`

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

func scanClaim(s rowScanner) (*domain.Claim, error) {
	c := &domain.Claim{}
	err := s.Scan(&c.ID, &c.UserID, &c.ClaimType, &c.Title, &c.Description, &c.AmountRequested, &c.AmountApproved,
		&c.Status, &c.SupportingDocument, &c.AdminNotes, &c.ReviewedBy, &c.ReviewedOn, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) Create(ctx context.Context, c *domain.Claim) error {
	query := `INSERT INTO claims (user_id, claim_type, title, description, amount_requested_cents, status,
	          supporting_document, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now
	logger.DatabaseCall("INSERT", "claims", "userID", c.UserID, "type", c.ClaimType)
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.ClaimType, c.Title, c.Description, c.AmountRequested,
		c.Status, c.SupportingDocument, now).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "claimID", c.ID)
	return err
}

func (r *claimRepository) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	c, err := scanClaim(r.db.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "claim", id)
	}
	return c, nil
}

func (r *claimRepository) UpdateStatus(ctx context.Context, c *domain.Claim, from domain.ReviewStatus) error {
	query := `UPDATE claims SET status=$1, amount_approved_cents=$2, admin_notes=$3, reviewed_by=$4, reviewed_on=$5,
	          updated_on=$6 WHERE id=$7 AND status=$8`
	c.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, c.Status, c.AmountApproved, c.AdminNotes, c.ReviewedBy, c.ReviewedOn,
		c.UpdatedOn, c.ID, from)
	if err != nil {
		return err
	}
	return guarded(result, "claim", c.ID)
}

func (r *claimRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return guarded(result, "claim", id)
}

func (r *claimRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Claim, int32, error) {
	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "claims", w)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+claimColumns+` FROM claims`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	claims := []domain.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		claims = append(claims, *c)
	}
	return claims, total, rows.Err()
}
