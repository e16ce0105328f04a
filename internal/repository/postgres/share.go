package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/policy"
	"pamoja-backend/internal/repository"
)

const purchaseColumns = `id, user_id, quantity, amount_per_share_cents, total_amount_cents, status, shares_assigned,
	payment_method, transaction_id, payment_proof, rejection_reason, admin_notes, reviewed_by, reviewed_on,
	created_on, updated_on`

type shareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) repository.ShareRepository {
	return &shareRepository{db: db}
}

func scanPurchase(s rowScanner) (*domain.SharePurchase, error) {
	p := &domain.SharePurchase{}
	err := s.Scan(&p.ID, &p.UserID, &p.Quantity, &p.AmountPerShare, &p.TotalAmount, &p.Status, &p.SharesAssigned,
		&p.PaymentMethod, &p.TransactionID, &p.PaymentProof, &p.RejectionReason, &p.AdminNotes, &p.ReviewedBy,
		&p.ReviewedOn, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *shareRepository) CreatePurchase(ctx context.Context, p *domain.SharePurchase) error {
	query := `INSERT INTO share_purchases (user_id, quantity, amount_per_share_cents, total_amount_cents, status,
	          payment_method, transaction_id, payment_proof, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	logger.DatabaseCall("INSERT", "share_purchases", "userID", p.UserID, "quantity", p.Quantity)
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Quantity, p.AmountPerShare, p.TotalAmount, p.Status,
		p.PaymentMethod, p.TransactionID, p.PaymentProof, now).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "purchaseID", p.ID)
	return err
}

func (r *shareRepository) GetPurchase(ctx context.Context, id int32) (*domain.SharePurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM share_purchases WHERE id = $1`
	p, err := scanPurchase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "share purchase", id)
	}
	return p, nil
}

func (r *shareRepository) ApprovePurchase(ctx context.Context, p *domain.SharePurchase) error {
	logger.EnterMethod("shareRepository.ApprovePurchase", "purchaseID", p.ID)

	credited := p.Quantity
	if p.SharesAssigned != nil {
		credited = *p.SharesAssigned
	}
	p.SharesAssigned = &credited

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p.UpdatedOn = time.Now().UTC()
	result, err := tx.ExecContext(ctx, `UPDATE share_purchases SET status='approved', shares_assigned=$1, admin_notes=$2,
		reviewed_by=$3, reviewed_on=$4, updated_on=$5 WHERE id=$6 AND status='pending'`,
		credited, p.AdminNotes, p.ReviewedBy, p.ReviewedOn, p.UpdatedOn, p.ID)
	if err != nil {
		return err
	}
	if err := guarded(result, "share purchase", p.ID); err != nil {
		logger.ExitMethodWithError("shareRepository.ApprovePurchase", err)
		return err
	}

	result, err = tx.ExecContext(ctx, `UPDATE users SET shares_owned = shares_owned + $1,
		available_shares = available_shares + $1, updated_on = $2 WHERE id = $3`, credited, p.UpdatedOn, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to credit shares: %w", err)
	}
	if err := affected(result, "user", p.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	p.Status = domain.ReviewStatusApproved
	logger.ExitMethod("shareRepository.ApprovePurchase", "purchaseID", p.ID, "credited", credited)
	return nil
}

func (r *shareRepository) RejectPurchase(ctx context.Context, p *domain.SharePurchase) error {
	p.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE share_purchases SET status='rejected', rejection_reason=$1, admin_notes=$2,
		reviewed_by=$3, reviewed_on=$4, updated_on=$5 WHERE id=$6 AND status='pending'`,
		p.RejectionReason, p.AdminNotes, p.ReviewedBy, p.ReviewedOn, p.UpdatedOn, p.ID)
	if err != nil {
		return err
	}
	if err := guarded(result, "share purchase", p.ID); err != nil {
		return err
	}
	p.Status = domain.ReviewStatusRejected
	return nil
}

func (r *shareRepository) DeletePurchase(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM share_purchases WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return guarded(result, "share purchase", id)
}

func (r *shareRepository) ListPurchases(ctx context.Context, f domain.ListFilter) ([]domain.SharePurchase, int32, error) {
	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "share_purchases", w)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+purchaseColumns+` FROM share_purchases`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	purchases := []domain.SharePurchase{}
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, *p)
	}
	return purchases, total, rows.Err()
}

func (r *shareRepository) ApplyDeduction(ctx context.Context, plan *policy.DeductionPlan, deductedBy int32) ([]domain.User, error) {
	logger.EnterMethod("shareRepository.ApplyDeduction", "amount", plan.Amount, "entries", len(plan.Entries))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	reason := plan.DeactivationReason()
	users := make([]domain.User, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		u, err := scanUser(tx.QueryRowContext(ctx, `UPDATE users SET shares_owned = shares_owned - $2,
			available_shares = GREATEST(available_shares - $2, 0),
			is_activated = CASE WHEN $3 THEN FALSE ELSE is_activated END,
			deactivation_reason = CASE WHEN $3 THEN $4 ELSE deactivation_reason END,
			updated_on = $5
			WHERE id = $1 AND shares_owned >= $2 RETURNING `+userColumns,
			e.UserID, plan.Amount, e.Deactivate, reason, now))
		if errors.Is(err, sql.ErrNoRows) {
			logger.ExitMethodWithError("shareRepository.ApplyDeduction", err, "userID", e.UserID)
			return nil, domain.NewError(domain.ErrInvalidTransition, "share balance of user %d changed during deduction", e.UserID)
		}
		if err != nil {
			logger.ExitMethodWithError("shareRepository.ApplyDeduction", err, "userID", e.UserID)
			return nil, fmt.Errorf("failed to deduct shares from user %d: %w", e.UserID, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO share_deductions (user_id, shares_deducted, reason, deducted_by, created_on)
			VALUES ($1, $2, $3, $4, $5)`, e.UserID, plan.Amount, plan.Reason, deductedBy, now); err != nil {
			return nil, fmt.Errorf("failed to record deduction: %w", err)
		}
		users = append(users, *u)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.ExitMethod("shareRepository.ApplyDeduction", "usersAffected", len(users), "usersDeactivated", plan.UsersDeactivated())
	return users, nil
}

func (r *shareRepository) ListDeductions(ctx context.Context, f domain.ListFilter) ([]domain.ShareDeduction, int32, error) {
	f.Status = ""
	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "share_deductions", w)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, shares_deducted, reason, deducted_by, created_on
		FROM share_deductions`+w.String()+` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	deductions := []domain.ShareDeduction{}
	for rows.Next() {
		var d domain.ShareDeduction
		if err := rows.Scan(&d.ID, &d.UserID, &d.SharesDeducted, &d.Reason, &d.DeductedBy, &d.CreatedOn); err != nil {
			return nil, 0, err
		}
		deductions = append(deductions, d)
	}
	return deductions, total, rows.Err()
}
