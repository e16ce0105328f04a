package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

const paymentColumns = `id, user_id, application_id, payment_type, payment_method, amount_cents, status, transaction_id,
	payment_proof, notes, admin_notes, reviewed_by, reviewed_on, created_on, updated_on`

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func scanPayment(s rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := s.Scan(&p.ID, &p.UserID, &p.ApplicationID, &p.PaymentType, &p.PaymentMethod, &p.AmountCents, &p.Status,
		&p.TransactionID, &p.PaymentProof, &p.Notes, &p.AdminNotes, &p.ReviewedBy, &p.ReviewedOn, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

const insertPayment = `INSERT INTO payments (user_id, application_id, payment_type, payment_method, amount_cents, status,
	transaction_id, payment_proof, notes, created_on, updated_on)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`

func paymentArgs(p *domain.Payment, now time.Time) []interface{} {
	return []interface{}{p.UserID, p.ApplicationID, p.PaymentType, p.PaymentMethod, p.AmountCents,
		p.Status, p.TransactionID, p.PaymentProof, p.Notes, now}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	logger.DatabaseCall("INSERT", "payments", "userID", p.UserID, "type", p.PaymentType)
	err := r.db.QueryRowContext(ctx, insertPayment, paymentArgs(p, now)...).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "paymentID", p.ID)
	return err
}

func (r *paymentRepository) CreateForApplication(ctx context.Context, p *domain.Payment, applicationID int32, from, to domain.ApplicationStatus) error {
	logger.EnterMethod("paymentRepository.CreateForApplication", "userID", p.UserID, "applicationID", applicationID, "to", to)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_on = $2
		WHERE id = $3 AND user_id = $4 AND status = $5`, to, now, applicationID, p.UserID, from)
	if err != nil {
		return err
	}
	if err := guarded(result, "application", applicationID); err != nil {
		logger.ExitMethodWithError("paymentRepository.CreateForApplication", err)
		return err
	}

	var id int32
	if err := tx.QueryRowContext(ctx, insertPayment, paymentArgs(p, now)...).Scan(&id); err != nil {
		logger.ExitMethodWithError("paymentRepository.CreateForApplication", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	p.ID = id
	p.CreatedOn = now
	p.UpdatedOn = now
	logger.ExitMethod("paymentRepository.CreateForApplication", "paymentID", p.ID)
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "payment", id)
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, p *domain.Payment, from domain.ReviewStatus) error {
	query := `UPDATE payments SET status=$1, admin_notes=$2, reviewed_by=$3, reviewed_on=$4, updated_on=$5
	          WHERE id=$6 AND status=$7`
	p.UpdatedOn = time.Now().UTC()
	logger.DatabaseCall("UPDATE", "payments.status", "paymentID", p.ID, "from", from, "to", p.Status)
	result, err := r.db.ExecContext(ctx, query, p.Status, p.AdminNotes, p.ReviewedBy, p.ReviewedOn, p.UpdatedOn, p.ID, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "paymentID", p.ID)
		return err
	}
	return guarded(result, "payment", p.ID)
}

func (r *paymentRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return err
	}
	return guarded(result, "payment", id)
}

func (r *paymentRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Payment, int32, error) {
	logger.EnterMethod("paymentRepository.List", "userID", f.UserID, "status", f.Status)

	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "payments", w)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.List", err)
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.List", err)
		return nil, 0, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}

	logger.ExitMethod("paymentRepository.List", "count", len(payments), "total", total)
	return payments, total, rows.Err()
}

// FinancialReport aggregates payments and approved claims created within the filter's date range.
func (r *paymentRepository) FinancialReport(ctx context.Context, f domain.ListFilter) (*domain.FinancialReport, error) {
	logger.EnterMethod("paymentRepository.FinancialReport")

	report := &domain.FinancialReport{
		From:     f.From,
		To:       f.To,
		ByType:   map[string]int64{},
		ByMethod: map[string]int64{},
	}
	w := listFilter(domain.ListFilter{From: f.From, To: f.To}, "created_on")

	rows, err := r.db.QueryContext(ctx, `SELECT status, payment_type, payment_method, COUNT(*), COALESCE(SUM(amount_cents), 0)
		FROM payments`+w.String()+` GROUP BY status, payment_type, payment_method`, w.args...)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.FinancialReport", err)
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, paymentType, method string
		var n int32
		var sum int64
		if err := rows.Scan(&status, &paymentType, &method, &n, &sum); err != nil {
			return nil, err
		}
		switch domain.ReviewStatus(status) {
		case domain.ReviewStatusPending:
			report.PendingCount += n
		case domain.ReviewStatusRejected:
			report.RejectedCount += n
		case domain.ReviewStatusApproved:
			report.ApprovedCount += n
			report.TotalApprovedCents += sum
			report.ByType[paymentType] += sum
			report.ByMethod[method] += sum
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	claims := listFilter(domain.ListFilter{Status: string(domain.ReviewStatusApproved), From: f.From, To: f.To}, "created_on")
	err = r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(COALESCE(amount_approved_cents, amount_requested_cents)), 0)
		FROM claims`+claims.String(), claims.args...).Scan(&report.ClaimsPaidCents)
	if err != nil {
		logger.ExitMethodWithError("paymentRepository.FinancialReport", err)
		return nil, fmt.Errorf("failed to aggregate claims: %w", err)
	}

	logger.ExitMethod("paymentRepository.FinancialReport", "approvedCents", report.TotalApprovedCents)
	return report, nil
}
