package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"

	"github.com/lib/pq"
)

const applicationColumns = `id, user_id, membership_type, status, first_name, last_name, email, phone, date_of_birth,
	id_number, address, city, state, zip_code, emergency_contact_name, emergency_contact_phone, spouse_name,
	spouse_id_number, spouse_phone, spouse_email, children_info, id_document, upgrade, superseded_by,
	rejection_reason, admin_notes, reviewed_by, reviewed_on, created_on, updated_on`

const liveApplication = `superseded_by IS NULL AND status IN ('pending', 'payment_submitted', 'approved')`

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

func scanApplication(s rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	err := s.Scan(&a.ID, &a.UserID, &a.MembershipType, &a.Status, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.DateOfBirth, &a.IDNumber, &a.Address, &a.City, &a.State, &a.ZipCode, &a.EmergencyContactName,
		&a.EmergencyContactPhone, &a.SpouseName, &a.SpouseIDNumber, &a.SpousePhone, &a.SpouseEmail,
		&a.ChildrenInfo, &a.IDDocument, &a.Upgrade, &a.SupersededBy, &a.RejectionReason, &a.AdminNotes,
		&a.ReviewedBy, &a.ReviewedOn, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

const insertApplication = `INSERT INTO applications (id, user_id, membership_type, status, first_name, last_name, email, phone,
	date_of_birth, id_number, address, city, state, zip_code, emergency_contact_name, emergency_contact_phone,
	spouse_name, spouse_id_number, spouse_phone, spouse_email, children_info, id_document, upgrade, created_on, updated_on)
	VALUES (COALESCE($1, nextval('applications_id_seq')), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	$17, $18, $19, $20, $21, $22, $23, $24, $24) RETURNING id`

func applicationArgs(id *int32, a *domain.Application) []interface{} {
	return []interface{}{id, a.UserID, a.MembershipType, a.Status, a.FirstName, a.LastName, a.Email, a.Phone,
		a.DateOfBirth, a.IDNumber, a.Address, a.City, a.State, a.ZipCode, a.EmergencyContactName,
		a.EmergencyContactPhone, a.SpouseName, a.SpouseIDNumber, a.SpousePhone, a.SpouseEmail, a.ChildrenInfo,
		a.IDDocument, a.Upgrade, a.CreatedOn}
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now
	logger.DatabaseCall("INSERT", "applications", "userID", a.UserID, "type", a.MembershipType)
	err := r.db.QueryRowContext(ctx, insertApplication, applicationArgs(nil, a)...).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", a.ID)
	if isUniqueViolation(err) {
		return domain.NewError(domain.ErrInvalidTransition, "user %d already has an open membership application", a.UserID)
	}
	return err
}

// CreateUpgrade reserves the new id first so the superseded row can point at it before the insert;
// the foreign key is deferred to commit.
func (r *applicationRepository) CreateUpgrade(ctx context.Context, a *domain.Application, supersedes int32) error {
	logger.EnterMethod("applicationRepository.CreateUpgrade", "userID", a.UserID, "supersedes", supersedes)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int32
	if err := tx.QueryRowContext(ctx, `SELECT nextval('applications_id_seq')`).Scan(&id); err != nil {
		return fmt.Errorf("failed to reserve application id: %w", err)
	}

	result, err := tx.ExecContext(ctx, `UPDATE applications SET superseded_by = $1, updated_on = $2
		WHERE id = $3 AND user_id = $4 AND status = 'approved' AND superseded_by IS NULL`,
		id, time.Now().UTC(), supersedes, a.UserID)
	if err != nil {
		return err
	}
	if err := guarded(result, "application", supersedes); err != nil {
		logger.ExitMethodWithError("applicationRepository.CreateUpgrade", err)
		return err
	}

	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now
	a.Upgrade = true
	if err := tx.QueryRowContext(ctx, insertApplication, applicationArgs(&id, a)...).Scan(&a.ID); err != nil {
		logger.ExitMethodWithError("applicationRepository.CreateUpgrade", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("applicationRepository.CreateUpgrade", "applicationID", a.ID)
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "application", id)
	}
	return a, nil
}

func (r *applicationRepository) GetLiveByUser(ctx context.Context, userID int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id = $1 AND ` + liveApplication
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, notFound(err, "live application for user", userID)
	}
	return a, nil
}

// Update saves member-editable fields of a pending application.
func (r *applicationRepository) Update(ctx context.Context, a *domain.Application) error {
	query := `UPDATE applications SET first_name=$1, last_name=$2, email=$3, phone=$4, date_of_birth=$5, id_number=$6,
	          address=$7, city=$8, state=$9, zip_code=$10, emergency_contact_name=$11, emergency_contact_phone=$12,
	          spouse_name=$13, spouse_id_number=$14, spouse_phone=$15, spouse_email=$16, children_info=$17,
	          id_document=$18, updated_on=$19
	          WHERE id=$20 AND status='pending'`
	a.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.IDNumber,
		a.Address, a.City, a.State, a.ZipCode, a.EmergencyContactName, a.EmergencyContactPhone, a.SpouseName,
		a.SpouseIDNumber, a.SpousePhone, a.SpouseEmail, a.ChildrenInfo, a.IDDocument, a.UpdatedOn, a.ID)
	if err != nil {
		return err
	}
	return guarded(result, "application", a.ID)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, a *domain.Application, from domain.ApplicationStatus) error {
	logger.EnterMethod("applicationRepository.UpdateStatus", "applicationID", a.ID, "from", from, "to", a.Status)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a.UpdatedOn = time.Now().UTC()
	result, err := tx.ExecContext(ctx, `UPDATE applications SET status=$1, rejection_reason=$2, admin_notes=$3,
		reviewed_by=$4, reviewed_on=$5, updated_on=$6 WHERE id=$7 AND status=$8`,
		a.Status, a.RejectionReason, a.AdminNotes, a.ReviewedBy, a.ReviewedOn, a.UpdatedOn, a.ID, from)
	if err != nil {
		return err
	}
	if err := guarded(result, "application", a.ID); err != nil {
		logger.ExitMethodWithError("applicationRepository.UpdateStatus", err)
		return err
	}

	if a.Upgrade && a.Status == domain.ApplicationStatusRejected {
		if _, err := tx.ExecContext(ctx, `UPDATE applications SET superseded_by = NULL WHERE superseded_by = $1`, a.ID); err != nil {
			return fmt.Errorf("failed to restore superseded application: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logger.ExitMethod("applicationRepository.UpdateStatus", "applicationID", a.ID)
	return nil
}

// Delete removes an application in one of the allowed statuses. Deleting an upgrade
// releases the superseded application through ON DELETE SET NULL.
func (r *applicationRepository) Delete(ctx context.Context, id int32, allowed []domain.ApplicationStatus) error {
	statuses := make([]string, len(allowed))
	for i, s := range allowed {
		statuses[i] = string(s)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1 AND status = ANY($2)`, id, pq.Array(statuses))
	if err != nil {
		return err
	}
	return guarded(result, "application", id)
}

func (r *applicationRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Application, int32, error) {
	logger.EnterMethod("applicationRepository.List", "userID", f.UserID, "status", f.Status)

	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "applications", w)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.List", err)
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.List", err)
		return nil, 0, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *a)
	}

	logger.ExitMethod("applicationRepository.List", "count", len(apps), "total", total)
	return apps, total, rows.Err()
}

// isUniqueViolation reports a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
