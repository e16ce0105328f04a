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

const userColumns = `id, username, email, first_name, last_name, phone, password_hash, is_activated, is_staff, is_active,
	shares_owned, available_shares, activation_date, deactivation_reason, created_on, updated_on`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(s rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := s.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.PasswordHash,
		&u.IsActivated, &u.IsStaff, &u.IsActive, &u.SharesOwned, &u.AvailableShares, &u.ActivationDate,
		&u.DeactivationReason, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, first_name, last_name, phone, password_hash, is_activated, is_staff, is_active,
	          shares_owned, available_shares, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id`
	now := time.Now().UTC()
	u.CreatedOn = now
	u.UpdatedOn = now
	logger.DatabaseCall("INSERT", "users", "username", u.Username)
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash,
		u.IsActivated, u.IsStaff, u.IsActive, u.SharesOwned, u.AvailableShares, now).Scan(&u.ID)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, first_name=$2, last_name=$3, phone=$4, updated_on=$5 WHERE id=$6`
	u.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query, u.Email, u.FirstName, u.LastName, u.Phone, u.UpdatedOn, u.ID)
	if err != nil {
		return err
	}
	return affected(result, "user", u.ID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return affected(result, "user", id)
}

// Activation predicates, matching domain.User.ActivationStatus.
const (
	activatedClause   = "is_activated"
	unactivatedClause = "NOT is_activated AND activation_date IS NULL AND deactivation_reason = ''"
	deactivatedClause = "NOT is_activated AND (activation_date IS NOT NULL OR deactivation_reason <> '')"
)

// userFilter maps the activation status filter onto the user flags.
func userFilter(f domain.ListFilter) *where {
	w := &where{}
	switch domain.ActivationStatus(f.Status) {
	case domain.ActivationStatusActivated:
		w.clauses = append(w.clauses, activatedClause)
	case domain.ActivationStatusUnactivated:
		w.clauses = append(w.clauses, unactivatedClause)
	case domain.ActivationStatusDeactivated:
		w.clauses = append(w.clauses, deactivatedClause)
	}
	if f.From != nil {
		w.add("created_on >= $%d", *f.From)
	}
	if f.To != nil {
		w.add("created_on < $%d", f.To.Add(24*time.Hour))
	}
	return w
}

func (r *userRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.User, int32, error) {
	logger.EnterMethod("userRepository.List", "status", f.Status)

	w := userFilter(f)
	total, err := countRows(ctx, r.db, "users", w)
	if err != nil {
		logger.ExitMethodWithError("userRepository.List", err)
		return nil, 0, err
	}

	limit, args := w.page(f)
	users, err := r.query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY id`+limit, args...)
	if err != nil {
		logger.ExitMethodWithError("userRepository.List", err)
		return nil, 0, err
	}

	logger.ExitMethod("userRepository.List", "count", len(users), "total", total)
	return users, total, nil
}

func (r *userRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY id`)
}

func (r *userRepository) ListStaff(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE is_staff AND is_active ORDER BY id`)
}

func (r *userRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Stats(ctx context.Context, t policy.Thresholds) (*domain.UserStats, error) {
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE ` + activatedClause + `),
		COUNT(*) FILTER (WHERE ` + unactivatedClause + `),
		COUNT(*) FILTER (WHERE NOT is_active),
		COUNT(*) FILTER (WHERE is_staff),
		COALESCE(SUM(shares_owned), 0),
		COUNT(*) FILTER (WHERE is_active AND shares_owned < $1),
		COUNT(*) FILTER (WHERE is_active AND shares_owned >= $1 AND shares_owned < $2)
		FROM users`
	s := &domain.UserStats{}
	err := r.db.QueryRowContext(ctx, query, t.CriticalLow, t.Low).Scan(&s.TotalUsers, &s.ActivatedUsers,
		&s.UnactivatedUsers, &s.InactiveUsers, &s.StaffUsers, &s.TotalShares, &s.CriticalLowUsers, &s.LowUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}
	return s, nil
}

func (r *userRepository) Activate(ctx context.Context, id int32) (*domain.User, error) {
	query := `UPDATE users SET is_activated = TRUE, activation_date = COALESCE(activation_date, $2),
	          deactivation_reason = '', updated_on = $2
	          WHERE id = $1 AND NOT is_activated RETURNING ` + userColumns
	return r.guardedUpdate(ctx, "Activate", query, id, time.Now().UTC())
}

func (r *userRepository) Deactivate(ctx context.Context, id int32, reason string) (*domain.User, error) {
	// is_active is account disablement and is left alone.
	query := `UPDATE users SET is_activated = FALSE, deactivation_reason = $2, updated_on = $3
	          WHERE id = $1 AND is_activated RETURNING ` + userColumns
	return r.guardedUpdate(ctx, "Deactivate", query, id, reason, time.Now().UTC())
}

func (r *userRepository) guardedUpdate(ctx context.Context, op, query string, id int32, args ...interface{}) (*domain.User, error) {
	logger.DatabaseCall("UPDATE", "users."+op, "userID", id)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...))
	logger.DatabaseResult("UPDATE", 1, err, "userID", id)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		// distinguish a missing user from one in the wrong state
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.NewError(domain.ErrInvalidTransition, "user %d is not in a state that allows this action", id)
	}
	return nil, err
}

func (r *userRepository) UpdateShares(ctx context.Context, id int32, sharesOwned, availableShares int32) (*domain.User, error) {
	query := `UPDATE users SET shares_owned = $2, available_shares = $3, updated_on = $4 WHERE id = $1 RETURNING ` + userColumns
	logger.DatabaseCall("UPDATE", "users.shares", "userID", id, "sharesOwned", sharesOwned)
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, sharesOwned, availableShares, time.Now().UTC()))
	logger.DatabaseResult("UPDATE", 1, err, "userID", id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}
