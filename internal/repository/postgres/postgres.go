package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ApplicationRepository
	repository.PaymentRepository
	repository.ShareRepository
	repository.ClaimRepository
	repository.DocumentRepository
	repository.ContactRepository
	repository.AnnouncementRepository
	repository.MeetingRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ApplicationRepository:  NewApplicationRepository(db),
		PaymentRepository:      NewPaymentRepository(db),
		ShareRepository:        NewShareRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		DocumentRepository:     NewDocumentRepository(db),
		ContactRepository:      NewContactRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
		MeetingRepository:      NewMeetingRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	logger.EnterMethod("postgres.Migrate")

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.ExitMethodWithError("postgres.Migrate", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.ExitMethod("postgres.Migrate", "version", version, "dirty", dirty)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// notFound turns sql.ErrNoRows into a domain not-found error.
func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s %v not found", entity, id)
	}
	return err
}

// guarded checks that a status-guarded write touched a row.
func guarded(result sql.Result, entity string, id int32) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.ErrInvalidTransition, "%s %d is no longer in the expected status", entity, id)
	}
	return nil
}

// affected checks that an unguarded write found its row.
func affected(result sql.Result, entity string, id int32) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFoundf("%s %d not found", entity, id)
	}
	return nil
}

// where accumulates filter clauses with positional arguments.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT and OFFSET arguments and returns the clause.
func (w *where) page(f domain.ListFilter) (string, []interface{}) {
	args := append(append([]interface{}{}, w.args...), f.PageSize(), f.Offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// listFilter applies the common user, status and date range constraints.
func listFilter(f domain.ListFilter, dateColumn string) *where {
	w := &where{}
	if f.UserID > 0 {
		w.add("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.From != nil {
		w.add(dateColumn+" >= $%d", *f.From)
	}
	if f.To != nil {
		// inclusive end date
		w.add(dateColumn+" < $%d", f.To.Add(24*time.Hour))
	}
	return w
}

func countRows(ctx context.Context, db *sql.DB, table string, w *where) (int32, error) {
	var n int32
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+w.String(), w.args...).Scan(&n)
	return n, err
}
