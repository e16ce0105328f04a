package postgres

import (
	"context"
	"database/sql"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/logger"
	"pamoja-backend/internal/repository"
)

type announcementRepository struct {
	db *sql.DB
}

func NewAnnouncementRepository(db *sql.DB) repository.AnnouncementRepository {
	return &announcementRepository{db: db}
}

const announcementColumns = `id, title, content, priority, created_by, created_on, updated_on`

func scanAnnouncement(s rowScanner) (*domain.Announcement, error) {
	a := &domain.Announcement{}
	if err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.CreatedBy, &a.CreatedOn, &a.UpdatedOn); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *announcementRepository) Create(ctx context.Context, a *domain.Announcement) error {
	query := `INSERT INTO announcements (title, content, priority, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, a.Title, a.Content, a.Priority, a.CreatedBy, now).Scan(&a.ID)
}

func (r *announcementRepository) GetByID(ctx context.Context, id int32) (*domain.Announcement, error) {
	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "announcement", id)
	}
	return a, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *domain.Announcement) error {
	a.UpdatedOn = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE announcements SET title=$1, content=$2, priority=$3, updated_on=$4 WHERE id=$5`,
		a.Title, a.Content, a.Priority, a.UpdatedOn, a.ID)
	if err != nil {
		return err
	}
	return affected(result, "announcement", a.ID)
}

func (r *announcementRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(result, "announcement", id)
}

// List returns the newest announcements, high priority first.
func (r *announcementRepository) List(ctx context.Context, limit int32) ([]domain.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+announcementColumns+` FROM announcements
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'normal' THEN 1 ELSE 2 END, created_on DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

type meetingRepository struct {
	db *sql.DB
}

func NewMeetingRepository(db *sql.DB) repository.MeetingRepository {
	return &meetingRepository{db: db}
}

const meetingColumns = `m.id, m.title, m.description, m.location, m.starts_at, m.max_attendees,
	(SELECT COUNT(*) FROM meeting_registrations mr WHERE mr.meeting_id = m.id), m.created_by, m.created_on`

func scanMeeting(s rowScanner) (*domain.Meeting, error) {
	m := &domain.Meeting{}
	err := s.Scan(&m.ID, &m.Title, &m.Description, &m.Location, &m.StartsAt, &m.MaxAttendees, &m.Registered,
		&m.CreatedBy, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *meetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	query := `INSERT INTO meetings (title, description, location, starts_at, max_attendees, created_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	m.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, m.Title, m.Description, m.Location, m.StartsAt, m.MaxAttendees,
		m.CreatedBy, m.CreatedOn).Scan(&m.ID)
}

func (r *meetingRepository) GetByID(ctx context.Context, id int32) (*domain.Meeting, error) {
	m, err := scanMeeting(r.db.QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "meeting", id)
	}
	return m, nil
}

func (r *meetingRepository) Update(ctx context.Context, m *domain.Meeting) error {
	result, err := r.db.ExecContext(ctx, `UPDATE meetings SET title=$1, description=$2, location=$3, starts_at=$4,
		max_attendees=$5 WHERE id=$6`, m.Title, m.Description, m.Location, m.StartsAt, m.MaxAttendees, m.ID)
	if err != nil {
		return err
	}
	return affected(result, "meeting", m.ID)
}

func (r *meetingRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affected(result, "meeting", id)
}

func (r *meetingRepository) ListUpcoming(ctx context.Context, limit int32) ([]domain.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+meetingColumns+` FROM meetings m WHERE m.starts_at >= $1
		ORDER BY m.starts_at LIMIT $2`, time.Now().UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// Register locks the meeting row so concurrent registrations cannot overfill it.
func (r *meetingRepository) Register(ctx context.Context, meetingID, userID int32) (*domain.MeetingRegistration, error) {
	logger.EnterMethod("meetingRepository.Register", "meetingID", meetingID, "userID", userID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int32
	err = tx.QueryRowContext(ctx, `SELECT max_attendees FROM meetings WHERE id = $1 FOR UPDATE`, meetingID).Scan(&capacity)
	if err != nil {
		return nil, notFound(err, "meeting", meetingID)
	}

	var registered int32
	var already bool
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(BOOL_OR(user_id = $2), FALSE)
		FROM meeting_registrations WHERE meeting_id = $1`, meetingID, userID).Scan(&registered, &already)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, domain.NewError(domain.ErrInvalidTransition, "already registered for meeting %d", meetingID)
	}
	if capacity > 0 && registered >= capacity {
		return nil, domain.NewError(domain.ErrInvalidTransition, "meeting %d is full", meetingID)
	}

	reg := &domain.MeetingRegistration{MeetingID: meetingID, UserID: userID, RegisteredOn: time.Now().UTC()}
	err = tx.QueryRowContext(ctx, `INSERT INTO meeting_registrations (meeting_id, user_id, registered_on)
		VALUES ($1, $2, $3) RETURNING id`, meetingID, userID, reg.RegisteredOn).Scan(&reg.ID)
	if err != nil {
		logger.ExitMethodWithError("meetingRepository.Register", err)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	logger.ExitMethod("meetingRepository.Register", "registrationID", reg.ID)
	return reg, nil
}

func (r *meetingRepository) ListRegistrations(ctx context.Context, meetingID int32) ([]domain.MeetingRegistration, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, meeting_id, user_id, registered_on FROM meeting_registrations
		WHERE meeting_id = $1 ORDER BY registered_on`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []domain.MeetingRegistration{}
	for rows.Next() {
		var reg domain.MeetingRegistration
		if err := rows.Scan(&reg.ID, &reg.MeetingID, &reg.UserID, &reg.RegisteredOn); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
