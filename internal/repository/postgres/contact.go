package postgres

import (
	"context"
	"database/sql"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/repository"

	"github.com/lib/pq"
)

const contactColumns = `id, user_id, name, email, subject, message, status, admin_reply, replied_by, replied_on, created_on`

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func scanContact(s rowScanner) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{}
	err := s.Scan(&m.ID, &m.UserID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.AdminReply,
		&m.RepliedBy, &m.RepliedOn, &m.CreatedOn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *contactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages (user_id, name, email, subject, message, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	m.CreatedOn = time.Now().UTC()
	return r.db.QueryRowContext(ctx, query, m.UserID, m.Name, m.Email, m.Subject, m.Message, m.Status, m.CreatedOn).Scan(&m.ID)
}

func (r *contactRepository) GetByID(ctx context.Context, id int32) (*domain.ContactMessage, error) {
	m, err := scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "contact message", id)
	}
	return m, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, m *domain.ContactMessage, from []domain.ContactStatus) error {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}
	query := `UPDATE contact_messages SET status=$1, admin_reply=$2, replied_by=$3, replied_on=$4
	          WHERE id=$5 AND status = ANY($6)`
	result, err := r.db.ExecContext(ctx, query, m.Status, m.AdminReply, m.RepliedBy, m.RepliedOn, m.ID, pq.Array(statuses))
	if err != nil {
		return err
	}
	return guarded(result, "contact message", m.ID)
}

func (r *contactRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.ContactMessage, int32, error) {
	w := listFilter(f, "created_on")
	total, err := countRows(ctx, r.db, "contact_messages", w)
	if err != nil {
		return nil, 0, err
	}

	limit, args := w.page(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contact_messages`+w.String()+
		` ORDER BY created_on DESC, id DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	msgs := []domain.ContactMessage{}
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, total, rows.Err()
}
