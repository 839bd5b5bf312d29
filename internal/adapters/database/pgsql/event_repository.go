package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	"github.com/campusbooks/school_admin_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEventRepository struct {
	pool *pgxpool.Pool
}

// NewPgxEventRepository creates a new repository for announcements.
func NewPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventRepositoryFacade {
	return &PgxEventRepository{pool: pool}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

const eventColumns = `event_id, title, body, event_date, audience, created_at, created_by, last_updated_at, last_updated_by`

func scanEvent(row pgx.Row, e *domain.Event) error {
	return row.Scan(
		&e.EventID,
		&e.Title,
		&e.Body,
		&e.EventDate,
		&e.Audience,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
}

// FindEventByID retrieves a single announcement.
func (r *PgxEventRepository) FindEventByID(ctx context.Context, eventID int64) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE event_id = $1;`, eventColumns)

	var e domain.Event
	err := scanEvent(r.pool.QueryRow(ctx, query, eventID), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event %d: %w", eventID, err)
	}

	return &e, nil
}

// ListEvents retrieves a token-paginated page of announcements ordered by
// event date desc, id desc. The token carries the sort key of the last row
// of the previous page.
func (r *PgxEventRepository) ListEvents(ctx context.Context, limit int, nextToken *string) ([]domain.Event, *string, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY event_date DESC, event_id DESC LIMIT $1;`, eventColumns)
	args := []any{limit + 1} // Fetch one extra to know if another page exists

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: bad pagination token", apperrors.ErrValidation)
		}
		lastDate, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad pagination token date", apperrors.ErrValidation)
		}
		lastID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad pagination token id", apperrors.ErrValidation)
		}
		query = fmt.Sprintf(`SELECT %s FROM events WHERE (event_date, event_id) < ($1, $2)
			ORDER BY event_date DESC, event_id DESC LIMIT $3;`, eventColumns)
		args = []any{lastDate, lastID, limit + 1}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	var token *string
	if len(events) > limit {
		events = events[:limit]
		last := events[len(events)-1]
		t := pagination.EncodeMultiFieldToken(last.EventDate.Format(time.RFC3339Nano), strconv.FormatInt(last.EventID, 10))
		token = &t
	}

	return events, token, nil
}

// SaveEvent inserts a new announcement and returns it with its id.
func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO events (title, body, event_date, audience, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING event_id;
	`
	err := r.pool.QueryRow(ctx, query,
		event.Title, event.Body, event.EventDate, event.Audience,
		event.CreatedAt, event.CreatedBy, event.LastUpdatedAt, event.LastUpdatedBy,
	).Scan(&event.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return &event, nil
}

// UpdateEvent persists the mutable announcement fields.
func (r *PgxEventRepository) UpdateEvent(ctx context.Context, event domain.Event) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE events SET title = $2, body = $3, event_date = $4, audience = $5, last_updated_at = $6, last_updated_by = $7
		WHERE event_id = $1;`,
		event.EventID, event.Title, event.Body, event.EventDate, event.Audience,
		event.LastUpdatedAt, event.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", event.EventID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteEvent removes an announcement.
func (r *PgxEventRepository) DeleteEvent(ctx context.Context, eventID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM events WHERE event_id = $1;`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
