package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const conferenceColumns = `id, name, description, organizer_id, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// filterColumns maps filter fields to conference columns.
var filterColumns = map[domain.FilterField]string{
	domain.FilterFieldCity:         "city",
	domain.FilterFieldTopic:        "topics",
	domain.FilterFieldMonth:        "month",
	domain.FilterFieldMaxAttendees: "max_attendees",
	domain.OrderByName:             "name",
}

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (id, name, description, organizer_id, topics, city, start_date, end_date, month, max_attendees, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, c.OrganizerID, pq.Array(nonNil(c.Topics)), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapConstraintError(err)
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1) ORDER BY name`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *conferenceRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_id = $1 ORDER BY name`
	return r.list(ctx, query, organizerID)
}

// Query renders a compiled filter plan to SQL. The plan is trusted to carry
// at most one inequality field.
func (r *conferenceRepository) Query(ctx context.Context, plan *domain.QueryPlan) ([]*domain.Conference, error) {
	query, args, err := buildConferenceQuery(plan)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args...)
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	query, args, err := psql.Select(conferenceColumns).
		From("conferences").
		Where(sq.And{sq.LtOrEq{"seats_available": maxSeats}, sq.Gt{"seats_available": 0}}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args...)
}

func (r *conferenceRepository) Modify(ctx context.Context, id string, fn func(c *domain.Conference) error) (*domain.Conference, error) {
	var out *domain.Conference
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		c, err := scanConference(tx.QueryRowContext(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := updateConference(ctx, tx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, mapConstraintError(err)
	}
	return out, nil
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Conference{}
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func updateConference(ctx context.Context, tx *sql.Tx, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
			month = $8, max_attendees = $9, seats_available = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return tx.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, pq.Array(nonNil(c.Topics)), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	).Scan(&c.UpdatedAt)
}

func buildConferenceQuery(plan *domain.QueryPlan) (string, []any, error) {
	b := psql.Select(conferenceColumns).From("conferences")
	for _, p := range plan.Predicates {
		cond, err := predicateSQL(p)
		if err != nil {
			return "", nil, err
		}
		b = b.Where(cond)
	}
	for _, f := range plan.OrderBy {
		col, ok := filterColumns[f]
		if !ok {
			return "", nil, fmt.Errorf("%w: cannot order by %q", domain.ErrInvalidInput, f)
		}
		b = b.OrderBy(col)
	}
	if plan.Limit > 0 {
		b = b.Limit(uint64(plan.Limit))
	}
	if plan.Offset > 0 {
		b = b.Offset(uint64(plan.Offset))
	}
	return b.ToSql()
}

func predicateSQL(p domain.Predicate) (sq.Sqlizer, error) {
	if p.Field == domain.FilterFieldTopic {
		return topicPredicate(p)
	}
	col, ok := filterColumns[p.Field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, p.Field)
	}
	switch p.Operator {
	case domain.OpEqual:
		return sq.Eq{col: p.Value}, nil
	case domain.OpNotEqual:
		return sq.NotEq{col: p.Value}, nil
	case domain.OpGreater:
		return sq.Gt{col: p.Value}, nil
	case domain.OpGreaterOrEqual:
		return sq.GtOrEq{col: p.Value}, nil
	case domain.OpLess:
		return sq.Lt{col: p.Value}, nil
	case domain.OpLessOrEqual:
		return sq.LtOrEq{col: p.Value}, nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidInput, p.Operator)
}

// topicPredicate matches when any element of the topics array satisfies the
// comparison.
func topicPredicate(p domain.Predicate) (sq.Sqlizer, error) {
	if p.Operator == domain.OpEqual {
		return sq.Expr("? = ANY(topics)", p.Value), nil
	}
	switch p.Operator {
	case domain.OpNotEqual:
		return sq.Expr("EXISTS (SELECT 1 FROM unnest(topics) AS t WHERE t <> ?)", p.Value), nil
	case domain.OpGreater, domain.OpGreaterOrEqual, domain.OpLess, domain.OpLessOrEqual:
		return sq.Expr("EXISTS (SELECT 1 FROM unnest(topics) AS t WHERE t "+string(p.Operator)+" ?)", p.Value), nil
	}
	return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidInput, p.Operator)
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var start, end sql.NullTime
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.OrganizerID, pq.Array(&c.Topics), &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		c.StartDate = &start.Time
	}
	if end.Valid {
		c.EndDate = &end.Time
	}
	c.Topics = nonNil(c.Topics)
	return c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
