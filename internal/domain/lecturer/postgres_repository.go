package lecturer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/danghamo/lecturer-service/internal/domain/shared"
)

// PgxPool is the subset of *pgxpool.Pool used by PostgresRepository
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresRepository implements Repository on the lecturers table
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository creates a Postgres-backed lecturer repository
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const (
	upsertLecturerSQL = `
		INSERT INTO lecturers (id, name, email, ppic, bio, courses, social_media)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			ppic = EXCLUDED.ppic,
			bio = EXCLUDED.bio,
			courses = EXCLUDED.courses,
			social_media = EXCLUDED.social_media,
			updated_at = now()
		RETURNING id, name, email, ppic, bio, courses, social_media
	`

	selectLecturersSQL = `
		SELECT id, name, email, ppic, bio, courses, social_media
		FROM lecturers
		ORDER BY created_at, id
	`

	selectLecturerSQL = `
		SELECT id, name, email, ppic, bio, courses, social_media
		FROM lecturers
		WHERE id = $1
	`

	deleteLecturerSQL = `DELETE FROM lecturers WHERE id = $1`
)

// Save upserts the row in a single statement
func (r *PostgresRepository) Save(ctx context.Context, l *Lecturer) (*Lecturer, error) {
	if l == nil {
		return nil, shared.ErrInvalidInput("lecturer cannot be nil")
	}
	if l.ID.IsEmpty() {
		return nil, shared.ErrInvalidInput("lecturer id cannot be empty")
	}

	stored := l.Clone()
	stored.normalize()

	courses, err := json.Marshal(stored.Courses)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize courses: %w", err)
	}
	socialMedia, err := json.Marshal(stored.SocialMedia)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize social media: %w", err)
	}

	row := r.pool.QueryRow(ctx, upsertLecturerSQL,
		stored.ID.String(),
		stored.Name,
		stored.Email,
		stored.ProfilePic,
		stored.Bio,
		courses,
		socialMedia,
	)

	saved, err := scanLecturer(row)
	if err != nil {
		return nil, shared.WrapStorageError(err, "postgres", "save")
	}
	return saved, nil
}

// FindAll returns all rows ordered by creation time
func (r *PostgresRepository) FindAll(ctx context.Context) ([]*Lecturer, error) {
	rows, err := r.pool.Query(ctx, selectLecturersSQL)
	if err != nil {
		return nil, shared.WrapStorageError(err, "postgres", "find_all")
	}
	defer rows.Close()

	lecturers := make([]*Lecturer, 0)
	for rows.Next() {
		l, err := scanLecturer(rows)
		if err != nil {
			return nil, shared.WrapStorageError(err, "postgres", "find_all")
		}
		lecturers = append(lecturers, l)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapStorageError(err, "postgres", "find_all")
	}
	return lecturers, nil
}

// FindByID maps pgx.ErrNoRows to a nil result
func (r *PostgresRepository) FindByID(ctx context.Context, id ID) (*Lecturer, error) {
	if id.IsEmpty() {
		return nil, nil
	}

	l, err := scanLecturer(r.pool.QueryRow(ctx, selectLecturerSQL, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, shared.WrapStorageError(err, "postgres", "find_by_id")
	}
	return l, nil
}

// DeleteByID deletes the row; zero affected rows is not an error
func (r *PostgresRepository) DeleteByID(ctx context.Context, id ID) error {
	if id.IsEmpty() {
		return nil
	}
	if _, err := r.pool.Exec(ctx, deleteLecturerSQL, id.String()); err != nil {
		return shared.WrapStorageError(err, "postgres", "delete")
	}
	return nil
}

// HealthCheck pings the database
func (r *PostgresRepository) HealthCheck(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanLecturer(row pgx.Row) (*Lecturer, error) {
	var (
		l           Lecturer
		id          string
		courses     []byte
		socialMedia []byte
	)

	if err := row.Scan(&id, &l.Name, &l.Email, &l.ProfilePic, &l.Bio, &courses, &socialMedia); err != nil {
		return nil, err
	}

	l.ID = ID(id)
	if err := json.Unmarshal(courses, &l.Courses); err != nil {
		return nil, fmt.Errorf("failed to deserialize courses: %w", err)
	}
	if err := json.Unmarshal(socialMedia, &l.SocialMedia); err != nil {
		return nil, fmt.Errorf("failed to deserialize social media: %w", err)
	}
	l.normalize()

	return &l, nil
}
