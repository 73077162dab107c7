// Package pgstore implements the store on PostgreSQL. Favorites are a text[]
// column mutated by a single UPDATE ... RETURNING statement.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

const uniqueViolation = "23505"

const userColumns = `name, password_hash, email, birthday, favorite_movies, created_at, updated_at`

const movieColumns = `id, title, description, director_name, director_bio, genre_name, genre_description, image_path`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// InitTables creates all necessary tables if they don't exist
func (s *Store) InitTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			name VARCHAR(64) PRIMARY KEY,
			password_hash VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			birthday DATE,
			favorite_movies TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			director_name VARCHAR(255),
			director_bio TEXT,
			genre_name VARCHAR(255),
			genre_description TEXT,
			image_path TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_movies_director_name ON movies(director_name)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_genre_name ON movies(genre_name)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u        models.User
		birthday sql.NullTime
	)
	if err := row.Scan(&u.Name, &u.Password, &u.Email, &birthday,
		pq.Array(&u.FavoriteMovies), &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if birthday.Valid {
		b := birthday.Time.UTC()
		u.Birthday = &b
	}
	u.Normalize()
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	c := u.Clone()
	c.Normalize()
	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.Name, c.Password, c.Email, nullTime(c.Birthday), pq.Array(c.FavoriteMovies), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Store) GetUser(ctx context.Context, name string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE name = $1`, name)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) ReplaceUser(ctx context.Context, name string, u *models.User) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $2, password_hash = $3, email = $4, birthday = $5, updated_at = $6
		WHERE name = $1
		RETURNING `+userColumns,
		name, u.Name, u.Password, u.Email, nullTime(u.Birthday), s.now().UTC())

	updated, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return updated, nil
}

func (s *Store) DeleteUser(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE name = $1`, name)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) AddFavorite(ctx context.Context, name, movieID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET favorite_movies = CASE
			WHEN $2::text = ANY(favorite_movies) THEN favorite_movies
			ELSE array_append(favorite_movies, $2::text)
		END
		WHERE name = $1
		RETURNING `+userColumns, name, movieID)

	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, name, movieID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET favorite_movies = array_remove(favorite_movies, $2::text)
		WHERE name = $1
		RETURNING `+userColumns, name, movieID)

	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func scanMovie(row scanner) (*models.Movie, error) {
	var (
		m                    models.Movie
		dirName, dirBio      sql.NullString
		genreName, genreDesc sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &dirName, &dirBio,
		&genreName, &genreDesc, &m.ImagePath); err != nil {
		return nil, err
	}
	if dirName.Valid {
		m.Director = &models.Director{Name: dirName.String, Bio: dirBio.String}
	}
	if genreName.Valid {
		m.Genre = &models.Genre{Name: genreName.String, Description: genreDesc.String}
	}
	return &m, nil
}

func movieArgs(m *models.Movie) []any {
	var dirName, dirBio, genreName, genreDesc sql.NullString
	if m.Director != nil {
		dirName = sql.NullString{String: m.Director.Name, Valid: true}
		dirBio = sql.NullString{String: m.Director.Bio, Valid: true}
	}
	if m.Genre != nil {
		genreName = sql.NullString{String: m.Genre.Name, Valid: true}
		genreDesc = sql.NullString{String: m.Genre.Description, Valid: true}
	}
	return []any{m.Title, m.Description, dirName, dirBio, genreName, genreDesc, m.ImagePath}
}

func (s *Store) CreateMovie(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	c := m.Clone()
	c.ID = uuid.NewString()

	args := append([]any{c.ID}, movieArgs(c)...)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movies (`+movieColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Store) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	return s.findMovie(ctx, `title = $1`, title)
}

func (s *Store) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	return s.findMovie(ctx, `id = $1`, id)
}

func (s *Store) FindMovieByDirector(ctx context.Context, name string) (*models.Movie, error) {
	return s.findMovie(ctx, `director_name = $1`, name)
}

func (s *Store) FindMovieByGenre(ctx context.Context, name string) (*models.Movie, error) {
	return s.findMovie(ctx, `genre_name = $1`, name)
}

func (s *Store) findMovie(ctx context.Context, where string, arg any) (*models.Movie, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE `+where+` ORDER BY title LIMIT 1`, arg)
	m, err := scanMovie(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (s *Store) ListMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

func (s *Store) ReplaceMovie(ctx context.Context, title string, m *models.Movie) (*models.Movie, error) {
	args := append([]any{title}, movieArgs(m)...)
	row := s.db.QueryRowContext(ctx, `
		UPDATE movies
		SET title = $2, description = $3, director_name = $4, director_bio = $5,
			genre_name = $6, genre_description = $7, image_path = $8
		WHERE title = $1
		RETURNING `+movieColumns, args...)

	updated, err := scanMovie(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return updated, nil
}

func (s *Store) DeleteMovie(ctx context.Context, title string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE title = $1`, title)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}
