// Package store declares the persistence contract shared by the Mongo,
// Postgres and in-memory backends.
//
// Every mutation is a single atomic operation against the backend; the
// favorites operations in particular never read-modify-write in Go code.
package store

import (
	"context"
	"errors"

	"github.com/AnshRaj112/myflix-backend/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type UserStore interface {
	// CreateUser inserts u. Returns ErrConflict when the name is taken.
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUser(ctx context.Context, name string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	// ReplaceUser overwrites Name, Password, Email and Birthday of the user
	// stored under name. Favorites are kept.
	ReplaceUser(ctx context.Context, name string, u *models.User) (*models.User, error)
	DeleteUser(ctx context.Context, name string) error

	// AddFavorite adds movieID to the favorites set with set-union semantics.
	AddFavorite(ctx context.Context, name, movieID string) (*models.User, error)
	// RemoveFavorite removes movieID if present. Absence is not an error.
	RemoveFavorite(ctx context.Context, name, movieID string) (*models.User, error)
}

type MovieStore interface {
	CreateMovie(ctx context.Context, m *models.Movie) (*models.Movie, error)
	GetMovie(ctx context.Context, title string) (*models.Movie, error)
	GetMovieByID(ctx context.Context, id string) (*models.Movie, error)
	FindMovieByDirector(ctx context.Context, name string) (*models.Movie, error)
	FindMovieByGenre(ctx context.Context, name string) (*models.Movie, error)
	ListMovies(ctx context.Context) ([]models.Movie, error)
	ReplaceMovie(ctx context.Context, title string, m *models.Movie) (*models.Movie, error)
	DeleteMovie(ctx context.Context, title string) error
}

type Store interface {
	UserStore
	MovieStore
	Close(ctx context.Context) error
}
