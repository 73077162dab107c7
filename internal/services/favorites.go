package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

// FavoriteEntry is one resolved favorite. Movie is nil and Resolved false
// when the id no longer matches a catalog entry.
type FavoriteEntry struct {
	MovieID  string        `json:"MovieID"`
	Movie    *models.Movie `json:"Movie,omitempty"`
	Resolved bool          `json:"Resolved"`
}

// FavoritesManager mutates the favorites set of an identity. Each mutation
// is a single atomic store operation, so retries never duplicate or fail.
type FavoritesManager struct {
	users  store.UserStore
	movies store.MovieStore
	log    logrus.FieldLogger
}

func NewFavoritesManager(users store.UserStore, movies store.MovieStore, log logrus.FieldLogger) *FavoritesManager {
	return &FavoritesManager{users: users, movies: movies, log: log}
}

// Add puts movieID in the set. Adding a present id is a no-op success.
func (f *FavoritesManager) Add(ctx context.Context, name, movieID string) (*models.User, error) {
	if err := requireMovieID(movieID); err != nil {
		return nil, err
	}
	u, err := f.users.AddFavorite(ctx, name, movieID)
	if err != nil {
		return nil, f.mapErr(err, name)
	}
	return u, nil
}

// Remove takes movieID out of the set. Removing an absent id is a no-op success.
func (f *FavoritesManager) Remove(ctx context.Context, name, movieID string) (*models.User, error) {
	if err := requireMovieID(movieID); err != nil {
		return nil, err
	}
	u, err := f.users.RemoveFavorite(ctx, name, movieID)
	if err != nil {
		return nil, f.mapErr(err, name)
	}
	return u, nil
}

// Resolve looks up every favorite of name in the catalog. Dangling ids are
// reported unresolved rather than failing the whole list.
func (f *FavoritesManager) Resolve(ctx context.Context, name string) ([]FavoriteEntry, error) {
	u, err := f.users.GetUser(ctx, name)
	if err != nil {
		return nil, f.mapErr(err, name)
	}

	entries := make([]FavoriteEntry, 0, len(u.FavoriteMovies))
	for _, id := range u.FavoriteMovies {
		m, err := f.movies.GetMovieByID(ctx, id)
		switch {
		case err == nil:
			entries = append(entries, FavoriteEntry{MovieID: id, Movie: m, Resolved: true})
		case errors.Is(err, store.ErrNotFound):
			entries = append(entries, FavoriteEntry{MovieID: id})
		default:
			f.log.WithError(err).WithField("movie_id", id).Error("Failed to resolve favorite")
			return nil, apperr.Internal(err)
		}
	}
	return entries, nil
}

func requireMovieID(movieID string) error {
	if strings.TrimSpace(movieID) == "" {
		return apperr.Validation("Validation failed", apperr.FieldError{Field: "MovieID", Message: "MovieID is required"})
	}
	return nil
}

func (f *FavoritesManager) mapErr(err error, name string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(name + " was not found")
	}
	f.log.WithError(err).WithField("name", name).Error("Favorites update failed")
	return apperr.Internal(err)
}
