package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

// CatalogService is the CRUD surface over the movie catalog.
type CatalogService struct {
	movies store.MovieStore
	log    logrus.FieldLogger
}

func NewCatalogService(movies store.MovieStore, log logrus.FieldLogger) *CatalogService {
	return &CatalogService{movies: movies, log: log}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Movie, error) {
	movies, err := s.movies.ListMovies(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to list movies")
		return nil, apperr.Internal(err)
	}
	return movies, nil
}

func (s *CatalogService) Get(ctx context.Context, title string) (*models.Movie, error) {
	m, err := s.movies.GetMovie(ctx, title)
	if err != nil {
		return nil, s.mapErr(err, title)
	}
	return m, nil
}

// Director returns the director record of the first movie directed by name.
func (s *CatalogService) Director(ctx context.Context, name string) (*models.Director, error) {
	m, err := s.movies.FindMovieByDirector(ctx, name)
	if err != nil {
		return nil, s.mapErr(err, name)
	}
	return m.Director, nil
}

// Genre returns the genre record of the first movie in genre name.
func (s *CatalogService) Genre(ctx context.Context, name string) (*models.Genre, error) {
	m, err := s.movies.FindMovieByGenre(ctx, name)
	if err != nil {
		return nil, s.mapErr(err, name)
	}
	return m.Genre, nil
}

func (s *CatalogService) Create(ctx context.Context, in MovieInput) (*models.Movie, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	m, err := s.movies.CreateMovie(ctx, in.toMovie())
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict(in.Title + " already exists")
		}
		return nil, s.mapErr(err, in.Title)
	}

	s.log.WithField("title", m.Title).Info("Movie added")
	return m, nil
}

// Update fully replaces the movie stored under title.
func (s *CatalogService) Update(ctx context.Context, title string, in MovieInput) (*models.Movie, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	m, err := s.movies.ReplaceMovie(ctx, title, in.toMovie())
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict(in.Title + " already exists")
		}
		return nil, s.mapErr(err, title)
	}
	return m, nil
}

// Delete removes the movie. Favorites that reference it are left alone.
func (s *CatalogService) Delete(ctx context.Context, title string) error {
	if err := s.movies.DeleteMovie(ctx, title); err != nil {
		return s.mapErr(err, title)
	}
	s.log.WithField("title", title).Info("Movie deleted")
	return nil
}

func (s *CatalogService) mapErr(err error, key string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(key + " was not found")
	}
	s.log.WithError(err).WithField("key", key).Error("Movie store failure")
	return apperr.Internal(err)
}
