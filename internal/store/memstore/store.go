// Package memstore is an in-process store used for local development and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	movies map[string]*models.Movie // by title
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:  make(map[string]*models.User),
		movies: make(map[string]*models.Movie),
		now:    time.Now,
	}
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Name]; ok {
		return nil, store.ErrConflict
	}

	c := u.Clone()
	c.Normalize()
	now := s.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.users[c.Name] = c
	return c.Clone(), nil
}

func (s *Store) GetUser(_ context.Context, name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ReplaceUser(_ context.Context, name string, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	if u.Name != name {
		if _, taken := s.users[u.Name]; taken {
			return nil, store.ErrConflict
		}
	}

	next := cur.Clone()
	next.Name = u.Name
	next.Password = u.Password
	next.Email = u.Email
	next.Birthday = nil
	if u.Birthday != nil {
		b := *u.Birthday
		next.Birthday = &b
	}
	next.UpdatedAt = s.now().UTC()

	delete(s.users, name)
	s.users[next.Name] = next
	return next.Clone(), nil
}

func (s *Store) DeleteUser(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[name]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, name)
	return nil
}

func (s *Store) AddFavorite(_ context.Context, name, movieID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !u.HasFavorite(movieID) {
		u.FavoriteMovies = append(u.FavoriteMovies, movieID)
	}
	return u.Clone(), nil
}

func (s *Store) RemoveFavorite(_ context.Context, name, movieID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	kept := u.FavoriteMovies[:0]
	for _, id := range u.FavoriteMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	u.FavoriteMovies = kept
	return u.Clone(), nil
}

func (s *Store) CreateMovie(_ context.Context, m *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[m.Title]; ok {
		return nil, store.ErrConflict
	}

	c := m.Clone()
	c.ID = uuid.NewString()
	s.movies[c.Title] = c
	return c.Clone(), nil
}

func (s *Store) GetMovie(_ context.Context, title string) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[title]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *Store) GetMovieByID(_ context.Context, id string) (*models.Movie, error) {
	return s.findMovie(func(m *models.Movie) bool { return m.ID == id })
}

func (s *Store) FindMovieByDirector(_ context.Context, name string) (*models.Movie, error) {
	return s.findMovie(func(m *models.Movie) bool { return m.Director != nil && m.Director.Name == name })
}

func (s *Store) FindMovieByGenre(_ context.Context, name string) (*models.Movie, error) {
	return s.findMovie(func(m *models.Movie) bool { return m.Genre != nil && m.Genre.Name == name })
}

// findMovie scans in title order so lookups by a shared attribute are stable.
func (s *Store) findMovie(match func(*models.Movie) bool) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, 0, len(s.movies))
	for t := range s.movies {
		titles = append(titles, t)
	}
	sort.Strings(titles)

	for _, t := range titles {
		if m := s.movies[t]; match(m) {
			return m.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListMovies(context.Context) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, *m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) ReplaceMovie(_ context.Context, title string, m *models.Movie) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.movies[title]
	if !ok {
		return nil, store.ErrNotFound
	}
	if m.Title != title {
		if _, taken := s.movies[m.Title]; taken {
			return nil, store.ErrConflict
		}
	}

	next := m.Clone()
	next.ID = cur.ID
	delete(s.movies, title)
	s.movies[next.Title] = next
	return next.Clone(), nil
}

func (s *Store) DeleteMovie(_ context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[title]; !ok {
		return store.ErrNotFound
	}
	delete(s.movies, title)
	return nil
}
