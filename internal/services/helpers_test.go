package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store/memstore"
)

// spyStore counts writes that reach the credential store.
type spyStore struct {
	*memstore.Store
	creates atomic.Int32
}

func (s *spyStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	s.creates.Add(1)
	return s.Store.CreateUser(ctx, u)
}

func newTestLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

type fixture struct {
	store     *spyStore
	auth      *Authenticator
	users     *UserService
	catalog   *CatalogService
	favorites *FavoritesManager
	clock     *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := &spyStore{Store: memstore.New()}
	log := newTestLogger()
	issuer, clock := newTestIssuer(DefaultTokenTTL)

	return &fixture{
		store:     s,
		auth:      NewAuthenticator(s, issuer, log),
		users:     NewUserService(s, log),
		catalog:   NewCatalogService(s, log),
		favorites: NewFavoritesManager(s, s, log),
		clock:     clock,
	}
}

func alice() UserInput {
	return UserInput{Name: "alice01", Password: "p@ss", Email: "a@x.com"}
}
