package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
	"github.com/AnshRaj112/myflix-backend/pkg/utils"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Authenticator registers identities, checks credentials and resolves
// presented tokens back to live identities.
type Authenticator struct {
	users  store.UserStore
	tokens *TokenIssuer
	log    logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthenticator(users store.UserStore, tokens *TokenIssuer, log logrus.FieldLogger) *Authenticator {
	return &Authenticator{users: users, tokens: tokens, log: log}
}

// Register validates in, hashes the password and stores the identity.
func (a *Authenticator) Register(ctx context.Context, in UserInput) (*models.User, error) {
	u, err := buildUser(in)
	if err != nil {
		return nil, err
	}

	created, err := a.users.CreateUser(ctx, u)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict(in.Name + " already exists")
		}
		a.log.WithError(err).WithField("name", in.Name).Error("Failed to create user")
		return nil, apperr.Internal(err)
	}

	a.log.WithField("name", created.Name).Info("User registered")
	return created, nil
}

// Login checks name and password and issues a token. An unknown name and a
// wrong password fail with the same InvalidCredentials error.
func (a *Authenticator) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	if name == "" || password == "" {
		return nil, apperr.InvalidCredentials()
	}

	u, err := a.users.GetUser(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same hashing time as a real comparison.
			_, _ = utils.VerifyPassword(password, a.fallbackHash())
			return nil, apperr.InvalidCredentials()
		}
		a.log.WithError(err).Error("Failed to load user for login")
		return nil, apperr.Internal(err)
	}

	ok, err := utils.VerifyPassword(password, u.Password)
	if err != nil {
		a.log.WithError(err).WithField("name", name).Error("Stored password hash is unreadable")
		return nil, apperr.InvalidCredentials()
	}
	if !ok {
		return nil, apperr.InvalidCredentials()
	}

	token, expiresAt, err := a.tokens.Issue(u.Name)
	if err != nil {
		a.log.WithError(err).Error("Failed to sign token")
		return nil, apperr.Internal(err)
	}

	return &LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Resolve verifies tokenString and loads the identity it names. A deleted
// identity is Unauthenticated, not NotFound.
func (a *Authenticator) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := a.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := a.users.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Unauthenticated("Identity no longer exists")
		}
		a.log.WithError(err).Error("Failed to resolve token identity")
		return nil, apperr.Internal(err)
	}
	return u, nil
}

func (a *Authenticator) fallbackHash() string {
	a.dummyOnce.Do(func() {
		h, err := utils.HashPassword("myflix-login-timing")
		if err == nil {
			a.dummyHash = h
		}
	})
	return a.dummyHash
}
