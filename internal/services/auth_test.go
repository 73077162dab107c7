package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
)

func TestRegister_RejectsInvalidInputBeforeStore(t *testing.T) {
	tests := []struct {
		name  string
		in    UserInput
		field string
	}{
		{"short name", UserInput{Name: "al1", Password: "p@ss", Email: "a@x.com"}, "Name"},
		{"non alphanumeric name", UserInput{Name: "alice_01", Password: "p@ss", Email: "a@x.com"}, "Name"},
		{"empty password", UserInput{Name: "alice01", Email: "a@x.com"}, "Password"},
		{"bad email", UserInput{Name: "alice01", Password: "p@ss", Email: "alice"}, "Email"},
		{"bad birthday", UserInput{Name: "alice01", Password: "p@ss", Email: "a@x.com", Birthday: "01/04/1990"}, "Birthday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.auth.Register(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			require.NotEmpty(t, appErr.Fields)
			assert.Equal(t, tt.field, appErr.Fields[0].Field)

			assert.Zero(t, f.store.creates.Load())
		})
	}
}

func TestRegister_HashesAndStores(t *testing.T) {
	f := newFixture(t)
	in := alice()
	in.Birthday = "1990-04-01"

	u, err := f.auth.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "alice01", u.Name)
	assert.NotEqual(t, "p@ss", u.Password)
	assert.Contains(t, u.Password, "$argon2id$")
	require.NotNil(t, u.Birthday)
	assert.Equal(t, time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC), *u.Birthday)
	assert.Equal(t, []string{}, u.FavoriteMovies)
}

func TestRegister_DuplicateNameConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, alice())
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, alice())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "alice01 already exists")

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, alice())
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "alice01", "p@ss")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice01", res.User.Name)

	resolved, err := f.auth.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice01", resolved.Name)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, alice())
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, "alice01", "wrong")
	_, unknownName := f.auth.Login(ctx, "nobody01", "p@ss")
	_, empty := f.auth.Login(ctx, "", "")

	for _, err := range []error{wrongPassword, unknownName, empty} {
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
	}
	assert.Equal(t, wrongPassword.Error(), unknownName.Error())
}

func TestLogin_NameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, alice())
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, "ALICE01", "p@ss")
	assert.True(t, apperr.Is(err, apperr.KindInvalidCredentials))
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, alice())
	require.NoError(t, err)
	res, err := f.auth.Login(ctx, "alice01", "p@ss")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.auth.Resolve(ctx, "garbage")
		assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	})

	t.Run("expired token", func(t *testing.T) {
		saved := *f.clock
		defer func() { *f.clock = saved }()

		*f.clock = res.ExpiresAt.Add(time.Second)
		_, err := f.auth.Resolve(ctx, res.Token)
		assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	})

	t.Run("deleted identity", func(t *testing.T) {
		require.NoError(t, f.users.Delete(ctx, "alice01"))

		_, err := f.auth.Resolve(ctx, res.Token)
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
	})
}
