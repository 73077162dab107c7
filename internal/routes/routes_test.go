package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/myflix-backend/internal/handlers"
	"github.com/AnshRaj112/myflix-backend/internal/middleware"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/services"
	"github.com/AnshRaj112/myflix-backend/internal/store/memstore"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newAPI(t *testing.T, loginLimit int) *apiClient {
	t.Helper()

	log, _ := test.NewNullLogger()
	s := memstore.New()
	auth := services.NewAuthenticator(s, services.NewTokenIssuer("test-secret", time.Hour), log)
	h := handlers.New(
		auth,
		services.NewUserService(s, log),
		services.NewCatalogService(s, log),
		services.NewFavoritesManager(s, s, log),
		log,
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	SetupRoutes(r, h,
		middleware.RequireAuth(auth, log),
		middleware.LoginRateLimit(services.NewMemoryThrottle(loginLimit, time.Minute), log),
	)
	return &apiClient{t: t, router: r}
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (c *apiClient) registerAndLogin(name string) {
	c.t.Helper()

	rec := c.do(http.MethodPost, "/users", map[string]string{"Name": name, "Password": "p@ss", "Email": "a@x.com"})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/login", map[string]string{"Name": name, "Password": "p@ss"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	c.token = decode[handlers.LoginResponse](c.t, rec).Token
	require.NotEmpty(c.t, c.token)
}

func TestFavoritesScenario(t *testing.T) {
	api := newAPI(t, 100)

	rec := api.do(http.MethodPost, "/users", map[string]string{"Name": "alice01", "Password": "p@ss", "Email": "a@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Password")
	assert.NotContains(t, rec.Body.String(), "argon2")

	rec = api.do(http.MethodPost, "/login", map[string]string{"Name": "alice01", "Password": "p@ss"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[handlers.LoginResponse](t, rec)
	assert.Equal(t, "alice01", login.User.Name)
	api.token = login.Token

	rec = api.do(http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = api.do(http.MethodPatch, "/users/alice01/movies/m1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m1"}, decode[models.User](t, rec).FavoriteMovies)

	rec = api.do(http.MethodPatch, "/users/alice01/movies/m1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m1"}, decode[models.User](t, rec).FavoriteMovies)

	rec = api.do(http.MethodDelete, "/users/alice01/movies/m1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.User](t, rec).FavoriteMovies)

	rec = api.do(http.MethodDelete, "/users/alice01/movies/m1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.User](t, rec).FavoriteMovies)
	assert.Contains(t, rec.Body.String(), `"FavoriteMovies":[]`)
}

func TestDuplicateMovieLeavesCatalogUnchanged(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	movie := map[string]any{
		"Title":       "Inception",
		"Description": "Dreams within dreams",
		"Director":    map[string]string{"Name": "Christopher Nolan", "Bio": "British-American filmmaker"},
		"Genre":       map[string]string{"Name": "Thriller"},
	}

	rec := api.do(http.MethodPost, "/movies", movie)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Movie](t, rec)
	assert.NotEmpty(t, created.ID)

	rec = api.do(http.MethodPost, "/movies", movie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Inception already exists", decode[handlers.ErrorResponse](t, rec).Message)

	rec = api.do(http.MethodGet, "/movies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Movie](t, rec), 1)
}

func TestCatalogRoutes(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	rec := api.do(http.MethodPost, "/movies", map[string]any{
		"Title":    "The Matrix",
		"Director": map[string]string{"Name": "Lana Wachowski"},
		"Genre":    map[string]string{"Name": "Action", "Description": "Fights"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/movies/"+url.PathEscape("The Matrix"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Matrix", decode[models.Movie](t, rec).Title)

	rec = api.do(http.MethodGet, "/movies/director/"+url.PathEscape("Lana Wachowski"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lana Wachowski", decode[models.Director](t, rec).Name)

	rec = api.do(http.MethodGet, "/movies/genre/Action", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fights", decode[models.Genre](t, rec).Description)

	rec = api.do(http.MethodGet, "/movies/genre/Comedy", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPut, "/movies/"+url.PathEscape("The Matrix"), map[string]any{"Title": "The Matrix", "Description": "Red pill"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Red pill", decode[models.Movie](t, rec).Description)

	rec = api.do(http.MethodPost, "/movies", map[string]any{"Description": "untitled"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodDelete, "/movies/"+url.PathEscape("The Matrix"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The Matrix was deleted.", decode[handlers.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodDelete, "/movies/"+url.PathEscape("The Matrix"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTitlesWithPercentSignsAreNotDecodedTwice(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	for _, title := range []string{"Fifty%50", "FiftyP"} {
		rec := api.do(http.MethodPost, "/movies", map[string]any{"Title": title})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/movies/"+url.PathEscape("Fifty%50"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fifty%50", decode[models.Movie](t, rec).Title)

	rec = api.do(http.MethodDelete, "/movies/"+url.PathEscape("Fifty%50"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fifty%50 was deleted.", decode[handlers.MessageResponse](t, rec).Message)

	rec = api.do(http.MethodGet, "/movies/FiftyP", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodGet, "/movies/"+url.PathEscape("Fifty%50"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEscapedSlashInTitle(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	rec := api.do(http.MethodPost, "/movies", map[string]any{"Title": "AC/DC Live"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/movies/"+url.PathEscape("AC/DC Live"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "AC/DC Live", decode[models.Movie](t, rec).Title)
}

func TestDeletedMovieStaysInFavorites(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	rec := api.do(http.MethodPost, "/movies", map[string]any{"Title": "Alien"})
	require.Equal(t, http.StatusCreated, rec.Code)
	alien := decode[models.Movie](t, rec)

	rec = api.do(http.MethodPatch, "/users/alice01/movies/"+alien.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodDelete, "/movies/Alien", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/users/alice01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{alien.ID}, decode[models.User](t, rec).FavoriteMovies)

	rec = api.do(http.MethodGet, "/users/alice01/movies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]services.FavoriteEntry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, alien.ID, entries[0].MovieID)
	assert.False(t, entries[0].Resolved)
}

func TestUserRoutes(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	rec := api.do(http.MethodPost, "/users", map[string]string{"Name": "alice01", "Password": "x", "Email": "a@x.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/users", map[string]string{"Name": "bob", "Password": "", "Email": "nope"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[handlers.ErrorResponse](t, rec)
	assert.False(t, body.Success)
	assert.Len(t, body.Errors, 3)

	rec = api.do(http.MethodPost, "/users", `{"Name":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 1)

	rec = api.do(http.MethodGet, "/users/nobody01", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodPut, "/users/alice01", map[string]string{
		"Name": "alice01", "Password": "n3w", "Email": "new@x.com", "Birthday": "1990-04-01",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.User](t, rec)
	assert.Equal(t, "new@x.com", updated.Email)
	require.NotNil(t, updated.Birthday)

	rec = api.do(http.MethodPut, "/users/nobody01", map[string]string{"Name": "nobody01", "Password": "x", "Email": "n@x.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Legacy aliases
	rec = api.do(http.MethodPatch, "/users/alice01/Movies/m2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m2"}, decode[models.User](t, rec).FavoriteMovies)
	rec = api.do(http.MethodPost, "/users/alice01/Movies/m2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.User](t, rec).FavoriteMovies)

	rec = api.do(http.MethodPatch, "/users/nobody01/movies/m1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodDelete, "/users/alice01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice01 was deleted.", decode[handlers.MessageResponse](t, rec).Message)

	// The token now names an identity that no longer exists.
	rec = api.do(http.MethodDelete, "/users/alice01", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteMissingUserIsBadRequest(t *testing.T) {
	api := newAPI(t, 100)
	api.registerAndLogin("alice01")

	rec := api.do(http.MethodDelete, "/users/nobody01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "nobody01 was not found", decode[handlers.ErrorResponse](t, rec).Message)
}

func TestAccessGuard(t *testing.T) {
	api := newAPI(t, 100)

	for _, path := range []string{"/", "/users", "/movies", "/movies/Alien", "/users/alice01"} {
		rec := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	api.token = "not-a-token"
	rec := api.do(http.MethodGet, "/movies", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	api.token = ""
	rec = api.do(http.MethodGet, "/documentation", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/movies/director/{name}")

	rec = api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	api.registerAndLogin("alice01")
	rec = api.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to myFlix!", rec.Body.String())
}

func TestLogin(t *testing.T) {
	api := newAPI(t, 100)
	rec := api.do(http.MethodPost, "/users", map[string]string{"Name": "alice01", "Password": "p@ss", "Email": "a@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/login?Name=alice01&Password="+url.QueryEscape("p@ss"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[handlers.LoginResponse](t, rec).Token)

	// A chunked request with no body falls back to the query string.
	req := httptest.NewRequest(http.MethodPost, "/login?Name=alice01&Password="+url.QueryEscape("p@ss"), strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodPost, "/login", "{not json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	wrong := api.do(http.MethodPost, "/login", map[string]string{"Name": "alice01", "Password": "nope"})
	unknown := api.do(http.MethodPost, "/login", map[string]string{"Name": "nobody01", "Password": "p@ss"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestLoginIsThrottled(t *testing.T) {
	api := newAPI(t, 2)

	for i := 0; i < 2; i++ {
		rec := api.do(http.MethodPost, "/login", map[string]string{"Name": "nobody01", "Password": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := api.do(http.MethodPost, "/login", map[string]string{"Name": "nobody01", "Password": "x"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Registration is not throttled.
	rec = api.do(http.MethodPost, "/users", map[string]string{"Name": "alice01", "Password": "p@ss", "Email": "a@x.com"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
