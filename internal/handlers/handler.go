package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/services"
)

// Handler serves the HTTP API on top of the service layer.
type Handler struct {
	auth      *services.Authenticator
	users     *services.UserService
	catalog   *services.CatalogService
	favorites *services.FavoritesManager
	log       logrus.FieldLogger
}

func New(
	auth *services.Authenticator,
	users *services.UserService,
	catalog *services.CatalogService,
	favorites *services.FavoritesManager,
	log logrus.FieldLogger,
) *Handler {
	return &Handler{auth: auth, users: users, catalog: catalog, favorites: favorites, log: log}
}
