package services

import (
	"time"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/pkg/utils"
)

// UserInput is the body of registration and of a full profile update.
// The name rules mirror utils.MinUsernameLength and utils.MaxUsernameLength.
type UserInput struct {
	Name     string `json:"Name" validate:"required,min=5,max=64,alphanum"`
	Password string `json:"Password" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Birthday string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// MovieInput is the body of catalog create and replace.
type MovieInput struct {
	Title       string           `json:"Title" validate:"required"`
	Description string           `json:"Description"`
	Director    *models.Director `json:"Director,omitempty"`
	Genre       *models.Genre    `json:"Genre,omitempty"`
	ImagePath   string           `json:"ImagePath,omitempty"`
}

func (in MovieInput) toMovie() *models.Movie {
	return &models.Movie{
		Title:       in.Title,
		Description: in.Description,
		Director:    in.Director,
		Genre:       in.Genre,
		ImagePath:   in.ImagePath,
	}
}

// validate runs the struct tags on in and converts failures to a
// ValidationFailed error carrying one entry per field.
func validate(in any) error {
	verrs := utils.ValidateStruct(in)
	if len(verrs) == 0 {
		return nil
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, apperr.FieldError{Field: v.Field, Message: v.Message})
	}
	return apperr.Validation("Validation failed", fields...)
}

// buildUser validates in and hashes the password.
func buildUser(in UserInput) (*models.User, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	u := &models.User{Name: in.Name, Email: in.Email}
	if in.Birthday != "" {
		// Already checked by the datetime tag.
		b, err := time.Parse(utils.DateLayout, in.Birthday)
		if err != nil {
			return nil, apperr.Validation("Validation failed", apperr.FieldError{Field: "Birthday", Message: err.Error()})
		}
		u.Birthday = &b
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u.Password = hash
	return u, nil
}
