package models

import (
	"time"
)

// User is a registered identity. Name is the primary key and is compared
// case-sensitively. FavoriteMovies holds opaque movie ids with set semantics.
type User struct {
	Name     string     `bson:"Name" json:"Name"`
	Password string     `bson:"Password" json:"-"` // Never returned
	Email    string     `bson:"Email" json:"Email"`
	Birthday *time.Time `bson:"Birthday,omitempty" json:"Birthday,omitempty"`

	FavoriteMovies []string `bson:"FavoriteMovies" json:"FavoriteMovies"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasFavorite reports whether movieID is in the favorites set.
func (u *User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

// Normalize replaces a nil favorites list with an empty one so the set always
// serializes as an array.
func (u *User) Normalize() {
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	c.FavoriteMovies = append([]string{}, u.FavoriteMovies...)
	if u.Birthday != nil {
		b := *u.Birthday
		c.Birthday = &b
	}
	return &c
}
