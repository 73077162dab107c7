package models

// Director of a movie.
type Director struct {
	Name string `bson:"Name" json:"Name" validate:"required"`
	Bio  string `bson:"Bio,omitempty" json:"Bio,omitempty"`
}

// Genre of a movie.
type Genre struct {
	Name        string `bson:"Name" json:"Name" validate:"required"`
	Description string `bson:"Description,omitempty" json:"Description,omitempty"`
}

// Movie is a catalog entry keyed by Title. ID is the opaque identifier users
// store in their favorites.
type Movie struct {
	ID          string    `bson:"-" json:"_id"`
	Title       string    `bson:"Title" json:"Title"`
	Description string    `bson:"Description" json:"Description"`
	Director    *Director `bson:"Director,omitempty" json:"Director,omitempty"`
	Genre       *Genre    `bson:"Genre,omitempty" json:"Genre,omitempty"`
	ImagePath   string    `bson:"ImagePath,omitempty" json:"ImagePath,omitempty"`
}

// Clone returns a deep copy of m.
func (m *Movie) Clone() *Movie {
	c := *m
	if m.Director != nil {
		d := *m.Director
		c.Director = &d
	}
	if m.Genre != nil {
		g := *m.Genre
		c.Genre = &g
	}
	return &c
}
