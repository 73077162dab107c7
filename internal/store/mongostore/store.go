// Package mongostore implements the store on MongoDB. Users and movies live in
// two collections; favorites are mutated with $addToSet / $pull in a single
// findOneAndUpdate so concurrent callers never lose an update.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

const (
	UsersCollection  = "users"
	MoviesCollection = "movies"
)

// movieDocument is the stored shape of a movie; the ObjectID doubles as the
// favorites identifier.
type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"Title"`
	Description string             `bson:"Description"`
	Director    *models.Director   `bson:"Director,omitempty"`
	Genre       *models.Genre      `bson:"Genre,omitempty"`
	ImagePath   string             `bson:"ImagePath,omitempty"`
}

func (d *movieDocument) toModel() *models.Movie {
	return &models.Movie{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Director:    d.Director,
		Genre:       d.Genre,
		ImagePath:   d.ImagePath,
	}
}

func fromModel(m *models.Movie) movieDocument {
	return movieDocument{
		Title:       m.Title,
		Description: m.Description,
		Director:    m.Director,
		Genre:       m.Genre,
		ImagePath:   m.ImagePath,
	}
}

type Store struct {
	client *mongo.Client
	users  *mongo.Collection
	movies *mongo.Collection
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// New wraps an already connected database. Close disconnects client when it
// is non-nil.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client: client,
		users:  db.Collection(UsersCollection),
		movies: db.Collection(MoviesCollection),
		now:    time.Now,
	}
}

// EnsureIndexes creates the unique keys the store relies on for conflict
// detection. Called on startup from main after Mongo has connected.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "Name", Value: 1}},
		Options: options.Index().SetName("uniq_name").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	movieIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "Title", Value: 1}},
			Options: options.Index().SetName("uniq_title").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "Director.Name", Value: 1}},
			Options: options.Index().SetName("idx_director_name"),
		},
		{
			Keys:    bson.D{{Key: "Genre.Name", Value: 1}},
			Options: options.Index().SetName("idx_genre_name"),
		},
	}
	if _, err := s.movies.Indexes().CreateMany(ctx, movieIndexes); err != nil {
		return fmt.Errorf("movies index: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	c := u.Clone()
	c.Normalize()
	now := s.now().UTC().Truncate(time.Millisecond)
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err := s.users.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return c, nil
}

func (s *Store) GetUser(ctx context.Context, name string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"Name": name}).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	u.Normalize()
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "Name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

func (s *Store) ReplaceUser(ctx context.Context, name string, u *models.User) (*models.User, error) {
	update := bson.M{
		"$set": bson.M{
			"Name":       u.Name,
			"Password":   u.Password,
			"Email":      u.Email,
			"updated_at": s.now().UTC().Truncate(time.Millisecond),
		},
	}
	if u.Birthday != nil {
		update["$set"].(bson.M)["Birthday"] = u.Birthday.UTC()
	} else {
		update["$unset"] = bson.M{"Birthday": ""}
	}

	return s.findOneAndUpdateUser(ctx, name, update)
}

func (s *Store) DeleteUser(ctx context.Context, name string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"Name": name})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddFavorite(ctx context.Context, name, movieID string) (*models.User, error) {
	return s.findOneAndUpdateUser(ctx, name, bson.M{
		"$addToSet": bson.M{"FavoriteMovies": movieID},
	})
}

func (s *Store) RemoveFavorite(ctx context.Context, name, movieID string) (*models.User, error) {
	return s.findOneAndUpdateUser(ctx, name, bson.M{
		"$pull": bson.M{"FavoriteMovies": movieID},
	})
}

func (s *Store) findOneAndUpdateUser(ctx context.Context, name string, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"Name": name}, update, opts).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	u.Normalize()
	return &u, nil
}

func (s *Store) CreateMovie(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	doc := fromModel(m)
	doc.ID = primitive.NewObjectID()

	if _, err := s.movies.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (s *Store) GetMovie(ctx context.Context, title string) (*models.Movie, error) {
	return s.findMovie(ctx, bson.M{"Title": title})
}

func (s *Store) GetMovieByID(ctx context.Context, id string) (*models.Movie, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an id this store could have issued.
		return nil, store.ErrNotFound
	}
	return s.findMovie(ctx, bson.M{"_id": oid})
}

func (s *Store) FindMovieByDirector(ctx context.Context, name string) (*models.Movie, error) {
	return s.findMovie(ctx, bson.M{"Director.Name": name})
}

func (s *Store) FindMovieByGenre(ctx context.Context, name string) (*models.Movie, error) {
	return s.findMovie(ctx, bson.M{"Genre.Name": name})
}

func (s *Store) findMovie(ctx context.Context, filter bson.M) (*models.Movie, error) {
	var doc movieDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "Title", Value: 1}})
	if err := s.movies.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toModel(), nil
}

func (s *Store) ListMovies(ctx context.Context) ([]models.Movie, error) {
	cur, err := s.movies.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "Title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	movies := []models.Movie{}
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		movies = append(movies, *doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *Store) ReplaceMovie(ctx context.Context, title string, m *models.Movie) (*models.Movie, error) {
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var doc movieDocument
	err := s.movies.FindOneAndReplace(ctx, bson.M{"Title": title}, fromModel(m), opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrConflict
		}
		return nil, mapErr(err)
	}
	return doc.toModel(), nil
}

func (s *Store) DeleteMovie(ctx context.Context, title string) error {
	res, err := s.movies.DeleteOne(ctx, bson.M{"Title": title})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrConflict
	default:
		return err
	}
}
