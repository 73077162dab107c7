package database

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "myflix"

// ConnectMongo dials the deployment behind mongoURI and pings it before
// returning. The caller owns the client and must Disconnect it.
func ConnectMongo(ctx context.Context, mongoURI string, log logrus.FieldLogger) (*mongo.Client, error) {
	// Atlas clusters can take a while to elect a primary
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	log.Info("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("Connected to MongoDB")
	return client, nil
}

// MongoDatabaseName picks the database to use. An explicit name wins,
// then the path segment of the URI, then the default.
//
//	mongodb://host:27017/films?retryWrites=true -> films
func MongoDatabaseName(mongoURI, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}

	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			return dbPart
		}
	}
	return defaultMongoDatabase
}
