package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ConnectPostgres opens a pooled connection to PostgreSQL and checks it is
// reachable. Table creation is left to the store.
func ConnectPostgres(ctx context.Context, postgresURI string, log logrus.FieldLogger) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("Connected to PostgreSQL")
	return db, nil
}
