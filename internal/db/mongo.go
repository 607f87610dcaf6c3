package db

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type NewMongoClientParams struct {
	URI            string
	ConnectTimeout time.Duration
}

// NewMongoClient connects to the mongo deployment and verifies connectivity
// with a ping. The returned client is a long-lived handle, closed by the
// server on shutdown.
func NewMongoClient(ctx context.Context, params NewMongoClientParams) (*mongo.Client, error) {
	if params.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}
	if params.ConnectTimeout <= 0 {
		params.ConnectTimeout = 5 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, params.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(params.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		if dcErr := client.Disconnect(context.Background()); dcErr != nil {
			log.Errorf("disconnect mongo client after failed ping: %s", dcErr)
		}
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Debugln("mongo connection established")
	return client, nil
}
