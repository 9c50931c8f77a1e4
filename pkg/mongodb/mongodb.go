// Package mongodb manages the shared MongoDB connection used for emission
// reference data.
//
//	if err := mongodb.Connect(); err != nil { ... }
//	coll := mongodb.Collection("emission_factors")
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/shashiranjanraj/lastbite/config"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
)

// Client is the shared handle, nil until Connect succeeds.
var Client *mongo.Client

// Connect establishes the MongoDB connection. Call once at startup. A failed
// connection is not fatal; callers must treat a nil Client as "no reference
// data available".
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	uri := config.MongoURI()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("mongodb: connect %s: %w", uri, err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping: %w", err)
	}

	Client = client
	logger.Info("mongodb: connected", "uri", uri, "db", config.MongoDB())
	return nil
}

// Database returns the configured application database, or nil when not
// connected.
func Database() *mongo.Database {
	if Client == nil {
		return nil
	}
	return Client.Database(config.MongoDB())
}

// Collection returns a collection handle from the application database, or
// nil when not connected.
func Collection(name string) *mongo.Collection {
	db := Database()
	if db == nil {
		return nil
	}
	return db.Collection(name)
}

// Close disconnects the client.
func Close() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = Client.Disconnect(ctx)
	Client = nil
}
