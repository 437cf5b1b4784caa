package db

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client                  *mongo.Client
	ItinerariesCollection   *mongo.Collection
	AnniversariesCollection *mongo.Collection
	LoveNotesCollection     *mongo.Collection
)

// Connect dials MongoDB and binds the three journal collections.
// MONGODB_URI overrides the default local instance.
func Connect(ctx context.Context) error {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	database := client.Database("ourdates")
	ItinerariesCollection = database.Collection("itineraries")
	AnniversariesCollection = database.Collection("anniversaries")
	LoveNotesCollection = database.Collection("lovenotes")
	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(ctx context.Context) {
	if Client != nil {
		_ = Client.Disconnect(ctx)
	}
}
