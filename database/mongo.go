package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/models"
)

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &Mongo{Client: client, DB: client.Database(dbName)}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

func (m *Mongo) Users() *mongo.Collection    { return m.DB.Collection("users") }
func (m *Mongo) Products() *mongo.Collection { return m.DB.Collection("products") }
func (m *Mongo) Orders() *mongo.Collection   { return m.DB.Collection("orders") }

// FindUserByID backs identity resolution after token verification.
func (m *Mongo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := m.Users().FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Blacklist stores logged-out tokens until they expire.
func (m *Mongo) Blacklist() *mongo.Collection { return m.DB.Collection("blacklist_tokens") }

// IsBlacklisted reports whether the token was revoked by a logout.
func (m *Mongo) IsBlacklisted(ctx context.Context, token string) bool {
	err := m.Blacklist().FindOne(ctx, bson.M{"token": token}).Err()
	return err == nil
}

// BlacklistToken revokes a token until its expiry timestamp.
func (m *Mongo) BlacklistToken(ctx context.Context, token string, exp int64) error {
	_, err := m.Blacklist().InsertOne(ctx, bson.M{"token": token, "exp": exp})
	return err
}
