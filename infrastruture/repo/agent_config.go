package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-nav/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AgentConfigRepo handles the persistence of agent configurations.
type AgentConfigRepo struct {
	collection *mongo.Collection
}

// NewAgentConfigRepo creates a new AgentConfigRepo with the given MongoDB client, database name, and collection name.
func NewAgentConfigRepo(client *mongo.Client, dbName, collectionName string) *AgentConfigRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &AgentConfigRepo{
		collection: collection,
	}
}

// EnsureIndexes makes agent names unique.
func (r *AgentConfigRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Save inserts or updates an agent configuration.
func (r *AgentConfigRepo) Save(cfg *dmn.AgentConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	filter := bson.M{"_id": cfg.ID}
	update := bson.M{
		"$set": bson.M{
			"name":      cfg.Name,
			"algorithm": cfg.Algorithm,
			"metric":    cfg.Metric,
			"channel":   cfg.Channel,
			"seed":      cfg.Seed,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"createdAt": cfg.CreatedAt,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dmn.ErrAgentNameConflict
		}
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves an agent configuration by its ID.
func (r *AgentConfigRepo) ByID(id uuid.UUID) (*dmn.AgentConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var cfg dmn.AgentConfig
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cfg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrAgentConfigNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &cfg, nil
}

// List returns up to limit configurations, newest first.
func (r *AgentConfigRepo) List(limit int64) ([]*dmn.AgentConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	configs := make([]*dmn.AgentConfig, 0)
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return configs, nil
}

// Delete removes an agent configuration.
func (r *AgentConfigRepo) Delete(id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	if res.DeletedCount == 0 {
		return dmn.ErrAgentConfigNotFound
	}
	return nil
}
