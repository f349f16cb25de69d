package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/microservices/progress-service/logging"
	"projecthub/microservices/progress-service/models"
)

// MongoActivityRepository stores progress activity in a MongoDB collection.
type MongoActivityRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo dials uri and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}
	return client, nil
}

func NewMongoActivityRepository(client *mongo.Client, database, collection string) *MongoActivityRepository {
	return &MongoActivityRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}
}

// EnsureIndexes creates the (projectId, timestamp desc) index history lookups use.
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "timestamp", Value: -1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create progress activity index: %w", err)
	}
	logging.Logger.Infof("Event ID: ACTIVITY_INDEX_READY, Description: Index on %s ensured", r.collection.Name())
	return nil
}

func (r *MongoActivityRepository) Record(ctx context.Context, activity models.ProgressActivity) error {
	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		return fmt.Errorf("failed to record progress activity: %w", err)
	}
	return nil
}

// ListByProject returns the newest activity first, at most limit entries.
func (r *MongoActivityRepository) ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProgressActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve progress activity: %w", err)
	}
	defer cursor.Close(ctx)

	activities := []models.ProgressActivity{}
	for cursor.Next(ctx) {
		var activity models.ProgressActivity
		if err := cursor.Decode(&activity); err != nil {
			return nil, fmt.Errorf("failed to decode progress activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return activities, nil
}

func (r *MongoActivityRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
