package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/mfgconsole/internal/domain/models"
)

const kpiSnapshotCollection = "kpi_snapshots"

// Repository defines the interface for KPI snapshot storage.
type Repository interface {
	SaveKPISnapshot(ctx context.Context, snapshot models.KPISnapshot) error
	RecentKPISnapshots(ctx context.Context, limit int64) ([]models.KPISnapshot, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: kpiSnapshotCollection,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveKPISnapshot stores one snapshot document.
func (r *MongoDBRepository) SaveKPISnapshot(ctx context.Context, snapshot models.KPISnapshot) error {
	if _, err := r.collection().InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert kpi snapshot: %w", err)
	}
	return nil
}

// RecentKPISnapshots returns the newest snapshots first.
func (r *MongoDBRepository) RecentKPISnapshots(ctx context.Context, limit int64) ([]models.KPISnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query kpi snapshots: %w", err)
	}

	var snapshots []models.KPISnapshot
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to decode kpi snapshots: %w", err)
	}
	return snapshots, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
