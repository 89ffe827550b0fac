package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/forest-guardian/forest-guardian-api/domain"
	"github.com/forest-guardian/forest-guardian-api/service/i"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMissionNotFound is returned when no mission matches the requested ID.
var ErrMissionNotFound = errors.New("mission not found")

// MissionRepo persists finished mission records in MongoDB.
type MissionRepo struct {
	collection *mongo.Collection
}

// NewMissionRepo creates a MissionRepo on the given database and collection,
// ensuring the indexes the query paths rely on.
func NewMissionRepo(client *mongo.Client, dbName, collectionName string) (*MissionRepo, error) {
	collection := client.Database(dbName).Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "geoZone", Value: 1}}},
		{Keys: bson.D{{Key: "kpis.survivalRate", Value: -1}}},
	})
	if err != nil {
		return nil, errors.New("creating mission indexes: " + err.Error())
	}

	return &MissionRepo{collection: collection}, nil
}

// Save stores a finished mission record.
func (m *MissionRepo) Save(ctx context.Context, mission *dmn.Mission) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if _, err := m.collection.InsertOne(ctx, mission); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByID retrieves one mission by its mission ID.
func (m *MissionRepo) ByID(ctx context.Context, id string) (*dmn.Mission, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var mission dmn.Mission
	if err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&mission); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrMissionNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &mission, nil
}

// Recent returns up to limit missions, newest first.
func (m *MissionRepo) Recent(ctx context.Context, limit int) ([]dmn.Mission, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer func() { _ = cursor.Close(ctx) }()

	var missions []dmn.Mission
	if err := cursor.All(ctx, &missions); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return missions, nil
}

// Statistics aggregates success counts and averages over all missions.
func (m *MissionRepo) Statistics(ctx context.Context) (*i.MissionStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalMissions", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "successes", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$kpis.succeeded", 1, 0}},
			}}}},
			{Key: "avgSurvivalRate", Value: bson.D{{Key: "$avg", Value: "$kpis.survivalRate"}}},
			{Key: "avgSteps", Value: bson.D{{Key: "$avg", Value: "$kpis.steps"}}},
		}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []i.MissionStatistics
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	if len(results) == 0 {
		return &i.MissionStatistics{}, nil
	}
	return &results[0], nil
}
