package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextSequence atomically increments a named counter in the counters
// collection and returns the new value. Used for human-readable
// year-prefixed identifiers.
func NextSequence(ctx context.Context, db *mongo.Database, name string) (int, error) {
	var counter struct {
		Value int `bson:"value"`
	}
	err := db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// NextStudentID yields identifiers like "20260001".
func NextStudentID(ctx context.Context, db *mongo.Database) (string, error) {
	year := time.Now().Year()
	seq, err := NextSequence(ctx, db, fmt.Sprintf("students:%d", year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d%04d", year, seq), nil
}

// NextTeacherID yields identifiers like "T20260001".
func NextTeacherID(ctx context.Context, db *mongo.Database) (string, error) {
	year := time.Now().Year()
	seq, err := NextSequence(ctx, db, fmt.Sprintf("teachers:%d", year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("T%d%04d", year, seq), nil
}
