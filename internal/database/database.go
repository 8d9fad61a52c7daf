package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongoDB establishes and pings a client connection.
func ConnectMongoDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the unique and compound indexes the handlers rely
// on. Duplicate-key enforcement for attendance lives here, not in handler
// code.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	sparse := options.Index().SetUnique(true).SetSparse(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"students": {
			{Keys: bson.D{{Key: "student_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "nisn", Value: 1}}, Options: sparse},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		"teachers": {
			{Keys: bson.D{{Key: "teacher_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "employee_number", Value: 1}}, Options: sparse},
		},
		"classes": {
			{Keys: bson.D{{Key: "class_name", Value: 1}}, Options: unique},
		},
		"subjects": {
			{Keys: bson.D{{Key: "subject_code", Value: 1}}, Options: unique},
		},
		"grades": {
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "subject", Value: 1}, {Key: "academic_year", Value: 1}, {Key: "semester", Value: 1}}},
		},
		"attendance": {
			// One record per student per day per subject.
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "date", Value: 1}, {Key: "subject", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "class", Value: 1}, {Key: "date", Value: 1}}},
		},
		"assignments": {
			{Keys: bson.D{{Key: "teacher", Value: 1}, {Key: "due_date", Value: -1}}},
			{Keys: bson.D{{Key: "class", Value: 1}, {Key: "due_date", Value: -1}}},
		},
		"cbts": {
			{Keys: bson.D{{Key: "teacher", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "class", Value: 1}, {Key: "date", Value: 1}}},
		},
		"permissions": {
			{Keys: bson.D{{Key: "student", Value: 1}, {Key: "start_date", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"announcements": {
			{Keys: bson.D{{Key: "target_audience", Value: 1}, {Key: "is_published", Value: 1}, {Key: "publish_date", Value: -1}}},
		},
		"lesson_plans": {
			{Keys: bson.D{{Key: "teacher", Value: 1}, {Key: "date", Value: 1}}},
		},
		"duty_teachers": {
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "shift", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
