package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/idiarso4/SIM-AUG/internal/models"
)

// pathID parses the {id} route variable; responds 400 on malformed IDs.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// pagination reads page/limit query parameters with the defaults the API
// has always used.
func pagination(r *http.Request) (page, limit int64) {
	page, limit = 1, 10
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	return page, limit
}

type listPage struct {
	Items       interface{} `json:"items"`
	Total       int64       `json:"total"`
	TotalPages  int64       `json:"total_pages"`
	CurrentPage int64       `json:"current_page"`
}

func newListPage(items interface{}, total, page, limit int64) listPage {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return listPage{Items: items, Total: total, TotalPages: pages, CurrentPage: page}
}

// The fetch* helpers are the read-time equivalent of mongoose populate: one
// $in query per referenced collection, results keyed by ID.

func fetchUsers(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []models.User
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func fetchStudents(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Student, error) {
	out := make(map[primitive.ObjectID]models.Student, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []models.Student
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func fetchTeachers(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Teacher, error) {
	out := make(map[primitive.ObjectID]models.Teacher, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []models.Teacher
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func fetchClasses(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Class, error) {
	out := make(map[primitive.ObjectID]models.Class, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []models.Class
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

func fetchSubjects(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Subject, error) {
	out := make(map[primitive.ObjectID]models.Subject, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []models.Subject
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}
