package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/idiarso4/SIM-AUG/internal/middleware"
	"github.com/idiarso4/SIM-AUG/internal/models"
	"github.com/idiarso4/SIM-AUG/internal/utils"
)

type AnnouncementHandler struct {
	announcements *mongo.Collection
	users         *mongo.Collection
	mailer        *utils.Mailer
}

func NewAnnouncementHandler(client *mongo.Client, dbName string, mailer *utils.Mailer) *AnnouncementHandler {
	db := client.Database(dbName)
	return &AnnouncementHandler{
		announcements: db.Collection("announcements"),
		users:         db.Collection("users"),
		mailer:        mailer,
	}
}

func (h *AnnouncementHandler) expand(ctx context.Context, announcements []models.Announcement) error {
	authorIDs := make([]primitive.ObjectID, 0, len(announcements))
	for _, a := range announcements {
		authorIDs = append(authorIDs, a.Author)
	}

	authors, err := fetchUsers(ctx, h.users, authorIDs)
	if err != nil {
		return err
	}

	for i := range announcements {
		if u, ok := authors[announcements[i].Author]; ok {
			announcements[i].AuthorDetail = &u
		}
	}
	return nil
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if audience := r.URL.Query().Get("audience"); audience != "" {
		filter["target_audience"] = bson.M{"$in": []string{audience, string(models.AudienceAll)}}
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		filter["priority"] = priority
	}
	if published := r.URL.Query().Get("published"); published == "true" {
		filter["is_published"] = true
	}

	page, limit := pagination(r)

	total, err := h.announcements.CountDocuments(ctx, filter)
	if err != nil {
		respondInternal(w, err, "Failed to count announcements")
		return
	}

	// Sticky announcements first, then newest.
	cursor, err := h.announcements.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "is_sticky", Value: -1}, {Key: "publish_date", Value: -1}}).
		SetSkip((page-1)*limit).
		SetLimit(limit))
	if err != nil {
		respondInternal(w, err, "Failed to retrieve announcements")
		return
	}
	defer cursor.Close(ctx)

	announcements := []models.Announcement{}
	if err := cursor.All(ctx, &announcements); err != nil {
		respondInternal(w, err, "Error decoding announcements")
		return
	}

	if err := h.expand(ctx, announcements); err != nil {
		respondInternal(w, err, "Failed to expand announcement references")
		return
	}

	respond(w, http.StatusOK, newListPage(announcements, total, page, limit), "")
}

func (h *AnnouncementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var announcement models.Announcement
	if err := h.announcements.FindOne(ctx, bson.M{"_id": id}).Decode(&announcement); err != nil {
		respondMongoError(w, err, "Announcement not found", "Failed to retrieve announcement")
		return
	}

	batch := []models.Announcement{announcement}
	if err := h.expand(ctx, batch); err != nil {
		respondInternal(w, err, "Failed to expand announcement references")
		return
	}

	respond(w, http.StatusOK, batch[0], "")
}

type createAnnouncementRequest struct {
	Title          string              `json:"title" validate:"required,max=200"`
	Content        string              `json:"content" validate:"required"`
	TargetAudience models.Audience     `json:"target_audience" validate:"required,oneof=all students teachers parents staff"`
	Priority       models.Priority     `json:"priority,omitempty"`
	Category       string              `json:"category,omitempty"`
	PublishDate    *time.Time          `json:"publish_date,omitempty"`
	ExpiryDate     *time.Time          `json:"expiry_date,omitempty"`
	EventDate      *time.Time          `json:"event_date,omitempty"`
	Attachments    []models.Attachment `json:"attachments,omitempty"`
	Tags           []string            `json:"tags,omitempty"`
	IsSticky       bool                `json:"is_sticky,omitempty"`
	AllowComments  bool                `json:"allow_comments,omitempty"`
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAnnouncementRequest
	if !decodeBody(w, r, &req) || !validateStruct(w, &req) {
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	category := req.Category
	if category == "" {
		category = "general"
	}

	now := time.Now()
	publishDate := now
	if req.PublishDate != nil {
		publishDate = *req.PublishDate
	}

	announcement := models.Announcement{
		ID:             primitive.NewObjectID(),
		Title:          req.Title,
		Content:        req.Content,
		TargetAudience: req.TargetAudience,
		Priority:       priority,
		Category:       category,
		IsPublished:    false,
		PublishDate:    publishDate,
		ExpiryDate:     req.ExpiryDate,
		EventDate:      req.EventDate,
		Attachments:    req.Attachments,
		Tags:           req.Tags,
		ReadBy:         []models.ReadReceipt{},
		IsSticky:       req.IsSticky,
		AllowComments:  req.AllowComments,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if author, ok := middleware.UserFromContext(r.Context()); ok {
		announcement.Author = author.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.announcements.InsertOne(ctx, announcement); err != nil {
		respondInternal(w, err, "Failed to create announcement")
		return
	}

	respond(w, http.StatusCreated, announcement, "Announcement created successfully")
}

// Publish makes an announcement visible. Urgent ones also go out by mail to
// the target audience.
func (h *AnnouncementHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Announcement
	err := h.announcements.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"is_published": true,
			"publish_date": time.Now(),
			"updated_at":   time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Announcement not found", "Failed to publish announcement")
		return
	}

	if updated.Priority == models.PriorityUrgent {
		go h.notifyAudience(updated)
	}

	respond(w, http.StatusOK, updated, "Announcement published successfully")
}

// notifyAudience mails every active user in the announcement's audience.
// Runs detached from the request; failures are logged by the mailer.
func (h *AnnouncementHandler) notifyAudience(announcement models.Announcement) {
	if h.mailer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	filter := bson.M{"is_active": true}
	switch announcement.TargetAudience {
	case models.AudienceStudents:
		filter["role"] = models.RoleStudent
	case models.AudienceTeachers:
		filter["role"] = models.RoleTeacher
	case models.AudienceParents:
		filter["role"] = models.RoleParent
	case models.AudienceStaff:
		filter["role"] = bson.M{"$in": []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin}}
	}

	cursor, err := h.users.Find(ctx, filter)
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return
	}

	subject := fmt.Sprintf("Urgent announcement: %s", announcement.Title)
	body := fmt.Sprintf("<h3>%s</h3><p>%s</p>", announcement.Title, announcement.Content)
	for _, u := range users {
		if u.Email != "" {
			_ = h.mailer.Send(u.Email, subject, body)
		}
	}
}

// MarkRead records a read receipt once per user. The guarded push keeps the
// receipt list free of duplicates under concurrent reads.
func (h *AnnouncementHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	reader, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.announcements.UpdateOne(ctx,
		bson.M{"_id": id, "read_by.user": bson.M{"$ne": reader.ID}},
		bson.M{"$push": bson.M{"read_by": models.ReadReceipt{
			User:   reader.ID,
			ReadAt: time.Now(),
		}}})
	if err != nil {
		respondInternal(w, err, "Failed to mark announcement as read")
		return
	}
	if result.MatchedCount == 0 {
		// Already read, or the announcement does not exist.
		if err := h.announcements.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			respondError(w, http.StatusNotFound, "Announcement not found")
			return
		}
	}

	respond(w, http.StatusOK, nil, "Announcement marked as read")
}

func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch map[string]interface{}
	if !decodeBody(w, r, &patch) {
		return
	}

	delete(patch, "_id")
	delete(patch, "id")
	delete(patch, "author")
	delete(patch, "read_by")
	delete(patch, "created_at")
	patch["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.Announcement
	err := h.announcements.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		respondMongoError(w, err, "Announcement not found", "Failed to update announcement")
		return
	}

	respond(w, http.StatusOK, updated, "Announcement updated successfully")
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := h.announcements.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondInternal(w, err, "Failed to delete announcement")
		return
	}
	if result.DeletedCount == 0 {
		respondError(w, http.StatusNotFound, "Announcement not found")
		return
	}

	respond(w, http.StatusOK, nil, "Announcement deleted successfully")
}
