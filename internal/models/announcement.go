package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceStudents Audience = "students"
	AudienceTeachers Audience = "teachers"
	AudienceParents  Audience = "parents"
	AudienceStaff    Audience = "staff"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ReadReceipt struct {
	User   primitive.ObjectID `json:"user" bson:"user"`
	ReadAt time.Time          `json:"read_at" bson:"read_at"`
}

type Announcement struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	Content        string             `json:"content" bson:"content"`
	Author         primitive.ObjectID `json:"author" bson:"author"`
	TargetAudience Audience           `json:"target_audience" bson:"target_audience"`
	Priority       Priority           `json:"priority" bson:"priority"`
	Category       string             `json:"category" bson:"category"` // general, academic, event, holiday, exam, fee, admission
	IsPublished    bool               `json:"is_published" bson:"is_published"`
	PublishDate    time.Time          `json:"publish_date" bson:"publish_date"`
	ExpiryDate     *time.Time         `json:"expiry_date,omitempty" bson:"expiry_date,omitempty"`
	EventDate      *time.Time         `json:"event_date,omitempty" bson:"event_date,omitempty"`
	Attachments    []Attachment       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Tags           []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	ReadBy         []ReadReceipt      `json:"read_by" bson:"read_by"`
	IsSticky       bool               `json:"is_sticky" bson:"is_sticky"`
	AllowComments  bool               `json:"allow_comments" bson:"allow_comments"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`

	// Expanded reference, attached on read only.
	AuthorDetail *User `json:"author_detail,omitempty" bson:"-"`
}

func (a Announcement) ReadCount() int {
	return len(a.ReadBy)
}

func (a Announcement) IsExpired() bool {
	return a.ExpiryDate != nil && a.ExpiryDate.Before(time.Now())
}

func (a Announcement) MarshalJSON() ([]byte, error) {
	type alias Announcement
	return json.Marshal(struct {
		alias
		ReadCount int  `json:"read_count"`
		IsExpired bool `json:"is_expired"`
	}{
		alias:     alias(a),
		ReadCount: a.ReadCount(),
		IsExpired: a.IsExpired(),
	})
}
