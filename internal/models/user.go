package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleTeacher    UserRole = "teacher"
	RoleStudent    UserRole = "student"
	RoleParent     UserRole = "parent"
)

func ValidRole(r UserRole) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username    string             `json:"username" bson:"username"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
	Role        UserRole           `json:"role" bson:"role"`
	FirstName   string             `json:"first_name" bson:"first_name"`
	LastName    string             `json:"last_name" bson:"last_name"`
	PhoneNumber string             `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
	LastLogin   *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// FullName is the display name used by reference expansion.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
