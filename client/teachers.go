package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Teacher mirrors the server's teacher document, user detail included.
type Teacher struct {
	ID             string   `json:"id"`
	TeacherID      string   `json:"teacher_id"`
	User           string   `json:"user"`
	EmployeeNumber string   `json:"employee_number,omitempty"`
	Subjects       []string `json:"subjects"`
	Classes        []string `json:"classes"`
	Qualification  string   `json:"qualification"`
	IsActive       bool     `json:"is_active"`
	UserDetail     *User    `json:"user_detail,omitempty"`
}

// TeacherRepository reads and writes teacher records.
type TeacherRepository struct {
	client *Client
}

func NewTeacherRepository(c *Client) *TeacherRepository {
	return &TeacherRepository{client: c}
}

func (r *TeacherRepository) List(ctx context.Context) <-chan Result[[]Teacher] {
	return emit(func() ([]Teacher, error) {
		var teachers []Teacher
		err := r.client.do(ctx, http.MethodGet, "/api/teachers", nil, &teachers)
		return teachers, err
	})
}

func (r *TeacherRepository) Get(ctx context.Context, id string) <-chan Result[Teacher] {
	return emit(func() (Teacher, error) {
		var teacher Teacher
		err := r.client.do(ctx, http.MethodGet, "/api/teachers/"+url.PathEscape(id), nil, &teacher)
		return teacher, err
	})
}

// CreateTeacherRequest carries the writable teacher fields.
type CreateTeacherRequest struct {
	User           string   `json:"user"`
	TeacherID      string   `json:"teacher_id,omitempty"`
	EmployeeNumber string   `json:"employee_number,omitempty"`
	Subjects       []string `json:"subjects,omitempty"`
	Classes        []string `json:"classes,omitempty"`
	DateOfHire     string   `json:"date_of_hire"`
	Qualification  string   `json:"qualification"`
}

func (r *TeacherRepository) Create(ctx context.Context, req CreateTeacherRequest) <-chan Result[Teacher] {
	return emit(func() (Teacher, error) {
		var teacher Teacher
		err := r.client.do(ctx, http.MethodPost, "/api/teachers", req, &teacher)
		return teacher, err
	})
}

func (r *TeacherRepository) Update(ctx context.Context, id string, patch map[string]interface{}) <-chan Result[Teacher] {
	return emit(func() (Teacher, error) {
		var teacher Teacher
		err := r.client.do(ctx, http.MethodPut, "/api/teachers/"+url.PathEscape(id), patch, &teacher)
		return teacher, err
	})
}

func (r *TeacherRepository) Delete(ctx context.Context, id string) <-chan Result[struct{}] {
	return emit(func() (struct{}, error) {
		err := r.client.do(ctx, http.MethodDelete, "/api/teachers/"+url.PathEscape(id), nil, nil)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete teacher %s: %w", id, err)
		}
		return struct{}{}, nil
	})
}
