package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Student mirrors the server's student document, user detail included.
type Student struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	User         string `json:"user"`
	NISN         string `json:"nisn,omitempty"`
	Gender       string `json:"gender"`
	Status       string `json:"status"`
	CurrentClass string `json:"current_class,omitempty"`
	UserDetail   *User  `json:"user_detail,omitempty"`
}

// StudentFilter narrows List results; zero values mean no filter.
type StudentFilter struct {
	Status string
	Class  string
}

// StudentRepository reads and writes student records.
type StudentRepository struct {
	client *Client
}

func NewStudentRepository(c *Client) *StudentRepository {
	return &StudentRepository{client: c}
}

func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) <-chan Result[[]Student] {
	return emit(func() ([]Student, error) {
		query := url.Values{}
		if filter.Status != "" {
			query.Set("status", filter.Status)
		}
		if filter.Class != "" {
			query.Set("class", filter.Class)
		}
		path := "/api/students"
		if encoded := query.Encode(); encoded != "" {
			path += "?" + encoded
		}

		var students []Student
		err := r.client.do(ctx, http.MethodGet, path, nil, &students)
		return students, err
	})
}

func (r *StudentRepository) Get(ctx context.Context, id string) <-chan Result[Student] {
	return emit(func() (Student, error) {
		var student Student
		err := r.client.do(ctx, http.MethodGet, "/api/students/"+url.PathEscape(id), nil, &student)
		return student, err
	})
}

// CreateStudentRequest carries the writable student fields.
type CreateStudentRequest struct {
	User         string `json:"user"`
	StudentID    string `json:"student_id,omitempty"`
	NISN         string `json:"nisn,omitempty"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	Religion     string `json:"religion"`
	CurrentClass string `json:"current_class,omitempty"`
}

func (r *StudentRepository) Create(ctx context.Context, req CreateStudentRequest) <-chan Result[Student] {
	return emit(func() (Student, error) {
		var student Student
		err := r.client.do(ctx, http.MethodPost, "/api/students", req, &student)
		return student, err
	})
}

func (r *StudentRepository) Update(ctx context.Context, id string, patch map[string]interface{}) <-chan Result[Student] {
	return emit(func() (Student, error) {
		var student Student
		err := r.client.do(ctx, http.MethodPut, "/api/students/"+url.PathEscape(id), patch, &student)
		return student, err
	})
}

func (r *StudentRepository) Delete(ctx context.Context, id string) <-chan Result[struct{}] {
	return emit(func() (struct{}, error) {
		err := r.client.do(ctx, http.MethodDelete, "/api/students/"+url.PathEscape(id), nil, nil)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete student %s: %w", id, err)
		}
		return struct{}{}, nil
	})
}
