package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// User is the subset of the server's user document the client works with.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// AuthRepository handles login, logout and the current session.
type AuthRepository struct {
	client *Client
}

func NewAuthRepository(c *Client) *AuthRepository {
	return &AuthRepository{client: c}
}

// Login authenticates and, on success, persists the session to the
// credential store before the Success result is emitted.
func (r *AuthRepository) Login(ctx context.Context, username, password string) <-chan Result[User] {
	return emit(func() (User, error) {
		var resp loginResponse
		err := r.client.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
			"username": username,
			"password": password,
		}, &resp)
		if err != nil {
			return User{}, err
		}

		var user User
		if err := json.Unmarshal(resp.User, &user); err != nil {
			return User{}, err
		}
		if err := r.client.store.SaveSession(resp.Token, resp.User, user.Role); err != nil {
			return User{}, err
		}
		return user, nil
	})
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates an account. It does not log the new user in.
func (r *AuthRepository) Register(ctx context.Context, req RegisterRequest) <-chan Result[User] {
	return emit(func() (User, error) {
		var user User
		err := r.client.do(ctx, http.MethodPost, "/api/auth/register", req, &user)
		return user, err
	})
}

// Me fetches the authenticated user from the server.
func (r *AuthRepository) Me(ctx context.Context) <-chan Result[User] {
	return emit(func() (User, error) {
		var user User
		err := r.client.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
		return user, err
	})
}

// Logout revokes the token server side and clears the local store. The
// store is cleared even when the remote call fails; a dead server must not
// trap the user in a logged-in state.
func (r *AuthRepository) Logout(ctx context.Context) <-chan Result[struct{}] {
	return emit(func() (struct{}, error) {
		remoteErr := r.client.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
		if err := r.client.store.Clear(); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, remoteErr
	})
}
