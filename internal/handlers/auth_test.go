package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, testJWTSecret)

	c, rec := newTestContext(t, http.MethodPost, "/",
		`{"username":"alice","password":"hunter22","password_confirmation":"hunter22"}`, 0)
	if err := handler.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var created struct {
		User struct {
			ID     uint   `json:"id"`
			PfpURL string `json:"pfp_url"`
		} `json:"user"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Token == "" {
		t.Fatal("expected a signed token")
	}
	if created.User.PfpURL == "" {
		t.Fatal("expected a generated avatar url")
	}

	c, rec = newTestContext(t, http.MethodPost, "/",
		`{"username":"alice","password":"hunter22"}`, 0)
	if err := handler.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}
}

func TestRegisterCollectsFieldErrors(t *testing.T) {
	db := newTestDB(t)
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, testJWTSecret)

	// Empty username and mismatched passwords fail together.
	c, _ := newTestContext(t, http.MethodPost, "/",
		`{"username":"","password":"one","password_confirmation":"two"}`, 0)
	err := handler.Register(c)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
	details, ok := appErr.Details.([]fieldError)
	if !ok {
		t.Fatalf("expected collected field errors, got %T", appErr.Details)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(details))
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, testJWTSecret)

	createUser(t, db, "taken")

	c, _ := newTestContext(t, http.MethodPost, "/",
		`{"username":"taken","password":"pw","password_confirmation":"pw"}`, 0)
	err := handler.Register(c)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected bad request for duplicate username, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), nil, testJWTSecret)

	c, _ := newTestContext(t, http.MethodPost, "/",
		`{"username":"ghost","password":"whatever"}`, 0)
	err := handler.Login(c)

	// Unknown user and wrong password are indistinguishable to the caller.
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Status() != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

type staticVerifier struct {
	identity *middleware.ProviderIdentity
	err      error
}

func (v *staticVerifier) Verify(_ context.Context, _ string) (*middleware.ProviderIdentity, error) {
	return v.identity, v.err
}

func TestProviderLoginFindsOrCreates(t *testing.T) {
	db := newTestDB(t)
	verifier := &staticVerifier{identity: &middleware.ProviderIdentity{
		Provider:  "google",
		SubjectID: "sub-123",
		Name:      "Alice",
	}}
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), verifier, testJWTSecret)

	login := func() map[string]json.RawMessage {
		c, rec := newTestContext(t, http.MethodPost, "/", `{"id_token":"opaque"}`, 0)
		if err := handler.ProviderLogin(c); err != nil {
			t.Fatalf("ProviderLogin: %v", err)
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return body
	}

	first := login()
	second := login()

	var firstUser, secondUser struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(first["user"], &firstUser); err != nil {
		t.Fatalf("decode first user: %v", err)
	}
	if err := json.Unmarshal(second["user"], &secondUser); err != nil {
		t.Fatalf("decode second user: %v", err)
	}
	if firstUser.ID != secondUser.ID {
		t.Fatal("second provider login created a new user")
	}
	if firstUser.Username != "google:sub-123" {
		t.Fatalf("username = %q, want provider-derived", firstUser.Username)
	}
}

func TestProviderLoginInvalidToken(t *testing.T) {
	db := newTestDB(t)
	verifier := &staticVerifier{err: errors.New("expired")}
	handler := NewAuthHandler(repositories.NewPostgresUserRepository(db), verifier, testJWTSecret)

	c, _ := newTestContext(t, http.MethodPost, "/", `{"id_token":"bad"}`, 0)
	err := handler.ProviderLogin(c)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Status() != http.StatusUnauthorized {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
