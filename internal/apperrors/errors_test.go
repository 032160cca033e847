package apperrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("gone"), http.StatusNotFound},
		{Forbidden("no"), http.StatusForbidden},
		{BadUserInput("bad"), http.StatusBadRequest},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{&Error{Code: "SOMETHING_ELSE"}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.Status(); got != tc.want {
			t.Errorf("%s -> %d, want %d", tc.err.Code, got, tc.want)
		}
	}
}

func TestFromRecord(t *testing.T) {
	err := FromRecord(gorm.ErrRecordNotFound, "Post")
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Code != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	plain := errors.New("connection reset")
	if got := FromRecord(plain, "Post"); got != plain {
		t.Fatalf("unexpected translation of a non-lookup error: %v", got)
	}
}

func TestHTTPErrorHandlerHidesInternals(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("pq: connection refused"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); len(body) == 0 || strings.Contains(body, "connection refused") {
		t.Fatalf("internal detail leaked: %s", body)
	}
}

func TestHTTPErrorHandlerRendersKind(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(NotFound("Post not found"), c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), CodeNotFound) {
		t.Fatalf("body missing error code: %s", rec.Body.String())
	}
}
