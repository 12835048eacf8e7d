package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Login successful", map[string]any{"accessToken": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Status != StatusSuccess || env.Message != "Login successful" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Data["accessToken"] != "abc" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestFailEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Fail(rec, http.StatusUnauthorized, "Login failed", "wrong or invalid credentials")

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Status != StatusFail {
		t.Fatalf("unexpected status tag: %q", env.Status)
	}
	if env.Data["error"] != "wrong or invalid credentials" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestSuccess_NilDataIsObject(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, "Logout successful", nil)

	if !strings.Contains(rec.Body.String(), `"data":{}`) {
		t.Fatalf("expected empty data object, got %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Username string `json:"username"`
	}

	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1<<10, &p); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if p.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", p)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1<<10, &p); err == nil {
		t.Fatal("expected error on unknown field")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a"}{"username":"b"}`))
	if err := DecodeJSON(httptest.NewRecorder(), req, 1<<10, &p); err == nil {
		t.Fatal("expected error on trailing data")
	}
}
