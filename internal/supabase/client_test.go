package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(srv *httptest.Server) *Client {
	c := New(srv.URL, "test-key")
	c.HTTP = srv.Client()
	return c
}

func TestSelectQueryEncoding(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id": 1}]`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	rows, err := c.Select(context.Background(), "search_criteria", []Filter{
		Eq("career_path", "Engineering"),
		Null("specialization"),
	}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	if got.URL.Path != "/rest/v1/search_criteria" {
		t.Errorf("Unexpected path %q", got.URL.Path)
	}
	q := got.URL.Query()
	if q.Get("select") != "*" {
		t.Errorf("Expected select=*, got %q", q.Get("select"))
	}
	if q.Get("career_path") != "eq.Engineering" {
		t.Errorf("Expected eq filter, got %q", q.Get("career_path"))
	}
	if q.Get("specialization") != "is.null" {
		t.Errorf("Expected is.null filter, got %q", q.Get("specialization"))
	}
	if q.Get("limit") != "1" {
		t.Errorf("Expected limit=1, got %q", q.Get("limit"))
	}
	if got.Header.Get("apikey") != "test-key" {
		t.Error("Expected apikey header")
	}
	if got.Header.Get("Authorization") != "Bearer test-key" {
		t.Errorf("Unexpected Authorization header %q", got.Header.Get("Authorization"))
	}
}

func TestSelectNoLimit(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).Select(context.Background(), "career_path", nil, 0); err != nil {
		t.Fatal(err)
	}
	if got.URL.Query().Has("limit") {
		t.Error("Did not expect a limit parameter")
	}
}

func TestInsertReturnsRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("Unexpected Prefer header %q", r.Header.Get("Prefer"))
		}

		var rows []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		rows[0]["id"] = 42
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rows)
	}))
	defer srv.Close()

	row, err := newTestClient(srv).InsertOne(context.Background(), "st_college", map[string]any{"name": "ABC"})
	if err != nil {
		t.Fatal(err)
	}
	if row["id"] != float64(42) {
		t.Errorf("Expected generated id 42, got %v", row["id"])
	}
}

func TestInsertOneEmptyRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).InsertOne(context.Background(), "st_college", map[string]any{"name": "ABC"}); err == nil {
		t.Error("Expected error on empty representation")
	}
}

func TestUpdateByID(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestClient(srv).UpdateByID(context.Background(), "search_criteria", 7, map[string]any{"university": "IIT"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Method != http.MethodPatch {
		t.Errorf("Expected PATCH, got %s", got.Method)
	}
	if got.URL.Query().Get("id") != "eq.7" {
		t.Errorf("Expected id=eq.7, got %q", got.URL.Query().Get("id"))
	}

	var patch map[string]any
	if err := json.Unmarshal(body, &patch); err != nil {
		t.Fatal(err)
	}
	if patch["university"] != "IIT" {
		t.Errorf("Unexpected patch %v", patch)
	}
}

func TestUpsertOnConflict(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := newTestClient(srv).Upsert(context.Background(), "career_path1", map[string]any{"name": "Engineering"}, "name")
	if err != nil {
		t.Fatal(err)
	}
	if got.URL.Query().Get("on_conflict") != "name" {
		t.Errorf("Expected on_conflict=name, got %q", got.URL.Query().Get("on_conflict"))
	}
	if got.Header.Get("Prefer") != "resolution=merge-duplicates" {
		t.Errorf("Unexpected Prefer header %q", got.Header.Get("Prefer"))
	}
}

func TestNotConfigured(t *testing.T) {
	c := &Client{}
	if c.Configured() {
		t.Error("Empty client must not report configured")
	}
	if _, err := c.Select(context.Background(), "t", nil, 0); err == nil {
		t.Error("Expected error from unconfigured Select")
	}
	if _, err := c.Insert(context.Background(), "t", nil); err == nil {
		t.Error("Expected error from unconfigured Insert")
	}
	if err := c.UpdateByID(context.Background(), "t", 1, nil); err == nil {
		t.Error("Expected error from unconfigured UpdateByID")
	}

	var nilClient *Client
	if nilClient.Configured() {
		t.Error("Nil client must not report configured")
	}
}
