// Package supabase is a thin PostgREST client covering what the pipelines
// need: filtered selects (including explicit NULL matching), inserts
// returning the generated row, updates by id, and slug-keyed upserts.
// Schema/table names live in the callers; this package only speaks rows.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"college-sync/internal/httpx"
)

const contentTypeJSON = "application/json"

type Client struct {
	BaseURL string
	Key     string
	HTTP    *http.Client
}

func New(baseURL, key string) *Client {
	tr := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		BaseURL: baseURL,
		Key:     key,
		HTTP: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: tr,
		},
	}
}

// Configured reports whether credentials are present. Callers skip remote
// sync entirely (with a warning, not an error) when they are not.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != "" && c.Key != ""
}

// Filter is one equality condition. A nil Value matches rows where the
// column IS NULL, never rows holding the literal string "null".
type Filter struct {
	Column string
	Value  *string
}

// Eq builds a filter matching a concrete value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: &value}
}

// Null builds a filter matching NULL.
func Null(column string) Filter {
	return Filter{Column: column}
}

func (c *Client) restURL(table string) string {
	return c.BaseURL + "/rest/v1/" + url.PathEscape(table)
}

func (c *Client) authHeaders(r *http.Request) {
	r.Header.Set("apikey", c.Key)
	r.Header.Set("Authorization", "Bearer "+c.Key)
	r.Header.Set("Accept", contentTypeJSON)
}

// Select fetches up to limit rows matching all filters. limit <= 0 means no
// limit parameter is sent.
func (c *Client) Select(ctx context.Context, table string, filters []Filter, limit int) ([]map[string]any, error) {
	if !c.Configured() {
		return nil, errors.New("supabase: client not configured")
	}

	q := url.Values{}
	q.Set("select", "*")
	for _, f := range filters {
		if f.Value == nil {
			q.Add(f.Column, "is.null")
		} else {
			q.Add(f.Column, "eq."+*f.Value)
		}
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var rows []map[string]any
	err := httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.restURL(table)+"?"+q.Encode(), nil)
			if err != nil {
				return nil, err
			}
			c.authHeaders(r)
			return r, nil
		},
		&rows,
		httpx.DefaultRetryConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("supabase: select %s failed: %w", table, err)
	}
	return rows, nil
}

// Insert adds rows and returns the representation the server sends back,
// including generated ids.
func (c *Client) Insert(ctx context.Context, table string, rows []map[string]any) ([]map[string]any, error) {
	if !c.Configured() {
		return nil, errors.New("supabase: client not configured")
	}

	b, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	err = httpx.DoJSON(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL(table), bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			c.authHeaders(r)
			r.Header.Set("Content-Type", contentTypeJSON)
			r.Header.Set("Prefer", "return=representation")
			return r, nil
		},
		&out,
		httpx.DefaultRetryConfig(),
	)
	if err != nil {
		return nil, fmt.Errorf("supabase: insert into %s failed: %w", table, err)
	}
	return out, nil
}

// InsertOne is Insert for a single row, returning that row as stored.
func (c *Client) InsertOne(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	out, err := c.Insert(ctx, table, []map[string]any{row})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("supabase: insert into %s returned no data", table)
	}
	return out[0], nil
}

// UpdateByID patches the row whose id column equals id.
func (c *Client) UpdateByID(ctx context.Context, table string, id any, patch map[string]any) error {
	if !c.Configured() {
		return errors.New("supabase: client not configured")
	}

	b, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("id", "eq."+fmt.Sprintf("%v", id))

	_, _, err = httpx.DoWithRetry(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.restURL(table)+"?"+q.Encode(), bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			c.authHeaders(r)
			r.Header.Set("Content-Type", contentTypeJSON)
			return r, nil
		},
		httpx.DefaultRetryConfig(),
	)
	if err != nil {
		return fmt.Errorf("supabase: update %s failed: %w", table, err)
	}
	return nil
}

// Upsert inserts the row, merging into the existing one on a conflict over
// onConflict (a comma-separated column list).
func (c *Client) Upsert(ctx context.Context, table string, row map[string]any, onConflict string) error {
	if !c.Configured() {
		return errors.New("supabase: client not configured")
	}

	b, err := json.Marshal([]map[string]any{row})
	if err != nil {
		return err
	}

	q := url.Values{}
	if onConflict != "" {
		q.Set("on_conflict", onConflict)
	}

	_, _, err = httpx.DoWithRetry(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.restURL(table)+"?"+q.Encode(), bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			c.authHeaders(r)
			r.Header.Set("Content-Type", contentTypeJSON)
			r.Header.Set("Prefer", "resolution=merge-duplicates")
			return r, nil
		},
		httpx.DefaultRetryConfig(),
	)
	if err != nil {
		return fmt.Errorf("supabase: upsert into %s failed: %w", table, err)
	}
	return nil
}
