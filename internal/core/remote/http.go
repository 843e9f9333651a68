package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// sessionRecord is the wire format for one session row.
type sessionRecord struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Category  string `json:"category"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
}

// HTTPBackend talks to a hosted record store over JSON/HTTP with bearer-token
// auth. Row-level ownership is enforced server-side; the client only scopes
// requests by owner.
type HTTPBackend struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTP creates a backend for the given base URL and bearer token.
func NewHTTP(baseURL, token string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAll returns the owner's sessions, newest start time first. The sort is
// re-applied client-side so a misbehaving server cannot break ordering.
func (b *HTTPBackend) FetchAll(ctx context.Context, owner string) ([]models.Session, error) {
	u := fmt.Sprintf("%s/sessions?owner=%s", b.baseURL, url.QueryEscape(owner))
	body, err := b.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var records []sessionRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("malformed remote payload: %w", err)
	}

	sessions := make([]models.Session, 0, len(records))
	for _, r := range records {
		s, err := r.toSession()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	return sessions, nil
}

// Upsert writes one session record keyed by id.
func (b *HTTPBackend) Upsert(ctx context.Context, s models.Session) error {
	record := sessionRecord{
		ID:        s.ID,
		Owner:     s.Owner,
		Category:  s.Category,
		StartTime: timeutil.FormatISO(s.StartTime),
	}
	if s.EndTime != nil {
		record.EndTime = timeutil.FormatISO(*s.EndTime)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	u := fmt.Sprintf("%s/sessions/%s", b.baseURL, url.PathEscape(s.ID))
	_, err = b.do(ctx, http.MethodPut, u, payload)
	return err
}

// Delete removes the record with the given id.
func (b *HTTPBackend) Delete(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/sessions/%s", b.baseURL, url.PathEscape(id))
	_, err := b.do(ctx, http.MethodDelete, u, nil)
	return err
}

func (b *HTTPBackend) do(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("remote auth failed: %s", resp.Status)
	case resp.StatusCode == http.StatusNotFound && method == http.MethodDelete:
		// Deleting an absent record is fine
		return body, nil
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("remote error: %s", resp.Status)
	}

	return body, nil
}

func (r sessionRecord) toSession() (models.Session, error) {
	start, err := timeutil.ParseISO(r.StartTime)
	if err != nil {
		return models.Session{}, fmt.Errorf("malformed remote payload: session %s: %w", r.ID, err)
	}

	s := models.Session{
		ID:        r.ID,
		Owner:     r.Owner,
		Category:  r.Category,
		StartTime: start,
		Synced:    true,
	}
	if r.EndTime != "" {
		end, err := timeutil.ParseISO(r.EndTime)
		if err != nil {
			return models.Session{}, fmt.Errorf("malformed remote payload: session %s: %w", r.ID, err)
		}
		s.EndTime = &end
	}
	return s, nil
}
