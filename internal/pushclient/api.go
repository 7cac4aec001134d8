package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Item is one backlog entry as returned by the backend.
type Item struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

// Backlog is the response of GET /notifications/my. UnreadCount is
// authoritative and always covers the full backlog.
type Backlog struct {
	Notifications []Item `json:"notifications"`
	UnreadCount   int    `json:"unreadCount"`
}

// API is the HTTP client for the backend notification contract. The access
// token is session-scoped: the session manager sets it on sign-in and
// clears it on sign-out, which is what keeps one account's backlog from
// leaking into the next.
type API struct {
	baseURL string
	client  *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *API) SetAccessToken(token string) {
	a.mu.Lock()
	a.accessToken = token
	a.mu.Unlock()
}

func (a *API) token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.accessToken
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := a.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (a *API) RegisterToken(ctx context.Context, token, provider, deviceInfo string) error {
	return a.do(ctx, http.MethodPost, "/push/register", map[string]string{
		"token":      token,
		"provider":   provider,
		"deviceInfo": deviceInfo,
	}, nil)
}

func (a *API) UnregisterToken(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/push/unregister", map[string]string{
		"token": token,
	}, nil)
}

func (a *API) FetchBacklog(ctx context.Context) (*Backlog, error) {
	var backlog Backlog
	if err := a.do(ctx, http.MethodGet, "/notifications/my", nil, &backlog); err != nil {
		return nil, err
	}
	return &backlog, nil
}

func (a *API) MarkRead(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil)
}

func (a *API) MarkAllRead(ctx context.Context) error {
	return a.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil)
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/notifications/"+id, nil, nil)
}

func (a *API) ClearAll(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/notifications/clear-all", nil, nil)
}
