package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"star-songs/backend/app/dto"
)

// Client is a typed REST client for the star-songs backend. It injects the
// bearer token and, on a 401, refreshes the pair once and retries.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu      sync.Mutex
	access  string
	refresh string
	store   *SessionStore
}

func NewClient(baseURL string, store *SessionStore) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	if store != nil {
		if s, err := store.Load(); err == nil {
			c.access, c.refresh = s.AccessToken, s.RefreshToken
		}
	}
	return c
}

// HasSession reports whether a cached token pair is loaded. The tokens may
// still be expired; the first request settles that.
func (c *Client) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access != ""
}

func (c *Client) setTokens(t *dto.TokenResponse) {
	c.mu.Lock()
	c.access, c.refresh = t.AccessToken, t.RefreshToken
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Save(Session{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken})
	}
}

type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func decodeError(status int, body []byte) error {
	var er dto.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Detail != "" {
		return &apiError{Status: status, Detail: er.Detail}
	}
	return &apiError{Status: status}
}

func (c *Client) do(method, path string, in, out any) error {
	return c.doRetry(method, path, in, out, true)
}

func (c *Client) doRetry(method, path string, in, out any, canRefresh bool) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	access := c.access
	c.mu.Unlock()
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && canRefresh && c.refreshToken() == nil {
		return c.doRetry(method, path, in, out, false)
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// refreshToken exchanges the cached refresh token for a new pair.
func (c *Client) refreshToken() error {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()
	if refresh == "" {
		return fmt.Errorf("no refresh token")
	}
	var tokens dto.TokenResponse
	if err := c.doRetry(http.MethodPost, "/auth/refresh", dto.RefreshRequest{RefreshToken: refresh}, &tokens, false); err != nil {
		return err
	}
	c.setTokens(&tokens)
	return nil
}

func (c *Client) Login(username, password string) error {
	var tokens dto.TokenResponse
	err := c.doRetry(http.MethodPost, "/auth/login", dto.LoginRequest{Username: username, Password: password}, &tokens, false)
	if err != nil {
		return err
	}
	c.setTokens(&tokens)
	return nil
}

func (c *Client) Logout() error {
	c.mu.Lock()
	refresh := c.refresh
	c.access, c.refresh = "", ""
	c.mu.Unlock()
	if c.store != nil {
		_ = c.store.Clear()
	}
	if refresh == "" {
		return nil
	}
	return c.doRetry(http.MethodPost, "/auth/logout", dto.RefreshRequest{RefreshToken: refresh}, nil, false)
}

func (c *Client) Me() (*dto.UserResponse, error) {
	var u dto.UserResponse
	if err := c.do(http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Artists(page, pageSize int) (*dto.Page[dto.ArtistOut], error) {
	var p dto.Page[dto.ArtistOut]
	path := fmt.Sprintf("/v1/artists?page=%d&page_size=%d", page, pageSize)
	if err := c.do(http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Artist(id int) (*dto.ArtistOut, error) {
	var a dto.ArtistOut
	if err := c.do(http.MethodGet, fmt.Sprintf("/v1/artists/%d", id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Songs(page, pageSize int, artistID *int) (*dto.Page[dto.SongOut], error) {
	var p dto.Page[dto.SongOut]
	path := fmt.Sprintf("/v1/songs?page=%d&page_size=%d", page, pageSize)
	if artistID != nil {
		path += fmt.Sprintf("&artist_id=%d", *artistID)
	}
	if err := c.do(http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Song(id int) (*dto.SongOut, error) {
	var s dto.SongOut
	if err := c.do(http.MethodGet, fmt.Sprintf("/v1/songs/%d", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
