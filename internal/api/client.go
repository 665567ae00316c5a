// Package api is the HTTP client for the NoteKeeper backend.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/nzaccagnino/notekeeper/internal/session"
)

// Client issues requests against a fixed base URL. The bearer token is read
// from the session store on every call, so login/logout elsewhere takes
// effect immediately. Calls are single best-effort requests: no retries, no
// caching.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	log        zerolog.Logger
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewClient(baseURL string, store session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		store:   store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

func (c *Client) Register(username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := credentialsRequest{Username: username, Password: password}
	if err := c.post("register", "/auth/register", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(username, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := credentialsRequest{Username: username, Password: password}
	if err := c.post("login", "/auth/login", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me resolves the stored token to its user. Any failure means the session
// is not usable.
func (c *Client) Me() (*User, error) {
	var user User
	if err := c.get("session check", "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListNotes returns note summaries, filtered server-side when query is
// non-empty.
func (c *Client) ListNotes(query string) ([]Note, error) {
	path := "/notes"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var notes []Note
	if err := c.get("fetch notes", path, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) GetNote(id string) (*Note, error) {
	var note Note
	err := c.get("fetch note", "/notes/"+url.PathEscape(id), &note)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(title, content string) (*Note, error) {
	var note Note
	req := noteRequest{Title: title, Content: content}
	if err := c.post("create note", "/notes", true, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// UpdateNote replaces the note's title and content. The PUT contract takes
// both fields; there is no partial patch.
func (c *Client) UpdateNote(id, title, content string) (*Note, error) {
	var note Note
	req := noteRequest{Title: title, Content: content}
	if err := c.put("update note", "/notes/"+url.PathEscape(id), req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(id string) error {
	return c.delete("delete note", "/notes/"+url.PathEscape(id))
}

// HTTP helpers

func (c *Client) get(op, path string, result interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(op, req, true, result)
}

func (c *Client) post(op, path string, authed bool, body, result interface{}) error {
	req, err := c.jsonRequest(http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.doRequest(op, req, authed, result)
}

func (c *Client) put(op, path string, body, result interface{}) error {
	req, err := c.jsonRequest(http.MethodPut, path, body)
	if err != nil {
		return err
	}
	return c.doRequest(op, req, true, result)
}

func (c *Client) delete(op, path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doRequest(op, req, true, nil)
}

func (c *Client) jsonRequest(method, path string, body interface{}) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doRequest attaches the bearer token when one is stored, runs the request
// and translates failures. authed controls how a 401 reads: for
// authenticated endpoints it is an invalid session, for login/register it
// is an ordinary rejection carrying a server message.
func (c *Client) doRequest(op string, req *http.Request, authed bool, result interface{}) error {
	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().Str("op", op).Str("url", req.URL.String()).Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Str("op", op).Err(err).Msg("api transport failure")
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized && authed {
		c.log.Warn().Str("op", op).Msg("api rejected token")
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Op: op, StatusCode: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil {
			reqErr.Message = errResp.Message
		}
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Msg("api request rejected")
		return reqErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}

	return nil
}
