package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzaccagnino/notekeeper/internal/session"
)

// fakeBackend is a minimal in-memory NoteKeeper server covering the
// endpoints the client speaks.
type fakeBackend struct {
	mu     sync.Mutex
	users  map[string]string // username -> password
	tokens map[string]string // token -> username
	notes  []Note
	nextID int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:  map[string]string{},
		tokens: map[string]string{},
	}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", b.handleRegister)
	mux.HandleFunc("POST /auth/login", b.handleLogin)
	mux.HandleFunc("GET /me", b.authed(b.handleMe))
	mux.HandleFunc("GET /notes", b.authed(b.handleList))
	mux.HandleFunc("POST /notes", b.authed(b.handleCreate))
	mux.HandleFunc("GET /notes/{id}", b.authed(b.handleGet))
	mux.HandleFunc("PUT /notes/{id}", b.authed(b.handleUpdate))
	mux.HandleFunc("DELETE /notes/{id}", b.authed(b.handleDelete))
	return mux
}

func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		_, ok := b.tokens[token]
		b.mu.Unlock()
		if token == "" || !ok {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

func (b *fakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds struct{ Username, Password string }
	json.NewDecoder(r.Body).Decode(&creds)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[creds.Username]; ok {
		writeErr(w, http.StatusConflict, "username already taken")
		return
	}
	b.users[creds.Username] = creds.Password
	token := "tok-" + creds.Username
	b.tokens[token] = creds.Username
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: User{ID: 1, Username: creds.Username}})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct{ Username, Password string }
	json.NewDecoder(r.Body).Decode(&creds)
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.users[creds.Username]; !ok || pw != creds.Password {
		writeErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := "tok-" + creds.Username
	b.tokens[token] = creds.Username
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: User{ID: 1, Username: creds.Username}})
}

func (b *fakeBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	username := b.tokens[token]
	b.mu.Unlock()
	json.NewEncoder(w).Encode(User{ID: 1, Username: username})
}

func (b *fakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []Note{}
	for _, n := range b.notes {
		if q == "" || strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	json.NewEncoder(w).Encode(out)
}

func (b *fakeBackend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct{ Title, Content string }
	json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	note := Note{ID: fmt.Sprintf("n%d", b.nextID), Title: req.Title, Content: req.Content, CreatedAt: 1000, UpdatedAt: 1000}
	b.notes = append(b.notes, note)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
}

func (b *fakeBackend) handleGet(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.notes {
		if n.ID == r.PathValue("id") {
			json.NewEncoder(w).Encode(n)
			return
		}
	}
	writeErr(w, http.StatusNotFound, "note not found")
}

func (b *fakeBackend) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct{ Title, Content string }
	json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notes {
		if n.ID == r.PathValue("id") {
			b.notes[i].Title = req.Title
			b.notes[i].Content = req.Content
			b.notes[i].UpdatedAt = n.UpdatedAt + 1
			json.NewEncoder(w).Encode(b.notes[i])
			return
		}
	}
	writeErr(w, http.StatusNotFound, "note not found")
}

func (b *fakeBackend) handleDelete(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notes {
		if n.ID == r.PathValue("id") {
			b.notes = append(b.notes[:i], b.notes[i+1:]...)
			json.NewEncoder(w).Encode(map[string]bool{"deleted": true})
			return
		}
	}
	writeErr(w, http.StatusNotFound, "note not found")
}

func testClient(t *testing.T) (*Client, session.Store, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	store := session.NewMemStore("")
	return NewClient(srv.URL, store, zerolog.Nop()), store, backend
}

func TestRegisterThenLogin(t *testing.T) {
	client, _, _ := testClient(t)

	reg, err := client.Register("alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice", reg.User.Username)

	login, err := client.Login("alice", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	client, _, _ := testClient(t)

	_, err := client.Register("alice", "hunter22")
	require.NoError(t, err)

	resp, err := client.Login("alice", "wrong")
	assert.Nil(t, resp)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr, "a login rejection is not an invalid session")
	assert.Equal(t, "invalid credentials", reqErr.Message)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterConflictMessage(t *testing.T) {
	client, _, _ := testClient(t)

	_, err := client.Register("alice", "hunter22")
	require.NoError(t, err)

	_, err = client.Register("alice", "other-pass")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "username already taken", reqErr.Error())
}

func TestAuthenticatedCallsWithoutToken(t *testing.T) {
	client, _, backend := testClient(t)

	_, err := client.ListNotes("")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Me()
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.CreateNote("A", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, backend.notes, "rejected create must not mutate")

	err = client.DeleteNote("n1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNoteRoundTrip(t *testing.T) {
	client, store, _ := testClient(t)
	auth, err := client.Register("alice", "hunter22")
	require.NoError(t, err)
	require.NoError(t, store.SetToken(auth.Token))

	created, err := client.CreateNote("A", "x")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID, "server assigns the id")

	fetched, err := client.GetNote(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", fetched.Title)
	assert.Equal(t, "x", fetched.Content)

	updated, err := client.UpdateNote(created.ID, "B", "y")
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)

	fetched, err = client.GetNote(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", fetched.Title)
	assert.Equal(t, "y", fetched.Content)

	require.NoError(t, client.DeleteNote(created.ID))

	notes, err := client.ListNotes("")
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = client.GetNote(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNotesQueryFilter(t *testing.T) {
	client, store, _ := testClient(t)
	auth, err := client.Register("alice", "hunter22")
	require.NoError(t, err)
	require.NoError(t, store.SetToken(auth.Token))

	_, err = client.CreateNote("groceries", "milk")
	require.NoError(t, err)
	_, err = client.CreateNote("meeting", "agenda")
	require.NoError(t, err)

	notes, err := client.ListNotes("grocer")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "groceries", notes[0].Title)

	// Queries with reserved characters must be escaped, not mangled.
	notes, err = client.ListNotes("a&b c")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestGetNoteNotFound(t *testing.T) {
	client, store, _ := testClient(t)
	auth, err := client.Register("alice", "hunter22")
	require.NoError(t, err)
	require.NoError(t, store.SetToken(auth.Token))

	_, err = client.GetNote("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNetworkError(t *testing.T) {
	// Point at a server that is already gone.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, session.NewMemStore(""), zerolog.Nop())
	_, err := client.Login("alice", "hunter22")

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestRequestErrorFallbackMessage(t *testing.T) {
	// Server responds non-2xx without a JSON message payload.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, session.NewMemStore("tok"), zerolog.Nop())
	_, err := client.ListNotes("")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, reqErr.Error(), "fetch notes failed with status 500")
}

func TestBearerHeaderAttachment(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Note{})
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemStore("")
	client := NewClient(srv.URL, store, zerolog.Nop())

	_, err := client.ListNotes("")
	require.NoError(t, err)
	assert.Empty(t, gotAuth, "no token stored, no header sent")

	require.NoError(t, store.SetToken("tok-abc"))
	_, err = client.ListNotes("")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Op: "login", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
