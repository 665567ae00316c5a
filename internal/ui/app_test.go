package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/config"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
	"github.com/nzaccagnino/notekeeper/internal/session"
)

func newTestModel(store session.Store) Model {
	client := api.NewClient("http://localhost:0", store, zerolog.Nop())
	cfg := config.Default()
	return NewModel(client, store, cfg, zerolog.Nop())
}

func signedIn(t *testing.T, store session.Store) Model {
	t.Helper()
	m := newTestModel(store)
	mm, cmd := m.Update(sessionCheckedMsg{user: &api.User{ID: 1, Username: "alice"}})
	require.NotNil(t, cmd)
	return mm.(Model)
}

func TestInitWithoutTokenResolvesImmediately(t *testing.T) {
	m := newTestModel(session.NewMemStore(""))

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(sessionCheckedMsg)
	require.True(t, ok)
	assert.Nil(t, msg.user)
}

func TestViewGatedUntilSessionChecked(t *testing.T) {
	m := newTestModel(session.NewMemStore("tok"))
	assert.Contains(t, m.View(), i18n.T().CheckingSess)

	mm, _ := m.Update(sessionCheckedMsg{})
	m = mm.(Model)
	assert.Contains(t, m.View(), i18n.T().SignIn)
}

func TestSessionCheckedWithUserEntersNotes(t *testing.T) {
	m := signedIn(t, session.NewMemStore("tok"))
	require.NotNil(t, m.user)
	assert.Equal(t, "alice", m.user.Username)
}

func TestAuthSuccessPersistsToken(t *testing.T) {
	store := session.NewMemStore("")
	m := newTestModel(store)
	mm, _ := m.Update(sessionCheckedMsg{})
	m = mm.(Model)

	resp := &api.AuthResponse{Token: "fresh-token", User: api.User{ID: 2, Username: "bob"}}
	mm, cmd := m.Update(authSuccessMsg{resp: resp})
	m = mm.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, "fresh-token", store.Token())
	require.NotNil(t, m.user)
	assert.Equal(t, "bob", m.user.Username)
}

func TestUnauthorizedMidSessionSignsOut(t *testing.T) {
	store := session.NewMemStore("tok")
	m := signedIn(t, store)

	mm, _ := m.Update(notesListErrMsg{seq: 1, err: api.ErrUnauthorized})
	m = mm.(Model)

	assert.Nil(t, m.user)
	assert.Empty(t, store.Token())
	assert.Contains(t, m.View(), i18n.T().SessionExpired)
}

func TestLogoutClearsSession(t *testing.T) {
	store := session.NewMemStore("tok")
	m := signedIn(t, store)

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = mm.(Model)

	assert.Nil(t, m.user)
	assert.Empty(t, store.Token())
	assert.NotContains(t, m.View(), i18n.T().SessionExpired)
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(session.NewMemStore(""))
	styles := m.styles
	require.Equal(t, config.ThemeLight, m.theme)

	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = mm.(Model)
	assert.Equal(t, config.ThemeDark, m.theme)
	assert.Same(t, styles, m.styles, "children keep the shared styles pointer")

	mm, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = mm.(Model)
	assert.Equal(t, config.ThemeLight, m.theme)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(session.NewMemStore(""))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestResizePropagates(t *testing.T) {
	m := signedIn(t, session.NewMemStore("tok"))

	mm, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = mm.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.notes.width)

	view := m.View()
	assert.True(t, strings.Contains(view, "alice"))
}
