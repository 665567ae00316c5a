package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/config"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
	"github.com/nzaccagnino/notekeeper/internal/session"
)

// sessionCheckedMsg closes the startup gate. A nil user means there was no
// stored token or it no longer works.
type sessionCheckedMsg struct {
	user *api.User
}

// Model is the root of the program. It decides which screen owns the
// terminal: the startup placeholder, the auth form, or the notes screen.
type Model struct {
	client *api.Client
	store  session.Store
	keys   KeyMap
	log    zerolog.Logger

	theme  string
	styles *Styles

	auth  AuthModel
	notes NotesModel
	user  *api.User

	sessionChecked bool

	width  int
	height int
}

func NewModel(client *api.Client, store session.Store, cfg *config.Config, log zerolog.Logger) Model {
	keys := NewKeyMap()
	styles := NewStyles(cfg.Theme)

	return Model{
		client: client,
		store:  store,
		keys:   keys,
		log:    log,
		theme:  cfg.Theme,
		styles: styles,
		auth:   NewAuthModel(client, keys, styles),
	}
}

// Init validates any stored token against the server before either screen
// is shown. Nothing renders as signed in until the check resolves.
func (m Model) Init() tea.Cmd {
	if m.store.Token() == "" {
		return func() tea.Msg { return sessionCheckedMsg{} }
	}

	client := m.client
	store := m.store
	log := m.log
	return func() tea.Msg {
		user, err := client.Me()
		if err != nil {
			log.Debug().Err(err).Msg("stored session rejected")
			if cerr := store.Clear(); cerr != nil {
				log.Warn().Err(cerr).Msg("clearing stale session")
			}
			return sessionCheckedMsg{}
		}
		return sessionCheckedMsg{user: user}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.auth = m.auth.SetSize(msg.Width, msg.Height)
		if m.user != nil {
			m.notes = m.notes.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case sessionCheckedMsg:
		m.sessionChecked = true
		if msg.user != nil {
			m.user = msg.user
			var cmd tea.Cmd
			m.notes, cmd = NewNotesModel(m.client, *msg.user, m.keys, m.styles)
			m.notes = m.notes.SetSize(m.width, m.height)
			return m, cmd
		}
		return m, nil

	case authSuccessMsg:
		if err := m.store.SetToken(msg.resp.Token); err != nil {
			m.log.Warn().Err(err).Msg("persisting session token")
		}
		user := msg.resp.User
		m.user = &user
		m.log.Info().Str("username", user.Username).Msg("signed in")

		var cmd tea.Cmd
		m.notes, cmd = NewNotesModel(m.client, user, m.keys, m.styles)
		m.notes = m.notes.SetSize(m.width, m.height)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.ToggleTheme):
			if m.theme == config.ThemeDark {
				m.theme = config.ThemeLight
			} else {
				m.theme = config.ThemeDark
			}
			// The child models share this pointer, so swapping the
			// contents restyles every screen at once.
			*m.styles = *NewStyles(m.theme)
			return m, nil

		case key.Matches(msg, m.keys.Logout) && m.user != nil:
			return m.signOut(""), nil
		}

	default:
		if e, ok := msg.(apiErrMsg); ok && errors.Is(e.apiErr(), api.ErrUnauthorized) {
			// The server stopped honoring the token mid-session.
			m.log.Info().Msg("session expired")
			return m.signOut(i18n.T().SessionExpired), nil
		}
	}

	if !m.sessionChecked {
		return m, nil
	}

	var cmd tea.Cmd
	if m.user == nil {
		m.auth, cmd = m.auth.Update(msg)
	} else {
		m.notes, cmd = m.notes.Update(msg)
	}
	return m, cmd
}

func (m Model) signOut(notice string) Model {
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clearing session")
	}
	m.user = nil
	m.auth = NewAuthModel(m.client, m.keys, m.styles).SetSize(m.width, m.height)
	if notice != "" {
		m.auth.SetNotice(notice)
	}
	return m
}

func (m Model) View() string {
	if !m.sessionChecked {
		placeholder := m.styles.Muted.Render(i18n.T().CheckingSess)
		if m.width == 0 {
			return placeholder
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, placeholder)
	}

	if m.user == nil {
		return m.auth.View()
	}
	return m.notes.View()
}
