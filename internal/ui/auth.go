package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

const (
	fieldUsername = iota
	fieldPassword
)

type authSuccessMsg struct {
	resp *api.AuthResponse
}

type authFailedMsg struct {
	err error
}

// AuthModel is the login/register form. It owns the credentials fields and
// the in-flight flag; the outcome is handed to the root model via
// authSuccessMsg.
type AuthModel struct {
	client *api.Client
	keys   KeyMap
	styles *Styles

	mode     authMode
	username textinput.Model
	password textinput.Model
	focus    int
	loading  bool
	errText  string
	notice   string

	width  int
	height int
}

func NewAuthModel(client *api.Client, keys KeyMap, styles *Styles) AuthModel {
	t := i18n.T()

	user := textinput.New()
	user.Placeholder = t.Username
	user.CharLimit = 32
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = t.Password
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword

	return AuthModel{
		client:   client,
		keys:     keys,
		styles:   styles,
		username: user,
		password: pass,
	}
}

// SetNotice shows a one-line message above the form, e.g. after a session
// expiry.
func (m *AuthModel) SetNotice(notice string) {
	m.notice = notice
}

func (m AuthModel) SetSize(width, height int) AuthModel {
	m.width = width
	m.height = height
	return m
}

// validateCredentials enforces the field constraints before any request is
// issued.
func validateCredentials(username, password string) error {
	t := i18n.T()
	if err := validation.Validate(username,
		validation.Required, validation.Length(3, 32)); err != nil {
		return fmt.Errorf("%s: %s", t.Username, err)
	}
	if err := validation.Validate(password,
		validation.Required, validation.Length(6, 64)); err != nil {
		return fmt.Errorf("%s: %s", t.Password, err)
	}
	return nil
}

func (m AuthModel) submit() (AuthModel, tea.Cmd) {
	username := m.username.Value()
	password := m.password.Value()

	if err := validateCredentials(username, password); err != nil {
		m.errText = err.Error()
		return m, nil
	}

	m.errText = ""
	m.notice = ""
	m.loading = true
	mode := m.mode
	client := m.client

	return m, func() tea.Msg {
		var resp *api.AuthResponse
		var err error
		if mode == modeLogin {
			resp, err = client.Login(username, password)
		} else {
			resp, err = client.Register(username, password)
		}
		if err != nil {
			return authFailedMsg{err: err}
		}
		return authSuccessMsg{resp: resp}
	}
}

func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			// The form is disabled while the request is in flight.
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.ToggleMode):
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.errText = ""
			return m, nil

		case key.Matches(msg, m.keys.Tab):
			m.focus = (m.focus + 1) % 2
			if m.focus == fieldUsername {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.focus == fieldUsername {
				m.focus = fieldPassword
				m.username.Blur()
				m.password.Focus()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m AuthModel) View() string {
	t := i18n.T()

	title := t.SignIn
	switchHint := fmt.Sprintf("%s Ctrl+R: %s", t.NoAccount, t.SwitchRegister)
	if m.mode == modeRegister {
		title = t.Register
		switchHint = fmt.Sprintf("%s Ctrl+R: %s", t.AlreadyRegistered, t.SwitchLogin)
	}

	action := t.SignIn
	if m.mode == modeRegister {
		action = t.Register
	}
	if m.loading {
		action = t.PleaseWait
	}

	lines := []string{
		m.styles.Title.Render(title),
		"",
		m.username.View(),
		m.password.View(),
		"",
		m.styles.Label.Render("[Enter] " + action),
		"",
		m.styles.Muted.Render(switchHint),
	}

	if m.notice != "" {
		lines = append([]string{m.styles.Muted.Render(m.notice), ""}, lines...)
	}
	if m.errText != "" {
		lines = append(lines, "", m.styles.Error.Render(m.errText))
	}

	dialog := m.styles.Dialog.Width(46).Render(
		lipgloss.JoinVertical(lipgloss.Center, lines...))

	if m.width == 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
