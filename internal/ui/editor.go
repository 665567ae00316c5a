package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
)

const (
	maxTitleLen   = 100
	maxContentLen = 5000
)

// EditorModel holds a local draft of one note. It does no I/O: the notes
// model reads the merged draft with Note() and runs the save.
type EditorModel struct {
	base    api.Note
	title   textinput.Model
	content textarea.Model
	focus   int // 0 = title, 1 = content
	errText string
}

func NewEditor(note api.Note) EditorModel {
	t := i18n.T()

	title := textinput.New()
	title.Placeholder = t.TitlePlaceholder
	title.CharLimit = maxTitleLen
	title.SetValue(note.Title)
	title.Focus()

	content := textarea.New()
	content.Placeholder = t.ContentPlaceholder
	content.CharLimit = maxContentLen
	content.ShowLineNumbers = false
	content.SetValue(note.Content)

	return EditorModel{
		base:    note,
		title:   title,
		content: content,
	}
}

// Note returns the draft merged over the note the editor was seeded with.
// An empty ID means the note has not been persisted yet.
func (m EditorModel) Note() api.Note {
	note := m.base
	note.Title = m.title.Value()
	note.Content = m.content.Value()
	return note
}

// Validate enforces the submit constraints: both fields required, title at
// most 100 characters, content at most 5000.
func (m EditorModel) Validate() error {
	t := i18n.T()
	if err := validation.Validate(m.title.Value(),
		validation.Required, validation.Length(1, maxTitleLen)); err != nil {
		return fmt.Errorf("%s: %s", t.TitlePlaceholder, err)
	}
	if err := validation.Validate(m.content.Value(),
		validation.Required, validation.Length(1, maxContentLen)); err != nil {
		return fmt.Errorf("%s: %s", t.ContentPlaceholder, err)
	}
	return nil
}

func (m *EditorModel) SetError(errText string) {
	m.errText = errText
}

func (m EditorModel) SetSize(width, height int) EditorModel {
	m.title.Width = width - 6
	m.content.SetWidth(width - 4)
	m.content.SetHeight(height - 8)
	return m
}

func (m EditorModel) Update(msg tea.Msg) (EditorModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyTab && m.focus == 0 {
		m.focus = 1
		m.title.Blur()
		return m, m.content.Focus()
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+tab"))) && m.focus == 1 {
		m.focus = 0
		m.content.Blur()
		m.title.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m EditorModel) View(st *Styles, saving bool) string {
	t := i18n.T()

	hint := fmt.Sprintf("Ctrl+S %s  Esc %s", t.Save, t.Cancel)
	if saving {
		hint = t.Saving
	}

	parts := []string{
		m.title.View(),
		"",
		m.content.View(),
		"",
		st.Muted.Render(hint),
	}
	if m.errText != "" {
		parts = append(parts, st.Error.Render(m.errText))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
