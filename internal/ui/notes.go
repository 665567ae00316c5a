package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
)

// panelState is the main panel as a tagged union: empty, viewing a fetched
// note, or editing a draft. Editing always carries a draft, so the invalid
// "editing with nothing to edit" combination cannot be represented.
type panelState interface{ isPanel() }

type panelEmpty struct{}

type panelViewing struct {
	note api.Note
}

type panelEditing struct {
	editor EditorModel
	// prev is the note that was on screen when editing started; nil when
	// the draft is a brand new note. Cancel falls back to it.
	prev *api.Note
}

func (panelEmpty) isPanel()   {}
func (panelViewing) isPanel() {}
func (panelEditing) isPanel() {}

// Messages carrying fetch results are tagged with the sequence number of
// the request that produced them; anything but the latest is discarded so
// a slow response can never overwrite a fresher one.
type notesLoadedMsg struct {
	seq   int
	notes []api.Note
}

type notesListErrMsg struct {
	seq int
	err error
}

type noteLoadedMsg struct {
	seq  int
	note *api.Note
}

type noteFetchErrMsg struct {
	seq int
	err error
}

type noteSavedMsg struct {
	note    *api.Note
	created bool
}

type noteSaveErrMsg struct {
	err error
}

type noteDeletedMsg struct {
	id string
}

type noteDeleteErrMsg struct {
	err error
}

// apiErrMsg lets the root model inspect failures for expired sessions
// without knowing each message type.
type apiErrMsg interface{ apiErr() error }

func (m notesListErrMsg) apiErr() error  { return m.err }
func (m noteFetchErrMsg) apiErr() error  { return m.err }
func (m noteSaveErrMsg) apiErr() error   { return m.err }
func (m noteDeleteErrMsg) apiErr() error { return m.err }

// NotesModel owns the authenticated screen: the list, the search query,
// the selection and the main panel.
type NotesModel struct {
	client *api.Client
	keys   KeyMap
	styles *Styles
	user   api.User

	notes      []api.Note
	cursor     int
	listOffset int

	search    textinput.Model
	searching bool

	panel      panelState
	selectedID string

	// loading gates the list region for the duration of list fetch,
	// create, update and delete calls.
	loading bool
	errText string

	confirmDelete *api.Note

	listSeq int
	noteSeq int

	width  int
	height int
}

// NewNotesModel builds the notes screen and returns the initial list fetch.
func NewNotesModel(client *api.Client, user api.User, keys KeyMap, styles *Styles) (NotesModel, tea.Cmd) {
	t := i18n.T()

	search := textinput.New()
	search.Placeholder = t.SearchHint
	search.CharLimit = 100

	m := NotesModel{
		client: client,
		keys:   keys,
		styles: styles,
		user:   user,
		search: search,
		panel:  panelEmpty{},
	}
	cmd := m.fetchListCmd()
	return m, cmd
}

// fetchListCmd bumps the list sequence and issues the fetch for the
// current query.
func (m *NotesModel) fetchListCmd() tea.Cmd {
	m.listSeq++
	m.loading = true
	seq := m.listSeq
	query := m.search.Value()
	client := m.client

	return func() tea.Msg {
		notes, err := client.ListNotes(query)
		if err != nil {
			return notesListErrMsg{seq: seq, err: err}
		}
		return notesLoadedMsg{seq: seq, notes: notes}
	}
}

func (m *NotesModel) fetchNoteCmd(id string) tea.Cmd {
	m.noteSeq++
	seq := m.noteSeq
	client := m.client

	return func() tea.Msg {
		note, err := client.GetNote(id)
		if err != nil {
			return noteFetchErrMsg{seq: seq, err: err}
		}
		return noteLoadedMsg{seq: seq, note: note}
	}
}

func (m *NotesModel) saveCmd(draft api.Note) tea.Cmd {
	m.loading = true
	client := m.client

	return func() tea.Msg {
		if draft.ID == "" {
			note, err := client.CreateNote(draft.Title, draft.Content)
			if err != nil {
				return noteSaveErrMsg{err: err}
			}
			return noteSavedMsg{note: note, created: true}
		}
		note, err := client.UpdateNote(draft.ID, draft.Title, draft.Content)
		if err != nil {
			return noteSaveErrMsg{err: err}
		}
		return noteSavedMsg{note: note, created: false}
	}
}

func (m *NotesModel) deleteCmd(id string) tea.Cmd {
	m.loading = true
	client := m.client

	return func() tea.Msg {
		if err := client.DeleteNote(id); err != nil {
			return noteDeleteErrMsg{err: err}
		}
		return noteDeletedMsg{id: id}
	}
}

func (m NotesModel) SetSize(width, height int) NotesModel {
	m.width = width
	m.height = height
	if p, ok := m.panel.(panelEditing); ok {
		p.editor = p.editor.SetSize(m.contentWidth(), m.contentHeight())
		m.panel = p
	}
	return m
}

func (m NotesModel) Update(msg tea.Msg) (NotesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case notesLoadedMsg:
		if msg.seq != m.listSeq {
			return m, nil
		}
		m.loading = false
		m.errText = ""
		m.notes = msg.notes
		if m.cursor >= len(m.notes) {
			m.cursor = 0
			m.listOffset = 0
		}
		return m, nil

	case notesListErrMsg:
		if msg.seq != m.listSeq {
			return m, nil
		}
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case noteLoadedMsg:
		if msg.seq != m.noteSeq {
			return m, nil
		}
		if _, editing := m.panel.(panelEditing); editing {
			// A fetch resolving mid-edit must not clobber the draft.
			return m, nil
		}
		if msg.note.ID != m.selectedID {
			// The selection was cleared or moved while the fetch was in
			// flight, e.g. the note was deleted in the meantime.
			return m, nil
		}
		m.panel = panelViewing{note: *msg.note}
		return m, nil

	case noteFetchErrMsg:
		if msg.seq != m.noteSeq {
			return m, nil
		}
		if _, editing := m.panel.(panelEditing); !editing {
			m.panel = panelEmpty{}
		}
		return m, nil

	case noteSavedMsg:
		m.loading = false
		m.errText = ""
		if msg.created {
			// A fresh note goes to the top of the local view until the
			// next refresh.
			m.notes = append([]api.Note{*msg.note}, m.notes...)
			m.cursor = 0
			m.listOffset = 0
		} else {
			for i := range m.notes {
				if m.notes[i].ID == msg.note.ID {
					m.notes[i] = *msg.note
					break
				}
			}
		}
		m.selectedID = msg.note.ID
		m.panel = panelViewing{note: *msg.note}
		return m, nil

	case noteSaveErrMsg:
		m.loading = false
		if p, ok := m.panel.(panelEditing); ok {
			p.editor.SetError(msg.err.Error())
			m.panel = p
		}
		return m, nil

	case noteDeletedMsg:
		m.loading = false
		m.errText = ""
		for i := range m.notes {
			if m.notes[i].ID == msg.id {
				m.notes = append(m.notes[:i], m.notes[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.notes) && m.cursor > 0 {
			m.cursor--
		}
		if m.selectedID == msg.id {
			m.selectedID = ""
			if p, ok := m.panel.(panelViewing); ok && p.note.ID == msg.id {
				m.panel = panelEmpty{}
			}
		}
		return m, nil

	case noteDeleteErrMsg:
		m.loading = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m NotesModel) handleKey(msg tea.KeyMsg) (NotesModel, tea.Cmd) {
	if m.confirmDelete != nil {
		return m.handleConfirmDeleteKey(msg)
	}
	if p, ok := m.panel.(panelEditing); ok {
		return m.handleEditingKey(msg, p)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m NotesModel) handleConfirmDeleteKey(msg tea.KeyMsg) (NotesModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		target := m.confirmDelete
		m.confirmDelete = nil
		cmd := m.deleteCmd(target.ID)
		return m, cmd
	case "n", "N", "esc":
		m.confirmDelete = nil
	}
	return m, nil
}

func (m NotesModel) handleEditingKey(msg tea.KeyMsg, p panelEditing) (NotesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		if m.loading {
			return m, nil
		}
		if err := p.editor.Validate(); err != nil {
			p.editor.SetError(err.Error())
			m.panel = p
			return m, nil
		}
		m.panel = p
		cmd := m.saveCmd(p.editor.Note())
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.loading {
			return m, nil
		}
		if p.prev != nil {
			m.panel = panelViewing{note: *p.prev}
		} else {
			m.panel = panelEmpty{}
		}
		return m, nil
	}

	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	m.panel = p
	return m, cmd
}

func (m NotesModel) handleSearchKey(msg tea.KeyMsg) (NotesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Enter):
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	// Every query change is a fresh fetch; the sequence number protects
	// against a stale response landing late.
	if m.search.Value() != before {
		fetch := m.fetchListCmd()
		return m, tea.Batch(cmd, fetch)
	}
	return m, cmd
}

func (m NotesModel) handleListKey(msg tea.KeyMsg) (NotesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.listOffset {
				m.listOffset = m.cursor
			}
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.notes)-1 {
			m.cursor++
			visible := m.listHeight()
			if m.cursor >= m.listOffset+visible {
				m.listOffset = m.cursor - visible + 1
			}
		}

	case key.Matches(msg, m.keys.Enter):
		if m.cursor < len(m.notes) {
			id := m.notes[m.cursor].ID
			m.selectedID = id
			cmd := m.fetchNoteCmd(id)
			return m, cmd
		}

	case key.Matches(msg, m.keys.New):
		if m.loading {
			return m, nil
		}
		m.selectedID = ""
		editor := NewEditor(api.Note{}).SetSize(m.contentWidth(), m.contentHeight())
		m.panel = panelEditing{editor: editor}

	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.panel.(panelViewing); ok {
			note := p.note
			editor := NewEditor(note).SetSize(m.contentWidth(), m.contentHeight())
			m.panel = panelEditing{editor: editor, prev: &note}
		}

	case key.Matches(msg, m.keys.Delete):
		if m.loading {
			return m, nil
		}
		if m.cursor < len(m.notes) {
			target := m.notes[m.cursor]
			m.confirmDelete = &target
		}

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	}

	return m, nil
}

// Layout helpers

func (m NotesModel) listWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	return w
}

func (m NotesModel) contentWidth() int {
	return m.width - m.listWidth()
}

func (m NotesModel) contentHeight() int {
	return m.height - 5
}

func (m NotesModel) listHeight() int {
	return m.contentHeight() - 4
}

func (m NotesModel) View() string {
	t := i18n.T()

	if m.width == 0 {
		return t.Loading
	}

	if m.confirmDelete != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.renderConfirmDialog())
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderPanel())
	status := m.renderStatus()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m NotesModel) renderHeader() string {
	left := m.styles.Title.Render("NoteKeeper")
	right := m.styles.Muted.Render(m.user.Username)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 6
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Width(m.width - 2).Render(left + strings.Repeat(" ", gap) + right)
}

func (m NotesModel) renderSidebar() string {
	t := i18n.T()

	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Muted.Render(t.Loading))
	case len(m.notes) == 0:
		b.WriteString(m.styles.Muted.Render(t.NoNotes))
	default:
		visible := m.listHeight()
		maxLen := m.listWidth() - 10
		for i := m.listOffset; i < len(m.notes) && i < m.listOffset+visible; i++ {
			title := m.notes[i].Title
			if title == "" {
				title = t.Untitled
			}
			title = truncate(title, maxLen)

			marker := "  "
			if m.notes[i].ID == m.selectedID {
				marker = "* "
			}
			line := fmt.Sprintf("%s%-*s", marker, maxLen, title)
			if i == m.cursor {
				line = m.styles.SelectedItem.Render(line)
			} else if m.notes[i].ID == m.selectedID {
				line = m.styles.Selected.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	style := m.styles.Panel
	if !m.searching {
		style = m.styles.ActivePanel
	}
	return style.Width(m.listWidth() - 2).Height(m.contentHeight()).Render(b.String())
}

func (m NotesModel) renderPanel() string {
	t := i18n.T()

	var content string
	switch p := m.panel.(type) {
	case panelEditing:
		content = p.editor.View(m.styles, m.loading)
	case panelViewing:
		content = viewNote(p.note, m.styles)
	default:
		content = m.styles.Muted.Render(t.NoNoteSelected)
	}

	if m.errText != "" {
		content = m.styles.Error.Render(m.errText) + "\n\n" + content
	}

	return m.styles.Panel.Width(m.contentWidth() - 2).Height(m.contentHeight()).Render(content)
}

func (m NotesModel) renderStatus() string {
	t := i18n.T()

	left := fmt.Sprintf(" %d %s", len(m.notes), t.Notes)
	if m.loading {
		left += " | " + t.Loading
	}

	right := fmt.Sprintf("Ctrl+N %s | Ctrl+F %s | Ctrl+L %s | Ctrl+Q %s",
		t.NewNote, t.Search, t.Logout, t.Exit)

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}
	return m.styles.StatusBar.Render(left + strings.Repeat(" ", padding) + right)
}

func (m NotesModel) renderConfirmDialog() string {
	t := i18n.T()

	title := m.confirmDelete.Title
	if title == "" {
		title = t.Untitled
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.styles.Title.Render(t.DeleteNote),
		"",
		fmt.Sprintf(t.DeleteConfirm, title),
		"",
		m.styles.Muted.Render("[Y] "+t.Yes+"  [N] "+t.No),
	)
	return m.styles.Dialog.Width(40).Render(content)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
