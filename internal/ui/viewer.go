package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nzaccagnino/notekeeper/internal/api"
	"github.com/nzaccagnino/notekeeper/internal/i18n"
)

// viewNote renders a single note read-only with its edit affordance. Pure
// presentation, no state.
func viewNote(note api.Note, st *Styles) string {
	t := i18n.T()

	title := note.Title
	if title == "" {
		title = t.Untitled
	}

	meta := ""
	if note.CreatedAt > 0 {
		meta = fmt.Sprintf("%s %s", t.CreatedAt, formatStamp(note.CreatedAt))
		if note.UpdatedAt > 0 && note.UpdatedAt != note.CreatedAt {
			meta += fmt.Sprintf("  %s %s", t.ModifiedAt, formatStamp(note.UpdatedAt))
		}
	}

	parts := []string{
		st.Title.Render(title),
		"",
		note.Content,
		"",
	}
	if meta != "" {
		parts = append(parts, st.Muted.Render(meta))
	}
	parts = append(parts, st.Label.Render("[e] "+t.Edit))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatStamp(unix int64) string {
	return time.Unix(unix, 0).Format("2006-01-02 15:04")
}
