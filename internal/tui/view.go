package tui

import (
	"fmt"
	"strings"

	"github.com/qepting91/reddit-viewer/internal/collector"
	"github.com/qepting91/reddit-viewer/internal/domain"
	"github.com/qepting91/reddit-viewer/internal/present"
	"github.com/qepting91/reddit-viewer/internal/session"
)

// View implements tea.Model.
func (m Model) View() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(headerStyle.Render("Reddit Post Viewer"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter any Reddit post URL to view its details"))
	b.WriteString("\n\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n\n")

	switch snap.Outcome.State {
	case session.Loading:
		b.WriteString(m.spinner.View() + " Fetching post from Reddit...")
		b.WriteString("\n")
	case session.Failure:
		b.WriteString(errorBanner.Render("✗ " + snap.Outcome.Message))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("r: try again"))
		b.WriteString("\n")
	case session.Success:
		b.WriteString(m.renderPost(snap.Outcome.Post))
		b.WriteString("\n")
	}

	if m.showHistory(snap) {
		b.WriteString("\n")
		b.WriteString(m.renderHistory(snap.History))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(snap))
	return b.String()
}

func (m Model) renderInput() string {
	var b strings.Builder
	b.WriteString(m.input.View())

	val := strings.TrimSpace(m.input.Value())
	if m.touched && val != "" && !collector.IsPostURL(val) {
		b.WriteString("\n")
		b.WriteString(inputErrorStyle.Render("Please enter a valid Reddit post URL"))
	}
	if m.focus == focusInput {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("enter: fetch post  ctrl+e: use example URL  esc: leave input"))
	}
	return b.String()
}

func (m Model) renderPost(p domain.Post) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(bylineStyle.Render(present.Byline(p, m.now())))
	if p.LinkFlairText != "" {
		b.WriteString(flairStyle.Render(p.LinkFlairText))
	}
	b.WriteString("\n\n")

	if present.HasBody(p) {
		b.WriteString(present.Preview(p.SelfText, m.expanded))
		if present.NeedsExpand(p.SelfText) {
			label := "e: read more"
			if m.expanded {
				label = "e: show less"
			}
			b.WriteString("\n")
			b.WriteString(hintStyle.Render(label))
		}
	} else {
		b.WriteString("This is a link post:\n")
		b.WriteString(linkStyle.Render(p.URL))
	}
	b.WriteString("\n")

	if thumb, ok := present.Thumbnail(p); ok {
		b.WriteString(hintStyle.Render("Thumbnail: " + thumb))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statsStyle.Render(present.Stats(p)))
	b.WriteString("\n")
	b.WriteString("View on Reddit: " + linkStyle.Render(present.CanonicalURL(p.Permalink)))

	box := postBox
	if m.width > 0 {
		box = box.Width(min(m.width-4, 100))
	}
	return box.Render(b.String())
}

func (m Model) renderHistory(history []string) string {
	var b strings.Builder
	b.WriteString(historyTitle.Render("Recent Searches"))
	b.WriteString("\n")
	for i, u := range history {
		line := "↻ " + u
		if i == m.cursor && m.focus == focusBrowse {
			b.WriteString(selectedItem.Render(line))
		} else {
			b.WriteString(normalItem.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatusBar(snap session.Snapshot) string {
	var help string
	switch {
	case m.focus == focusInput:
		help = "ctrl+c: quit"
	case snap.Outcome.State == session.Success:
		help = "e: expand  n: new search  /: edit URL  q: quit"
	case m.showHistory(snap):
		help = "j/k: select  enter: fetch  c: clear all  /: edit URL  q: quit"
	default:
		help = "/: edit URL  q: quit"
	}

	status := fmt.Sprintf("[%s] %d recent │ %s", snap.Outcome.State, len(snap.History), help)
	if m.width > 0 {
		return statusBar.Width(m.width).Render(status)
	}
	return statusBar.Render(status)
}
