package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/present"
)

// loadDetail fetches one game for the detail view. Each call supersedes
// the previous one: its request is cancelled and its response dropped.
func (a *App) loadDetail(appID string) tea.Cmd {
	if a.detailCancel != nil {
		a.detailCancel()
	}
	a.detailSeq++
	seq := a.detailSeq
	ctx, cancel := context.WithCancel(context.Background())
	a.detailCancel = cancel
	a.loadingDetail = true

	client := a.client
	return func() tea.Msg {
		g, err := client.Game(ctx, appID)
		if err == nil && g == nil {
			err = fmt.Errorf("game %s: empty response", appID)
		}
		return detailLoadedMsg{seq: seq, game: g, err: err}
	}
}

// cancelDetail abandons the detail request, if any.
func (a *App) cancelDetail() {
	if a.detailCancel != nil {
		a.detailCancel()
		a.detailCancel = nil
	}
	a.detailSeq++
	a.loadingDetail = false
}

func (a *App) openStorePage(appID string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		u, err := launcher.OpenStorePage(appID)
		if err != nil {
			return errorMsg{err: wrapErr("open store page", err)}
		}
		return storeOpenedMsg{url: u}
	}
}

// detailMarkdown renders a game as markdown for glamour.
func detailMarkdown(g *api.Game, storeURL string) string {
	row := present.ProjectRow(*g)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", row.Name)
	fmt.Fprintf(&b, "*App ID %s • observed %s*\n\n", row.AppID, row.Observed)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|---|---:|\n")
	fmt.Fprintf(&b, "| Players now | %s |\n", row.Current)
	fmt.Fprintf(&b, "| 24h peak | %s |\n", row.Peak24)
	fmt.Fprintf(&b, "| All-time peak | %s |\n", row.Peak)
	fmt.Fprintf(&b, "| Hours played | %s |\n", row.Hours)
	b.WriteString("\n")

	if storeURL != "" {
		fmt.Fprintf(&b, "[Store page](%s)\n", storeURL)
	}
	return b.String()
}
