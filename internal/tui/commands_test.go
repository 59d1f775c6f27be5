package tui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/present"
)

func TestDetailMarkdown(t *testing.T) {
	current := int64(512345)
	zero := int64(0)
	g := &api.Game{
		AppID:     json.Number("570"),
		Name:      "Dota 2",
		Current:   &current,
		Peak:      &zero,
		Timestamp: "2024-05-01T12:30:00Z",
	}

	md := detailMarkdown(g, "https://store.steampowered.com/app/570")

	assert.Contains(t, md, "# Dota 2")
	assert.Contains(t, md, "App ID 570 • observed 2024-05-01 12:30")
	assert.Contains(t, md, "| Players now | 512,345 |")
	assert.Contains(t, md, "| 24h peak | "+present.Missing+" |")
	assert.Contains(t, md, "| All-time peak | 0 |")
	assert.Contains(t, md, "[Store page](https://store.steampowered.com/app/570)")
}

func TestDetailMarkdown_NoStoreURL(t *testing.T) {
	md := detailMarkdown(&api.Game{AppID: json.Number("1")}, "")
	assert.NotContains(t, md, "Store page")
	assert.Contains(t, md, "# "+present.Missing)
}

func TestColumns_SortIndicator(t *testing.T) {
	cols := columns(120, "-peak24")
	assert.Equal(t, "24h Peak ▼", cols[3].Title)
	assert.Equal(t, "Current", cols[2].Title)

	cols = columns(120, "name")
	assert.Equal(t, "Name ▲", cols[1].Title)

	narrow := columns(20, "-current")
	assert.Equal(t, 12, narrow[1].Width, "name column keeps a minimum width")
}
