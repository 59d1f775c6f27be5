package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgRefreshing     = "Refreshing…"
	MsgLoadingDetail  = "Loading game…"
	MsgFiltersApplied = "Filters applied"
	MsgFiltersCleared = "Filters cleared"
	MsgReset          = "Search reset"
	MsgNoSelection    = "No game selected"
	MsgNoResults      = "No games match"
)

func MsgOpened(url string) string {
	return fmt.Sprintf("Opened %s", strings.TrimSpace(url))
}

func MsgSortedBy(label string) string {
	return "Sorted by " + label
}

func MsgPageSize(n int) string {
	return fmt.Sprintf("%d per page", n)
}
