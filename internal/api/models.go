package api

import (
	"encoding/json"
	"time"
)

// Game is one row of the telemetry dataset. Metrics are nil when the
// dataset has no value for them, which is different from zero.
type Game struct {
	AppID     json.Number `json:"app_id"`
	Name      string      `json:"name"`
	Current   *int64      `json:"current"`
	Peak24    *int64      `json:"peak24"`
	Peak      *int64      `json:"peak"`
	Hours     *int64      `json:"hours,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ObservedAt parses Timestamp. Both RFC3339 and the offset-less ISO form are
// accepted; ok is false when the row has no usable timestamp.
func (g Game) ObservedAt() (t time.Time, ok bool) {
	if g.Timestamp == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, g.Timestamp); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// Page is one page of search results as returned by the API.
type Page struct {
	Total int
	Page  int
	Size  int
	Items []Game
}

// pageWire accepts both response shapes the API has served:
// {total, page, size, items} and {total, page, page_size, data}.
type pageWire struct {
	Total    *int    `json:"total"`
	Page     int     `json:"page"`
	Size     int     `json:"size"`
	PageSize int     `json:"page_size"`
	Items    *[]Game `json:"items"`
	Data     *[]Game `json:"data"`
}

func (w pageWire) toPage() (*Page, error) {
	if w.Total == nil {
		return nil, &MalformedResponseError{Reason: "missing total"}
	}
	if *w.Total < 0 {
		return nil, &MalformedResponseError{Reason: "negative total"}
	}

	items := w.Items
	if items == nil {
		items = w.Data
	}
	if items == nil {
		return nil, &MalformedResponseError{Reason: "missing items"}
	}

	size := w.Size
	if size == 0 {
		size = w.PageSize
	}

	return &Page{
		Total: *w.Total,
		Page:  w.Page,
		Size:  size,
		Items: *items,
	}, nil
}

type healthWire struct {
	OK *bool `json:"ok"`
}
