// Package present derives everything the UI shows from the result state
// and the search intent. All functions are pure.
package present

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/intent"
	"github.com/pders01/gamesearch/internal/search"
)

// Missing is shown for metrics the dataset has no value for.
const Missing = "—"

const (
	StatusPrompt  = "Type a search and press Enter"
	StatusLoading = "Loading results…"
	StatusAll     = "Showing all games"
)

var printer = message.NewPrinter(language.English)

// Pager describes the pagination controls.
type Pager struct {
	Page    int
	MaxPage int
	CanPrev bool
	CanNext bool
}

// Paginate clamps page into [1, maxPage] and derives the prev/next state.
func Paginate(page, total, size int) Pager {
	maxPage := intent.MaxPage(total, size)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	return Pager{
		Page:    page,
		MaxPage: maxPage,
		CanPrev: page > 1,
		CanNext: page < maxPage,
	}
}

// Row is one rendered result line.
type Row struct {
	AppID    string
	Name     string
	Current  string
	Peak24   string
	Peak     string
	Hours    string
	Observed string
}

// Projection is the complete derived view.
type Projection struct {
	Status       string
	Footer       string
	Error        string
	Placeholders int
	Rows         []Row
	Pager        Pager
	Empty        bool
}

// Options carries the controller facts that are not part of the intent.
type Options struct {
	Live     bool
	Searched bool
}

// Project derives the view of state for the intent in. While a request is
// loading it emits placeholders for a full page of the selected size so the
// layout does not jump when rows arrive.
func Project(state search.ResultState, in intent.SearchIntent, opts Options) Projection {
	var p Projection

	total := 0
	if state.Data != nil {
		total = state.Data.Total
	}
	p.Pager = Paginate(in.Page, total, in.PageSize)
	p.Status = statusLine(state, in, opts)

	if state.Status == search.StatusError {
		p.Error = "Error: " + state.ErrorMessage
	}

	if state.Status == search.StatusLoading {
		p.Placeholders = in.PageSize
		return p
	}

	if state.Data != nil {
		p.Footer = Footer(state.Data.Total, p.Pager)
		p.Rows = make([]Row, 0, len(state.Data.Items))
		for _, g := range state.Data.Items {
			p.Rows = append(p.Rows, ProjectRow(g))
		}
		p.Empty = len(p.Rows) == 0 && state.Status == search.StatusSuccess
	}
	return p
}

func statusLine(state search.ResultState, in intent.SearchIntent, opts Options) string {
	if !opts.Live && !opts.Searched {
		return StatusPrompt
	}
	if state.Status == search.StatusLoading {
		return StatusLoading
	}
	if q := strings.TrimSpace(in.CommittedQuery); q != "" {
		return fmt.Sprintf("Showing results for %q", q)
	}
	return StatusAll
}

// Footer renders "Total N games • Page p / max".
func Footer(total int, pager Pager) string {
	noun := "games"
	if total == 1 {
		noun = "game"
	}
	return printer.Sprintf("Total %d %s • Page %d / %d", total, noun, pager.Page, pager.MaxPage)
}

// ProjectRow formats one game. Nil metrics become Missing; zero stays "0".
func ProjectRow(g api.Game) Row {
	r := Row{
		AppID:   g.AppID.String(),
		Name:    g.Name,
		Current: Metric(g.Current),
		Peak24:  Metric(g.Peak24),
		Peak:    Metric(g.Peak),
		Hours:   Metric(g.Hours),
	}
	if r.Name == "" {
		r.Name = Missing
	}
	if ts, ok := g.ObservedAt(); ok {
		r.Observed = ts.Format("2006-01-02 15:04")
	} else {
		r.Observed = Missing
	}
	return r
}

// Metric formats a nullable count with thousands grouping.
func Metric(v *int64) string {
	if v == nil {
		return Missing
	}
	return Number(*v)
}

func Number(v int64) string {
	return printer.Sprintf("%d", v)
}
