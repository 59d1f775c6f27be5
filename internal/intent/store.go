// Package intent holds the user's search intent: what they typed, how they
// want it sorted and filtered, and which page they are on.
package intent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/gamesearch/internal/config"
)

var (
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrNegativeMinValue = errors.New("minimum must not be negative")
	ErrUnknownSort      = errors.New("unknown sort key")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// DefaultPageSize is used when the configured page size is not allowed.
const DefaultPageSize = 25

// SearchIntent is the complete set of user-controlled search parameters.
type SearchIntent struct {
	QueryDraft     string
	CommittedQuery string
	Sort           SortKey
	Page           int
	PageSize       int
	MinValue       int64
	DateRange      DateRange
}

// MaxPage is max(1, ceil(total/size)).
func MaxPage(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Defaults are the values Reset restores.
type Defaults struct {
	Sort     SortKey
	PageSize int
}

// DefaultsFromConfig validates the configured sort and page size, falling
// back to the built-in defaults for anything unusable.
func DefaultsFromConfig(cfg config.SearchConfig) Defaults {
	d := Defaults{Sort: DefaultSort, PageSize: DefaultPageSize}
	if k, err := ParseSortKey(cfg.Sort); err == nil {
		d.Sort = k
	}
	if config.IsAllowedPageSize(cfg.PageSize) {
		d.PageSize = cfg.PageSize
	}
	return d
}

// Store owns a SearchIntent and applies every mutation together with its
// dependent resets, so no intermediate state is ever observable.
type Store struct {
	defaults Defaults
	live     bool

	intent   SearchIntent
	total    int
	searched bool
}

// NewStore returns a store at its defaults. In live mode requests follow
// typing; otherwise nothing is fetched until the first CommitQuery.
func NewStore(live bool, d Defaults) *Store {
	s := &Store{defaults: d, live: live}
	s.intent = s.initial()
	return s
}

func (s *Store) initial() SearchIntent {
	return SearchIntent{
		Sort:     s.defaults.Sort,
		Page:     1,
		PageSize: s.defaults.PageSize,
	}
}

// Live reports whether the store runs in live-search mode.
func (s *Store) Live() bool { return s.live }

// Intent returns a copy of the current intent.
func (s *Store) Intent() SearchIntent { return s.intent }

// Total returns the last known total from an authoritative response.
func (s *Store) Total() int { return s.total }

// MaxPage is the highest reachable page for the last known total.
func (s *Store) MaxPage() int { return MaxPage(s.total, s.intent.PageSize) }

// Ready reports whether the intent may be turned into requests.
func (s *Store) Ready() bool { return s.live || s.searched }

// Searched reports whether an explicit search has been committed.
func (s *Store) Searched() bool { return s.searched }

// Descriptor snapshots the request-relevant fields.
func (s *Store) Descriptor() Descriptor {
	return Descriptor{
		Query:     strings.TrimSpace(s.intent.CommittedQuery),
		Sort:      s.intent.Sort,
		Page:      s.intent.Page,
		PageSize:  s.intent.PageSize,
		MinValue:  s.intent.MinValue,
		DateRange: s.intent.DateRange,
	}
}

// SetQueryDraft updates the uncommitted text only.
func (s *Store) SetQueryDraft(text string) {
	s.intent.QueryDraft = text
}

// CanCommit reports whether CommitQuery would change anything: before the
// first search always, afterwards only when the trimmed draft differs.
func (s *Store) CanCommit() bool {
	if !s.searched {
		return true
	}
	return strings.TrimSpace(s.intent.QueryDraft) != strings.TrimSpace(s.intent.CommittedQuery)
}

// CommitQuery copies the trimmed draft into the committed query and goes
// back to page 1.
func (s *Store) CommitQuery() {
	s.intent.CommittedQuery = strings.TrimSpace(s.intent.QueryDraft)
	s.intent.Page = 1
	s.searched = true
}

// SetQueryImmediate sets draft and committed query at once. Used in live
// mode, where debouncing delays the request rather than the write.
func (s *Store) SetQueryImmediate(text string) {
	s.intent.QueryDraft = text
	s.intent.CommittedQuery = text
	s.intent.Page = 1
}

func (s *Store) SetSort(k SortKey) error {
	if _, err := ParseSortKey(string(k)); err != nil {
		return err
	}
	s.intent.Sort = k
	s.intent.Page = 1
	return nil
}

func (s *Store) SetPageSize(n int) error {
	if !config.IsAllowedPageSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	s.intent.PageSize = n
	s.intent.Page = 1
	return nil
}

// CyclePageSize moves to the next (delta > 0) or previous allowed page
// size, wrapping around.
func (s *Store) CyclePageSize(delta int) {
	sizes := config.PageSizes
	idx := 0
	for i, n := range sizes {
		if n == s.intent.PageSize {
			idx = i
			break
		}
	}
	next := ((idx+delta)%len(sizes) + len(sizes)) % len(sizes)
	_ = s.SetPageSize(sizes[next])
}

// SetMinValue sets the floor on current players; 0 clears it.
func (s *Store) SetMinValue(v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeMinValue, v)
	}
	s.intent.MinValue = v
	s.intent.Page = 1
	return nil
}

func (s *Store) SetDateRange(r DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return fmt.Errorf("%w: to is before from", ErrInvalidDateRange)
	}
	s.intent.DateRange = r
	s.intent.Page = 1
	return nil
}

// SetPage moves to page n, clamped into [1, MaxPage].
func (s *Store) SetPage(n int) {
	s.intent.Page = clamp(n, 1, s.MaxPage())
}

func (s *Store) NextPage() { s.SetPage(s.intent.Page + 1) }

func (s *Store) PrevPage() { s.SetPage(s.intent.Page - 1) }

// SetTotal records the total of the latest authoritative response. If the
// current page is now out of range it is clamped down, and SetTotal
// reports true so the caller can fetch the clamped page.
func (s *Store) SetTotal(total int) bool {
	if total < 0 {
		total = 0
	}
	s.total = total
	if last := s.MaxPage(); s.intent.Page > last {
		s.intent.Page = last
		return true
	}
	return false
}

// Reset restores every field to its default.
func (s *Store) Reset() {
	s.intent = s.initial()
	s.total = 0
	s.searched = false
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
