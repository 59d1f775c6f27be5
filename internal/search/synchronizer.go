// Package search turns descriptor changes into an ordered, cancelable
// sequence of API requests. It runs entirely inside the Bubble Tea event
// loop: network work happens in tea.Cmd closures and comes back as
// messages, so no locking is needed.
package search

import (
	"context"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/debuglog"
	"github.com/pders01/gamesearch/internal/intent"
)

// Fetcher fetches one page of results. *api.Client implements it.
type Fetcher interface {
	Search(ctx context.Context, params url.Values) (*api.Page, error)
}

// Cause says which kind of mutation produced a descriptor. Only text edits
// in live mode are debounced.
type Cause int

const (
	CauseText Cause = iota
	CauseCommit
	CauseSort
	CausePageSize
	CausePage
	CauseFilter
	CauseReset
	CauseClamp
)

func (c Cause) String() string {
	switch c {
	case CauseText:
		return "text"
	case CauseCommit:
		return "commit"
	case CauseSort:
		return "sort"
	case CausePageSize:
		return "page_size"
	case CausePage:
		return "page"
	case CauseFilter:
		return "filter"
	case CauseReset:
		return "reset"
	case CauseClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// DebounceMsg fires when a debounce quantum has elapsed. Seq identifies
// the schedule it belongs to; a newer schedule makes it stale.
type DebounceMsg struct {
	Seq uint64
}

// ResponseMsg carries the outcome of the request issued with Token.
type ResponseMsg struct {
	Token      uint64
	Descriptor intent.Descriptor
	Page       *api.Page
	Err        error
}

// Synchronizer keeps at most one authoritative request in flight and
// exposes the resulting ResultState.
type Synchronizer struct {
	fetcher Fetcher
	live    bool
	quantum time.Duration

	state ResultState

	// token of the most recently issued request
	token   uint64
	current intent.Descriptor
	issued  bool
	cancel  context.CancelFunc

	debounceSeq uint64
	pending     *intent.Descriptor

	closed bool
	log    *debuglog.FieldLogger
}

// New returns an idle synchronizer. In live mode text changes wait for
// quantum of quiet before a request goes out.
func New(fetcher Fetcher, live bool, quantum time.Duration) *Synchronizer {
	return &Synchronizer{
		fetcher: fetcher,
		live:    live,
		quantum: quantum,
		log:     debuglog.WithFields(map[string]interface{}{"component": "search"}),
	}
}

// State returns a copy of the current result state.
func (s *Synchronizer) State() ResultState { return s.state }

// Pending reports whether a debounced issuance is scheduled.
func (s *Synchronizer) Pending() bool { return s.pending != nil }

// Sync is called after every store mutation with the resulting descriptor.
func (s *Synchronizer) Sync(d intent.Descriptor, cause Cause) tea.Cmd {
	if s.closed {
		return nil
	}

	s.debounceSeq++

	if cause == CauseText && s.live && s.quantum > 0 {
		pending := d
		s.pending = &pending
		seq := s.debounceSeq
		return tea.Tick(s.quantum, func(time.Time) tea.Msg {
			return DebounceMsg{Seq: seq}
		})
	}

	// the descriptor already contains any pending text
	s.pending = nil
	return s.issue(d, cause, false)
}

// HandleDebounce issues the pending descriptor if msg is the latest schedule.
func (s *Synchronizer) HandleDebounce(msg DebounceMsg) tea.Cmd {
	if s.closed || msg.Seq != s.debounceSeq || s.pending == nil {
		return nil
	}
	d := *s.pending
	s.pending = nil
	return s.issue(d, CauseText, false)
}

// Refresh re-issues the current descriptor even though it has not changed.
func (s *Synchronizer) Refresh() tea.Cmd {
	if s.closed || !s.issued {
		return nil
	}
	s.debounceSeq++
	s.pending = nil
	return s.issue(s.current, CauseCommit, true)
}

func (s *Synchronizer) issue(d intent.Descriptor, cause Cause, force bool) tea.Cmd {
	// an errored descriptor may be selected again to retry it
	if !force && s.issued && s.state.Status != StatusIdle && s.state.Status != StatusError && d.Equal(s.current) {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.token++
	token := s.token
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.current = d
	s.issued = true

	s.state.Status = StatusLoading
	s.state.Token = token

	s.log.Debugf("issue token=%d cause=%s %s", token, cause, d.Encode())

	fetcher := s.fetcher
	params := d.Values()
	return func() tea.Msg {
		page, err := fetcher.Search(ctx, params)
		return ResponseMsg{Token: token, Descriptor: d, Page: page, Err: err}
	}
}

// HandleResponse applies msg if it belongs to the current request and
// reports whether the state changed. Responses of superseded or cancelled
// requests are dropped without touching the state.
func (s *Synchronizer) HandleResponse(msg ResponseMsg) bool {
	if s.closed || msg.Token != s.token {
		s.log.Debugf("drop stale response token=%d current=%d", msg.Token, s.token)
		return false
	}
	if msg.Err != nil && api.IsCanceled(msg.Err) {
		return false
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if msg.Err != nil {
		s.state.Status = StatusError
		s.state.ErrorMessage = msg.Err.Error()
		s.log.Warnf("request token=%d failed: %v", msg.Token, msg.Err)
		return true
	}
	if msg.Page == nil {
		s.state.Status = StatusError
		s.state.ErrorMessage = "malformed response: empty body"
		return true
	}

	s.state.Status = StatusSuccess
	s.state.Data = msg.Page
	s.state.ErrorMessage = ""
	return true
}

// Reset cancels the outstanding request and any pending debounce and
// returns to an idle state without data. Late responses are dropped.
func (s *Synchronizer) Reset() {
	if s.closed {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token++
	s.debounceSeq++
	s.pending = nil
	s.issued = false
	s.current = intent.Descriptor{}
	s.state = ResultState{Status: StatusIdle, Token: s.token}
	s.log.Debugf("reset token=%d", s.token)
}

// Close cancels the outstanding request and turns every later call into a
// no-op. Responses still in flight are dropped.
func (s *Synchronizer) Close() {
	if s.closed {
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token++
	s.debounceSeq++
	s.pending = nil
	s.closed = true
}
