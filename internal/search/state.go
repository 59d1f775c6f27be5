package search

import "github.com/pders01/gamesearch/internal/api"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ResultState is what the presenter renders. On error the last good Data
// stays in place next to ErrorMessage.
type ResultState struct {
	Status       Status
	Data         *api.Page
	ErrorMessage string
	// Token of the most recently issued request
	Token uint64
}

func (r ResultState) Loading() bool { return r.Status == StatusLoading }

func (r ResultState) HasError() bool { return r.Status == StatusError }
