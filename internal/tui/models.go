package tui

import "github.com/pders01/gamesearch/internal/api"

type View int

const (
	ViewSearch View = iota
	ViewFilters
	ViewDetail
)

func (v View) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewFilters:
		return "filters"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// focus inside the search view
type focus int

const (
	focusInput focus = iota
	focusTable
)

// filter form fields, in tab order
const (
	fieldMin = iota
	fieldFrom
	fieldTo
	fieldCount
)

type detailLoadedMsg struct {
	seq  uint64
	game *api.Game
	err  error
}

type storeOpenedMsg struct {
	url string
}

type errorMsg struct {
	err error
}
