package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/gamesearch/internal/config"
	"github.com/pders01/gamesearch/internal/intent"
	"github.com/pders01/gamesearch/internal/search"
	"github.com/pders01/gamesearch/internal/validation"
)

const maxQueryLength = 256

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.clearStatus()

	// reset works everywhere, including while typing
	if key == kh.modifierKey+"r" {
		return kh.app, kh.resetAll()
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.focus == focusInput
	case ViewFilters:
		return kh.app.filterField == fieldFrom || kh.app.filterField == fieldTo
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if kh.app.view == ViewFilters && key == kh.modifierKey+"x" {
		return kh.app, kh.clearFilters()
	}

	switch key {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, kh.app.quit()
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewFilters {
			kh.moveFilterField(1)
			return kh.app, nil
		}
		kh.app.focusResults()
		return kh.app, nil
	case "shift+tab", "up":
		if kh.app.view == ViewFilters {
			kh.moveFilterField(-1)
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		if kh.app.store.Live() {
			// flush a pending debounce right away
			cmd := kh.app.syncIntent(search.CauseCommit)
			kh.app.focusResults()
			return kh.app, cmd
		}
		kh.app.store.SetQueryDraft(kh.sanitizeQuery(kh.app.queryInput.Value()))
		if !kh.app.store.CanCommit() {
			return kh.app, nil
		}
		kh.app.store.CommitQuery()
		return kh.app, kh.app.syncIntent(search.CauseCommit)

	case ViewFilters:
		return kh.app, kh.applyFilters()

	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused text input
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewSearch:
		prev := kh.app.queryInput.Value()
		kh.app.queryInput, cmd = kh.app.queryInput.Update(msg)
		value := kh.app.queryInput.Value()
		if value == prev {
			return kh.app, cmd
		}

		query := kh.sanitizeQuery(value)
		if !kh.app.store.Live() {
			kh.app.store.SetQueryDraft(query)
			return kh.app, cmd
		}
		kh.app.store.SetQueryImmediate(query)
		return kh.app, tea.Batch(cmd, kh.app.syncIntent(search.CauseText))

	case ViewFilters:
		switch kh.app.filterField {
		case fieldFrom:
			kh.app.fromInput, cmd = kh.app.fromInput.Update(msg)
		case fieldTo:
			kh.app.toInput, cmd = kh.app.toInput.Update(msg)
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", "q":
		return kh.app, kh.app.quit(), true
	case "esc":
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewSearch:
		return kh.handleResultsCustomKeys(key)
	case ViewFilters:
		return kh.handleFiltersCustomKeys(key)
	case ViewDetail:
		return kh.handleDetailCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

// handleResultsCustomKeys handles keys while the results table has focus
func (kh *KeyHandler) handleResultsCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case "tab", "shift+tab", "/", "i":
		a.focusQuery()
		return a, nil, true

	case "]", "right":
		a.store.NextPage()
		return a, a.syncIntent(search.CausePage), true
	case "[", "left":
		a.store.PrevPage()
		return a, a.syncIntent(search.CausePage), true

	case "s", "S":
		next := a.store.Intent().Sort.Next()
		if key == "S" {
			next = a.store.Intent().Sort.Prev()
		}
		if err := a.store.SetSort(next); err != nil {
			a.err = err
			return a, nil, true
		}
		a.setStatus(MsgSortedBy(next.Label()), StatusInfo)
		return a, a.syncIntent(search.CauseSort), true

	case "z", "Z":
		delta := 1
		if key == "Z" {
			delta = -1
		}
		a.store.CyclePageSize(delta)
		a.setStatus(MsgPageSize(a.store.Intent().PageSize), StatusInfo)
		return a, a.syncIntent(search.CausePageSize), true

	case "f":
		kh.openFilters()
		return a, nil, true

	case "r":
		if !a.store.Ready() {
			return a, nil, true
		}
		a.setStatus(MsgRefreshing, StatusInfo)
		cmd := a.sync.Refresh()
		a.refresh()
		return a, cmd, true

	case "enter":
		id := a.selectedAppID()
		if id == "" {
			a.setStatus(MsgNoSelection, StatusWarn)
			return a, nil, true
		}
		a.view = ViewDetail
		a.detailGame = nil
		a.viewport.SetContent("")
		return a, a.loadDetail(id), true

	case "o":
		id := a.selectedAppID()
		if id == "" {
			a.setStatus(MsgNoSelection, StatusWarn)
			return a, nil, true
		}
		return a, a.openStorePage(id), true
	}
	return a, nil, false
}

// handleFiltersCustomKeys handles keys while the minimum control has focus
func (kh *KeyHandler) handleFiltersCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	switch key {
	case "tab", "down":
		kh.moveFilterField(1)
		return a, nil, true
	case "shift+tab", "up":
		kh.moveFilterField(-1)
		return a, nil, true
	case "+", "=", "right":
		kh.stepMin(1)
		return a, nil, true
	case "-", "_", "left":
		kh.stepMin(-1)
		return a, nil, true
	case "0", "backspace":
		a.minDraft = 0
		return a, nil, true
	case "enter":
		return a, kh.applyFilters(), true
	case kh.modifierKey + "x":
		return a, kh.clearFilters(), true
	}
	return a, nil, false
}

// handleDetailCustomKeys handles custom action keys in the detail view
func (kh *KeyHandler) handleDetailCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	a := kh.app
	if a.detailGame == nil {
		return a, nil, false
	}
	id := a.detailGame.AppID.String()
	switch key {
	case "o":
		return a, a.openStorePage(id), true
	case "r":
		return a, a.loadDetail(id), true
	}
	return a, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewSearch:
		if msg.String() == "up" && kh.app.table.Cursor() == 0 {
			kh.app.focusQuery()
			return kh.app, nil
		}
		kh.app.table, cmd = kh.app.table.Update(msg)
		return kh.app, cmd

	case ViewDetail:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	switch a.view {
	case ViewFilters:
		a.view = ViewSearch
		a.fromInput.Blur()
		a.toInput.Blur()
		return a, nil

	case ViewDetail:
		a.cancelDetail()
		a.view = ViewSearch
		a.focusResults()
		return a, nil

	case ViewSearch:
		if a.focus == focusInput {
			a.focusResults()
			return a, nil
		}
		return a, a.quit()

	default:
		return a, a.quit()
	}
}

func (kh *KeyHandler) openFilters() {
	a := kh.app
	in := a.store.Intent()

	a.minDraft = in.MinValue
	a.fromInput.SetValue(formatDay(in.DateRange.From))
	a.toInput.SetValue(formatDay(in.DateRange.To))
	a.filterField = fieldMin
	a.fromInput.Blur()
	a.toInput.Blur()
	a.view = ViewFilters
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(validation.DayLayout)
}

func (kh *KeyHandler) moveFilterField(delta int) {
	a := kh.app
	a.filterField = ((a.filterField+delta)%fieldCount + fieldCount) % fieldCount

	a.fromInput.Blur()
	a.toInput.Blur()
	switch a.filterField {
	case fieldFrom:
		a.fromInput.Focus()
	case fieldTo:
		a.toInput.Focus()
	}
}

// stepMin moves the minimum by one configured step, within [0, max].
func (kh *KeyHandler) stepMin(dir int) {
	a := kh.app
	step := kh.config.Search.MinStep
	if step <= 0 {
		step = 1
	}
	v := a.minDraft + int64(dir)*step
	if v < 0 {
		v = 0
	}
	if limit := kh.config.Search.MinMax; limit > 0 && v > limit {
		v = limit
	}
	a.minDraft = v
}

// applyFilters validates the form and writes it to the store in one step,
// so the page reset and the new filters go out as a single request.
func (kh *KeyHandler) applyFilters() tea.Cmd {
	a := kh.app
	from, to, err := validation.ParseDayRange(a.fromInput.Value(), a.toInput.Value())
	if err != nil {
		a.err = wrapErr("date range", err)
		return nil
	}
	if err := a.store.SetMinValue(a.minDraft); err != nil {
		a.err = err
		return nil
	}
	if err := a.store.SetDateRange(intent.DateRange{From: from, To: to}); err != nil {
		a.err = err
		return nil
	}

	a.fromInput.Blur()
	a.toInput.Blur()
	a.view = ViewSearch
	a.setStatus(MsgFiltersApplied, StatusSuccess)
	return a.syncIntent(search.CauseFilter)
}

func (kh *KeyHandler) clearFilters() tea.Cmd {
	a := kh.app
	a.minDraft = 0
	a.fromInput.SetValue("")
	a.toInput.SetValue("")
	cmd := kh.applyFilters()
	a.setStatus(MsgFiltersCleared, StatusSuccess)
	return cmd
}

// resetAll restores every field to its default and returns to the query.
func (kh *KeyHandler) resetAll() tea.Cmd {
	a := kh.app
	a.cancelDetail()
	a.store.Reset()
	a.sync.Reset()
	a.queryInput.SetValue("")
	a.minDraft = 0
	a.fromInput.SetValue("")
	a.toInput.SetValue("")
	a.fromInput.Blur()
	a.toInput.Blur()
	a.view = ViewSearch
	a.focusQuery()
	a.setStatus(MsgReset, StatusInfo)
	return a.syncIntent(search.CauseReset)
}

// sanitizeQuery limits query length and collapses whitespace
func (kh *KeyHandler) sanitizeQuery(input string) string {
	input = strings.TrimSpace(input)

	if r := []rune(input); len(r) > maxQueryLength {
		input = string(r[:maxQueryLength])
	}

	input = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(input)
	return strings.Join(strings.Fields(input), " ")
}

// GetHelpForCurrentView returns only our custom help text
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	a := kh.app
	reset := kh.modifierKey + "r: reset"

	switch a.view {
	case ViewSearch:
		if a.focus == focusInput {
			if a.store.Live() {
				return []string{"type to search", "enter/tab: results", reset, "esc: results"}
			}
			return []string{"enter: search", "tab: results", reset, "esc: results"}
		}
		return []string{
			"[ ]: page", "s: sort", "z: page size", "f: filters", "r: refresh",
			"enter: details", "o: store page", "/: search", reset, "q: quit",
		}

	case ViewFilters:
		return []string{"tab: next field", "+/-: minimum", "enter: apply", kh.modifierKey + "x: clear", "esc: cancel"}

	case ViewDetail:
		return []string{"o: store page", "r: reload", "esc: back"}

	default:
		return []string{}
	}
}
