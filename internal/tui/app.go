package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/gamesearch/internal/api"
	"github.com/pders01/gamesearch/internal/browser"
	"github.com/pders01/gamesearch/internal/config"
	"github.com/pders01/gamesearch/internal/intent"
	"github.com/pders01/gamesearch/internal/present"
	"github.com/pders01/gamesearch/internal/search"
	"github.com/pders01/gamesearch/internal/validation"
)

// Client is the part of the API the UI needs. *api.Client implements it.
type Client interface {
	search.Fetcher
	Game(ctx context.Context, appID string) (*api.Game, error)
}

type storeOpener interface {
	StorePageURL(appID string) (string, error)
	OpenStorePage(appID string) (string, error)
}

type App struct {
	config     *config.Config
	client     Client
	store      *intent.Store
	sync       *search.Synchronizer
	launcher   storeOpener
	keyHandler *KeyHandler

	queryInput textinput.Model
	table      table.Model
	spinner    spinner.Model
	viewport   viewport.Model

	// filters form
	fromInput   textinput.Model
	toInput     textinput.Model
	minDraft    int64
	filterField int

	view       View
	focus      focus
	projection present.Projection

	detailSeq     uint64
	detailCancel  context.CancelFunc
	detailGame    *api.Game
	loadingDetail bool

	status          string
	statusKind      StatusKind
	err             error
	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, client Client) *App {
	ApplyTheme(cfg.UI.Colors)

	qi := textinput.New()
	qi.Placeholder = "Search games by name..."
	qi.Prompt = "› "
	qi.CharLimit = maxQueryLength
	qi.Focus()

	from := textinput.New()
	from.Placeholder = validation.DayLayout
	from.CharLimit = len(validation.DayLayout)
	from.Width = len(validation.DayLayout) + 1

	to := textinput.New()
	to.Placeholder = validation.DayLayout
	to.CharLimit = len(validation.DayLayout)
	to.Width = len(validation.DayLayout) + 1

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	store := intent.NewStore(cfg.Search.Live, intent.DefaultsFromConfig(cfg.Search))

	tbl := table.New(
		table.WithColumns(columns(80, store.Intent().Sort)),
		table.WithFocused(false),
		table.WithHeight(10),
	)
	tbl.SetStyles(tableStyles())

	app := &App{
		config:     cfg,
		client:     client,
		store:      store,
		sync:       search.New(client, cfg.Search.Live, cfg.Search.Debounce),
		launcher:   browser.NewLauncher(cfg),
		queryInput: qi,
		table:      tbl,
		spinner:    sp,
		viewport:   viewport.New(0, 0),
		fromInput:  from,
		toInput:    to,
		view:       ViewSearch,
		focus:      focusInput,
		width:      80,
		height:     24,
	}

	app.keyHandler = NewKeyHandler(app, cfg)
	app.refresh()

	return app
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Foreground(SecondaryColor).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(BackgroundColor).
		Background(AccentColor).
		Bold(true)
	return s
}

// column order; the app id must stay first, selectedAppID relies on it
var columnTitles = []string{"App ID", "Name", "Current", "24h Peak", "Peak", "Hours", "Observed"}

// sortColumn maps a sort field to the column it orders.
var sortColumn = map[string]int{
	"name":      1,
	"current":   2,
	"peak24":    3,
	"peak":      4,
	"timestamp": 6,
}

func columns(width int, sort intent.SortKey) []table.Column {
	widths := []int{8, 0, 10, 10, 10, 12, 16}
	fixed := 0
	for _, w := range widths {
		fixed += w
	}
	// cell padding is one column on each side
	name := width - fixed - 2*len(widths)
	if name < 12 {
		name = 12
	}
	widths[1] = name

	cols := make([]table.Column, len(columnTitles))
	for i, title := range columnTitles {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	if idx, ok := sortColumn[sort.Field()]; ok {
		arrow := " ▲"
		if sort.Descending() {
			arrow = " ▼"
		}
		cols[idx].Title += arrow
	}
	return cols
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
		a.spinner.Tick,
		a.syncIntent(search.CauseReset),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		if a.view == ViewDetail {
			var cmd tea.Cmd
			a.viewport, cmd = a.viewport.Update(msg)
			return a, cmd
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case search.DebounceMsg:
		cmd := a.sync.HandleDebounce(msg)
		a.refresh()
		return a, cmd

	case search.ResponseMsg:
		return a, a.handleResponse(msg)

	case detailLoadedMsg:
		a.handleDetail(msg)
		return a, nil

	case storeOpenedMsg:
		a.setStatus(MsgOpened(truncateMiddle(msg.url, 60)), StatusSuccess)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	return a, nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = width - 4
	}
	a.queryInput.Width = inputWidth

	// header, input frame, status, error, footer and the status bar
	tableHeight := height - 12
	if tableHeight < 3 {
		tableHeight = 3
	}
	a.table.SetHeight(tableHeight)
	a.table.SetWidth(width)
	a.table.SetColumns(columns(width, a.store.Intent().Sort))

	a.viewport.Width = width
	a.viewport.Height = height - 3
}

// syncIntent hands the current descriptor to the synchronizer. Nothing is
// requested until the store is ready, i.e. before the first explicit
// search in explicit mode.
func (a *App) syncIntent(cause search.Cause) tea.Cmd {
	var cmd tea.Cmd
	if a.store.Ready() {
		cmd = a.sync.Sync(a.store.Descriptor(), cause)
	}
	a.refresh()
	return cmd
}

func (a *App) handleResponse(msg search.ResponseMsg) tea.Cmd {
	if !a.sync.HandleResponse(msg) {
		return nil
	}

	var cmd tea.Cmd
	st := a.sync.State()
	if st.Status == search.StatusSuccess && st.Data != nil {
		if a.store.SetTotal(st.Data.Total) {
			// the page fell off the end of the result set
			cmd = a.sync.Sync(a.store.Descriptor(), search.CauseClamp)
		} else {
			a.table.SetCursor(0)
		}
	}
	a.refresh()
	return cmd
}

// refresh re-derives the projection and pushes it into the table.
func (a *App) refresh() {
	in := a.store.Intent()
	a.projection = present.Project(a.sync.State(), in, present.Options{
		Live:     a.store.Live(),
		Searched: a.store.Searched(),
	})

	cols := columns(a.width, in.Sort)
	a.table.SetColumns(cols)

	if n := a.projection.Placeholders; n > 0 {
		rows := make([]table.Row, n)
		for i := range rows {
			rows[i] = placeholderRow(cols)
		}
		a.table.SetRows(rows)
		return
	}

	rows := make([]table.Row, len(a.projection.Rows))
	for i, r := range a.projection.Rows {
		rows[i] = table.Row{r.AppID, r.Name, r.Current, r.Peak24, r.Peak, r.Hours, r.Observed}
	}
	a.table.SetRows(rows)
}

func placeholderRow(cols []table.Column) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		n := c.Width / 2
		if n < 1 {
			n = 1
		}
		row[i] = strings.Repeat("░", n)
	}
	return row
}

// selectedAppID returns the app id of the highlighted row, or "" while
// placeholders are shown or nothing is selected.
func (a *App) selectedAppID() string {
	if a.projection.Placeholders > 0 || len(a.projection.Rows) == 0 {
		return ""
	}
	row := a.table.SelectedRow()
	if len(row) == 0 || row[0] == present.Missing {
		return ""
	}
	return row[0]
}

func (a *App) handleDetail(msg detailLoadedMsg) {
	if msg.seq != a.detailSeq {
		return
	}
	if msg.err != nil && api.IsCanceled(msg.err) {
		return
	}
	a.loadingDetail = false
	if a.detailCancel != nil {
		a.detailCancel()
		a.detailCancel = nil
	}

	if msg.err != nil {
		a.detailGame = nil
		a.err = wrapErr("load game", msg.err)
		a.viewport.SetContent(renderMuted("Could not load this game. Press Esc to go back."))
		return
	}

	a.detailGame = msg.game
	storeURL, _ := a.launcher.StorePageURL(msg.game.AppID.String())
	md := detailMarkdown(msg.game, storeURL)

	content := md
	if r, err := a.getRenderer(); err == nil {
		if rendered, err := r.Render(md); err == nil {
			content = rendered
		}
	}
	a.viewport.SetContent(content)
	a.viewport.GotoTop()
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

func (a *App) clearStatus() {
	a.status = ""
	a.err = nil
}

func (a *App) focusQuery() {
	a.focus = focusInput
	a.table.Blur()
	a.queryInput.Focus()
}

func (a *App) focusResults() {
	a.focus = focusTable
	a.queryInput.Blur()
	a.table.Focus()
}

// quit tears the synchronizer down so nothing in flight outlives the UI.
func (a *App) quit() tea.Cmd {
	a.sync.Close()
	if a.detailCancel != nil {
		a.detailCancel()
		a.detailCancel = nil
	}
	return tea.Quit
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewSearch:
		content = a.searchView()
	case ViewFilters:
		content = a.filtersView()
	case ViewDetail:
		if a.loadingDetail {
			content = renderCentered(a.width, a.height-3,
				a.spinner.View()+" "+renderMuted(MsgLoadingDetail))
		} else {
			content = a.viewport.View()
		}
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), customStatus)
	}
	return content
}

func (a *App) searchView() string {
	in := a.store.Intent()

	mode := "live"
	if !a.store.Live() {
		mode = "explicit"
	}
	subtitle := fmt.Sprintf("%s • sort: %s • %s%s",
		mode, in.Sort.Label(), MsgPageSize(in.PageSize), filterSummary(in))

	rows := []string{
		renderHeader("› "+AppName, subtitle, a.width),
		renderInputFrame(a.queryInput.View(), a.focus == focusInput, a.queryInput.Width),
	}

	status := a.projection.Status
	if a.sync.State().Loading() {
		status = a.spinner.View() + " " + status
	}
	rows = append(rows, renderMuted(status))

	if a.projection.Error != "" {
		rows = append(rows, ErrorMessageStyle.Render("✗ "+a.projection.Error))
	}

	switch {
	case !a.store.Ready():
		rows = append(rows, renderCentered(a.width, a.table.Height(), GetWelcomeMessage()))
	case a.projection.Empty:
		rows = append(rows, renderCentered(a.width, a.table.Height(), renderMuted(MsgNoResults)))
	default:
		rows = append(rows, a.table.View())
	}

	if a.projection.Footer != "" {
		rows = append(rows, renderPager(a.projection))
	}

	return ContentWrapper(a.width, a.height-3).Render(lipgloss.JoinVertical(lipgloss.Top, rows...))
}

func renderPager(p present.Projection) string {
	prev, next := renderMuted("‹"), renderMuted("›")
	if p.Pager.CanPrev {
		prev = HeaderStyle.Render("‹")
	}
	if p.Pager.CanNext {
		next = HeaderStyle.Render("›")
	}
	return prev + " " + StatusBarStyle.Render(p.Footer) + " " + next
}

func filterSummary(in intent.SearchIntent) string {
	var parts []string
	if in.MinValue > 0 {
		parts = append(parts, "≥ "+present.Number(in.MinValue)+" playing")
	}
	if !in.DateRange.IsZero() {
		from, to := "…", "…"
		if !in.DateRange.From.IsZero() {
			from = in.DateRange.From.Format(validation.DayLayout)
		}
		if !in.DateRange.To.IsZero() {
			to = in.DateRange.To.Format(validation.DayLayout)
		}
		parts = append(parts, from+" → "+to)
	}
	if len(parts) == 0 {
		return ""
	}
	return " • " + strings.Join(parts, " • ")
}

func (a *App) filtersView() string {
	minValue := "any"
	if a.minDraft > 0 {
		minValue = present.Number(a.minDraft)
	}
	minValue = ValueStyle.Render(minValue) + renderMuted(
		fmt.Sprintf("  (step %s, max %s)", present.Number(a.config.Search.MinStep), present.Number(a.config.Search.MinMax)))

	form := lipgloss.JoinVertical(
		lipgloss.Left,
		renderField("Min current", minValue, a.filterField == fieldMin),
		renderField("From", a.fromInput.View(), a.filterField == fieldFrom),
		renderField("To", a.toInput.View(), a.filterField == fieldTo),
	)

	return renderCentered(a.width, a.height-3, lipgloss.JoinVertical(
		lipgloss.Center,
		TitleStyle.Render("› filters"),
		"",
		form,
		"",
		renderHelp("Tab: next field • +/-: adjust minimum • Enter: apply • Esc: cancel"),
	))
}

func (a *App) getCustomStatusBar() string {
	if a.err != nil {
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(ErrorMessageStyle.Render(fmt.Sprintf("✗ %v", a.err)))
	}

	if a.status != "" {
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(a.statusKind.style().Render(a.status))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor).
		Render(truncateEnd(strings.Join(commands, " • "), a.width-2))
}
