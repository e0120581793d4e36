package ui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/promptdeck/internal/catalog"
	"github.com/five82/promptdeck/internal/category"
	"github.com/five82/promptdeck/internal/engine"
	"github.com/five82/promptdeck/internal/projection"
	"github.com/five82/promptdeck/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewCharts
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Engine  *engine.Engine
	Table   *category.Table
	SiteURL string
	LogPath string
	// Tick is how often the header clock and log pane refresh.
	Tick time.Duration
	// Copy writes to the system clipboard; nil uses atotto/clipboard.
	Copy func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	engine  *engine.Engine
	store   *state.Store
	table   *category.Table
	siteURL string
	logPath string
	tick    time.Duration
	copy    func(string) error

	changes <-chan struct{}
	// loaded flips once the store's first full load has landed.
	loaded bool

	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snapshot state.Snapshot
	visible  []catalog.Entry
	tags     []string
	selected int
	tagIdx   int

	searching bool
	search    textinput.Model

	detailViewport viewport.Model
	logViewport    viewport.Model
	logLines       []string

	flash     string
	flashedAt time.Time
}

const (
	defaultTick   = time.Second
	flashDuration = 3 * time.Second
	logTailLines  = 500
)

// New creates a Bubble Tea model bound to eng's store.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	table := opts.Table
	if table == nil {
		table = category.Default()
	}

	store := opts.Engine.Store()
	snap := store.Snapshot()

	ti := textinput.New()
	ti.CharLimit = 100
	ti.Prompt = "/ "

	m := Model{
		ctx:         ctx,
		engine:      opts.Engine,
		store:       store,
		table:       table,
		siteURL:     opts.SiteURL,
		logPath:     opts.LogPath,
		tick:        tick,
		copy:        copyFn,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(snap.View.Theme),
		currentView: ViewList,
		search:      ti,
	}
	select {
	case <-store.Ready():
		m.loaded = true
	default:
	}
	m.applySnapshot(snap)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.tick),
		fetchSnapshotCmd(m.store),
		waitForChange(m.changes),
	}
	if !m.loaded {
		cmds = append(cmds, waitReady(m.store.Ready()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		if m.flash != "" && time.Since(m.flashedAt) > flashDuration {
			m.flash = ""
		}
		return m, tea.Batch(cmds...)

	case readyMsg:
		m.loaded = true
		return m, fetchSnapshotCmd(m.store)

	case storeChangedMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), waitForChange(m.changes))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case logLinesMsg:
		m.logLines = msg
		m.updateLogViewport()
		return m, nil

	case refreshDoneMsg:
		m.setFlash(tr(m.lang(), "refreshed"))
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.setFlash(tr(m.lang(), "copy.failed") + ": " + msg.err.Error())
		} else {
			m.setFlash(tr(m.lang(), "copied"))
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return tr(m.lang(), "loading")
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) lang() string {
	return m.snapshot.View.Lang
}

// applySnapshot recomputes everything derived from the store.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.visible = projection.Visible(snap)
	m.tags = projection.DisplayTags(snap)
	m.theme = GetTheme(snap.View.Theme)
	if m.tagIdx >= len(m.tags) {
		m.tagIdx = 0
	}
	m.clampSelection()
	m.search.Placeholder = tr(snap.View.Lang, "search")
	if !m.searching {
		m.search.SetValue(snap.View.Query)
	}
	m.updateDetailViewport()
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) selectedEntry() (catalog.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return catalog.Entry{}, false
	}
	return m.visible[m.selected], true
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashedAt = time.Now()
}

// Messages

type tickMsg time.Time

type storeChangedMsg struct{}

type readyMsg struct{}

type snapshotMsg state.Snapshot

type logLinesMsg []string

type refreshDoneMsg struct{}

type copyResultMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForChange blocks on the store subscription. A nil channel yields no
// command.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// waitReady blocks until the first full load has been installed.
func waitReady(ready <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ready
		return readyMsg{}
	}
}

func refreshLikesCmd(ctx context.Context, eng *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		eng.RefreshLikes(ctx)
		return refreshDoneMsg{}
	}
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyFn(text)}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	changes, unsubscribe := m.store.Subscribe()
	defer unsubscribe()
	m.changes = changes

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
