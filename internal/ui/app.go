package ui

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/store"
	"github.com/five82/tally/internal/todo"
)

// View represents the active view.
type View int

const (
	ViewTodos View = iota
	ViewHistory
	ViewLogs
)

var viewNames = []string{"todos", "history", "logs"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "todos"
	}
	return viewNames[v]
}

func parseView(name string) View {
	for i, n := range viewNames {
		if n == name {
			return View(i)
		}
	}
	return ViewTodos
}

const (
	defaultRefresh = 2 * time.Second
	updateBuffer   = 16
	logFetchLimit  = 500
	failureToken   = "failed"
)

var errUpdatesFull = errors.New("ui update queue full")

// Options configure the UI.
type Options struct {
	Context      context.Context
	Store        *store.Store[todo.State]
	Logger       *log.Logger
	LogPath      string
	ThemeName    string
	PrefsPath    string
	View         string
	RefreshEvery time.Duration
}

// Model is the main Bubble Tea model.
type Model struct {
	ctx          context.Context
	store        *store.Store[todo.State]
	logger       *log.Logger
	logPath      string
	prefsPath    string
	refreshEvery time.Duration

	updates     chan todo.State
	unsubscribe func()

	// Todo state as last delivered by the store
	state  todo.State
	seq    uint64
	cursor int

	// Add prompt
	adding bool
	input  textinput.Model

	// UI state
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	lastErr     error

	// History view
	historyViewport viewport.Model

	// Logs view
	logViewport  viewport.Model
	logLines     []string
	failuresOnly bool

	theme Theme
	keys  keyMap
}

// Message types
type (
	stateMsg    todo.State
	tickMsg     time.Time
	logLinesMsg []string
	logErrMsg   struct{ err error }
)

// New creates a model subscribed to opts.Store. Call Close to unsubscribe.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = defaultRefresh
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "+ "
	input.CharLimit = 200

	updates := make(chan todo.State, updateBuffer)
	unsubscribe := opts.Store.Subscribe(func(s todo.State) error {
		select {
		case updates <- s:
			return nil
		default:
			return errUpdatesFull
		}
	})

	return Model{
		ctx:          ctx,
		store:        opts.Store,
		logger:       logger,
		logPath:      opts.LogPath,
		prefsPath:    opts.PrefsPath,
		refreshEvery: refresh,
		updates:      updates,
		unsubscribe:  unsubscribe,
		state:        opts.Store.Current().Extract(),
		seq:          opts.Store.Seq(),
		input:        input,
		currentView:  parseView(opts.View),
		theme:        GetTheme(opts.ThemeName),
		keys:         DefaultKeyMap(),
	}
}

// Close detaches the model from the store.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctx, m.updates),
		tickCmd(m.refreshEvery),
		fetchLogsCmd(m.logPath, m.failuresOnly),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = todo.State(msg)
		m.seq = m.store.Seq()
		m.clampCursor()
		m.updateHistoryViewport()
		return m, waitForState(m.ctx, m.updates)

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.refreshEvery)}
		if m.currentView == ViewLogs {
			cmds = append(cmds, fetchLogsCmd(m.logPath, m.failuresOnly))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		m.logLines = msg
		m.updateLogViewport()
		return m, nil

	case logErrMsg:
		m.lastErr = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		m.renderContent(),
		m.renderFooter(),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleAddKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextView):
		return m.switchView(View((int(m.currentView) + 1) % len(viewNames)))

	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(View((int(m.currentView) + len(viewNames) - 1) % len(viewNames)))
	}

	switch m.currentView {
	case ViewHistory:
		return m.handleHistoryKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleTodosKey(msg)
	}
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.savePrefs()
	if v == ViewLogs {
		return m, fetchLogsCmd(m.logPath, m.failuresOnly)
	}
	return m, nil
}

// dispatch sends a to the store. The resulting state arrives later as a
// stateMsg through the subscription.
func (m Model) dispatch(a todo.Action) Model {
	if err := m.store.Dispatch(a); err != nil {
		m.lastErr = err
		m.logger.Printf("dispatch %s failed: %v", todo.Describe(a), err)
		return m
	}
	m.lastErr = nil
	return m
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Printf("save prefs failed: %v", err)
	}
}

func (m *Model) initViewports() {
	w, h := m.contentSize()
	// One line of the box goes to its title.
	m.historyViewport = viewport.New(w, max(h-1, 1))
	m.logViewport = viewport.New(w, max(h-1, 1))
	m.updateHistoryViewport()
	m.updateLogViewport()
}

// contentSize returns the inner size of the main box: the window minus the
// header, command bar, footer and the box border.
func (m Model) contentSize() (int, int) {
	w := max(m.width-4, 1)
	h := max(m.height-6, 1)
	return w, h
}

func (m Model) renderContent() string {
	var title, body string
	switch m.currentView {
	case ViewHistory:
		title, body = "History", m.historyViewport.View()
	case ViewLogs:
		title, body = m.logTitle(), m.logViewport.View()
	default:
		title, body = m.todosTitle(), m.renderTodos()
	}
	return m.renderBox(title, body)
}

func (m Model) renderBox(title, body string) string {
	styles := m.theme.Styles()
	w, h := m.contentSize()
	heading := styles.AccentText.Bold(true).Render(title)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(w).
		Height(h)
	return box.Render(heading + "\n" + body)
}

// waitForState blocks until the next committed state or until ctx ends,
// in which case it yields no message.
func waitForState(ctx context.Context, updates <-chan todo.State) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-updates:
			return stateMsg(s)
		case <-ctx.Done():
			return nil
		}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits or
// opts.Context is cancelled.
func Run(opts Options) error {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	// Cancelled on return so the pending waitForState command exits after a
	// normal quit as well.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	opts.Context = ctx

	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
