package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"orderscope/internal/config"
	"orderscope/internal/history"
	"orderscope/internal/logging"
	"orderscope/internal/storefront"
	"orderscope/internal/ui/input"
	inputtypes "orderscope/internal/ui/input/types"
	"orderscope/internal/ui/logic"
	"orderscope/internal/ui/state"
	"orderscope/internal/ui/viewmodels"
	"orderscope/internal/ui/views"
)

// Options configures a Model
type Options struct {
	Context   context.Context // parent of every shop API request
	Source    storefront.OrderSource
	Initial   storefront.OrderList // first page loaded before the UI starts
	Config    *config.Config
	Publisher history.Publisher
	Logger    *slog.Logger
}

// Model represents the UI state
type Model struct {
	ctx        context.Context
	source     storefront.OrderSource
	controller *history.Controller
	logger     *slog.Logger
	state      *state.AppState // centralized state

	// UI-specific state not in AppState
	width       int
	height      int
	settleDelay time.Duration // pause before scrolling to appended orders
	inPagerMode bool          // tracks if we're currently in pager mode

	viewport viewport.Model
	offsets  []int // first line of each order card in the viewport
	spinner  spinner.Model

	// Handlers
	navigator    *logic.Navigator      // keeps the selection in view
	renderer     *views.Renderer       // view renderer
	viewModel    *viewmodels.ViewModel // view model for rendering
	inputHandler *input.Handler        // input handling
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	appState := state.NewAppState()
	controller := history.NewController(opts.Initial, history.Config{
		PageSize: cfg.PageSize,
		Debounce: cfg.Debounce.Std(),
	}, opts.Publisher)

	keys := inputtypes.DefaultKeyMap()
	inputHandler := input.New(keys)

	m := &Model{
		ctx:          ctx,
		source:       opts.Source,
		controller:   controller,
		logger:       logger,
		state:        appState,
		settleDelay:  cfg.SettleDelay.Std(),
		viewport:     viewport.New(76, 20), // resized on the first WindowSizeMsg
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UISettings.ShowPreview),
		inputHandler: inputHandler,
		helpRenderer: NewHelpRenderer(keys),
		pager:        NewPagerOps(),
	}
	m.spinner.Style = m.renderer.Styles().StatusLoading
	m.viewModel = viewmodels.NewViewModel(appState, controller, keys, *inputHandler.TextInput())
	m.refreshList()

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Controller exposes the order history state
func (m *Model) Controller() *history.Controller {
	return m.controller
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()

	case tea.KeyMsg:
		// Handle detail/help popups first
		if m.state.ShowDetail {
			switch msg.String() {
			case "esc", "q", "enter":
				m.state.CloseDetail()
			}
			return m, nil
		}

		if m.state.ShowHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.state.ShowHelp = false
			}
			return m, nil
		}

		ctx := &input.ModelContext{
			State:      m.state,
			Controller: m.controller,
		}

		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		// Cursor blink for the search field
		blink := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(blink, cmd)
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	m.viewModel.SetDimensions(m.width, m.height)
	mode := viewmodels.InputModeNormal
	if m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
		mode = viewmodels.InputModeSearch
	}
	m.viewModel.SetInputMode(mode, m.inputHandler.Prompt())
	m.viewModel.UpdateTextInput(*m.inputHandler.TextInput())
	m.viewModel.SetSpinner(m.spinner.View())
	m.viewModel.SetList(m.viewport.View())
	if m.state.ShowHelp {
		m.viewModel.SetHelpContent(m.helpRenderer.RenderHelpContent())
	}

	return m.renderer.Render(m.viewModel.BuildViewState())
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.UpdateTextAction:
		before := m.controller.Query()
		tag, schedule := m.controller.SetQuery(a.Text)
		if schedule {
			return m.debounce(tag)
		}
		if before != m.controller.Query() {
			// cleared: the snapshot is back
			m.resetList()
		}

	case inputtypes.LoadMoreAction:
		req, ok := m.controller.RequestLoadMore()
		if !ok {
			return nil
		}
		m.logger.Debug("load more", slog.Int("skip", req.Skip), slog.Int("take", req.Take))
		return m.loadMore(req)

	case inputtypes.RefreshAction:
		req, ok := m.controller.Refresh()
		if !ok {
			return nil
		}
		return m.search(req)

	case inputtypes.OpenDetailAction:
		m.state.OpeningDetail = a.Code
		m.state.StatusMessage = fmt.Sprintf("Loading order %s...", a.Code)
		return m.fetchDetail(a.Code)

	case inputtypes.ToggleHelpAction:
		if m.pager.Available() {
			return m.showHelpPager(m.helpRenderer.RenderHelpContent())
		}
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceMsg:
		req, ok := m.controller.DebounceElapsed(msg.tag)
		if !ok {
			return m, nil
		}
		m.logger.Debug("search", slog.Uint64("seq", req.Seq), slog.String("query", req.Query))
		return m, m.search(req)

	case searchResultMsg:
		before := m.controller.Notice()
		if msg.err != nil {
			m.logger.Warn("search failed", slog.String("query", msg.req.Query), slog.Any("error", msg.err))
		}
		if m.controller.ApplySearch(msg.req, msg.list, msg.err) && msg.err == nil {
			m.resetList()
		}
		return m, m.noticeExpiry(before)

	case loadMoreResultMsg:
		before := m.controller.Notice()
		if msg.err != nil {
			m.logger.Warn("load more failed", slog.Int("skip", msg.req.Skip), slog.Any("error", msg.err))
		}
		var cmd tea.Cmd
		if m.controller.ApplyLoadMore(msg.req, msg.list, msg.err) {
			m.refreshList()
			cmd = m.settle(len(m.controller.Results()))
		}
		return m, tea.Batch(cmd, m.noticeExpiry(before))

	case settledMsg:
		// skip when the list was replaced after the append
		if msg.count != len(m.controller.Results()) || m.controller.Query() != "" {
			return m, nil
		}
		m.state.SelectLast(msg.count)
		m.refreshList()
		m.viewport.GotoBottom()
		return m, nil

	case clearNoticeMsg:
		m.controller.ClearNotice(msg.id)
		return m, nil

	case clearStatusMsg:
		m.state.StatusMessage = ""
		return m, nil

	case detailMsg:
		if m.state.OpeningDetail != msg.code {
			return m, nil
		}
		m.state.OpeningDetail = ""
		m.state.StatusMessage = ""
		if msg.err != nil {
			m.logger.Warn("order detail failed", slog.String("code", msg.code), slog.Any("error", msg.err))
			switch {
			case errors.Is(msg.err, storefront.ErrSignInRequired):
				m.state.StatusMessage = "Sign in to see order details"
			case errors.Is(msg.err, storefront.ErrOrderNotFound):
				m.state.StatusMessage = fmt.Sprintf("Order %s not found", msg.code)
			default:
				m.state.StatusMessage = fmt.Sprintf("Could not load order %s", msg.code)
			}
			return m, clearStatus()
		}
		content := m.renderer.Orders().RenderDetail(msg.detail)
		if m.pager.Available() {
			return m, m.showDetailPager(msg.code, content)
		}
		m.state.OpenDetail(content)
		return m, nil

	case detailPagerMsg:
		if msg.err != nil {
			// Pager failed, log and fall back to popup silently
			m.logger.Warn("detail pager failed, falling back to popup", slog.String("code", msg.code), slog.Any("error", msg.err))
			m.state.OpenDetail(msg.content)
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.logger.Warn("help pager failed, falling back to popup", slog.Any("error", msg.err))
			m.state.ShowHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		// Bubble Tea's RestoreTerminal() handles the actual resuming
		m.inPagerMode = false
		return m, nil

	default:
		return m, nil
	}
}

// noticeExpiry schedules removal of a notice raised since before
func (m *Model) noticeExpiry(before history.Notice) tea.Cmd {
	n := m.controller.Notice()
	if n.Kind == history.NoticeNone || n.ID == before.ID {
		return nil
	}
	return clearNotice(n.ID)
}

func (m *Model) updateViewportSize() {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	height := m.height - views.ChromeHeight
	if height < 3 {
		height = 3
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.refreshList()
	m.ensureSelectedVisible()
}

// refreshList re-renders the order cards into the viewport
func (m *Model) refreshList() {
	results := m.controller.Results()
	m.state.ClampSelection(len(results))
	content, offsets := m.renderer.Orders().RenderList(results, m.state.SelectedIndex, m.viewport.Width)
	m.offsets = offsets
	m.viewport.SetContent(content)
}

// resetList shows a replaced result set from the top
func (m *Model) resetList() {
	m.state.SelectedIndex = 0
	m.refreshList()
	m.viewport.GotoTop()
}

func (m *Model) navigate(direction string) {
	count := len(m.controller.Results())
	if count == 0 {
		return
	}
	m.syncNavigatorState()

	switch direction {
	case "up":
		m.state.MoveSelection(-1, count)
	case "down":
		m.state.MoveSelection(1, count)
	case "pageup":
		m.state.MoveSelection(-m.navigator.PageStep(m.state.SelectedIndex, false), count)
	case "pagedown":
		m.state.MoveSelection(m.navigator.PageStep(m.state.SelectedIndex, true), count)
	case "home":
		m.state.SelectedIndex = 0
	case "end":
		m.state.SelectLast(count)
	}
	m.refreshList()
	m.ensureSelectedVisible()
}

// syncNavigatorState updates the navigator with current viewport state
func (m *Model) syncNavigatorState() {
	m.navigator.UpdateState(m.offsets, m.viewport.TotalLineCount(), m.viewport.Height, m.viewport.YOffset)
}

// ensureSelectedVisible ensures the selected order is visible in the viewport
func (m *Model) ensureSelectedVisible() {
	m.syncNavigatorState()
	var offset int
	m.state.SelectedIndex, offset = m.navigator.SetSelectedIndex(m.state.SelectedIndex)
	m.viewport.SetYOffset(offset)
}
