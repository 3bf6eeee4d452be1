package components

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/truckline/dispatchdesk/internal/config"
	"github.com/truckline/dispatchdesk/internal/status"
	"github.com/truckline/dispatchdesk/internal/ui/models"
	"github.com/truckline/dispatchdesk/internal/views"
	"github.com/truckline/dispatchdesk/pkg/api"
)

// App is the main application component
type App struct {
	*tview.Application
	ctx         context.Context
	cancel      context.CancelFunc
	client      *api.Client
	config      config.Config
	registry    *status.Registry
	state       *models.State
	pages       *tview.Pages
	header      *Header
	tabBar      *tview.TextView
	footer      *Footer
	dashboard   *Dashboard
	lists       []*ListPage
	current     int // index into lists, -1 for the dashboard
	mainLayout  *tview.Flex
	searchInput *tview.InputField
	helpModal   *HelpModal
	keys        keyBindings
	lastFocus   tview.Primitive
	workers     sync.WaitGroup
}

// NewApp creates a new application instance with one page per entity view
// plus the dashboard.
func NewApp(ctx context.Context, client *api.Client, cfg *config.Config, reg *status.Registry) (*App, error) {
	ctx, cancel := context.WithCancel(ctx)

	app := &App{
		Application: tview.NewApplication(),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		config:      *cfg,
		registry:    reg,
		state:       models.GlobalState,
		current:     -1,
		keys:        newKeyBindings(cfg.KeyBindings),
	}

	tview.Styles.ContrastBackgroundColor = tcell.ColorGray
	tview.Styles.InverseTextColor = tcell.ColorBlack

	app.header = NewHeader()
	app.header.SetApp(app.Application)
	app.footer = NewFooter()
	app.footer.UpdateKeybindings(footerText(app.keys))
	app.footer.UpdateLiveStatus(liveDisabled)
	app.tabBar = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	app.dashboard = NewDashboard(app)
	app.helpModal = NewHelpModal(app.keys)
	app.helpModal.SetApp(app)
	app.pages = tview.NewPages()

	for _, v := range views.All() {
		var page *ListPage

		session, err := v.Open(client, views.SessionOptions{
			RowsPerPage: cfg.PageSize,
			Registry:    reg,
			Logger:      models.GetUILogger(),
			OnChange: func() {
				app.QueueUpdateDraw(func() {
					page.render()
				})
			},
		})
		if err != nil {
			app.closeSessions()
			cancel()

			return nil, fmt.Errorf("failed to open %s view: %w", v.Name(), err)
		}

		page = NewListPage(app, session)
		app.lists = append(app.lists, page)
	}

	app.mainLayout = app.createMainLayout()
	app.setupKeyboardHandlers()

	app.SetRoot(app.mainLayout, true)
	app.showDashboard()

	return app, nil
}

// Run loads every view and starts the event loop. It blocks until the user
// quits.
func (a *App) Run() error {
	uiLogger := models.GetUILogger()
	uiLogger.Debug("Starting application")

	for _, page := range a.lists {
		if err := page.Session().Refetch(); err != nil {
			uiLogger.Error("Initial load of %s failed: %v", page.Name(), err)
		}

		page.render()
	}

	a.dashboard.Refresh()

	if a.config.LiveUpdates {
		a.startLiveUpdates()
	}

	defer a.shutdown()

	if err := a.Application.Run(); err != nil {
		uiLogger.Error("Application run failed: %v", err)

		return err
	}

	uiLogger.Debug("Application stopped normally")

	return nil
}

// shutdown cancels background work and closes every session.
func (a *App) shutdown() {
	a.cancel()
	a.closeSessions()
	a.workers.Wait()
}

func (a *App) closeSessions() {
	for _, page := range a.lists {
		page.Session().Close()
	}
}

// goBackground runs fn on a tracked goroutine so shutdown can wait for it.
func (a *App) goBackground(fn func()) {
	a.workers.Add(1)

	go func() {
		defer a.workers.Done()
		fn()
	}()
}

// currentPage returns the active list page, or nil on the dashboard.
func (a *App) currentPage() *ListPage {
	if a.current < 0 || a.current >= len(a.lists) {
		return nil
	}

	return a.lists[a.current]
}

// pageByName finds a list page by entity name.
func (a *App) pageByName(name string) *ListPage {
	for _, page := range a.lists {
		if page.Name() == name {
			return page
		}
	}

	return nil
}
