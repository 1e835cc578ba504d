package app

import (
	"fmt"

	"mathtype/internal/config"
	"mathtype/internal/controllers"
	"mathtype/internal/convert"
	"mathtype/internal/logger"
	"mathtype/internal/mapping"
	"mathtype/internal/models"
	"mathtype/internal/services"
	"mathtype/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "수학 기호 변환기"
	AppID      = "com.mathtype.converter"
	AppVersion = "1.0.0"

	MinWindowWidth  = 900
	MinWindowHeight = 600
)

// Application owns the window and every component behind it
type Application struct {
	fyneApp  fyne.App
	window   fyne.Window
	logger   logger.Logger
	settings config.Settings

	store      *mapping.Store
	watcher    *mapping.Watcher
	service    *services.MappingService
	history    *models.HistoryRepository
	controller *controllers.MainController
	view       *views.MainView

	lifecycle *Lifecycle
}

// NewApplication loads the mapping document and builds the window
func NewApplication(settings config.Settings, log logger.Logger) (*Application, error) {
	store, err := mapping.Open(settings.MappingFile, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open mappings: %w", err)
	}

	fyneApp := app.NewWithID(AppID)
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":        AppVersion,
		"mapping_file":   store.Path(),
		"dynamic_rules":  settings.DynamicRules,
		"trailing_space": settings.TrailingSpace,
	})

	converter := convert.New(settings.ConverterOptions())
	service := services.NewMappingService(store, converter, log)
	history := models.NewHistoryRepository(settings.HistorySize)

	controller := controllers.NewMainController(service, history, log)
	view := views.NewMainView(window)
	controller.SetMainView(view)

	a := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		settings:   settings,
		store:      store,
		service:    service,
		history:    history,
		controller: controller,
		view:       view,
	}

	if settings.WatchMapping {
		watcher, err := mapping.NewWatcher(store, log, controller.NotifyExternalChange)
		if err != nil {
			// The editor works without change notices.
			log.Warning("Application", "mapping watcher unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			a.watcher = watcher
		}
	}

	a.lifecycle = NewLifecycle(a, log)

	log.Info("Application", "initialization complete", nil)
	return a, nil
}

// Run shows the window and blocks until the application quits
func (a *Application) Run() error {
	if err := a.lifecycle.Start(); err != nil {
		return err
	}
	a.setupWindowEvents()

	a.view.Show()
	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.lifecycle.Shutdown()
	return nil
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)

		if !a.service.HasUnsavedChanges() {
			a.lifecycle.Shutdown()
			a.window.Close()
			return
		}

		a.view.ShowConfirm(
			"저장되지 않은 매핑",
			"저장하지 못한 매핑이 있습니다. 종료하기 전에 다시 저장을 시도합니다.",
			func(confirmed bool) {
				if !confirmed {
					return
				}
				a.lifecycle.Shutdown()
				a.window.Close()
			},
		)
	})
}

// Quit closes the window from outside the UI thread
func (a *Application) Quit() {
	fyne.Do(func() {
		a.fyneApp.Quit()
	})
}
