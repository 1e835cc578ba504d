package app

import (
	"mathtype/internal/logger"
	"mathtype/internal/shutdown"
)

// Lifecycle starts the background pieces and stops everything in reverse
// order: watcher first, then the store flush, then the controller.
type Lifecycle struct {
	app     *Application
	manager *shutdown.Manager
	logger  logger.Logger
}

func NewLifecycle(a *Application, log logger.Logger) *Lifecycle {
	manager := shutdown.NewManager(log)

	manager.Register("controller", a.controller)
	manager.Register("mapping store", a.store)
	if a.watcher != nil {
		manager.Register("mapping watcher", a.watcher)
	}

	return &Lifecycle{
		app:     a,
		manager: manager,
		logger:  log,
	}
}

// Start begins watching the mapping file and listening for signals
func (l *Lifecycle) Start() error {
	if l.app.watcher != nil {
		if err := l.app.watcher.Start(l.manager.Context()); err != nil {
			l.logger.Warning("Lifecycle", "mapping watcher failed to start", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	l.manager.Listen(l.app.Quit)
	return nil
}

// Shutdown is safe to call more than once
func (l *Lifecycle) Shutdown() {
	l.manager.Shutdown()
}
