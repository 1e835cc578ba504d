package views

import (
	"mathtype/internal/models"
	"mathtype/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainView is the editor window: input on top, output log below, the
// shortcut list on the right and a status bar at the bottom.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	editor        *components.Editor
	history       *components.HistoryList
	mappings      *components.MappingList
	statusBar     *components.StatusBar

	// Event handlers - connected to controller
	convertHandler       func(text string, copyResult bool)
	copyEntryHandler     func(entry models.HistoryEntry)
	clearHistoryHandler  func()
	addMappingHandler    func(key, value string)
	removeMappingHandler func(key string)
	importHandler        func(reader fyne.URIReadCloser)
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.editor = components.NewEditor()
	mv.history = components.NewHistoryList()
	mv.mappings = components.NewMappingList()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	left := container.NewVSplit(mv.editor.GetContainer(), mv.history.GetContainer())
	left.Offset = 0.4

	content := container.NewHSplit(left, mv.mappings.GetContainer())
	content.Offset = 0.65

	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		content,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.editor.SetConvertHandler(func(text string, copyResult bool) {
		if mv.convertHandler != nil {
			mv.convertHandler(text, copyResult)
		}
	})

	mv.history.SetCopyHandler(func(entry models.HistoryEntry) {
		if mv.copyEntryHandler != nil {
			mv.copyEntryHandler(entry)
		}
	})
	mv.history.SetClearHandler(func() {
		if mv.clearHistoryHandler != nil {
			mv.clearHistoryHandler()
		}
	})

	mv.mappings.SetAddHandler(mv.showAddMappingDialog)
	mv.mappings.SetRemoveHandler(func(key string) {
		if mv.removeMappingHandler != nil {
			mv.removeMappingHandler(key)
		}
	})
	mv.mappings.SetImportHandler(mv.showImportDialog)
}

// Event handler setters - called by controller

// SetConvertHandler sets the handler for conversion requests
func (mv *MainView) SetConvertHandler(handler func(text string, copyResult bool)) {
	mv.convertHandler = handler
}

// SetCopyEntryHandler sets the handler for copying a log entry
func (mv *MainView) SetCopyEntryHandler(handler func(entry models.HistoryEntry)) {
	mv.copyEntryHandler = handler
}

// SetClearHistoryHandler sets the handler for clearing the log
func (mv *MainView) SetClearHistoryHandler(handler func()) {
	mv.clearHistoryHandler = handler
}

// SetAddMappingHandler sets the handler for confirmed add dialogs
func (mv *MainView) SetAddMappingHandler(handler func(key, value string)) {
	mv.addMappingHandler = handler
}

// SetRemoveMappingHandler sets the handler for remove requests
func (mv *MainView) SetRemoveMappingHandler(handler func(key string)) {
	mv.removeMappingHandler = handler
}

// SetImportHandler sets the handler for a chosen import file
func (mv *MainView) SetImportHandler(handler func(reader fyne.URIReadCloser)) {
	mv.importHandler = handler
}

func (mv *MainView) showAddMappingDialog() {
	shortcut := widget.NewEntry()
	shortcut.SetPlaceHolder("단축키 (예: ;;스타)")
	replacement := widget.NewEntry()
	replacement.SetPlaceHolder("대체 문자 (예: ★)")

	items := []*widget.FormItem{
		widget.NewFormItem("단축키", shortcut),
		widget.NewFormItem("대체 문자", replacement),
	}

	form := dialog.NewForm("새 단축키 매핑 추가", "추가", "취소", items, func(confirmed bool) {
		if !confirmed || mv.addMappingHandler == nil {
			return
		}
		mv.addMappingHandler(shortcut.Text, replacement.Text)
	}, mv.window)
	form.Resize(fyne.NewSize(420, 220))
	form.Show()
}

func (mv *MainView) showImportDialog() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mv.window)
			return
		}
		if reader == nil || mv.importHandler == nil {
			return
		}
		mv.importHandler(reader)
	}, mv.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

// UI update methods - called by controller

// SetHistory refreshes the output log
func (mv *MainView) SetHistory(entries []models.HistoryEntry) {
	mv.history.SetEntries(entries)
}

// SetMappings refreshes the shortcut list
func (mv *MainView) SetMappings(rows []components.MappingRow) {
	mv.mappings.SetRows(rows)
}

// SetMappingsEditable toggles mapping edit actions
func (mv *MainView) SetMappingsEditable(editable bool) {
	mv.mappings.SetEditable(editable)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetMappingInfo updates the mapping summary in the status bar
func (mv *MainView) SetMappingInfo(fixed, custom int, path string) {
	mv.statusBar.SetMappingInfo(fixed, custom, path)
}

// SetVariantInfo shows the active converter variant
func (mv *MainView) SetVariantInfo(dynamicRules, trailingSpace bool) {
	mv.statusBar.SetVariantInfo(dynamicRules, trailingSpace)
}

// CopyToClipboard places text on the system clipboard
func (mv *MainView) CopyToClipboard(text string) {
	fyne.Do(func() {
		mv.window.Clipboard().SetContent(text)
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		dialog.ShowError(err, mv.window)
	})
}

// ShowInfo displays an information dialog
func (mv *MainView) ShowInfo(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, callback, mv.window)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// Show displays the view and focuses the editor
func (mv *MainView) Show() {
	fyne.Do(func() {
		mv.window.Show()
		mv.editor.Focus(mv.window.Canvas())
	})
}
