package components

import (
	"mathtype/internal/models"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// HistoryList shows the output log with a copy action for the selection
type HistoryList struct {
	container   *fyne.Container
	list        *widget.List
	copyButton  *widget.Button
	clearButton *widget.Button

	entries  []models.HistoryEntry
	selected int

	copyHandler  func(entry models.HistoryEntry)
	clearHandler func()
}

// NewHistoryList creates a new output log component
func NewHistoryList() *HistoryList {
	h := &HistoryList{selected: -1}
	h.createComponents()
	h.buildLayout()
	h.setupEventHandlers()
	return h
}

func (h *HistoryList) createComponents() {
	h.list = widget.NewList(
		func() int { return len(h.entries) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.TextStyle = fyne.TextStyle{Monospace: true}
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(h.entries) {
				return
			}
			label := item.(*widget.Label)
			entry := h.entries[id]
			label.TextStyle.Italic = entry.Kind == models.KindNotice
			label.SetText(entry.Text())
		},
	)

	h.copyButton = widget.NewButtonWithIcon("선택 항목 복사", theme.ContentCopyIcon(), nil)
	h.copyButton.Disable()
	h.clearButton = widget.NewButtonWithIcon("로그 지우기", theme.DeleteIcon(), nil)
}

func (h *HistoryList) buildLayout() {
	h.container = container.NewBorder(
		widget.NewLabel("출력 로그:"),
		container.NewHBox(h.copyButton, h.clearButton),
		nil, nil,
		h.list,
	)
}

func (h *HistoryList) setupEventHandlers() {
	h.list.OnSelected = func(id widget.ListItemID) {
		h.selected = id
		h.copyButton.Enable()
	}
	h.list.OnUnselected = func(widget.ListItemID) {
		h.selected = -1
		h.copyButton.Disable()
	}
	h.copyButton.OnTapped = func() {
		if h.selected < 0 || h.selected >= len(h.entries) || h.copyHandler == nil {
			return
		}
		h.copyHandler(h.entries[h.selected])
	}
	h.clearButton.OnTapped = func() {
		if h.clearHandler != nil {
			h.clearHandler()
		}
	}
}

// SetEntries replaces the displayed log and scrolls to the newest line
func (h *HistoryList) SetEntries(entries []models.HistoryEntry) {
	fyne.Do(func() {
		h.entries = entries
		h.selected = -1
		h.copyButton.Disable()
		h.list.UnselectAll()
		h.list.Refresh()
		if len(entries) > 0 {
			h.list.ScrollToBottom()
		}
	})
}

// SetCopyHandler sets the handler for copying the selected entry
func (h *HistoryList) SetCopyHandler(handler func(entry models.HistoryEntry)) {
	h.copyHandler = handler
}

// SetClearHandler sets the handler for clearing the log
func (h *HistoryList) SetClearHandler(handler func()) {
	h.clearHandler = handler
}

// GetContainer returns the log container
func (h *HistoryList) GetContainer() *fyne.Container {
	return h.container
}
