package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Editor is the shorthand input area. Shift+Enter converts and copies.
type Editor struct {
	container     *fyne.Container
	input         *widget.Entry
	convertButton *widget.Button
	copyButton    *widget.Button
	clearButton   *widget.Button

	convertHandler func(text string, copyResult bool)
}

// NewEditor creates a new editor component
func NewEditor() *Editor {
	e := &Editor{}
	e.createComponents()
	e.buildLayout()
	e.setupEventHandlers()
	return e
}

func (e *Editor) createComponents() {
	e.input = widget.NewMultiLineEntry()
	e.input.SetPlaceHolder("문제 입력 (단축키 사용 가능) - Shift+Enter: 변환 후 복사")
	e.input.Wrapping = fyne.TextWrapWord
	e.input.TextStyle = fyne.TextStyle{Monospace: true}
	e.input.SetMinRowsVisible(6)

	e.convertButton = widget.NewButtonWithIcon("변환 실행", theme.MediaPlayIcon(), nil)
	e.convertButton.Importance = widget.HighImportance

	e.copyButton = widget.NewButtonWithIcon("변환 후 복사", theme.ContentCopyIcon(), nil)
	e.clearButton = widget.NewButtonWithIcon("지우기", theme.ContentClearIcon(), nil)
}

func (e *Editor) buildLayout() {
	e.container = container.NewBorder(
		widget.NewLabel("문제 입력:"),
		container.NewHBox(e.convertButton, e.copyButton, e.clearButton),
		nil, nil,
		e.input,
	)
}

func (e *Editor) setupEventHandlers() {
	// Multi-line entries submit on Shift+Enter.
	e.input.OnSubmitted = func(text string) {
		e.emitConvert(text, true)
	}
	e.convertButton.OnTapped = func() {
		e.emitConvert(e.input.Text, false)
	}
	e.copyButton.OnTapped = func() {
		e.emitConvert(e.input.Text, true)
	}
	e.clearButton.OnTapped = func() {
		e.input.SetText("")
	}
}

func (e *Editor) emitConvert(text string, copyResult bool) {
	if e.convertHandler != nil {
		e.convertHandler(text, copyResult)
	}
}

// SetConvertHandler sets the handler invoked with the raw input text
func (e *Editor) SetConvertHandler(handler func(text string, copyResult bool)) {
	e.convertHandler = handler
}

// GetText returns the current input
func (e *Editor) GetText() string {
	return e.input.Text
}

// Focus moves keyboard focus into the input
func (e *Editor) Focus(canvas fyne.Canvas) {
	canvas.Focus(e.input)
}

// GetContainer returns the editor container
func (e *Editor) GetContainer() *fyne.Container {
	return e.container
}
