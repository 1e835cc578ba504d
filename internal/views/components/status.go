package components

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and mapping information
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	mappingInfo *widget.Label
	variantInfo *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.statusLabel.Truncation = fyne.TextTruncateEllipsis
	sb.mappingInfo = widget.NewLabel("Mappings: --")
	sb.variantInfo = widget.NewLabel("")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(
		nil, nil, nil,
		container.NewHBox(
			widget.NewSeparator(),
			sb.mappingInfo,
			widget.NewSeparator(),
			sb.variantInfo,
		),
		sb.statusLabel,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	fyne.Do(func() {
		sb.statusLabel.SetText(status)
	})
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetMappingInfo shows how many shortcuts are active and where they live
func (sb *StatusBar) SetMappingInfo(fixed, custom int, path string) {
	fyne.Do(func() {
		sb.mappingInfo.SetText(fmt.Sprintf("Mappings: %d fixed, %d custom (%s)", fixed, custom, filepath.Base(path)))
	})
}

// SetVariantInfo shows which converter variant is active
func (sb *StatusBar) SetVariantInfo(dynamicRules, trailingSpace bool) {
	fyne.Do(func() {
		info := "LaTeX rules: off"
		if dynamicRules {
			info = "LaTeX rules: on"
		}
		if trailingSpace {
			info += ", trailing space"
		}
		sb.variantInfo.SetText(info)
	})
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	fyne.Do(func() {
		sb.statusLabel.SetText("Ready")
		sb.mappingInfo.SetText("Mappings: --")
	})
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
