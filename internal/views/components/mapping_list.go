package components

import (
	"fmt"

	"mathtype/internal/mapping"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// MappingRow is one displayed shortcut. Key is kept apart from the display
// text so removal always uses the exact shortcut.
type MappingRow struct {
	mapping.Entry
	Fixed    bool
	Override bool
}

// Label is the text shown in the list
func (r MappingRow) Label() string {
	switch {
	case r.Override:
		return fmt.Sprintf("%s  →  %s  (사용자, 기본 덮어씀)", r.Key, r.Value)
	case r.Fixed:
		return fmt.Sprintf("%s  →  %s  (기본)", r.Key, r.Value)
	default:
		return fmt.Sprintf("%s  →  %s  (사용자)", r.Key, r.Value)
	}
}

// Removable reports whether the row belongs to the custom tier
func (r MappingRow) Removable() bool {
	return !r.Fixed || r.Override
}

// BuildMappingRows merges both tiers into display rows in merged order
func BuildMappingRows(table *mapping.Table) []MappingRow {
	merged := table.Merged()
	rows := make([]MappingRow, 0, len(merged))
	for _, e := range merged {
		_, inFixed := table.Fixed.Get(e.Key)
		_, inCustom := table.Custom.Get(e.Key)
		rows = append(rows, MappingRow{
			Entry:    e,
			Fixed:    inFixed && !inCustom,
			Override: inFixed && inCustom,
		})
	}
	return rows
}

// FilterMappingRows keeps rows whose key or value matches query
func FilterMappingRows(rows []MappingRow, query string) []MappingRow {
	entries := make(mapping.Entries, len(rows))
	byKey := make(map[string]MappingRow, len(rows))
	for i, r := range rows {
		entries[i] = r.Entry
		byKey[r.Key] = r
	}
	filtered := entries.Filter(query)
	out := make([]MappingRow, 0, len(filtered))
	for _, e := range filtered {
		out = append(out, byKey[e.Key])
	}
	return out
}

// MappingList shows the merged mapping with search and edit actions
type MappingList struct {
	container    *fyne.Container
	search       *widget.Entry
	list         *widget.List
	addButton    *widget.Button
	removeButton *widget.Button
	importButton *widget.Button

	rows     []MappingRow
	visible  []MappingRow
	selected int

	addHandler    func()
	removeHandler func(key string)
	importHandler func()
}

// NewMappingList creates a new mapping list component
func NewMappingList() *MappingList {
	ml := &MappingList{selected: -1}
	ml.createComponents()
	ml.buildLayout()
	ml.setupEventHandlers()
	return ml
}

func (ml *MappingList) createComponents() {
	ml.search = widget.NewEntry()
	ml.search.SetPlaceHolder("단축키 검색")

	ml.list = widget.NewList(
		func() int { return len(ml.visible) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(ml.visible) {
				return
			}
			item.(*widget.Label).SetText(ml.visible[id].Label())
		},
	)

	ml.addButton = widget.NewButtonWithIcon("새 단축키 매핑 추가", theme.ContentAddIcon(), nil)
	ml.addButton.Importance = widget.HighImportance
	ml.removeButton = widget.NewButtonWithIcon("선택 매핑 삭제", theme.ContentRemoveIcon(), nil)
	ml.removeButton.Disable()
	ml.importButton = widget.NewButtonWithIcon("매핑 파일 가져오기", theme.FolderOpenIcon(), nil)
}

func (ml *MappingList) buildLayout() {
	ml.container = container.NewBorder(
		container.NewVBox(widget.NewLabel("단축키 목록:"), ml.search),
		container.NewVBox(ml.addButton, ml.removeButton, ml.importButton),
		nil, nil,
		ml.list,
	)
}

func (ml *MappingList) setupEventHandlers() {
	ml.search.OnChanged = func(query string) {
		ml.applyFilter(query)
	}
	ml.list.OnSelected = func(id widget.ListItemID) {
		ml.selected = id
		if id >= 0 && id < len(ml.visible) && ml.visible[id].Removable() {
			ml.removeButton.Enable()
		} else {
			ml.removeButton.Disable()
		}
	}
	ml.list.OnUnselected = func(widget.ListItemID) {
		ml.selected = -1
		ml.removeButton.Disable()
	}
	ml.addButton.OnTapped = func() {
		if ml.addHandler != nil {
			ml.addHandler()
		}
	}
	ml.removeButton.OnTapped = func() {
		if ml.selected < 0 || ml.selected >= len(ml.visible) || ml.removeHandler == nil {
			return
		}
		ml.removeHandler(ml.visible[ml.selected].Key)
	}
	ml.importButton.OnTapped = func() {
		if ml.importHandler != nil {
			ml.importHandler()
		}
	}
}

func (ml *MappingList) applyFilter(query string) {
	ml.visible = FilterMappingRows(ml.rows, query)
	ml.selected = -1
	ml.removeButton.Disable()
	ml.list.UnselectAll()
	ml.list.Refresh()
}

// SetRows replaces the displayed mappings, keeping the current search
func (ml *MappingList) SetRows(rows []MappingRow) {
	fyne.Do(func() {
		ml.rows = rows
		ml.applyFilter(ml.search.Text)
	})
}

// SetEditable enables or disables mapping edits
func (ml *MappingList) SetEditable(editable bool) {
	fyne.Do(func() {
		if editable {
			ml.addButton.Enable()
			ml.importButton.Enable()
			return
		}
		ml.addButton.Disable()
		ml.removeButton.Disable()
		ml.importButton.Disable()
	})
}

// SetAddHandler sets the handler for add requests
func (ml *MappingList) SetAddHandler(handler func()) {
	ml.addHandler = handler
}

// SetRemoveHandler sets the handler receiving the exact key to remove
func (ml *MappingList) SetRemoveHandler(handler func(key string)) {
	ml.removeHandler = handler
}

// SetImportHandler sets the handler for import requests
func (ml *MappingList) SetImportHandler(handler func()) {
	ml.importHandler = handler
}

// GetContainer returns the mapping list container
func (ml *MappingList) GetContainer() *fyne.Container {
	return ml.container
}
