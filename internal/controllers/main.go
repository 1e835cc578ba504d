package controllers

import (
	"errors"
	"fmt"
	"sync"

	"mathtype/internal/logger"
	"mathtype/internal/mapping"
	"mathtype/internal/models"
	"mathtype/internal/services"
	"mathtype/internal/views/components"

	"fyne.io/fyne/v2"
)

const component = "MainController"

// View is what the controller drives. *views.MainView implements it.
type View interface {
	SetConvertHandler(handler func(text string, copyResult bool))
	SetCopyEntryHandler(handler func(entry models.HistoryEntry))
	SetClearHistoryHandler(handler func())
	SetAddMappingHandler(handler func(key, value string))
	SetRemoveMappingHandler(handler func(key string))
	SetImportHandler(handler func(reader fyne.URIReadCloser))

	SetHistory(entries []models.HistoryEntry)
	SetMappings(rows []components.MappingRow)
	SetMappingsEditable(editable bool)
	UpdateStatus(status string)
	SetMappingInfo(fixed, custom int, path string)
	SetVariantInfo(dynamicRules, trailingSpace bool)
	CopyToClipboard(text string)
	ShowError(title string, err error)
	ShowInfo(title, message string)
	ShowConfirm(title, message string, callback func(bool))
}

// MainController connects the editor window to the mapping service
type MainController struct {
	service *services.MappingService
	history *models.HistoryRepository
	logger  logger.Logger

	mu       sync.RWMutex
	mainView View
}

// NewMainController creates a new main controller
func NewMainController(service *services.MappingService, history *models.HistoryRepository, log logger.Logger) *MainController {
	if log == nil {
		log = logger.NoOp{}
	}
	return &MainController{
		service: service,
		history: history,
		logger:  log,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mu.Lock()
	mc.mainView = view
	mc.mu.Unlock()

	view.SetConvertHandler(mc.Convert)
	view.SetCopyEntryHandler(mc.CopyEntry)
	view.SetClearHistoryHandler(mc.ClearHistory)
	view.SetAddMappingHandler(mc.AddMapping)
	view.SetRemoveMappingHandler(mc.RemoveMapping)
	view.SetImportHandler(mc.ImportMapping)

	opts := mc.service.ConverterOptions()
	view.SetVariantInfo(opts.DynamicRules, opts.TrailingSpace)
	mc.refreshMappings()
	mc.refreshHistory()
}

func (mc *MainController) view() View {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.mainView
}

// Convert converts text, logs the result and optionally copies it
func (mc *MainController) Convert(text string, copyResult bool) {
	if text == "" {
		return
	}

	converted := mc.service.Convert(text)
	mc.history.AddConversion(text, converted)
	mc.refreshHistory()

	view := mc.view()
	if view == nil {
		return
	}
	if copyResult {
		view.CopyToClipboard(converted)
		view.UpdateStatus("변환 결과를 클립보드에 복사했습니다")
		return
	}
	view.UpdateStatus("변환 완료")
}

// CopyEntry copies a log entry to the clipboard
func (mc *MainController) CopyEntry(entry models.HistoryEntry) {
	if view := mc.view(); view != nil {
		view.CopyToClipboard(entry.Text())
		view.UpdateStatus("선택 항목을 복사했습니다")
	}
}

// ClearHistory empties the output log
func (mc *MainController) ClearHistory() {
	mc.history.Clear()
	mc.refreshHistory()
}

// AddMapping adds a custom shortcut from the add dialog
func (mc *MainController) AddMapping(key, value string) {
	if key == "" || value == "" {
		mc.handleError("매핑 추가 실패", errors.Join(
			errIf(key == "", services.ErrEmptyShortcut),
			errIf(value == "", services.ErrEmptyReplacement),
		))
		return
	}

	if err := mc.service.AddMapping(key, value); err != nil {
		mc.refreshMappings()
		if mc.service.HasUnsavedChanges() {
			mc.offerRetrySave(err)
			return
		}
		mc.handleError("매핑 추가 실패", err)
		return
	}

	mc.history.AddNotice(fmt.Sprintf("추가된 매핑: %s -> %s", key, value))
	mc.refreshHistory()
	mc.refreshMappings()
}

// RemoveMapping removes a custom shortcut by exact key
func (mc *MainController) RemoveMapping(key string) {
	removed, err := mc.service.RemoveMapping(key)
	if err != nil {
		mc.refreshMappings()
		if mc.service.HasUnsavedChanges() {
			mc.offerRetrySave(err)
			return
		}
		mc.handleError("매핑 삭제 실패", err)
		return
	}

	if removed {
		mc.history.AddNotice(fmt.Sprintf("삭제된 매핑: %s", key))
		mc.refreshHistory()
	} else if view := mc.view(); view != nil {
		view.UpdateStatus(fmt.Sprintf("%s 는 사용자 매핑이 아닙니다", key))
	}
	mc.refreshMappings()
}

// ImportMapping replaces the mapping document with a picked file
func (mc *MainController) ImportMapping(reader fyne.URIReadCloser) {
	defer reader.Close()

	source := reader.URI().Path()
	if err := mc.service.ImportMapping(reader); err != nil {
		mc.handleError("매핑 파일 가져오기 실패", err)
		return
	}

	mc.history.AddNotice(fmt.Sprintf("매핑 파일을 가져왔습니다: %s (재시작 후 적용)", source))
	mc.refreshHistory()

	view := mc.view()
	if view == nil {
		return
	}
	view.SetMappingsEditable(false)
	view.UpdateStatus("재시작 후 새 매핑이 적용됩니다")
	view.ShowInfo("매핑 파일 가져오기", "가져온 매핑은 프로그램을 다시 시작하면 적용됩니다.")
}

// NotifyExternalChange reports that another program edited the mapping file
func (mc *MainController) NotifyExternalChange(path string) {
	if mc.service.RestartRequired() {
		return
	}
	if view := mc.view(); view != nil {
		view.UpdateStatus(fmt.Sprintf("%s 파일이 외부에서 변경되었습니다. 다음 저장 시 덮어씁니다", path))
	}
}

func (mc *MainController) offerRetrySave(err error) {
	mc.logger.Error(component, err, map[string]interface{}{"unsaved": true})

	view := mc.view()
	if view == nil {
		return
	}
	view.ShowConfirm("저장 실패",
		fmt.Sprintf("매핑을 저장하지 못했습니다.\n%v\n\n다시 시도할까요?", err),
		func(retry bool) {
			if !retry {
				view.UpdateStatus("저장되지 않은 매핑이 있습니다")
				return
			}
			if err := mc.service.SaveMappings(); err != nil {
				mc.offerRetrySave(err)
				return
			}
			view.UpdateStatus("매핑을 저장했습니다")
		})
}

func (mc *MainController) refreshMappings() {
	view := mc.view()
	if view == nil {
		return
	}
	table := mc.service.GetTable()
	view.SetMappings(components.BuildMappingRows(table))
	view.SetMappingInfo(table.Fixed.Len(), table.Custom.Len(), mc.service.MappingPath())
	view.SetMappingsEditable(!mc.service.RestartRequired())
}

func (mc *MainController) refreshHistory() {
	if view := mc.view(); view != nil {
		view.SetHistory(mc.history.GetEntries())
	}
}

func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error(component, err, map[string]interface{}{"title": title})

	if errors.Is(err, mapping.ErrRestartRequired) {
		title = "재시작 필요"
	}
	if view := mc.view(); view != nil {
		view.ShowError(title, err)
	}
}

func errIf(cond bool, err error) error {
	if cond {
		return err
	}
	return nil
}

// Shutdown performs cleanup when the window closes
func (mc *MainController) Shutdown() {
	stats := mc.history.GetStats()
	mc.logger.Info(component, "session finished", map[string]interface{}{
		"conversions":     stats.Conversions,
		"unsaved_changes": mc.service.HasUnsavedChanges(),
	})
}
