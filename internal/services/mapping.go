package services

import (
	"errors"
	"fmt"
	"io"

	"mathtype/internal/convert"
	"mathtype/internal/logger"
	"mathtype/internal/mapping"
)

const component = "MappingService"

var (
	ErrEmptyShortcut    = errors.New("shortcut must not be empty")
	ErrEmptyReplacement = errors.New("replacement must not be empty")
)

// MappingService is the entry point the UI and CLI call into: conversion,
// the merged mapping snapshot and custom mapping edits.
type MappingService struct {
	store     *mapping.Store
	converter *convert.Converter
	logger    logger.Logger
}

// NewMappingService creates a service over an opened store
func NewMappingService(store *mapping.Store, converter *convert.Converter, log logger.Logger) *MappingService {
	if log == nil {
		log = logger.NoOp{}
	}
	return &MappingService{
		store:     store,
		converter: converter,
		logger:    log,
	}
}

// GetMergedMapping returns a read-only snapshot for display and search
func (ms *MappingService) GetMergedMapping() mapping.Entries {
	return ms.store.Merged()
}

// GetTable returns a copy of both tiers
func (ms *MappingService) GetTable() *mapping.Table {
	return ms.store.Table()
}

// Convert applies the current merged mapping to text
func (ms *MappingService) Convert(text string) string {
	out := ms.converter.Convert(text, ms.store.Merged())
	ms.logger.Debug(component, "text converted", map[string]interface{}{
		"input_len":  len(text),
		"output_len": len(out),
	})
	return out
}

// AddMapping validates and stores a custom shortcut
func (ms *MappingService) AddMapping(key, value string) error {
	if key == "" {
		return ErrEmptyShortcut
	}
	if value == "" {
		return ErrEmptyReplacement
	}

	if err := ms.store.Add(key, value); err != nil {
		return fmt.Errorf("failed to add mapping %q: %w", key, err)
	}

	ms.logger.Info(component, "custom mapping added", map[string]interface{}{
		"key":   key,
		"value": value,
	})
	return nil
}

// RemoveMapping deletes a custom shortcut by its exact key. Keys that are
// unknown or belong to the fixed tier report false without an error.
func (ms *MappingService) RemoveMapping(key string) (bool, error) {
	removed, err := ms.store.Remove(key)
	if err != nil {
		return removed, fmt.Errorf("failed to remove mapping %q: %w", key, err)
	}

	ms.logger.Info(component, "custom mapping remove", map[string]interface{}{
		"key":     key,
		"removed": removed,
	})
	return removed, nil
}

// IsFixed reports whether key belongs to the read-only tier
func (ms *MappingService) IsFixed(key string) bool {
	_, ok := ms.store.Table().Fixed.Get(key)
	return ok
}

// ImportMappingFile replaces the backing document with the file at path.
// The new mappings apply after a restart.
func (ms *MappingService) ImportMappingFile(path string) error {
	if err := ms.store.ImportFile(path); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	return nil
}

// ImportMapping is ImportMappingFile for readers handed over by file pickers
func (ms *MappingService) ImportMapping(r io.Reader) error {
	if err := ms.store.Import(r); err != nil {
		return fmt.Errorf("failed to import mappings: %w", err)
	}
	return nil
}

// SaveMappings retries persisting the table after a failed mutation
func (ms *MappingService) SaveMappings() error {
	return ms.store.Save()
}

func (ms *MappingService) HasUnsavedChanges() bool {
	return ms.store.Dirty()
}

func (ms *MappingService) RestartRequired() bool {
	return ms.store.RestartRequired()
}

func (ms *MappingService) MappingPath() string {
	return ms.store.Path()
}

func (ms *MappingService) ConverterOptions() convert.Options {
	return ms.converter.Options()
}
