package models

import (
	"sync"
	"time"
)

// EntryKind distinguishes converted text from status notices in the log
type EntryKind int

const (
	KindConversion EntryKind = iota
	KindNotice
)

// HistoryEntry is one line of the output log
type HistoryEntry struct {
	ID     int
	Kind   EntryKind
	Input  string
	Output string
	At     time.Time
}

// Text returns what the log list displays and what gets copied
func (e HistoryEntry) Text() string {
	return e.Output
}

// HistoryStats summarizes the log
type HistoryStats struct {
	Conversions int
	Notices     int
	Dropped     int
}

// HistoryRepository keeps the session's output log in memory, newest last
type HistoryRepository struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	maxSize int
	nextID  int
	dropped int
	now     func() time.Time
}

// NewHistoryRepository creates a repository holding at most maxSize entries
func NewHistoryRepository(maxSize int) *HistoryRepository {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &HistoryRepository{
		entries: make([]HistoryEntry, 0, maxSize),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// AddConversion records a converted text
func (r *HistoryRepository) AddConversion(input, output string) HistoryEntry {
	return r.add(HistoryEntry{Kind: KindConversion, Input: input, Output: output})
}

// AddNotice records a status line such as an added mapping
func (r *HistoryRepository) AddNotice(message string) HistoryEntry {
	return r.add(HistoryEntry{Kind: KindNotice, Output: message})
}

func (r *HistoryRepository) add(entry HistoryEntry) HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	entry.At = r.now()

	r.entries = append(r.entries, entry)
	if len(r.entries) > r.maxSize {
		overflow := len(r.entries) - r.maxSize
		r.entries = append(r.entries[:0], r.entries[overflow:]...)
		r.dropped += overflow
	}
	return entry
}

// GetEntries returns a copy of the log, oldest first
func (r *HistoryRepository) GetEntries() []HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// GetEntry returns the entry at index, oldest first
func (r *HistoryRepository) GetEntry(index int) (HistoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.entries) {
		return HistoryEntry{}, false
	}
	return r.entries[index], true
}

// GetLatestConversion returns the newest converted text
func (r *HistoryRepository) GetLatestConversion() (HistoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].Kind == KindConversion {
			return r.entries[i], true
		}
	}
	return HistoryEntry{}, false
}

func (r *HistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// GetStats counts the retained entries by kind
func (r *HistoryRepository) GetStats() HistoryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := HistoryStats{Dropped: r.dropped}
	for _, e := range r.entries {
		switch e.Kind {
		case KindConversion:
			stats.Conversions++
		case KindNotice:
			stats.Notices++
		}
	}
	return stats
}

// Clear empties the log
func (r *HistoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
