// Package history keeps the ordered list of fetched pictures and the
// position the desktop is currently showing.
//
// State is a plain value: every operation takes a State and returns the
// resulting State. The Store persists it between invocations.
package history

import (
	"slices"

	"github.com/litescript/apod-desktop/internal/apperr"
)

// ErrNotAvailable is returned when navigation would leave the history or
// the history is empty.
var ErrNotAvailable = apperr.ErrNotAvailable

// NoCurrent is the Current value of an empty State.
const NoCurrent = -1

// Record is one fetched picture. Records are never modified after creation.
type Record struct {
	URL   string `json:"url"`
	File  string `json:"file"`
	Title string `json:"title"`
}

// State is the history list plus the index of the record on the desktop.
// When Entries is non-empty, 0 <= Current < len(Entries).
type State struct {
	Entries []Record
	Current int
}

// New returns an empty State.
func New() State {
	return State{Entries: []Record{}, Current: NoCurrent}
}

// Len returns the number of records.
func (s State) Len() int {
	return len(s.Entries)
}

// Empty reports whether no picture has been recorded yet.
func (s State) Empty() bool {
	return len(s.Entries) == 0
}

// RecordNew appends a record and makes it current. It does not check for
// duplicates; callers compare URLs first.
//
// The record always goes after the last entry, even when Current has been
// moved back.
func (s State) RecordNew(url, file, title string) State {
	entries := make([]Record, len(s.Entries), len(s.Entries)+1)
	copy(entries, s.Entries)
	entries = append(entries, Record{URL: url, File: file, Title: title})
	return State{Entries: entries, Current: len(entries) - 1}
}

// MovePrevious steps back one record and returns it.
func (s State) MovePrevious() (State, Record, error) {
	if !s.valid() || s.Current == 0 {
		return s, Record{}, ErrNotAvailable
	}
	next := State{Entries: s.Entries, Current: s.Current - 1}
	return next, next.Entries[next.Current], nil
}

// MoveNext steps forward one record and returns it.
func (s State) MoveNext() (State, Record, error) {
	if !s.valid() || s.Current >= len(s.Entries)-1 {
		return s, Record{}, ErrNotAvailable
	}
	next := State{Entries: s.Entries, Current: s.Current + 1}
	return next, next.Entries[next.Current], nil
}

// CurrentRecord returns the record at Current.
func (s State) CurrentRecord() (Record, error) {
	if !s.valid() {
		return Record{}, ErrNotAvailable
	}
	return s.Entries[s.Current], nil
}

// Last returns the most recently appended record.
func (s State) Last() (Record, bool) {
	if len(s.Entries) == 0 {
		return Record{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// Equal reports whether two states hold the same records and position.
// Current is ignored for empty states.
func (s State) Equal(o State) bool {
	if !slices.Equal(s.Entries, o.Entries) {
		return false
	}
	if len(s.Entries) == 0 {
		return true
	}
	return s.Current == o.Current
}

func (s State) valid() bool {
	return len(s.Entries) > 0 && s.Current >= 0 && s.Current < len(s.Entries)
}
