package state

import (
	"sync"
	"time"
)

type (
	// Journal keeps optimistically applied commands which are not yet confirmed by the backend.
	Journal struct {
		sync.RWMutex
		// Unconfirmed commands by sequence number
		entries map[int]JournalEntry
		// The latest sequence number issued
		latestSeq int
	}

	JournalEntry struct {
		Seq       int
		Command   Command
		AppliedAt time.Time
	}
)

// Add registers an applied command and returns its sequence number.
func (j *Journal) Add(cmd Command, appliedAt time.Time) int {
	j.Lock()
	defer j.Unlock()

	j.latestSeq++
	j.entries[j.latestSeq] = JournalEntry{
		Seq:       j.latestSeq,
		Command:   cmd,
		AppliedAt: appliedAt,
	}

	return j.latestSeq
}

// Ack removes a command confirmed by the backend.
// Returns false if the sequence number is unknown.
func (j *Journal) Ack(seq int) (JournalEntry, bool) {
	return j.pop(seq)
}

// Fail removes a command rejected by the backend and returns it (used for rollback).
func (j *Journal) Fail(seq int) (JournalEntry, bool) {
	return j.pop(seq)
}

// Pending returns the number of unconfirmed commands.
func (j *Journal) Pending() int {
	j.RLock()
	defer j.RUnlock()

	return len(j.entries)
}

// Oldest returns the earliest unconfirmed entry (the inconsistency window start).
func (j *Journal) Oldest() (JournalEntry, bool) {
	j.RLock()
	defer j.RUnlock()

	var (
		oldest JournalEntry
		found  bool
	)
	for _, entry := range j.entries {
		if !found || entry.Seq < oldest.Seq {
			oldest, found = entry, true
		}
	}

	return oldest, found
}

// pop removes an entry.
func (j *Journal) pop(seq int) (JournalEntry, bool) {
	j.Lock()
	defer j.Unlock()

	entry, found := j.entries[seq]
	if found {
		delete(j.entries, seq)
	}

	return entry, found
}

// NewJournal creates a new empty Journal object.
func NewJournal() *Journal {
	return &Journal{
		entries: make(map[int]JournalEntry),
	}
}
