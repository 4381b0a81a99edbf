package state

import (
	"errors"
	"fmt"

	"github.com/itiky/notes-sync/model"
)

var ErrNoteNotFound = errors.New("note not found")

type (
	// Command is an optimistic State modification which can be reverted.
	Command interface {
		// Build the Action to apply (keeps the data required to revert it)
		Apply(s State) (Action, error)
		// Build the Action restoring the state before Apply
		Revert(s State) (Action, error)
		// Target note id
		GetId() string
		// Backend operation the command reflects
		GetType() model.OperationType
	}

	// RemoveNoteCommand implements Command interface for delete operation.
	RemoveNoteCommand struct {
		Id string
		// Revert data
		removed model.Note
		index   int
	}

	// ToggleCompletedCommand implements Command interface for toggle-complete operation.
	// Completed holds the new flag value once applied.
	ToggleCompletedCommand struct {
		Id        string
		Completed bool
		// Revert data
		prevCompleted bool
	}

	// PrependNoteCommand implements Command interface for optimistically applied create operation.
	PrependNoteCommand struct {
		Note model.Note
	}
)

// Apply implements Command interface.
func (c *RemoveNoteCommand) Apply(s State) (Action, error) {
	idx := s.Notes.Find(c.Id)
	if idx < 0 {
		return Action{}, fmt.Errorf("%s: %w", c.Id, ErrNoteNotFound)
	}
	c.removed, c.index = s.Notes[idx], idx

	notes := s.Notes.Copy()
	notes = append(notes[:idx], notes[idx+1:]...)

	return SetNotes(notes), nil
}

// Revert implements Command interface.
func (c *RemoveNoteCommand) Revert(s State) (Action, error) {
	if s.Notes.Find(c.Id) >= 0 {
		return SetNotes(s.Notes), nil
	}

	idx := c.index
	if idx > len(s.Notes) {
		idx = len(s.Notes)
	}

	// Insert
	notes := s.Notes.Copy()
	notes = append(notes, model.Note{})
	copy(notes[idx+1:], notes[idx:])
	notes[idx] = c.removed

	return SetNotes(notes), nil
}

// GetId implements Command interface.
func (c *RemoveNoteCommand) GetId() string {
	return c.Id
}

// GetType implements Command interface.
func (c *RemoveNoteCommand) GetType() model.OperationType {
	return model.DeleteOperationType
}

// Apply implements Command interface.
func (c *ToggleCompletedCommand) Apply(s State) (Action, error) {
	idx := s.Notes.Find(c.Id)
	if idx < 0 {
		return Action{}, fmt.Errorf("%s: %w", c.Id, ErrNoteNotFound)
	}
	c.prevCompleted = s.Notes[idx].Completed
	c.Completed = !c.prevCompleted

	notes := s.Notes.Copy()
	notes[idx].Completed = c.Completed

	return SetNotes(notes), nil
}

// Revert implements Command interface.
func (c *ToggleCompletedCommand) Revert(s State) (Action, error) {
	idx := s.Notes.Find(c.Id)
	if idx < 0 {
		return Action{}, fmt.Errorf("%s: %w", c.Id, ErrNoteNotFound)
	}

	notes := s.Notes.Copy()
	notes[idx].Completed = c.prevCompleted

	return SetNotes(notes), nil
}

// GetId implements Command interface.
func (c *ToggleCompletedCommand) GetId() string {
	return c.Id
}

// GetType implements Command interface.
func (c *ToggleCompletedCommand) GetType() model.OperationType {
	return model.UpdateOperationType
}

// Apply implements Command interface.
func (c *PrependNoteCommand) Apply(s State) (Action, error) {
	return AddNote(c.Note), nil
}

// Revert implements Command interface.
func (c *PrependNoteCommand) Revert(s State) (Action, error) {
	idx := s.Notes.Find(c.Note.Id)
	if idx < 0 {
		return SetNotes(s.Notes), nil
	}

	notes := s.Notes.Copy()
	notes = append(notes[:idx], notes[idx+1:]...)

	return SetNotes(notes), nil
}

// GetId implements Command interface.
func (c *PrependNoteCommand) GetId() string {
	return c.Note.Id
}

// GetType implements Command interface.
func (c *PrependNoteCommand) GetType() model.OperationType {
	return model.CreateOperationType
}

// NewRemoveNoteCommand creates a valid Command object.
func NewRemoveNoteCommand(noteId string) (*RemoveNoteCommand, error) {
	if noteId == "" {
		return nil, fmt.Errorf("%s: empty", "noteId")
	}

	return &RemoveNoteCommand{Id: noteId}, nil
}

// NewToggleCompletedCommand creates a valid Command object.
func NewToggleCompletedCommand(noteId string) (*ToggleCompletedCommand, error) {
	if noteId == "" {
		return nil, fmt.Errorf("%s: empty", "noteId")
	}

	return &ToggleCompletedCommand{Id: noteId}, nil
}

// NewPrependNoteCommand creates a valid Command object.
func NewPrependNoteCommand(note model.Note) (*PrependNoteCommand, error) {
	if note.Id == "" {
		return nil, fmt.Errorf("%s: empty", "note.Id")
	}

	return &PrependNoteCommand{Note: note}, nil
}
