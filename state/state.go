package state

import (
	"fmt"
	"strings"

	"github.com/itiky/notes-sync/model"
)

type (
	// State is the application state.
	State struct {
		Notes   model.NoteList
		Loading bool
		Error   bool
		Form    model.Form
	}

	// ActionType defines the State transition kind.
	ActionType string

	// Action is a State transition request handled by Reduce.
	// Only fields relevant for the Type are used.
	Action struct {
		Type  ActionType
		Notes model.NoteList
		Note  model.Note
		Field model.FormField
		Value string
	}
)

const (
	SetNotesActionType  ActionType = "SET_NOTES"
	AddNoteActionType   ActionType = "ADD_NOTE"
	ResetFormActionType ActionType = "RESET_FORM"
	SetInputActionType  ActionType = "SET_INPUT"
	ErrorActionType     ActionType = "ERROR"
)

// InitialState returns State before the first fetch.
func InitialState() State {
	return State{
		Notes:   model.NoteList{},
		Loading: true,
	}
}

// String implements the stringer interface.
func (s State) String() string {
	str := strings.Builder{}
	str.WriteString(fmt.Sprintf("loading: %v, error: %v, form: {%q, %q}\n", s.Loading, s.Error, s.Form.Name, s.Form.Description))
	str.WriteString(s.Notes.String())

	return str.String()
}

// Copy returns a State copy which doesn't share the notes slice.
func (s State) Copy() State {
	s.Notes = s.Notes.Copy()
	return s
}

// Reduce returns a new State version with the Action applied.
// Unknown actions return the input state as is.
func Reduce(s State, a Action) State {
	switch a.Type {
	case SetNotesActionType:
		s.Notes = a.Notes.Copy()
		if s.Notes == nil {
			s.Notes = model.NoteList{}
		}
		s.Loading = false

	case AddNoteActionType:
		notes := make(model.NoteList, 0, len(s.Notes)+1)
		notes = append(notes, a.Note)
		notes = append(notes, s.Notes...)
		s.Notes = notes

	case ResetFormActionType:
		s.Form = model.Form{}

	case SetInputActionType:
		s.Form = s.Form.Set(a.Field, a.Value)

	case ErrorActionType:
		s.Loading = false
		s.Error = true
	}

	return s
}

// SetNotes builds the SET_NOTES action.
func SetNotes(notes model.NoteList) Action {
	return Action{Type: SetNotesActionType, Notes: notes}
}

// AddNote builds the ADD_NOTE action.
func AddNote(note model.Note) Action {
	return Action{Type: AddNoteActionType, Note: note}
}

// ResetForm builds the RESET_FORM action.
func ResetForm() Action {
	return Action{Type: ResetFormActionType}
}

// SetInput builds the SET_INPUT action.
func SetInput(field model.FormField, value string) Action {
	return Action{Type: SetInputActionType, Field: field, Value: value}
}

// Error builds the ERROR action.
func Error() Action {
	return Action{Type: ErrorActionType}
}
