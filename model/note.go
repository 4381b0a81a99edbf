package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type (
	// Note is the core entity managed by the backend.
	Note struct {
		Id          string    `json:"id"`
		ClientId    SessionId `json:"clientId"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		Completed   bool      `json:"completed"`
	}

	// NoteList is an ordered notes sequence.
	NoteList []Note

	// Form is a not yet submitted note draft.
	Form struct {
		Name        string `validate:"required"`
		Description string `validate:"required"`
	}

	// FormField names a single Form field.
	FormField string
)

const (
	FormFieldName        FormField = "name"
	FormFieldDescription FormField = "description"
)

// NewNote creates a Note with a fresh id owned by the specified session.
func NewNote(sessionId SessionId, form Form) Note {
	return Note{
		Id:          uuid.New().String(),
		ClientId:    sessionId,
		Name:        form.Name,
		Description: form.Description,
		Completed:   false,
	}
}

// String implements the stringer interface.
func (n Note) String() string {
	mark := " "
	if n.Completed {
		mark = "x"
	}

	return fmt.Sprintf("[%s] %s: %s (%s)", mark, n.Name, n.Description, n.Id)
}

// String implements the stringer interface.
func (l NoteList) String() string {
	str := strings.Builder{}
	for i, note := range l {
		str.WriteString(fmt.Sprintf("- [%d] %s\n", i, note.String()))
	}

	return str.String()
}

// Copy returns a NoteList copy which doesn't share the underlying array.
func (l NoteList) Copy() NoteList {
	if l == nil {
		return nil
	}

	list := make(NoteList, len(l))
	copy(list, l)

	return list
}

// Find returns the note index by id or -1.
func (l NoteList) Find(id string) int {
	for i, note := range l {
		if note.Id == id {
			return i
		}
	}

	return -1
}

// Set returns a copy of the form with a single field updated.
// Unknown fields are ignored.
func (f Form) Set(field FormField, value string) Form {
	switch field {
	case FormFieldName:
		f.Name = value
	case FormFieldDescription:
		f.Description = value
	}

	return f
}

// IsEmpty checks if all form fields are empty.
func (f Form) IsEmpty() bool {
	return f == Form{}
}
