package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/itiky/notes-sync/model"
)

func newTestNote(id string) model.Note {
	return model.Note{
		Id:          id,
		Name:        "name " + id,
		Description: "description " + id,
	}
}

// Test checks that SET_INPUT keeps the last value per field and doesn't affect others.
func Test_Reduce_SetInput(t *testing.T) {
	s := InitialState()

	s = Reduce(s, SetInput(model.FormFieldName, "a"))
	s = Reduce(s, SetInput(model.FormFieldDescription, "x"))
	s = Reduce(s, SetInput(model.FormFieldName, "b"))
	require.Equal(t, model.Form{Name: "b", Description: "x"}, s.Form)

	s = Reduce(s, SetInput(model.FormFieldDescription, "y"))
	require.Equal(t, model.Form{Name: "b", Description: "y"}, s.Form)

	// unknown field
	s = Reduce(s, SetInput(model.FormField("title"), "z"))
	require.Equal(t, model.Form{Name: "b", Description: "y"}, s.Form)
}

func Test_Reduce_ResetForm(t *testing.T) {
	s := InitialState()
	s.Form = model.Form{Name: "a", Description: "b"}

	s = Reduce(s, ResetForm())
	require.True(t, s.Form.IsEmpty())
	require.Equal(t, InitialState().Form, s.Form)
}

func Test_Reduce_SetNotes(t *testing.T) {
	s := InitialState()
	require.True(t, s.Loading)

	notes := model.NoteList{
		{Id: "1", Name: "A", Description: "d", Completed: false},
	}
	s = Reduce(s, SetNotes(notes))
	require.Equal(t, notes, s.Notes)
	require.False(t, s.Loading)
	require.False(t, s.Error)

	// state must not alias the input
	notes[0].Name = "B"
	require.Equal(t, "A", s.Notes[0].Name)
}

func Test_Reduce_AddNote(t *testing.T) {
	s := Reduce(InitialState(), SetNotes(model.NoteList{newTestNote("1"), newTestNote("2")}))
	prev := s.Notes.Copy()

	s = Reduce(s, AddNote(newTestNote("3")))
	require.Len(t, s.Notes, 3)
	require.Equal(t, newTestNote("3"), s.Notes[0])
	require.Equal(t, prev, s.Notes[1:])
}

func Test_Reduce_Error(t *testing.T) {
	for _, s := range []State{
		InitialState(),
		{Loading: false, Error: false},
		{Loading: true, Error: true, Notes: model.NoteList{newTestNote("1")}},
	} {
		res := Reduce(s, Error())
		require.False(t, res.Loading)
		require.True(t, res.Error)
		require.Equal(t, s.Notes, res.Notes)
	}
}

func Test_Reduce_UnknownAction(t *testing.T) {
	s := Reduce(InitialState(), SetNotes(model.NoteList{newTestNote("1")}))
	require.Equal(t, s, Reduce(s, Action{Type: "UNKNOWN"}))
}

// Test applies/reverts commands and checks the state is restored.
func Test_Commands_ApplyRevert(t *testing.T) {
	store := NewStore(InitialState())
	store.Dispatch(SetNotes(model.NoteList{newTestNote("1"), newTestNote("2"), newTestNote("3")}))
	initial := store.State()

	// remove
	{
		cmd, err := NewRemoveNoteCommand("2")
		require.NoError(t, err)

		s, err := store.Update(cmd.Apply)
		require.NoError(t, err)
		require.Equal(t, model.NoteList{newTestNote("1"), newTestNote("3")}, s.Notes)

		s, err = store.Update(cmd.Revert)
		require.NoError(t, err)
		require.Equal(t, initial.Notes, s.Notes)
	}

	// toggle
	{
		cmd, err := NewToggleCompletedCommand("3")
		require.NoError(t, err)

		s, err := store.Update(cmd.Apply)
		require.NoError(t, err)
		require.True(t, cmd.Completed)
		require.True(t, s.Notes[2].Completed)

		s, err = store.Update(cmd.Revert)
		require.NoError(t, err)
		require.Equal(t, initial.Notes, s.Notes)
	}

	// prepend
	{
		cmd, err := NewPrependNoteCommand(newTestNote("4"))
		require.NoError(t, err)

		s, err := store.Update(cmd.Apply)
		require.NoError(t, err)
		require.Equal(t, "4", s.Notes[0].Id)

		s, err = store.Update(cmd.Revert)
		require.NoError(t, err)
		require.Equal(t, initial.Notes, s.Notes)
	}

	// unknown note
	{
		cmd, err := NewRemoveNoteCommand("5")
		require.NoError(t, err)

		s, err := store.Update(cmd.Apply)
		require.ErrorIs(t, err, ErrNoteNotFound)
		require.Equal(t, initial.Notes, s.Notes)
	}

	// invalid inputs
	{
		_, err := NewRemoveNoteCommand("")
		require.Error(t, err)
		_, err = NewToggleCompletedCommand("")
		require.Error(t, err)
		_, err = NewPrependNoteCommand(model.Note{})
		require.Error(t, err)
	}
}

func Test_Store_Watch(t *testing.T) {
	store := NewStore(InitialState())

	ch, cancel := store.Watch()
	require.True(t, (<-ch).Loading)

	store.Dispatch(SetNotes(model.NoteList{newTestNote("1")}))
	store.Dispatch(AddNote(newTestNote("2")))

	// only the latest state is kept
	s := <-ch
	require.Len(t, s.Notes, 2)
	select {
	case <-ch:
		t.Fatal("unexpected state")
	default:
	}

	cancel()
	_, ok := <-ch
	require.False(t, ok)
	cancel()
}

func Test_Journal(t *testing.T) {
	j := NewJournal()
	now := time.Now()

	cmd1, _ := NewRemoveNoteCommand("1")
	cmd2, _ := NewToggleCompletedCommand("2")

	seq1 := j.Add(cmd1, now)
	seq2 := j.Add(cmd2, now.Add(time.Second))
	require.Equal(t, 2, j.Pending())

	oldest, found := j.Oldest()
	require.True(t, found)
	require.Equal(t, seq1, oldest.Seq)

	entry, found := j.Ack(seq1)
	require.True(t, found)
	require.Equal(t, "1", entry.Command.GetId())

	_, found = j.Ack(seq1)
	require.False(t, found)

	entry, found = j.Fail(seq2)
	require.True(t, found)
	require.Equal(t, model.UpdateOperationType, entry.Command.GetType())
	require.Zero(t, j.Pending())

	_, found = j.Oldest()
	require.False(t, found)
}
