package gql

const noteFields = `
    id
    clientId
    name
    description
    completed`

const (
	ListNotesQuery = `query ListNotes {
  listNotes {
    items {` + noteFields + `
    }
  }
}`

	CreateNoteMutation = `mutation CreateNote($input: CreateNoteInput!) {
  createNote(input: $input) {` + noteFields + `
  }
}`

	DeleteNoteMutation = `mutation DeleteNote($input: DeleteNoteInput!) {
  deleteNote(input: $input) {
    id
  }
}`

	UpdateNoteMutation = `mutation UpdateNote($input: UpdateNoteInput!) {
  updateNote(input: $input) {` + noteFields + `
  }
}`

	OnCreateNoteSubscription = `subscription OnCreateNote {
  onCreateNote {` + noteFields + `
  }
}`
)
