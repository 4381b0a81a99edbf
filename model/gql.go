package model

// List notes query.
type (
	ListNotesResponse struct {
		ListNotes struct {
			Items NoteList `json:"items"`
		} `json:"listNotes"`
	}
)

// Create note mutation.
type (
	CreateNoteRequest struct {
		Input Note `json:"input"`
	}

	CreateNoteResponse struct {
		CreateNote Note `json:"createNote"`
	}
)

// Delete note mutation.
type (
	DeleteNoteRequest struct {
		Input DeleteNoteInput `json:"input"`
	}

	DeleteNoteInput struct {
		Id string `json:"id"`
	}

	DeleteNoteResponse struct {
		DeleteNote DeleteNoteInput `json:"deleteNote"`
	}
)

// Update note (toggle-complete) mutation.
type (
	UpdateNoteRequest struct {
		Input UpdateNoteInput `json:"input"`
	}

	UpdateNoteInput struct {
		Id        string `json:"id"`
		Completed bool   `json:"completed"`
	}

	UpdateNoteResponse struct {
		UpdateNote Note `json:"updateNote"`
	}
)

// Note created subscription event.
type (
	OnCreateNoteEvent struct {
		OnCreateNote Note `json:"onCreateNote"`
	}
)
