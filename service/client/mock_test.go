package client

import (
	"context"
	"sync"

	"github.com/itiky/notes-sync/model"
)

type (
	// backendMock implements Backend interface, hooks are called before a result is returned.
	backendMock struct {
		sync.Mutex
		notes     model.NoteList
		listErr   error
		createErr error
		deleteErr error
		updateErr error
		subErr    error
		//
		onCreate func(note model.Note)
		onDelete func(noteId string)
		onUpdate func(noteId string, completed bool)
		//
		calls []model.OperationType
		sub   *subscriptionMock
	}

	subscriptionMock struct {
		eventCh   chan model.Note
		err       error
		closeOnce sync.Once
		closed    chan struct{}
	}
)

func newBackendMock(notes ...model.Note) *backendMock {
	return &backendMock{
		notes: notes,
		sub:   newSubscriptionMock(),
	}
}

func (b *backendMock) called(opType model.OperationType) {
	b.Lock()
	defer b.Unlock()

	b.calls = append(b.calls, opType)
}

func (b *backendMock) Calls() []model.OperationType {
	b.Lock()
	defer b.Unlock()

	calls := make([]model.OperationType, len(b.calls))
	copy(calls, b.calls)

	return calls
}

func (b *backendMock) ListNotes(ctx context.Context) (model.NoteList, error) {
	b.called(model.ListOperationType)
	if b.listErr != nil {
		return nil, b.listErr
	}

	return b.notes.Copy(), nil
}

func (b *backendMock) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	b.called(model.CreateOperationType)
	if b.onCreate != nil {
		b.onCreate(note)
	}
	if b.createErr != nil {
		return model.Note{}, b.createErr
	}

	return note, nil
}

func (b *backendMock) DeleteNote(ctx context.Context, noteId string) (string, error) {
	b.called(model.DeleteOperationType)
	if b.onDelete != nil {
		b.onDelete(noteId)
	}
	if b.deleteErr != nil {
		return "", b.deleteErr
	}

	return noteId, nil
}

func (b *backendMock) UpdateNote(ctx context.Context, noteId string, completed bool) (model.Note, error) {
	b.called(model.UpdateOperationType)
	if b.onUpdate != nil {
		b.onUpdate(noteId, completed)
	}
	if b.updateErr != nil {
		return model.Note{}, b.updateErr
	}

	return model.Note{Id: noteId, Completed: completed}, nil
}

func (b *backendMock) SubscribeCreatedNotes(ctx context.Context) (Subscription, error) {
	if b.subErr != nil {
		return nil, b.subErr
	}

	return b.sub, nil
}

func newSubscriptionMock() *subscriptionMock {
	return &subscriptionMock{
		eventCh: make(chan model.Note),
		closed:  make(chan struct{}),
	}
}

func (s *subscriptionMock) Events() <-chan model.Note {
	return s.eventCh
}

func (s *subscriptionMock) Err() error {
	return s.err
}

func (s *subscriptionMock) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})

	return nil
}

// Fail terminates the subscription with an error.
func (s *subscriptionMock) Fail(err error) {
	s.err = err
	close(s.eventCh)
}
