package client

import (
	"context"

	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/service/gql"
)

type (
	// Backend is the managed notes backend contract.
	Backend interface {
		ListNotes(ctx context.Context) (model.NoteList, error)
		CreateNote(ctx context.Context, note model.Note) (model.Note, error)
		DeleteNote(ctx context.Context, noteId string) (string, error)
		UpdateNote(ctx context.Context, noteId string, completed bool) (model.Note, error)
		SubscribeCreatedNotes(ctx context.Context) (Subscription, error)
	}

	// Subscription is a live created notes channel.
	Subscription interface {
		// Events is closed once the subscription ends
		Events() <-chan model.Note
		// Termination reason (nil on Close)
		Err() error
		Close() error
	}

	// Notifier delivers user facing messages.
	Notifier interface {
		Notify(msg string)
	}

	// NotifierFunc implements Notifier interface.
	NotifierFunc func(msg string)

	gqlBackend struct {
		*gql.Client
	}
)

// Notify implements Notifier interface.
func (f NotifierFunc) Notify(msg string) {
	f(msg)
}

// SubscribeCreatedNotes implements Backend interface.
func (b gqlBackend) SubscribeCreatedNotes(ctx context.Context) (Subscription, error) {
	sub, err := b.Client.SubscribeCreatedNotes(ctx)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// NewGQLBackend wraps the GraphQL client to Backend.
func NewGQLBackend(c *gql.Client) Backend {
	return gqlBackend{Client: c}
}
