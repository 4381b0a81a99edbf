package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/itiky/notes-sync/logger"
	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/state"
)

// FetchNotes replaces the local notes with the backend list.
// The store error flag is set on failure.
func (c *Controller) FetchNotes(ctx context.Context) error {
	opStart := time.Now()
	notes, err := c.backend.ListNotes(ctx)
	c.monitor.RequestServed(model.ListOperationType, time.Since(opStart), err)

	if err != nil {
		c.logger.Error("fetch notes", zap.Error(err))
		c.store.Dispatch(state.Error())
		return fmt.Errorf("list notes: %w", err)
	}
	c.store.Dispatch(state.SetNotes(notes))

	c.logger.Debug("notes fetched", zap.Int("count", len(notes)), zap.Duration(logger.FieldDuration, time.Since(opStart)))

	return nil
}

// SetInput updates a single form field.
func (c *Controller) SetInput(field model.FormField, value string) {
	c.store.Dispatch(state.SetInput(field, value))
}

// CreateNote validates the form, resets it and sends the create mutation.
// A *ValidationError is returned (and the user is notified) for an incomplete form.
// Mutation failures are only logged.
func (c *Controller) CreateNote(ctx context.Context) (model.Note, error) {
	var note model.Note
	_, err := c.store.Update(func(s state.State) (state.Action, error) {
		if err := validateForm(s.Form); err != nil {
			return state.Action{}, err
		}
		note = model.NewNote(c.session, s.Form)

		return state.ResetForm(), nil
	})
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			c.notifier.Notify(vErr.Message)
		}
		return model.Note{}, err
	}

	policy := c.policies.Get(model.CreateOperationType)

	var cmd state.Command
	seq := 0
	if policy.Update == OptimisticApply {
		prependCmd, err := state.NewPrependNoteCommand(note)
		if err != nil {
			return model.Note{}, err
		}
		if seq, err = c.apply(prependCmd); err != nil {
			return model.Note{}, err
		}
		cmd = prependCmd
	}

	c.echoMu.Lock()
	if c.listening {
		c.awaitingEcho[note.Id] = time.Now()
	}
	c.echoMu.Unlock()

	opStart := time.Now()
	_, err = c.backend.CreateNote(ctx, note)
	c.monitor.RequestServed(model.CreateOperationType, time.Since(opStart), err)
	if err != nil {
		c.echoMu.Lock()
		delete(c.awaitingEcho, note.Id)
		c.echoMu.Unlock()
	}
	c.complete(model.CreateOperationType, note.Id, policy, cmd, seq, err)

	return note, nil
}

// DeleteNote removes the note and sends the delete mutation.
// Mutation failures are only logged.
func (c *Controller) DeleteNote(ctx context.Context, noteId string) error {
	cmd, err := state.NewRemoveNoteCommand(noteId)
	if err != nil {
		return err
	}

	policy := c.policies.Get(model.DeleteOperationType)
	seq, err := c.prepare(policy, cmd)
	if err != nil {
		return err
	}

	opStart := time.Now()
	_, err = c.backend.DeleteNote(ctx, noteId)
	c.monitor.RequestServed(model.DeleteOperationType, time.Since(opStart), err)
	c.complete(model.DeleteOperationType, noteId, policy, cmd, seq, err)

	return nil
}

// UpdateNote toggles the note completed flag and sends the update mutation.
// Mutation failures are only logged.
func (c *Controller) UpdateNote(ctx context.Context, noteId string) error {
	cmd, err := state.NewToggleCompletedCommand(noteId)
	if err != nil {
		return err
	}

	policy := c.policies.Get(model.UpdateOperationType)
	seq, err := c.prepare(policy, cmd)
	if err != nil {
		return err
	}

	completed := cmd.Completed
	if policy.Update == WaitForRemoteEcho {
		notes := c.store.State().Notes
		idx := notes.Find(noteId)
		if idx < 0 {
			return fmt.Errorf("%s: %w", noteId, state.ErrNoteNotFound)
		}
		completed = !notes[idx].Completed
	}

	opStart := time.Now()
	_, err = c.backend.UpdateNote(ctx, noteId, completed)
	c.monitor.RequestServed(model.UpdateOperationType, time.Since(opStart), err)
	c.complete(model.UpdateOperationType, noteId, policy, cmd, seq, err)

	return nil
}

// prepare applies the command for the optimistic policy or checks the target note exists otherwise.
func (c *Controller) prepare(policy Policy, cmd state.Command) (int, error) {
	if policy.Update == OptimisticApply {
		return c.apply(cmd)
	}

	if c.store.State().Notes.Find(cmd.GetId()) < 0 {
		return 0, fmt.Errorf("%s: %w", cmd.GetId(), state.ErrNoteNotFound)
	}

	return 0, nil
}

// apply dispatches the command and registers it as unconfirmed.
func (c *Controller) apply(cmd state.Command) (int, error) {
	if _, err := c.store.Update(cmd.Apply); err != nil {
		return 0, err
	}

	return c.journal.Add(cmd, time.Now()), nil
}

// complete handles the mutation result according to the policy.
func (c *Controller) complete(opType model.OperationType, noteId string, policy Policy, cmd state.Command, seq int, opErr error) {
	log := c.logger.With(
		zap.String(logger.FieldOperation, string(opType)),
		zap.String(logger.FieldNoteId, noteId),
	)

	if opErr == nil {
		if seq > 0 {
			c.journal.Ack(seq)
		}
		// Creates are shown once echoed by the subscription (or the next fetch)
		if policy.Update == WaitForRemoteEcho && cmd != nil && opType != model.CreateOperationType {
			if _, err := c.store.Update(cmd.Apply); err != nil {
				log.Warn("applying confirmed mutation", zap.Error(err))
			}
		}
		log.Debug("mutation confirmed")
		return
	}

	log.Error("mutation failed", zap.Error(opErr))
	if seq == 0 {
		return
	}

	entry, found := c.journal.Fail(seq)
	if !found || policy.Rollback != RollbackOnFailure {
		return
	}
	if entry.Command.GetType() != opType {
		log.Warn("rollback: journal entry operation mismatch", zap.String("journalOperation", string(entry.Command.GetType())))
		return
	}
	if _, err := c.store.Update(entry.Command.Revert); err != nil {
		log.Warn("rollback", zap.Error(err))
		return
	}
	log.Info("optimistic change rolled back")
}

// mergeCreated handles the subscription event: own echoes are dropped, remote notes are prepended.
func (c *Controller) mergeCreated(note model.Note) {
	if note.ClientId == c.session {
		c.echoMu.Lock()
		sentAt := c.awaitingEcho[note.Id]
		delete(c.awaitingEcho, note.Id)
		c.echoMu.Unlock()

		c.monitor.EchoDropped(sentAt)
		c.logger.Debug("own echo dropped", zap.String(logger.FieldNoteId, note.Id))
		return
	}

	c.monitor.EventMerged()
	c.store.Dispatch(state.AddNote(note))
	c.logger.Debug("remote note merged", zap.String(logger.FieldNoteId, note.Id))
}
