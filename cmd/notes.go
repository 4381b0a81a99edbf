package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/service/client"
)

const (
	FlagName        = "name"
	FlagDescription = "description"
)

// GetListCmd returns notes list command.
func GetListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Backend.RequestTimeout)
			defer cancel()

			if err := s.controller.FetchNotes(ctx); err != nil {
				return err
			}
			cmd.Print(s.controller.State().Notes.String())

			return nil
		},
	}

	return cmd
}

// GetCreateCmd returns note create command.
func GetCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse inputs
			name, err := cmd.Flags().GetString(FlagName)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagName, err)
			}
			description, err := cmd.Flags().GetString(FlagDescription)
			if err != nil {
				return fmt.Errorf("%s flag: %w", FlagDescription, err)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Backend.RequestTimeout)
			defer cancel()

			s.controller.SetInput(model.FormFieldName, name)
			s.controller.SetInput(model.FormFieldDescription, description)
			note, err := s.controller.CreateNote(ctx)
			if err != nil {
				var vErr *client.ValidationError
				if errors.As(err, &vErr) {
					return errNotified
				}
				return err
			}
			cmd.Println(note.Id)

			return nil
		},
	}
	cmd.Flags().String(FlagName, "", "note name")
	cmd.Flags().String(FlagDescription, "", "note description")

	return cmd
}

// GetDeleteCmd returns note delete command.
func GetDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [note-id]",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnFetched(cmd, func(ctx context.Context, s *session) error {
				return s.controller.DeleteNote(ctx, args[0])
			})
		},
	}

	return cmd
}

// GetToggleCmd returns note toggle-complete command.
func GetToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle [note-id]",
		Short: "Toggle note completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnFetched(cmd, func(ctx context.Context, s *session) error {
				return s.controller.UpdateNote(ctx, args[0])
			})
		},
	}

	return cmd
}

// runOnFetched fetches the notes list, runs the mutation and prints the resulting list.
func runOnFetched(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), s.cfg.Backend.RequestTimeout)
	defer cancel()

	if err := s.controller.FetchNotes(ctx); err != nil {
		return err
	}
	if err := fn(ctx, s); err != nil {
		return err
	}
	cmd.Print(s.controller.State().Notes.String())

	return nil
}

func init() {
	rootCmd.AddCommand(GetListCmd())
	rootCmd.AddCommand(GetCreateCmd())
	rootCmd.AddCommand(GetDeleteCmd())
	rootCmd.AddCommand(GetToggleCmd())
}
