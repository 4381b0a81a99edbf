package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// GetWatchCmd returns live notes list command.
func GetWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the notes list on every local or remote change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.controller.Start(cmd.Context()); err != nil {
				return err
			}
			defer s.controller.Stop()

			stateCh, cancel := s.controller.Watch()
			defer cancel()

			// Wait for signal
			signalCh := make(chan os.Signal, 1)
			signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(signalCh)

			for {
				select {
				case st := <-stateCh:
					if st.Loading {
						continue
					}
					if st.Error {
						cmd.PrintErrln("failed to fetch notes")
					}
					cmd.Println("---")
					cmd.Print(st.Notes.String())
				case <-s.controller.Done():
					return s.controller.Err()
				case <-signalCh:
					return nil
				}
			}
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(GetWatchCmd())
}
