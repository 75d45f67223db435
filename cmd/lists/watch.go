package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/amonks/lists/internal/events"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes to your lists as they happen",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var watchJSON bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Output events as JSON lines")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	client, err := newClient(true)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	feed, errs := client.Events(ctx)
	for event := range feed {
		if err := printEvent(cmd.OutOrStdout(), event); err != nil {
			return err
		}
	}
	if err := <-errs; err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printEvent(w io.Writer, event events.Event) error {
	if watchJSON {
		return encodeJSONLine(w, event)
	}
	_, err := fmt.Fprintln(w, formatEvent(event))
	return err
}

func formatEvent(event events.Event) string {
	line := event.Timestamp.Local().Format("15:04:05") + " " + event.Name
	if event.ListID != "" {
		line += " list=" + event.ListID
	}
	if event.ItemID != "" {
		line += " item=" + event.ItemID
	}
	if event.UserID != "" {
		line += " by=" + event.UserID
	}
	return line
}
