package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolViz/pkg/errors"
)

// NewEventsCmd tails the visualized-event topic.
func NewEventsCmd() *cobra.Command {
	var (
		fromStart bool
		groupID   string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print molecule.visualized events from Kafka until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			kc := cliCtx.Config.Kafka
			if len(kc.Brokers) == 0 || kc.Topic == "" {
				return errors.New(errors.CodeInvalidParam, "kafka.brokers and kafka.topic must be configured")
			}
			if groupID != "" {
				kc.GroupID = groupID
			}
			offset := "latest"
			if fromStart {
				offset = "earliest"
			}

			consumer, err := app.NewEventsConsumer(kc, offset, cliCtx.Logger.Named("events"))
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return consumer.Run(ctx, eventPrinter(cmd.OutOrStdout(), cliCtx.OutputFormat))
		},
	}
	cmd.Flags().BoolVar(&fromStart, "from-beginning", false, "start from the earliest retained event")
	cmd.Flags().StringVar(&groupID, "group", "", "consumer group (overrides kafka.group_id)")
	return cmd
}

// eventPrinter writes one line per event: a JSON object with -o json, a
// short summary otherwise.
func eventPrinter(w io.Writer, format string) kafka.VisualizedHandler {
	asJSON := strings.EqualFold(format, "json")
	return func(_ context.Context, ev *session.VisualizedEvent) error {
		if asJSON {
			line, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%s\n", line)
			return err
		}
		_, err := fmt.Fprintf(w, "%s  session=%s  %s  %s  atoms=%d heavy=%d\n",
			ev.Timestamp.Format(time.RFC3339), ev.SessionID, ev.SMILES, ev.Formula, ev.AtomCount, ev.HeavyAtoms)
		return err
	}
}

//Personal.AI order the ending
