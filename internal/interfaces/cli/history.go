package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolViz/internal/infrastructure/database/postgres/repositories"
)

// historyOutput renders stored visualizations.
type historyOutput struct {
	Summary *repositories.HistorySummary `json:"summary,omitempty"`
	Entries []repositories.HistoryEntry  `json:"entries"`
}

func (h historyOutput) TableHeaders() []string {
	return []string{"Time", "Session", "Formula", "Atoms", "SMILES"}
}

func (h historyOutput) TableRows() [][]string {
	rows := make([][]string, len(h.Entries))
	for i, e := range h.Entries {
		rows[i] = []string{
			e.OccurredAt.UTC().Format(time.RFC3339),
			e.SessionID,
			e.Formula,
			strconv.Itoa(e.AtomCount),
			e.SMILES,
		}
	}
	return rows
}

func (h historyOutput) String() string {
	var sb strings.Builder
	if h.Summary != nil {
		fmt.Fprintf(&sb, "Events: %d  Molecules: %d  Sessions: %d\n",
			h.Summary.Events, h.Summary.Molecules, h.Summary.Sessions)
	}
	if len(h.Entries) == 0 {
		sb.WriteString("no visualizations stored\n")
		return sb.String()
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(FormatTable(h.TableHeaders(), h.TableRows()))
	return sb.String()
}

// NewHistoryCmd lists the visualization history stored by the event worker.
func NewHistoryCmd() *cobra.Command {
	var (
		limit     int
		sessionID string
		summary   bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List visualizations stored in the PostgreSQL history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			conn, err := app.OpenHistory(ctx, cliCtx.Config.Postgres, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer conn.Close()
			repo := repositories.NewHistoryRepository(conn, cliCtx.Logger)

			var out historyOutput
			if sessionID != "" {
				out.Entries, err = repo.BySession(ctx, sessionID, limit)
			} else {
				out.Entries, err = repo.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}
			if summary {
				if out.Summary, err = repo.Summary(ctx); err != nil {
					return err
				}
			}
			return PrintResult(cmd, out)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of visualizations to list")
	cmd.Flags().StringVar(&sessionID, "session", "", "only list this session")
	cmd.Flags().BoolVar(&summary, "summary", false, "also print table totals")
	return cmd
}

// NewMigrateCmd manages the history schema.
func NewMigrateCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect the history database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			conn, err := postgres.NewConnection(ctx, cliCtx.Config.Postgres, cliCtx.Logger.Named("postgres"))
			if err != nil {
				return err
			}
			defer conn.Close()

			switch args[0] {
			case "up":
				if err := postgres.RunMigrations(conn.DB()); err != nil {
					return err
				}
				PrintSuccess(cmd, "schema is up to date")
			case "down":
				if err := postgres.RollbackMigration(conn.DB(), steps); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d step(s)", steps))
			case "status":
				version, dirty, err := postgres.MigrationStatus(conn.DB())
				if err != nil {
					return err
				}
				return PrintResult(cmd, map[string]interface{}{"version": version, "dirty": dirty})
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back with down")
	return cmd
}

//Personal.AI order the ending
