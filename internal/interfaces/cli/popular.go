package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolViz/internal/app"
	redisinfra "github.com/turtacn/MolViz/internal/infrastructure/database/redis"
)

// popularOutput renders the leaderboard and the recent list.
type popularOutput struct {
	Top    []redisinfra.PopularMolecule `json:"top"`
	Recent []string                     `json:"recent,omitempty"`
}

func (p popularOutput) TableHeaders() []string { return []string{"Rank", "Count", "SMILES"} }

func (p popularOutput) TableRows() [][]string {
	rows := make([][]string, len(p.Top))
	for i, m := range p.Top {
		rows[i] = []string{strconv.Itoa(i + 1), strconv.FormatInt(m.Count, 10), m.SMILES}
	}
	return rows
}

func (p popularOutput) String() string {
	if len(p.Top) == 0 {
		return "no molecules recorded yet\n"
	}
	var sb strings.Builder
	sb.WriteString(FormatTable(p.TableHeaders(), p.TableRows()))
	if len(p.Recent) > 0 {
		fmt.Fprintf(&sb, "\nRecent: %s\n", strings.Join(p.Recent, " "))
	}
	return sb.String()
}

// NewPopularCmd prints the statistics collected by the event worker.
func NewPopularCmd() *cobra.Command {
	var (
		limit  int
		recent bool
	)
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most visualized molecules recorded by the event worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			client, err := redisinfra.NewClient(app.RedisConfig(cliCtx.Config.Redis), cliCtx.Logger.Named("redis"))
			if err != nil {
				return err
			}
			defer client.Close()
			stats := redisinfra.NewStatsStore(client, cliCtx.Logger)

			var out popularOutput
			if out.Top, err = stats.Top(ctx, limit); err != nil {
				return err
			}
			if recent {
				if out.Recent, err = stats.Recent(ctx, limit); err != nil {
					return err
				}
			}
			return PrintResult(cmd, out)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of molecules to list")
	cmd.Flags().BoolVar(&recent, "recent", false, "also list the most recently visualized SMILES")
	return cmd
}

//Personal.AI order the ending
