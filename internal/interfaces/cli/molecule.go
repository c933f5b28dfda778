package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

// describeOutput renders a DescribeResult for the three output formats.
type describeOutput struct {
	*mtypes.DescribeResult
}

func (d describeOutput) TableHeaders() []string { return []string{"Property", "Value"} }

func (d describeOutput) TableRows() [][]string {
	rows := make([][]string, 0, len(d.Properties)+5)
	for _, p := range d.Properties {
		rows = append(rows, []string{p.Name, p.Display()})
	}
	for _, l := range d.Lipinski.Rows() {
		rows = append(rows, []string{l.Rule, l.Value})
	}
	return rows
}

func (d describeOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SMILES:  %s\nFormula: %s\n\n", d.SMILES, d.Formula)
	sb.WriteString(FormatTable([]string{"Property", "Value"}, d.TableRows()[:len(d.Properties)]))
	sb.WriteString("\n")
	lip := make([][]string, 0, 5)
	for _, l := range d.Lipinski.Rows() {
		lip = append(lip, []string{l.Rule, l.Value})
	}
	sb.WriteString(FormatTable([]string{"Rule", "Value"}, lip))
	return sb.String()
}

// NewDescribeCmd prints the descriptor table and Lipinski assessment.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <smiles>",
		Short: "Compute molecular descriptors and the Lipinski rule of five",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			res, err := cliCtx.Service().Describe(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, describeOutput{res})
		},
	}
}

// NewXYZCmd generates 3D coordinates and prints or saves them.
func NewXYZCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "xyz <smiles>",
		Short: "Generate 3D coordinates in XYZ format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			xyz, err := cliCtx.Service().XYZ(ctx, args[0])
			if err != nil {
				return err
			}
			if file == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), xyz)
				return err
			}
			if err := os.WriteFile(file, []byte(xyz), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", file, err)
			}
			cliCtx.Logger.Debug("coordinates written", logging.String("file", file))
			PrintSuccess(cmd, "wrote "+file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "write coordinates to this file (e.g. molecule.xyz) instead of stdout")
	return cmd
}

// lookupOutput renders a LookupResult.
type lookupOutput struct {
	*mtypes.LookupResult
}

func (l lookupOutput) TableHeaders() []string { return []string{"Source", "Field", "Value"} }

func (l lookupOutput) TableRows() [][]string {
	var rows [][]string
	if l.Toxicity.Failed() {
		rows = append(rows, []string{"toxicity", "error", l.Toxicity.Error})
	} else {
		rows = append(rows,
			[]string{"toxicity", "LD50", l.Toxicity.LD50},
			[]string{"toxicity", "Toxicity Class", l.Toxicity.ToxicityClass},
			[]string{"toxicity", "Prediction", l.Toxicity.Prediction},
		)
	}
	rows = append(rows, []string{"pubchem", "message", l.PubChem.Message})
	if len(l.PubChem.CIDs) > 0 {
		cids := make([]string, len(l.PubChem.CIDs))
		for i, id := range l.PubChem.CIDs {
			cids[i] = fmt.Sprint(id)
		}
		rows = append(rows, []string{"pubchem", "CIDs", strings.Join(cids, ",")})
	}
	return rows
}

func (l lookupOutput) String() string {
	return fmt.Sprintf("SMILES:  %s\n\n", l.SMILES) + FormatTable(l.TableHeaders(), l.TableRows())
}

// NewLookupCmd queries the toxicity service and PubChem.
func NewLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <smiles>",
		Short: "Query the toxicity prediction service and PubChem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()

			res, err := cliCtx.Service().Lookup(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, lookupOutput{res})
		},
	}
}

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("molviz %s (commit: %s, built: %s)\n", b.Version, b.Commit, b.BuildDate)
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, BuildInfo{Version: app.Version, Commit: app.GitCommit, BuildDate: app.BuildDate})
		},
	}
}

//Personal.AI order the ending
