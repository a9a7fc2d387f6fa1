package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dronedoctor/dronedoctor/internal/adapters/outbound/tui"
	"github.com/dronedoctor/dronedoctor/internal/domain/symptoms"
)

func newSymptomsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "symptoms [description...]",
		Short: "List known symptoms or match a free-text complaint",
		Long:  "With no arguments, list the symptom vocabulary accepted by `diagnose --symptom`. With a description, fuzzy-match it against the catalog: `dronedoctor symptoms motors won't spin`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if jsonOutput {
					return renderJSON(cmd, symptoms.Catalog)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderSymptomList())
				return nil
			}

			text := strings.Join(args, " ")
			matches := symptoms.MatchSymptom(text)
			if jsonOutput {
				return renderJSON(cmd, matches)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderSymptomMatches(text, matches))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
