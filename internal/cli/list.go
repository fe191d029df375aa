package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	derrors "github.com/binford2k/denmark/pkg/errors"
	"github.com/binford2k/denmark/pkg/report"
)

func (c *CLI) listCommand() *cobra.Command {
	var (
		enable, disable []string
		format          string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"plugins"},
		Short:   "List the smell test plugins that would run",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			reg := runner.Registry(enable, disable)

			out := cmd.OutOrStdout()
			switch format {
			case report.FormatHuman:
				_, err = out.Write([]byte(reg.Catalogue()))
				return err
			case report.FormatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(reg.List())
			default:
				return derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q (want human or json)", format)
			}
		},
	}

	cmd.Flags().StringSliceVar(&enable, "enable", nil, "only list these plugins")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "omit these plugins")
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatHuman, "output format (human, json)")

	return cmd
}
