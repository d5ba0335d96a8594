package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/rulex/langdef"
)

func newSimplifyCmd(a *app) *cobra.Command {
	var (
		o          overrides
		outputName string
	)

	cmd := &cobra.Command{
		Use:   "simplify [flags] <file>",
		Short: "Print simplified grammar",
		Long: `Reads grammar description (anything after the first empty line is ignored), applies patches,
and prints equivalent simplified grammar in the same form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}

			src, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			rules, err := langdef.ParseBytes(args[0], src)
			if err != nil {
				return a.grammarError(err)
			}

			rules, err = a.prepare(rules, true)
			if err != nil {
				return err
			}

			if outputName == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), rules.String())
				return err
			}
			return os.WriteFile(outputName, []byte(rules.String()), 0o666)
		},
	}

	bindOverrides(cmd.Flags(), &o, patchFlags)
	cmd.Flags().StringVarP(&outputName, "output", "o", "", "Output file name, default is standard output")
	return cmd
}
