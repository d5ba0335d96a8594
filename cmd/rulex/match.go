package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava12/rulex/langdef"
	"github.com/ava12/rulex/matcher"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		o    overrides
		list bool
	)

	cmd := &cobra.Command{
		Use:   "match [flags] <file>",
		Short: "Count candidate strings matching the start rule",
		Long: `Reads grammar description followed by an empty line and candidate strings, one per line,
and prints the number of candidates fully derivable from the start rule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}

			src, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			rules, candidates, err := langdef.ParseInput(args[0], string(src))
			if err != nil {
				return a.grammarError(err)
			}
			a.logger.Debug("grammar parsed", zap.Int("rules", len(rules)), zap.Int("candidates", len(candidates)))

			rules, err = a.prepare(rules, a.cfg.Simplify)
			if err != nil {
				return err
			}

			opts := append(a.cfg.MatcherOptions(), matcher.WithLogger(a.logger))
			results, err := matcher.New(rules, opts...).MatchAll(cmd.Context(), a.cfg.Start, candidates)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				for _, r := range results {
					if r.Matched() {
						fmt.Fprintln(out, r.Candidate)
					}
				}
			}
			fmt.Fprintln(out, matcher.Count(results))
			return nil
		},
	}

	bindOverrides(cmd.Flags(), &o, patchFlags|simplifyFlags|matcherFlags)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "Print matching candidates before the count")
	return cmd
}
