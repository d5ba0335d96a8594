package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava12/rulex/grammar"
	"github.com/ava12/rulex/langdef"
)

type genOptions struct {
	outputName, packageName, varName string
}

func newGenCmd(a *app) *cobra.Command {
	var (
		o overrides
		g genOptions
	)

	cmd := &cobra.Command{
		Use:   "gen [flags] <file>",
		Short: "Convert grammar to Go source file",
		Long: `Reads grammar description (anything after the first empty line is ignored), applies patches,
optionally simplifies the result (config simplify key or --simplify flag),
and writes Go source file declaring a variable of type grammar.Set.
Output file name defaults to the name of input file with .go suffix, "-" input is written to standard output.
Package name defaults to the name of output file directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.apply(cmd.Flags(), a.cfg); err != nil {
				return err
			}

			inputName := args[0]
			if g.outputName == "" && inputName != "-" {
				ext := filepath.Ext(inputName)
				g.outputName = inputName[:len(inputName)-len(ext)] + ".go"
			}

			src, err := readInput(cmd, inputName)
			if err != nil {
				return err
			}

			rules, err := langdef.ParseBytes(inputName, src)
			if err != nil {
				return a.grammarError(err)
			}

			rules, err = a.prepare(rules, a.cfg.Simplify)
			if err != nil {
				return err
			}

			content, err := makeGo(rules, &g)
			if err != nil {
				return err
			}

			if g.outputName == "" {
				_, err = cmd.OutOrStdout().Write(content)
				return err
			}

			a.logger.Debug("writing Go source", zap.String("file", g.outputName), zap.String("package", g.packageName))
			return os.WriteFile(g.outputName, content, 0o666)
		},
	}

	bindOverrides(cmd.Flags(), &o, patchFlags|simplifyFlags)
	cmd.Flags().StringVarP(&g.outputName, "output", "o", "", "Output file name")
	cmd.Flags().StringVarP(&g.packageName, "package", "p", "", "Go package name, default is dir name of output file")
	cmd.Flags().StringVarP(&g.varName, "var", "v", "Rules", "Go variable name")
	return cmd
}

var goName = regexp.MustCompile("^[A-Za-z_][A-Za-z_0-9]*$")

func makeGo(rules grammar.Set, o *genOptions) ([]byte, error) {
	if o.packageName == "" {
		outputName := o.outputName
		if outputName == "" {
			outputName = "stdout.go"
		}
		path, e := filepath.Abs(outputName)
		if e != nil {
			return nil, e
		}

		o.packageName = filepath.Base(filepath.Dir(path))
	}

	if !goName.MatchString(o.packageName) {
		return nil, fmt.Errorf("invalid package name: %s", o.packageName)
	}
	if !goName.MatchString(o.varName) {
		return nil, fmt.Errorf("invalid variable name: %s", o.varName)
	}

	var buffer bytes.Buffer

	buffer.WriteString("// Code generated with rulex gen. DO NOT EDIT.\n\n" +
		"package " + o.packageName + "\n\n" +
		"import \"github.com/ava12/rulex/grammar\"\n\n" +
		"var " + o.varName + " = grammar.Set{\n")

	for _, id := range rules.IDs() {
		buffer.WriteString(fmt.Sprintf("\t%d: %s, // %s\n", id, goExpr(rules[id]), rules[id]))
	}

	buffer.WriteString("}\n")
	return buffer.Bytes(), nil
}

func goExpr(r grammar.Rule) string {
	switch r := r.(type) {
	case grammar.Literal:
		return fmt.Sprintf("grammar.Lit(%q)", r.Text)

	case grammar.Reference:
		return fmt.Sprintf("grammar.Ref(%d)", r.ID)

	case grammar.Sequence:
		ids := make([]string, 0, len(r.Items))
		for _, item := range r.Items {
			ref, isRef := item.(grammar.Reference)
			if !isRef {
				return "grammar.Seq(" + goExprs(r.Items) + ")"
			}
			ids = append(ids, fmt.Sprint(ref.ID))
		}
		return "grammar.SeqOf(" + strings.Join(ids, ", ") + ")"

	case grammar.Alternative:
		return "grammar.Alt(" + goExprs(r.Branches) + ")"

	default:
		return "nil"
	}
}

func goExprs(rules []grammar.Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = goExpr(r)
	}
	return strings.Join(parts, ", ")
}
