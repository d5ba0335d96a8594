package main

import (
	"github.com/spf13/pflag"

	"github.com/ava12/rulex/internal/config"
)

// overrides holds command line values taking precedence over configuration file.
type overrides struct {
	start    int
	patches  []string
	simplify bool
	maxDepth int
	workers  int
}

// Flag groups accepted by bindOverrides.
const (
	patchFlags = 1 << iota
	simplifyFlags
	matcherFlags
)

func bindOverrides(fs *pflag.FlagSet, o *overrides, groups int) {
	if groups&patchFlags != 0 {
		fs.StringArrayVarP(&o.patches, "patch", "P", nil, `Rule definition replacing grammar rule, e.g. "8: 42 | 42 8" (repeatable)`)
	}
	if groups&simplifyFlags != 0 {
		fs.BoolVar(&o.simplify, "simplify", false, "Simplify grammar first (default from config simplify key)")
	}
	if groups&matcherFlags == 0 {
		return
	}

	fs.IntVarP(&o.start, "start", "s", 0, "Start rule id (default from config start key or 0)")
	fs.IntVar(&o.maxDepth, "max-depth", 0, "Rule nesting limit (default from config max_depth key or no limit), 0 means no limit")
	fs.IntVarP(&o.workers, "workers", "w", 0, "Number of candidates matched concurrently (default GOMAXPROCS)")
}

// apply copies explicitly set flag values to cfg and validates the result.
func (o *overrides) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("patch") {
		cfg.Patches = append(cfg.Patches, o.patches...)
	}
	if fs.Changed("start") {
		cfg.Start = o.start
	}
	if fs.Changed("simplify") {
		cfg.Simplify = o.simplify
	}
	if fs.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	return cfg.Validate()
}
