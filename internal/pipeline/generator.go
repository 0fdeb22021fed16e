// Package pipeline runs a generation: load datasets, compile prefix and
// support tables, assign flags, emit artifacts.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"compatgen/internal/artifact"
	"compatgen/internal/browser"
	"compatgen/internal/datasource"
	"compatgen/internal/emit"
	"compatgen/internal/flags"
	"compatgen/internal/logging"
	"compatgen/internal/prefix"
	"compatgen/internal/support"
	"compatgen/internal/version"
)

const (
	PhaseLoad     = "load"
	PhasePrefixes = "prefixes"
	PhaseSupport  = "support"
	PhaseFlags    = "flags"
	PhaseEmit     = "emit"
)

// Generator holds the inputs of one run. Nil curated tables fall back to
// their defaults.
type Generator struct {
	Paths       datasource.Paths
	Package     string
	Store       artifact.Store
	Formatter   emit.Formatter
	Corrections *prefix.Corrections
	Tables      *support.Tables
	Decls       []flags.Decl
	// CodecSize bounds the version parse cache; 0 uses the codec default.
	CodecSize int
	Logger    *logging.Logger
}

// Report summarizes a finished run.
type Report struct {
	Browsers     browser.Set
	Constructs   int
	PrefixGroups int
	Features     int
	CompatGroups int
	Flags        int
	Written      []string
}

// Run executes every phase in order and stops at the first error.
// Artifacts stored before a failure are not removed.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	logger := g.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if g.Store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}

	var ds *datasource.Datasets
	if err := g.phase(ctx, logger, PhaseLoad, func() (err error) {
		ds, err = datasource.LoadAll(g.Paths)
		return err
	}); err != nil {
		return nil, err
	}
	in, err := g.Compile(ctx, ds)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Browsers:     in.Browsers,
		Constructs:   len(in.Prefixes.Names()),
		PrefixGroups: len(in.Prefixes.Groups),
		Features:     len(in.Compat.Names()),
		CompatGroups: len(in.Compat.Groups),
		Flags:        len(in.Flags.Flags),
	}
	err = g.phase(ctx, logger, PhaseEmit, func() error {
		e := &emit.Emitter{Store: g.Store, Formatter: g.Formatter, Logger: logger.WithPhase(PhaseEmit)}
		written, err := e.Emit(ctx, in)
		rep.Written = written
		return err
	})
	return rep, err
}

// Compile turns loaded datasets into emitter input.
func (g *Generator) Compile(ctx context.Context, ds *datasource.Datasets) (emit.Input, error) {
	logger := g.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	in := emit.Input{
		Package:  g.Package,
		Browsers: browser.CanonicalSet(ds.Caniuse.AgentIDs()),
	}
	codec, err := version.NewCodec(g.CodecSize, logger)
	if err != nil {
		return in, err
	}

	err = g.phase(ctx, logger, PhasePrefixes, func() error {
		table := ds.Prefixes.Clone()
		if table.Index(prefix.AnyPseudoConstruct) < 0 {
			is, err := ds.BCD.LookupSupport("css.selectors.is")
			if err != nil {
				return err
			}
			table = append(table, prefix.AnyPseudoEntry(is, browser.MDN, logger))
		}
		corrections := prefix.DefaultCorrections()
		if g.Corrections != nil {
			corrections = *g.Corrections
		}
		c := &prefix.Compiler{
			Codec:       codec,
			Normalizer:  browser.Prefixes,
			Browsers:    in.Browsers,
			Agents:      ds.Caniuse.Agents,
			Latest:      ds.Caniuse.LatestVersions(),
			Corrections: corrections,
			Logger:      logger.WithSource("prefixes"),
		}
		in.Prefixes, err = c.Compile(table)
		return err
	})
	if err != nil {
		return in, err
	}

	err = g.phase(ctx, logger, PhaseSupport, func() error {
		tables := support.DefaultTables()
		if g.Tables != nil {
			tables = *g.Tables
		}
		c := &support.Compiler{
			Codec:    codec,
			Caniuse:  browser.Caniuse,
			MDN:      browser.MDN,
			Browsers: in.Browsers,
			Tables:   tables,
			Logger:   logger.WithSource("support"),
		}
		in.Compat, err = c.Compile(ds.Caniuse, ds.BCD)
		return err
	})
	if err != nil {
		return in, err
	}

	err = g.phase(ctx, logger, PhaseFlags, func() error {
		decls := g.Decls
		if decls == nil {
			decls = flags.DefaultDecls()
		}
		in.Flags, err = flags.Assign(decls)
		return err
	})
	return in, err
}

func (g *Generator) phase(ctx context.Context, logger *logging.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()
	err := fn()
	logger.PhaseDone(name, started, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
