package codegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/iley/cgpipe/internal/codegen/aarch64_darwin"
	"github.com/iley/cgpipe/internal/codegen/aarch64_linux"
	"github.com/iley/cgpipe/internal/codegen/common"
	"github.com/iley/cgpipe/internal/codegen/x86_64_linux"
	"github.com/iley/cgpipe/internal/pass"
	"github.com/iley/cgpipe/internal/passconfig"
)

type Target int

const (
	TargetAARCH64Darwin Target = iota
	TargetAARCH64Linux
	TargetX86_64Linux
)

func TargetFromName(name string) (Target, error) {
	switch name {
	case aarch64_darwin.Name:
		return TargetAARCH64Darwin, nil
	case aarch64_linux.Name:
		return TargetAARCH64Linux, nil
	case x86_64_linux.Name:
		return TargetX86_64Linux, nil
	}
	return 0, fmt.Errorf("unknown target: %s", name)
}

// Describe returns the pipeline description of target.
func Describe(target Target) (passconfig.Target, error) {
	switch target {
	case TargetAARCH64Darwin:
		return aarch64_darwin.New(), nil
	case TargetAARCH64Linux:
		return aarch64_linux.New(), nil
	case TargetX86_64Linux:
		return x86_64_linux.New(), nil
	}
	return nil, fmt.Errorf("unknown target: %v", target)
}

type Format int

const (
	FormatStructure Format = iota
	FormatArguments
)

type Request struct {
	Target  Target
	Level   passconfig.OptLevel
	Options passconfig.Options
	// Units are the names of the translation units to build pipelines for.
	Units []string
	// Run executes each pipeline over its unit after building it.
	Run    bool
	Format Format
	// Jobs limits the number of pipelines built at once. Zero means no limit.
	Jobs int
}

type result struct {
	pipeline    *pass.List
	unit        *common.Unit
	diagnostics bytes.Buffer
}

// Generate builds an independent pipeline for every unit in req, in parallel, and writes them
// to out in the order the units were given. Printer output of each unit is collected separately
// and written to req.Options.Output (stderr by default) in the same order.
func Generate(ctx context.Context, out io.Writer, session *passconfig.Session, req Request) error {
	desc, err := Describe(req.Target)
	if err != nil {
		return err
	}

	diagOut := req.Options.Output
	if diagOut == nil {
		diagOut = os.Stderr
	}

	results := make([]*result, len(req.Units))
	g, ctx := errgroup.WithContext(ctx)
	if req.Jobs > 0 {
		g.SetLimit(req.Jobs)
	}
	for i, name := range req.Units {
		name := name
		res := &result{}
		results[i] = res
		g.Go(func() error {
			opts := req.Options
			opts.Output = &res.diagnostics

			cfg, err := passconfig.New(session, desc, req.Level, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			res.pipeline, err = cfg.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if req.Run {
				res.unit = common.NewUnit(name)
				if err := res.pipeline.Run(ctx, res.unit); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, res := range results {
		switch req.Format {
		case FormatArguments:
			common.FormatArguments(out, res.pipeline)
		default:
			common.FormatStructure(out, session.Registry, req.Units[i], res.pipeline)
		}
		if res.unit != nil {
			common.FormatTrace(out, res.unit)
		}
		if _, err := diagOut.Write(res.diagnostics.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
