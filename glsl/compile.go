// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"context"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/spirvcross/spirv"
)

var tracer = otel.Tracer("github.com/gogpu/spirvcross/glsl")

// Result is the outcome of compiling a module for one version.
type Result struct {
	Version Version
	Source  string
	// Err is set when the version cannot express the module.
	Err error
}

// Prepare adjusts a freshly parsed Ast before each version is compiled,
// for example to flatten buffers or rename interface variables.
type Prepare func(*Ast) error

// CompileVersions compiles m once per version, concurrently. Every version
// gets its own Ast, so the module is only read. Per-version failures are
// reported in the results, in the order of versions; the returned error is
// set only when ctx is canceled or prepare fails.
func CompileVersions(ctx context.Context, m *spirv.Module, base CompilerOptions, prepare Prepare, versions ...Version) ([]Result, error) {
	results := make([]Result, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, v := range versions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := compileVersion(gctx, m, base, prepare, v)
			if err != nil && isPrepareError(err) {
				return err
			}
			results[i] = Result{Version: v, Source: src, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// prepareError marks a failure of the caller's prepare function, which
// aborts the whole batch.
type prepareError struct{ err error }

func (e prepareError) Error() string { return e.err.Error() }
func (e prepareError) Unwrap() error { return e.err }

func isPrepareError(err error) bool {
	_, ok := err.(prepareError) //nolint:errorlint // produced by compileVersion unwrapped
	return ok
}

func compileVersion(ctx context.Context, m *spirv.Module, base CompilerOptions, prepare Prepare, v Version) (string, error) {
	_, span := tracer.Start(ctx, "glsl.compile",
		trace.WithAttributes(attribute.String("glsl.version", v.String())))
	defer span.End()

	fail := func(err error, msg string) (string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		log.Debug(ctx, log.KV{K: "glsl.version", V: v.String()}, log.KV{K: "err", V: err.Error()})
		return "", err
	}

	ast, err := Parse(m)
	if err != nil {
		return fail(err, "parse failed")
	}
	if prepare != nil {
		if err := prepare(ast); err != nil {
			return fail(prepareError{err}, "prepare failed")
		}
	}
	opts := base
	opts.Version = v
	if err := ast.SetCompilerOptions(opts); err != nil {
		return fail(err, "options rejected")
	}
	src, err := ast.Compile()
	if err != nil {
		return fail(err, "compile failed")
	}
	log.Debug(ctx, log.KV{K: "glsl.version", V: v.String()}, log.KV{K: "bytes", V: len(src)})
	return src, nil
}
