// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"goa.design/clue/log"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/spirvcross/diag"
	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/internal/config"
	"github.com/gogpu/spirvcross/spirv"
)

type compileFlags struct {
	versions []string
	output   string
	entry    string
	stage    string

	plainUniforms  bool
	pack420        bool
	zeroInit       bool
	invertY        bool
	clipSpace      bool
	floatPrecision string

	header  []string
	flatten []string
}

func newCompileCmd(a *app) *cobra.Command {
	f := &compileFlags{}
	cmd := &cobra.Command{
		Use:   "compile [flags] <file.spv>...",
		Short: "Decompile SPIR-V binaries to GLSL",
		Long: `Decompile every input once per requested GLSL version. With a single
output the result goes to stdout or to the -o file. With several outputs -o
names a directory that receives <name>.<version>.glsl files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.compile(cmd, f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.versions, "glsl-version", "V", nil, `target GLSL version such as 330 or "300 es", repeatable`)
	fl.StringVarP(&f.output, "output", "o", "", "output file, or directory for several outputs")
	fl.StringVar(&f.entry, "entry", "", "entry point name")
	fl.StringVar(&f.stage, "stage", "", "entry point stage (vertex|fragment|compute)")
	fl.BoolVar(&f.plainUniforms, "plain-uniforms", false, "emit uniform buffers as plain struct uniforms")
	fl.BoolVar(&f.pack420, "420pack", false, "use GL_ARB_shading_language_420pack for bindings below 4.20")
	fl.BoolVar(&f.zeroInit, "zero-init", false, "zero-initialize variables without an initializer")
	fl.BoolVar(&f.invertY, "invert-y", false, "negate gl_Position.y in vertex shaders")
	fl.BoolVar(&f.clipSpace, "fixup-clipspace", false, "remap vertex depth from [0, 1] to [-1, 1]")
	fl.StringVar(&f.floatPrecision, "float-precision", "", "default float precision of ES fragment shaders")
	fl.StringArrayVar(&f.header, "header", nil, "line to add after #version, repeatable")
	fl.StringArrayVar(&f.flatten, "flatten", nil, "uniform buffer to emit as a vec4 array, repeatable")
	return cmd
}

// options merges the profile with the flags the user set.
func (a *app) options(cmd *cobra.Command, f *compileFlags) (glsl.CompilerOptions, []glsl.Version, error) {
	profile := a.profile
	if profile == nil {
		profile = &config.Profile{}
	}
	opts, err := profile.Options()
	if err != nil {
		return opts, nil, err
	}
	versions, err := profile.TargetVersions()
	if err != nil {
		return opts, nil, err
	}
	if len(f.versions) > 0 {
		versions = versions[:0]
		for _, text := range f.versions {
			v, err := glsl.ParseVersion(text)
			if err != nil {
				return opts, nil, err
			}
			versions = append(versions, v)
		}
	}
	opts.Version = versions[0]

	changed := cmd.Flags().Changed
	if changed("plain-uniforms") {
		opts.EmitUniformBufferAsPlainUniforms = f.plainUniforms
	}
	if changed("420pack") {
		opts.Enable420PackExtension = f.pack420
	}
	if changed("zero-init") {
		opts.ForceZeroInitializedVariables = f.zeroInit
	}
	if changed("invert-y") {
		opts.Vertex.InvertY = f.invertY
	}
	if changed("fixup-clipspace") {
		opts.Vertex.TransformClipSpace = f.clipSpace
	}
	if changed("float-precision") {
		if err := opts.Fragment.DefaultFloatPrecision.UnmarshalText([]byte(f.floatPrecision)); err != nil {
			return opts, nil, err
		}
	}
	return opts, versions, nil
}

// prepare returns the per-Ast setup of a compile run.
func (a *app) prepare(f *compileFlags) glsl.Prepare {
	extra := &config.Profile{Header: f.header, Flatten: f.flatten}
	return func(ast *glsl.Ast) error {
		if a.profile != nil {
			if err := a.profile.Prepare(ast); err != nil {
				return err
			}
		}
		if err := extra.Prepare(ast); err != nil {
			return err
		}
		return selectEntryPoint(ast, f.entry, f.stage)
	}
}

var stages = map[string]spirv.ExecutionModel{
	"vertex":   spirv.ExecutionModelVertex,
	"vert":     spirv.ExecutionModelVertex,
	"fragment": spirv.ExecutionModelFragment,
	"frag":     spirv.ExecutionModelFragment,
	"compute":  spirv.ExecutionModelGLCompute,
	"comp":     spirv.ExecutionModelGLCompute,
}

// selectEntryPoint picks the first entry point matching the name and
// stage that were given.
func selectEntryPoint(ast *glsl.Ast, name, stage string) error {
	if name == "" && stage == "" {
		return nil
	}
	var model spirv.ExecutionModel
	if stage != "" {
		m, ok := stages[strings.ToLower(stage)]
		if !ok {
			return fmt.Errorf("unknown stage %q", stage)
		}
		model = m
	}
	for _, ep := range ast.EntryPoints() {
		if (name == "" || ep.Name == name) && (stage == "" || ep.Model == model) {
			return ast.SetEntryPoint(ep.Name, ep.Model)
		}
	}
	return diag.Errorf(diag.InvalidResource, "no entry point matches name %q and stage %q", name, stage)
}

type fileResult struct {
	path    string
	results []glsl.Result
}

func (a *app) compile(cmd *cobra.Command, f *compileFlags, paths []string) error {
	ctx, span := tracer.Start(cmd.Context(), "spvcross.compile",
		trace.WithAttributes(attribute.Int("spvcross.files", len(paths))))
	defer span.End()

	opts, versions, err := a.options(cmd, f)
	if err != nil {
		return err
	}
	prepare := a.prepare(f)

	out := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			m, err := loadModule(path)
			if err != nil {
				return err
			}
			log.Debug(gctx, log.KV{K: "file", V: path}, log.KV{K: "words", V: m.Len()})
			results, err := glsl.CompileVersions(gctx, m, opts, prepare, versions...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out[i] = fileResult{path: path, results: results}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return err
	}
	return writeResults(ctx, cmd, f.output, out)
}

func writeResults(ctx context.Context, cmd *cobra.Command, output string, files []fileResult) error {
	total := 0
	for _, fr := range files {
		total += len(fr.results)
	}
	failed := 0
	for _, fr := range files {
		for _, r := range fr.results {
			if r.Err != nil {
				failed++
				printError(cmd.ErrOrStderr(), fmt.Errorf("%s (GLSL %s): %w", fr.path, r.Version, r.Err))
				continue
			}
			if err := writeResult(cmd, output, total, fr.path, r); err != nil {
				return err
			}
		}
	}
	log.Debug(ctx, log.KV{K: "outputs", V: total}, log.KV{K: "failed", V: failed})
	if failed > 0 {
		return fmt.Errorf("%d of %d compilations failed", failed, total)
	}
	return nil
}

func writeResult(cmd *cobra.Command, output string, total int, path string, r glsl.Result) error {
	switch {
	case output == "" && total == 1:
		_, err := io.WriteString(cmd.OutOrStdout(), r.Source)
		return err
	case output == "":
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "// %s (GLSL %s)\n%s", path, r.Version, r.Source)
		return err
	case total == 1:
		return writeFile(cmd, output, r.Source)
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFile(cmd, filepath.Join(output, outputName(path, r.Version)), r.Source)
}

// outputName is <stem>.<version>.glsl with the space of ES versions
// removed, so a.spv at 300 es becomes a.300es.glsl.
func outputName(path string, v glsl.Version) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem + "." + strings.ReplaceAll(v.String(), " ", "") + ".glsl"
}

func writeFile(cmd *cobra.Command, path, source string) error {
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil { //nolint:gosec // generated source is not secret
		return fmt.Errorf("failed to write output: %w", err)
	}
	printNote(cmd.ErrOrStderr(), "wrote %s", path)
	return nil
}
