// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command spvcross decompiles SPIR-V shaders to GLSL.
//
// Usage:
//
//	spvcross compile [flags] <file.spv>...
//	spvcross reflect [--format json|yaml|msgpack] <file.spv>
//	spvcross disasm <file.spv>
//	spvcross versions
//
// Examples:
//
//	spvcross compile shader.spv                         # GLSL 450 to stdout
//	spvcross compile -V 330 -V "300 es" -o out a.spv    # one file per version
//	spvcross compile --config gles.toml shader.spv      # options from a profile
//	spvcross reflect --format yaml shader.spv
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"goa.design/clue/log"

	"github.com/gogpu/spirvcross/internal/config"
)

const spvcrossVersion = "0.1.0-dev"

var tracer = otel.Tracer("github.com/gogpu/spirvcross/cmd/spvcross")

// app holds the persistent flags shared by every command.
type app struct {
	debug      bool
	configPath string
	colorMode  string

	profile *config.Profile
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "spvcross",
		Short:             "SPIR-V to GLSL decompiler",
		Long:              `spvcross translates SPIR-V shader binaries into GLSL source and reports their resources.`,
		Version:           spvcrossVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "enable debug logs")
	pf.StringVar(&a.configPath, "config", "", "compile profile (.toml, .yaml or .yml)")
	pf.StringVar(&a.colorMode, "color", "auto", "colorize errors (auto|on|off)")

	root.AddCommand(newCompileCmd(a))
	root.AddCommand(newReflectCmd(a))
	root.AddCommand(newDisasmCmd(a))
	root.AddCommand(newVersionsCmd())
	return root
}

// setup builds the logging context and loads the profile.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = log.Context(ctx, log.WithFormat(format), log.WithOutput(cmd.ErrOrStderr()))
	if a.debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	cmd.SetContext(ctx)

	if err := configureColor(a.colorMode, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if a.configPath != "" {
		p, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.profile = p
		log.Debug(ctx, log.KV{K: "config", V: a.configPath})
	}
	return nil
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}
