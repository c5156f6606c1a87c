// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/spirvcross/spirv"
)

func newDisasmCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file.spv>",
		Short: "Print a SPIR-V binary as assembly text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, span := tracer.Start(cmd.Context(), "spvcross.disasm")
			defer span.End()

			m, err := loadModule(args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), spirv.Disassemble(m))
			return err
		},
	}
}
