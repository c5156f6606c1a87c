// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/spirvcross/glsl"
	"github.com/gogpu/spirvcross/ir"
	"github.com/gogpu/spirvcross/reflection"
)

// report is the document the reflect command prints.
type report struct {
	EntryPoints    []entryPoint               `json:"entry_points" yaml:"entry_points" msgpack:"entry_points"`
	Resources      reflection.ShaderResources `json:"resources" yaml:"resources" msgpack:"resources"`
	CombinedImages []combinedImage            `json:"combined_image_samplers,omitempty" yaml:"combined_image_samplers,omitempty" msgpack:"combined_image_samplers,omitempty"`
}

type entryPoint struct {
	Name          string    `json:"name" yaml:"name" msgpack:"name"`
	Stage         string    `json:"stage" yaml:"stage" msgpack:"stage"`
	WorkGroupSize [3]uint32 `json:"workgroup_size,omitempty" yaml:"workgroup_size,omitempty" msgpack:"workgroup_size,omitempty"`
}

type combinedImage struct {
	Combined ir.ID `json:"combined" yaml:"combined" msgpack:"combined"`
	Image    ir.ID `json:"image" yaml:"image" msgpack:"image"`
	Sampler  ir.ID `json:"sampler" yaml:"sampler" msgpack:"sampler"`
}

func newReflectCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "reflect [--format json|yaml|msgpack] <file.spv>",
		Short: "Print the entry points and resources of a SPIR-V binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reflect(cmd, args[0], format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|yaml|msgpack)")
	return cmd
}

func (a *app) reflect(cmd *cobra.Command, path, format string) error {
	_, span := tracer.Start(cmd.Context(), "spvcross.reflect")
	defer span.End()

	m, err := loadModule(path)
	if err != nil {
		return err
	}
	ast, err := glsl.Parse(m)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r, err := buildReport(ast)
	if err != nil {
		return err
	}
	return encodeReport(cmd.OutOrStdout(), r, format)
}

// buildReport collects the reflection data of ast. Separate images and
// samplers used together are reported with their combined variable.
func buildReport(ast *glsl.Ast) (*report, error) {
	r := &report{}
	for _, ep := range ast.EntryPoints() {
		r.EntryPoints = append(r.EntryPoints, entryPoint{
			Name:          ep.Name,
			Stage:         ep.Model.String(),
			WorkGroupSize: ep.WorkGroupSize,
		})
	}
	combined, err := ast.GetCombinedImageSamplers()
	if err != nil {
		return nil, err
	}
	for _, c := range combined {
		r.CombinedImages = append(r.CombinedImages, combinedImage{Combined: c.CombinedID, Image: c.ImageID, Sampler: c.SamplerID})
	}
	if r.Resources, err = ast.GetShaderResources(); err != nil {
		return nil, err
	}
	return r, nil
}

func encodeReport(w io.Writer, r *report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(r)
	}
	return fmt.Errorf("unknown format %q, want json, yaml or msgpack", format)
}
