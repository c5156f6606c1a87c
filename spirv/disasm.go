// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"fmt"
	"strings"
)

// Disassemble renders m as spvasm-like text. Instructions that cannot be
// decoded end the listing with an error comment rather than failing.
func Disassemble(m *Module) string {
	var sb strings.Builder
	h := m.Header()
	fmt.Fprintf(&sb, "; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %d.%d\n", h.Version.Major, h.Version.Minor)
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", h.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", h.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n", h.Schema)
	sb.WriteByte('\n')

	insts, err := m.Instructions()
	for _, inst := range insts {
		writeInstruction(&sb, inst)
	}
	if err != nil {
		fmt.Fprintf(&sb, "; ERROR: %v\n", err)
	}
	return sb.String()
}

func id(n uint32) string {
	return fmt.Sprintf("%%%d", n)
}

func ids(ops []uint32) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = id(op)
	}
	return strings.Join(parts, " ")
}

func literals(ops []uint32) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%d", op)
	}
	return strings.Join(parts, " ")
}

// writeInstruction prints one instruction, decoding enum and string operands
// for the opcodes where raw ids would be misleading.
//
//nolint:gocyclo,cyclop,funlen // one case per opcode family
func writeInstruction(sb *strings.Builder, inst Instruction) {
	name := OpcodeName(inst.Opcode)
	ops := inst.Words
	hasType, hasResult := HasResult(inst.Opcode)

	var prefix string
	rest := ops
	if hasType && len(rest) >= 2 {
		prefix = fmt.Sprintf("%s = %s %s", id(rest[1]), name, id(rest[0]))
		rest = rest[2:]
	} else if hasResult && len(rest) >= 1 {
		prefix = fmt.Sprintf("%s = %s", id(rest[0]), name)
		rest = rest[1:]
	} else {
		prefix = name
	}

	var operands string
	switch inst.Opcode {
	case OpCapability:
		if len(rest) > 0 {
			operands = Capability(rest[0]).String()
		}
	case OpExtension, OpExtInstImport, OpSourceExtension, OpModuleProcessed:
		s, _ := DecodeString(rest)
		operands = fmt.Sprintf("%q", s)
	case OpString:
		s, _ := DecodeString(rest)
		operands = fmt.Sprintf("%q", s)
	case OpMemoryModel:
		operands = literals(rest)
	case OpEntryPoint:
		if len(rest) >= 2 {
			s, n := DecodeString(rest[2:])
			operands = fmt.Sprintf("%s %s %q", ExecutionModel(rest[0]), id(rest[1]), s)
			if tail := rest[2+n:]; len(tail) > 0 {
				operands += " " + ids(tail)
			}
		}
	case OpExecutionMode:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %s", id(rest[0]), ExecutionMode(rest[1]))
			if len(rest) > 2 {
				operands += " " + literals(rest[2:])
			}
		}
	case OpName:
		if len(rest) >= 1 {
			s, _ := DecodeString(rest[1:])
			operands = fmt.Sprintf("%s %q", id(rest[0]), s)
		}
	case OpMemberName:
		if len(rest) >= 2 {
			s, _ := DecodeString(rest[2:])
			operands = fmt.Sprintf("%s %d %q", id(rest[0]), rest[1], s)
		}
	case OpDecorate:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %s", id(rest[0]), decorationOperands(Decoration(rest[1]), rest[2:]))
		}
	case OpMemberDecorate:
		if len(rest) >= 3 {
			operands = fmt.Sprintf("%s %d %s", id(rest[0]), rest[1], decorationOperands(Decoration(rest[2]), rest[3:]))
		}
	case OpTypeInt, OpTypeFloat, OpConstant, OpSpecConstant:
		operands = literals(rest)
	case OpTypeVector, OpTypeMatrix:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %d", id(rest[0]), rest[1])
		}
	case OpTypeImage:
		if len(rest) >= 7 {
			operands = fmt.Sprintf("%s %s %s", id(rest[0]), Dim(rest[1]), literals(rest[2:]))
		}
	case OpTypePointer:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %s", StorageClass(rest[0]), id(rest[1]))
		}
	case OpVariable:
		if len(rest) >= 1 {
			operands = StorageClass(rest[0]).String()
			if len(rest) > 1 {
				operands += " " + id(rest[1])
			}
		}
	case OpFunction:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%d %s", rest[0], id(rest[1]))
		}
	case OpCompositeExtract:
		if len(rest) >= 1 {
			operands = id(rest[0])
			if len(rest) > 1 {
				operands += " " + literals(rest[1:])
			}
		}
	case OpCompositeInsert:
		if len(rest) >= 2 {
			operands = ids(rest[:2])
			if len(rest) > 2 {
				operands += " " + literals(rest[2:])
			}
		}
	case OpVectorShuffle:
		if len(rest) >= 2 {
			operands = ids(rest[:2])
			if len(rest) > 2 {
				operands += " " + literals(rest[2:])
			}
		}
	case OpExtInst:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %d", id(rest[0]), rest[1])
			if len(rest) > 2 {
				operands += " " + ids(rest[2:])
			}
		}
	case OpSwitch:
		if len(rest) >= 2 {
			parts := []string{id(rest[0]), id(rest[1])}
			for i := 2; i+1 < len(rest); i += 2 {
				parts = append(parts, fmt.Sprintf("%d %s", rest[i], id(rest[i+1])))
			}
			operands = strings.Join(parts, " ")
		}
	case OpSelectionMerge:
		if len(rest) >= 2 {
			operands = fmt.Sprintf("%s %d", id(rest[0]), rest[1])
		}
	case OpLoopMerge:
		if len(rest) >= 3 {
			operands = fmt.Sprintf("%s %s %d", id(rest[0]), id(rest[1]), rest[2])
		}
	case OpSource, OpLine, OpControlBarrier, OpMemoryBarrier:
		operands = literals(rest)
	default:
		operands = ids(rest)
	}

	if hasResult {
		sb.WriteString("         ")
	} else {
		sb.WriteString("               ")
	}
	sb.WriteString(prefix)
	if operands != "" {
		sb.WriteByte(' ')
		sb.WriteString(operands)
	}
	sb.WriteByte('\n')
}

func decorationOperands(dec Decoration, params []uint32) string {
	if dec == DecorationBuiltIn && len(params) > 0 {
		return fmt.Sprintf("%s %s", dec, BuiltIn(params[0]))
	}
	if len(params) == 0 {
		return dec.String()
	}
	return fmt.Sprintf("%s %s", dec, literals(params))
}
