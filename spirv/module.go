// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"encoding/binary"
	"math/bits"

	"github.com/gogpu/spirvcross/diag"
)

// Header is the five-word preamble of a SPIR-V module.
type Header struct {
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// Module is an immutable SPIR-V word stream whose header has been checked.
//
// The words are copied on construction and never modified afterwards, so a
// Module may be shared by any number of concurrent parsers.
type Module struct {
	words  []uint32
	header Header
}

// FromWords validates the header of words and returns a Module holding a
// private copy of them. Byte-swapped streams are normalised to host order.
func FromWords(words []uint32) (*Module, error) {
	if len(words) < HeaderWords {
		return nil, diag.Errorf(diag.FormatError, "module has %d words, header needs %d", len(words), HeaderWords)
	}

	owned := make([]uint32, len(words))
	copy(owned, words)

	switch owned[0] {
	case MagicNumber:
	case MagicNumberSwapped:
		for i, w := range owned {
			owned[i] = bits.ReverseBytes32(w)
		}
	default:
		return nil, diag.Errorf(diag.FormatError, "invalid magic number 0x%08X", owned[0])
	}

	vword := owned[1]
	if vword&0xFF0000FF != 0 {
		return nil, diag.Errorf(diag.FormatError, "malformed version word 0x%08X", vword)
	}
	version := Version{Major: uint8(vword >> 16), Minor: uint8(vword >> 8)}
	if !version.Supported() {
		return nil, diag.Errorf(diag.FormatError, "unsupported SPIR-V version %d.%d", version.Major, version.Minor)
	}
	if owned[3] == 0 {
		return nil, diag.New(diag.FormatError, "id bound is zero")
	}

	return &Module{
		words: owned,
		header: Header{
			Version:   version,
			Generator: owned[2],
			Bound:     owned[3],
			Schema:    owned[4],
		},
	}, nil
}

// FromBytes decodes a little-endian (or byte-swapped) SPIR-V binary.
func FromBytes(data []byte) (*Module, error) {
	if len(data)%4 != 0 {
		return nil, diag.Errorf(diag.FormatError, "binary length %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return FromWords(words)
}

// Header returns the decoded module header.
func (m *Module) Header() Header {
	return m.header
}

// Words returns a copy of the module words in host order.
func (m *Module) Words() []uint32 {
	out := make([]uint32, len(m.words))
	copy(out, m.words)
	return out
}

// Len returns the number of words in the module.
func (m *Module) Len() int {
	return len(m.words)
}

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands

	// Offset is the word offset of the instruction in its module. It is
	// zero for instructions built in memory by ModuleBuilder.
	Offset int
}

// Instructions decodes the instruction stream following the header.
// The returned operand slices alias the module's words and must be treated
// as read-only.
func (m *Module) Instructions() ([]Instruction, error) {
	var out []Instruction
	for offset := HeaderWords; offset < len(m.words); {
		first := m.words[offset]
		count := int(first >> 16)
		op := OpCode(first & 0xFFFF)
		if count == 0 {
			return nil, diag.Errorf(diag.ParseError, "zero word count at word %d", offset)
		}
		if offset+count > len(m.words) {
			return nil, diag.Errorf(diag.ParseError, "%s at word %d overruns the module (%d words, %d left)",
				OpcodeName(op), offset, count, len(m.words)-offset)
		}
		out = append(out, Instruction{
			Opcode: op,
			Words:  m.words[offset+1 : offset+count : offset+count],
			Offset: offset,
		})
		offset += count
	}
	return out, nil
}

// DecodeString reads a nul-terminated UTF-8 literal from words and returns
// it with the number of words it occupied.
func DecodeString(words []uint32) (string, int) {
	buf := make([]byte, 0, len(words)*4)
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, c)
		}
	}
	return string(buf), len(words)
}
