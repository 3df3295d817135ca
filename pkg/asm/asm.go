// Package asm assembles Chip-8 programs written in the common mnemonic syntax
// (CLS, LD Vx, byte, DRW Vx, Vy, n, ...) into ROM images.
package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gochip8/pkg/chip8"
)

type operandKind int

const (
	kindRegister operandKind = iota // V0-VF
	kindValue                       // number or label
	kindI                           // I
	kindIndirect                    // [I]
	kindDT                          // delay timer
	kindK                           // key wait
	kindF                           // font glyph
	kindB                           // BCD
)

type operand struct {
	kind operandKind
	reg  uint16
	text string
}

type encoder func(a *Assembler, ops []operand, lineNo int) (uint16, error)

// form is one accepted operand signature of a mnemonic.
type form struct {
	kinds  []operandKind
	encode encoder
}

var (
	reg   = kindRegister
	value = kindValue
)

var forms = map[string][]form{
	"CLS":  {{nil, fixed(0x00E0)}},
	"RET":  {{nil, fixed(0x00EE)}},
	"JP":   {{[]operandKind{value}, address(0x1000)}},
	"CALL": {{[]operandKind{value}, address(0x2000)}},
	"SE": {
		{[]operandKind{reg, value}, regByte(0x3000)},
		{[]operandKind{reg, reg}, regReg(0x5000)},
	},
	"SNE": {
		{[]operandKind{reg, value}, regByte(0x4000)},
		{[]operandKind{reg, reg}, regReg(0x9000)},
	},
	"LD": {
		{[]operandKind{reg, value}, regByte(0x6000)},
		{[]operandKind{reg, reg}, regReg(0x8000)},
		{[]operandKind{kindI, value}, address(0xA000)},
		{[]operandKind{reg, kindDT}, regAt(0, 0xF007)},
		{[]operandKind{reg, kindK}, regAt(0, 0xF00A)},
		{[]operandKind{kindDT, reg}, regAt(1, 0xF015)},
		{[]operandKind{kindF, reg}, regAt(1, 0xF029)},
		{[]operandKind{kindB, reg}, regAt(1, 0xF033)},
		{[]operandKind{kindIndirect, reg}, regAt(1, 0xF055)},
		{[]operandKind{reg, kindIndirect}, regAt(0, 0xF065)},
	},
	"ADD": {
		{[]operandKind{reg, value}, regByte(0x7000)},
		{[]operandKind{reg, reg}, regReg(0x8004)},
		{[]operandKind{kindI, reg}, regAt(1, 0xF01E)},
	},
	"OR":  {{[]operandKind{reg, reg}, regReg(0x8001)}},
	"AND": {{[]operandKind{reg, reg}, regReg(0x8002)}},
	"XOR": {{[]operandKind{reg, reg}, regReg(0x8003)}},
	"SUB": {{[]operandKind{reg, reg}, regReg(0x8005)}},
	"SHR": {
		{[]operandKind{reg}, regSelf(0x8006)},
		{[]operandKind{reg, reg}, regReg(0x8006)},
	},
	"RND":  {{[]operandKind{reg, value}, regByte(0xC000)}},
	"DRW":  {{[]operandKind{reg, reg, value}, draw}},
	"SKP":  {{[]operandKind{reg}, regAt(0, 0xE09E)}},
	"SKNP": {{[]operandKind{reg}, regAt(0, 0xE0A1)}},
}

// Assembler translates source text in two passes: the first collects label
// addresses, the second encodes.
type Assembler struct {
	origin uint16
	labels map[string]uint16
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

// NewAssembler returns an assembler for programs loaded at origin.
func NewAssembler(origin uint16) *Assembler {
	return &Assembler{
		origin: origin,
		labels: make(map[string]uint16),
	}
}

// Assemble assembles code for the default start address. It returns the ROM
// image and a map from instruction address to source line.
func Assemble(code string) ([]byte, map[uint16]int, error) {
	return NewAssembler(chip8.DefaultStartAddress).Assemble(code)
}

// Assemble assembles code into a ROM image loaded at the assembler origin.
func (a *Assembler) Assemble(code string) ([]byte, map[uint16]int, error) {
	lines := strings.Split(code, "\n")
	a.labels = make(map[string]uint16)

	if err := a.pass1(lines); err != nil {
		return nil, nil, err
	}

	return a.pass2(lines)
}

func (a *Assembler) pass1(lines []string) error {
	address := uint32(a.origin)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return err
		}

		for _, lbl := range p.labels {
			if address >= chip8.MemorySize {
				return fmt.Errorf("label '%s' on line %d points past addressable memory", lbl, lineNo)
			}
			key := normalizeLabel(lbl)
			if _, exists := a.labels[key]; exists {
				return fmt.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
			}
			a.labels[key] = uint16(address)
		}

		if p.mnemonic == "" {
			continue
		}

		var length uint32
		switch p.mnemonic {
		case ".ORG":
			target, err := a.parseOrigin(p, uint16(address))
			if err != nil {
				return err
			}
			address = uint32(target)
			continue

		case ".BYTE":
			if len(p.operands) == 0 {
				return fmt.Errorf(".BYTE expects at least one operand on line %d", lineNo)
			}
			length = uint32(len(p.operands))

		case ".WORD":
			if len(p.operands) == 0 {
				return fmt.Errorf(".WORD expects at least one operand on line %d", lineNo)
			}
			length = uint32(len(p.operands) * 2)

		default:
			if _, ok := forms[p.mnemonic]; !ok {
				return fmt.Errorf("unknown instruction on line %d: %s", lineNo, p.mnemonic)
			}
			length = 2
		}

		if address+length > chip8.MemorySize {
			return fmt.Errorf("program too large near line %d", lineNo)
		}
		address += length
	}

	return nil
}

func (a *Assembler) pass2(lines []string) ([]byte, map[uint16]int, error) {
	program := make([]byte, 0)
	sourceMap := make(map[uint16]int)

	for i, raw := range lines {
		lineNo := i + 1
		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, nil, err
		}

		if p.mnemonic == "" {
			continue
		}

		address := a.origin + uint16(len(program))
		sourceMap[address] = lineNo

		switch p.mnemonic {
		case ".ORG":
			target, err := a.parseOrigin(p, address)
			if err != nil {
				return nil, nil, err
			}
			delete(sourceMap, address)
			program = append(program, make([]byte, target-address)...)

		case ".BYTE":
			for _, op := range p.operands {
				val, err := a.parseValue(op, 0xFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val))
			}

		case ".WORD":
			for _, op := range p.operands {
				val, err := a.parseValue(op, 0xFFFF, lineNo)
				if err != nil {
					return nil, nil, err
				}
				program = append(program, byte(val>>8), byte(val))
			}

		default:
			word, err := a.encode(p)
			if err != nil {
				return nil, nil, err
			}
			program = append(program, byte(word>>8), byte(word))
		}
	}

	return program, sourceMap, nil
}

// encode picks the form matching the operand kinds of the line.
func (a *Assembler) encode(p parsedLine) (uint16, error) {
	ops := make([]operand, len(p.operands))
	for i, token := range p.operands {
		ops[i] = classify(token)
	}

	for _, f := range forms[p.mnemonic] {
		if !matches(f.kinds, ops) {
			continue
		}
		return f.encode(a, ops, p.lineNo)
	}
	return 0, fmt.Errorf("invalid operands for %s on line %d: %s",
		p.mnemonic, p.lineNo, strings.Join(p.operands, ", "))
}

func matches(kinds []operandKind, ops []operand) bool {
	if len(kinds) != len(ops) {
		return false
	}
	for i, k := range kinds {
		if ops[i].kind != k {
			return false
		}
	}
	return true
}

var keywords = map[string]operandKind{
	"I":   kindI,
	"[I]": kindIndirect,
	"DT":  kindDT,
	"K":   kindK,
	"F":   kindF,
	"B":   kindB,
}

func classify(token string) operand {
	upper := strings.ToUpper(token)
	if kind, ok := keywords[upper]; ok {
		return operand{kind: kind, text: token}
	}
	if len(upper) == 2 && upper[0] == 'V' {
		if n, err := strconv.ParseUint(upper[1:], 16, 8); err == nil {
			return operand{kind: kindRegister, reg: uint16(n), text: token}
		}
	}
	return operand{kind: kindValue, text: token}
}

func fixed(word uint16) encoder {
	return func(*Assembler, []operand, int) (uint16, error) {
		return word, nil
	}
}

func address(base uint16) encoder {
	return func(a *Assembler, ops []operand, lineNo int) (uint16, error) {
		nnn, err := a.parseValue(ops[len(ops)-1].text, 0xFFF, lineNo)
		if err != nil {
			return 0, err
		}
		return base | nnn, nil
	}
}

func regByte(base uint16) encoder {
	return func(a *Assembler, ops []operand, lineNo int) (uint16, error) {
		kk, err := a.parseValue(ops[1].text, 0xFF, lineNo)
		if err != nil {
			return 0, err
		}
		return base | ops[0].reg<<8 | kk, nil
	}
}

func regReg(base uint16) encoder {
	return func(_ *Assembler, ops []operand, _ int) (uint16, error) {
		return base | ops[0].reg<<8 | ops[1].reg<<4, nil
	}
}

func regSelf(base uint16) encoder {
	return func(_ *Assembler, ops []operand, _ int) (uint16, error) {
		return base | ops[0].reg<<8 | ops[0].reg<<4, nil
	}
}

// regAt encodes the register operand at index idx into the x nibble.
func regAt(idx int, base uint16) encoder {
	return func(_ *Assembler, ops []operand, _ int) (uint16, error) {
		return base | ops[idx].reg<<8, nil
	}
}

func draw(a *Assembler, ops []operand, lineNo int) (uint16, error) {
	n, err := a.parseValue(ops[2].text, 0xF, lineNo)
	if err != nil {
		return 0, err
	}
	return 0xD000 | ops[0].reg<<8 | ops[1].reg<<4 | n, nil
}

func (a *Assembler) parseOrigin(p parsedLine, address uint16) (uint16, error) {
	if len(p.operands) != 1 {
		return 0, fmt.Errorf(".ORG expects exactly one operand on line %d", p.lineNo)
	}
	target, err := strconv.ParseUint(p.operands[0], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid .ORG value on line %d: %s", p.lineNo, p.operands[0])
	}
	if target >= chip8.MemorySize {
		return 0, fmt.Errorf(".ORG out of range on line %d: %s", p.lineNo, p.operands[0])
	}
	if uint16(target) < address {
		return 0, fmt.Errorf("cannot move origin backward on line %d", p.lineNo)
	}
	return uint16(target), nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if strings.ContainsAny(beforeColon, " \t") {
			break
		}
		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}
	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

// parseValue resolves a number or label and checks it against limit.
func (a *Assembler) parseValue(token string, limit uint16, lineNo int) (uint16, error) {
	if value, err := strconv.ParseUint(token, 0, 32); err == nil {
		if value > uint64(limit) {
			return 0, fmt.Errorf("value out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}

	if addr, ok := a.labels[normalizeLabel(token)]; ok {
		if addr > limit {
			return 0, fmt.Errorf("label '%s' out of range on line %d", token, lineNo)
		}
		return addr, nil
	}

	if isIdentifier(token) {
		return 0, fmt.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return 0, fmt.Errorf("invalid value '%s' on line %d", token, lineNo)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}
