// Copyright 2025 arm-as-to-ios Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// localPrefix marks assembler-private symbols in the GNU ELF dialect.
const localPrefix = ".L"

var armRegisterPattern = regexp.MustCompile(`^(?i:r(?:[0-9]|1[0-5])|[sd](?:[0-9]|[12][0-9]|3[01])|q(?:[0-9]|1[0-5])|c(?:[0-9]|1[0-5])|p(?:[0-9]|1[0-5]))$`)

// armKeywords are operand words that are never symbols.
var armKeywords = lo.SliceToMap([]string{
	// register aliases
	"sp", "lr", "pc", "ip", "fp", "sl", "sb", "tr", "a1", "a2", "a3", "a4",
	"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "wr",
	// status and system registers
	"apsr", "cpsr", "spsr", "fpscr", "fpexc", "fpsid", "mvfr0", "mvfr1",
	"cpsr_c", "cpsr_f", "cpsr_s", "cpsr_x", "cpsr_fc", "cpsr_fsxc",
	"spsr_c", "spsr_f", "spsr_fsxc", "apsr_nzcv", "apsr_nzcvq", "apsr_g",
	// shift operators
	"lsl", "lsr", "asr", "ror", "rrx",
	// condition codes, as used by it blocks
	"eq", "ne", "cs", "hs", "cc", "lo", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al",
	// relocation operators and barrier options
	"lower16", "upper16", "plt", "got", "gotoff", "got_prel", "target1", "target2",
	"sy", "st", "ld", "ish", "ishst", "nsh", "nshst", "osh", "oshst",
}, func(word string) (string, struct{}) {
	return word, struct{}{}
})

// isRegister reports whether word names a register or another operand
// keyword that can never refer to a symbol.
func isRegister(word string) bool {
	if armRegisterPattern.MatchString(word) {
		return true
	}
	_, ok := armKeywords[strings.ToLower(word)]
	return ok
}

// unscannedDirectives carry symbol names that are not references to code or
// data.
var unscannedDirectives = []string{
	".type", ".size", ".syntax", ".arch", ".fpu", ".cpu", ".section",
	".eabi_attribute", ".file", ".ident", ".macro", ".endm", ".purgem",
	".unreq",
}

// cpsFlags matches the interrupt mask operand of cps, cpsie and cpsid.
var cpsFlags = regexp.MustCompile(`^(?i:[aif]{1,3})$`)

// modeOperand reports whether word is a mode operand of mnemonic rather than
// a symbol, as in "cpsid i" or "setend be".
func modeOperand(mnemonic, word string) bool {
	switch {
	case strings.HasPrefix(mnemonic, "cps"):
		return cpsFlags.MatchString(word)
	case mnemonic == "setend":
		return strings.EqualFold(word, "be") || strings.EqualFold(word, "le")
	}
	return false
}

// cppDefine matches the name of a #define line.
var cppDefine = regexp.MustCompile(`^#[ \t]*define[ \t]+([A-Za-z_][A-Za-z0-9_]*)`)

// symbolCandidate reports whether an identifier token may name a global
// symbol.
func symbolCandidate(token Token) bool {
	return token.Kind == IdentToken && !strings.HasPrefix(token.Text, ".") && !isRegister(token.Text)
}

// symbolSets holds the sets global classification works from.
type symbolSets struct {
	declared   map[string]struct{}
	referenced map[string]struct{}
	defined    map[string]struct{}
	// names of preprocessor macros, which must reach cpp unwrapped
	macros map[string]struct{}
}

func newSymbolSets() *symbolSets {
	return &symbolSets{
		declared:   map[string]struct{}{},
		referenced: map[string]struct{}{},
		defined:    map[string]struct{}{},
		macros:     map[string]struct{}{},
	}
}

// operands returns the significant tokens following the directive or
// mnemonic of an operation.
func operands(op string) []Token {
	tokens := significant(Lex(op))
	if len(tokens) == 0 {
		return nil
	}
	return tokens[1:]
}

// candidates returns the texts of the tokens that may name global symbols.
func candidates(tokens []Token) []string {
	return lo.FilterMap(tokens, func(token Token, _ int) (string, bool) {
		return token.Text, symbolCandidate(token)
	})
}

// assigns reports whether the significant tokens of an operation define
// their first word, as in "name = value" or "name .req reg".
func assigns(tokens []Token) bool {
	return len(tokens) > 1 && tokens[0].Kind == IdentToken &&
		(tokens[1].Text == "=" || strings.EqualFold(tokens[1].Text, ".req"))
}

// collect scans all records and fills in the three symbol sets.
func (s *symbolSets) collect(records []Record) {
	macroDepth := 0
	for _, record := range records {
		if record.Kind == PreprocessorRecord {
			if m := cppDefine.FindStringSubmatch(record.Body); m != nil {
				s.macros[m[1]] = struct{}{}
			}
			continue
		}
		if record.Kind != InstructionRecord || record.Body == "" {
			continue
		}
		parts := record.Parts()
		if parts.Label != "" {
			s.defined[parts.Label] = struct{}{}
		}
		directive := parts.Directive()
		switch directive {
		case ".macro":
			macroDepth++
			continue
		case ".endm":
			if macroDepth > 0 {
				macroDepth--
			}
			continue
		}
		if macroDepth > 0 {
			continue
		}

		if tokens := significant(Lex(parts.Operation)); assigns(tokens) {
			s.defined[tokens[0].Text] = struct{}{}
			for _, name := range candidates(tokens[2:]) {
				s.referenced[name] = struct{}{}
			}
			continue
		}

		args := operands(parts.Operation)
		switch directive {
		case ".globl", ".global", ".comm":
			names := candidates(args)
			for _, name := range names {
				s.declared[name] = struct{}{}
			}
			if directive == ".comm" && len(names) > 0 {
				s.defined[names[0]] = struct{}{}
			}
			continue
		case ".set", ".equ", ".equiv", ".lcomm":
			if len(args) > 0 {
				s.defined[args[0].Text] = struct{}{}
				args = args[1:]
			}
		}
		if lo.Contains(unscannedDirectives, directive) {
			continue
		}
		for _, name := range candidates(args) {
			if !modeOperand(directive, name) {
				s.referenced[name] = struct{}{}
			}
		}
	}
}

// globals returns the declared symbols plus those referenced but never
// defined in this unit. Preprocessor macro names are never global.
func (s *symbolSets) globals() map[string]struct{} {
	globals := make(map[string]struct{}, len(s.declared))
	for name := range s.declared {
		globals[name] = struct{}{}
	}
	for name := range s.referenced {
		if _, ok := s.defined[name]; !ok {
			globals[name] = struct{}{}
		}
	}
	for name := range s.macros {
		delete(globals, name)
	}
	return globals
}

func (s *symbolSets) String() string {
	return fmt.Sprintf("declared=%v referenced=%v defined=%v macros=%v",
		sortedSet(s.declared), sortedSet(s.referenced), sortedSet(s.defined), sortedSet(s.macros))
}

func sortedSet(m map[string]struct{}) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
