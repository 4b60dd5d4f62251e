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
	"strings"

	"github.com/samber/lo"
)

var dataDirectives = []string{".byte", ".short", ".hword", ".word", ".long", ".int", ".quad"}

// dotRelPass moves data expressions such as "LOCAL_SYM(x) - . + 0x80000000"
// into a preceding .set. Apple's assembler otherwise emits a relocation for
// them instead of folding the constant.
type dotRelPass struct{}

func (*dotRelPass) Name() string {
	return "dotrel"
}

func (*dotRelPass) Apply(p *Pipeline, records []Record) ([]Record, error) {
	var output []Record
	changed := false
	for _, record := range records {
		if record.Kind != InstructionRecord || record.Body == "" {
			output = append(output, record)
			continue
		}
		parts := record.Parts()
		directive, expr, trailing, ok := dotRelative(parts.Operation)
		if !ok {
			output = append(output, record)
			continue
		}
		name := wrapLocal(p.label("dotrel"))
		output = append(output, newInstruction(".set "+name+", "+expr))
		parts.Operation = directive + name + trailing
		output = append(output, record.withBody(parts.String()))
		changed = true
	}
	if !changed {
		return records, nil
	}
	return output, nil
}

// dotRelative splits a data directive whose single operand mixes a local
// symbol, a number, a subtraction and ".". It returns the directive with its
// trailing blanks, the expression and anything after it.
func dotRelative(op string) (directive, expr, trailing string, ok bool) {
	tokens := Lex(op)
	head, first, found := lo.FindIndexOf(tokens, func(token Token) bool { return token.Kind != SpaceToken })
	if !found || !lo.Contains(dataDirectives, strings.ToLower(head.Text)) {
		return "", "", "", false
	}
	start := first + 1
	for start < len(tokens) && tokens[start].Kind == SpaceToken {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].Kind == SpaceToken {
		end--
	}
	operand := tokens[start:end]

	var hasLocal, hasNumber, hasMinus, hasDot bool
	for _, token := range operand {
		switch {
		case token.Kind == LocalRefToken:
			hasLocal = true
		case token.Kind == NumberToken:
			hasNumber = true
		case token.Kind == OtherToken && token.Text == "-":
			hasMinus = true
		case token.Kind == IdentToken && token.Text == ".":
			hasDot = true
		case token.Kind == OtherToken && token.Text == ",":
			return "", "", "", false
		}
	}
	if !hasLocal || !hasNumber || !hasMinus || !hasDot {
		return "", "", "", false
	}
	return Join(tokens[:start]), Join(operand), Join(tokens[end:]), true
}
