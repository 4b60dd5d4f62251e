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

import "github.com/samber/lo"

// globalPass wraps every exported or imported symbol in EXTERN_SYM so that
// Mach-O targets get their leading underscore.
type globalPass struct{}

func (*globalPass) Name() string {
	return "global"
}

func (*globalPass) Apply(p *Pipeline, records []Record) ([]Record, error) {
	sets := newSymbolSets()
	sets.collect(records)
	globals := sets.globals()
	p.logf("symbols: %v\n", sets)
	if len(globals) == 0 {
		return records, nil
	}

	isGlobal := func(name string) bool {
		_, ok := globals[name]
		return ok
	}
	return mapInstructions(records, func(body string) string {
		parts := SplitParts(body)
		if isGlobal(parts.Label) {
			parts.Label = wrapExtern(parts.Label)
		}
		parts.Operation = wrapAssigned(parts.Operation, isGlobal)
		if directive := parts.Directive(); directive != ".macro" {
			parts.Operation = rewriteOperands(parts.Operation, func(token Token) (Token, bool) {
				if symbolCandidate(token) && isGlobal(token.Text) && !modeOperand(directive, token.Text) {
					return Token{Kind: GlobalRefToken, Text: wrapExtern(token.Text)}, true
				}
				return token, false
			})
		}
		return parts.String()
	}), nil
}

// wrapAssigned wraps the name defined by an assignment operation when
// isGlobal holds for it.
func wrapAssigned(op string, isGlobal func(string) bool) string {
	if !assigns(significant(Lex(op))) {
		return op
	}
	tokens := Lex(op)
	_, i, _ := lo.FindIndexOf(tokens, func(token Token) bool { return token.Kind != SpaceToken })
	if !isGlobal(tokens[i].Text) {
		return op
	}
	tokens[i] = Token{Kind: GlobalRefToken, Text: wrapExtern(tokens[i].Text)}
	return Join(tokens)
}

// rewriteOperands lexes op and replaces the tokens following its mnemonic
// for which fn returns true.
func rewriteOperands(op string, fn func(Token) (Token, bool)) string {
	tokens := Lex(op)
	seenMnemonic := false
	for i, token := range tokens {
		if token.Kind == SpaceToken {
			continue
		}
		if !seenMnemonic {
			seenMnemonic = true
			continue
		}
		if replacement, ok := fn(token); ok {
			tokens[i] = replacement
		}
	}
	return Join(tokens)
}
