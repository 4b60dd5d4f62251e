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
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Names of the macros wrapping exported and local symbols. Their expansion
// is defined by the compatibility prologue.
const (
	externMacro = "EXTERN_SYM"
	localMacro  = "LOCAL_SYM"
)

// TokenKind classifies a Token.
type TokenKind int

const (
	SpaceToken TokenKind = iota
	GlobalRefToken
	LocalRefToken
	StringToken
	IdentToken
	NumericLabelToken
	NumberToken
	OtherToken
)

func (k TokenKind) String() string {
	switch k {
	case SpaceToken:
		return "space"
	case GlobalRefToken:
		return "global"
	case LocalRefToken:
		return "local"
	case StringToken:
		return "string"
	case IdentToken:
		return "ident"
	case NumericLabelToken:
		return "numlabel"
	case NumberToken:
		return "number"
	case OtherToken:
		return "other"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a classified piece of an operation string.
type Token struct {
	Kind TokenKind
	Text string
}

// token patterns in order of precedence; anything else is a one rune OtherToken
var tokenPatterns = []lo.Tuple2[TokenKind, *regexp.Regexp]{
	{A: SpaceToken, B: regexp.MustCompile(`^(?:\s+|/\*(?:[^*]|\*+[^*/])*\*+/|//[^\n]*|@[^\n]*)+`)},
	{A: GlobalRefToken, B: regexp.MustCompile(`^` + externMacro + `\([^()]*\)`)},
	{A: LocalRefToken, B: regexp.MustCompile(`^` + localMacro + `\([^()]*\)`)},
	{A: StringToken, B: regexp.MustCompile(`^"(?:[^"\\]|\\[\s\S])*"`)},
	{A: IdentToken, B: regexp.MustCompile(`^[$.A-Za-z_[:^ascii:]][$.A-Za-z0-9_[:^ascii:]]*`)},
	{A: NumericLabelToken, B: regexp.MustCompile(`^[0-9]+[bf]\b`)},
	{A: NumberToken, B: regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|[0-9]+)`)},
}

// Lex splits op into tokens. Join(Lex(op)) == op for every string.
func Lex(op string) []Token {
	var tokens []Token
	for len(op) > 0 {
		token := nextToken(op)
		tokens = append(tokens, token)
		op = op[len(token.Text):]
	}
	return tokens
}

func nextToken(op string) Token {
	for _, pattern := range tokenPatterns {
		if loc := pattern.B.FindStringIndex(op); loc != nil && loc[1] > 0 {
			return Token{Kind: pattern.A, Text: op[:loc[1]]}
		}
	}
	_, size := utf8.DecodeRuneInString(op)
	return Token{Kind: OtherToken, Text: op[:size]}
}

// Join concatenates tokens back into text.
func Join(tokens []Token) string {
	var builder strings.Builder
	for _, token := range tokens {
		builder.WriteString(token.Text)
	}
	return builder.String()
}

// significant drops space tokens.
func significant(tokens []Token) []Token {
	return lo.Filter(tokens, func(token Token, _ int) bool {
		return token.Kind != SpaceToken
	})
}

// wrapExtern returns the export-naming form of a symbol.
func wrapExtern(symbol string) string {
	return externMacro + "(" + symbol + ")"
}

// wrapLocal returns the local-naming form of a local symbol.
func wrapLocal(symbol string) string {
	return localMacro + "(" + strings.TrimPrefix(symbol, localPrefix) + ")"
}
