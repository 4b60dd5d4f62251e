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
	"regexp"
	"strings"
)

// labelPrefix matches "label:" at the start of a statement body. Labels
// never contain blanks, colons or comment markers.
var labelPrefix = regexp.MustCompile(`^([^\s:@/;#]+)(\s*:\s*)([\s\S]*)$`)

// Parts is an instruction body split into its label and operation.
type Parts struct {
	Label     string
	Colon     string
	Operation string
}

// SplitParts splits body into (label, colon, operation). Bodies without a
// label, and bodies starting with '#', come back as a bare operation.
func SplitParts(body string) Parts {
	if strings.HasPrefix(body, "#") {
		return Parts{Operation: body}
	}
	if m := labelPrefix.FindStringSubmatch(body); m != nil {
		return Parts{Label: m[1], Colon: m[2], Operation: m[3]}
	}
	return Parts{Operation: body}
}

func (p Parts) String() string {
	return p.Label + p.Colon + p.Operation
}

// Directive returns the first word of the operation: the mnemonic of an
// instruction or the name of a directive.
func (p Parts) Directive() string {
	for _, token := range Lex(p.Operation) {
		if token.Kind != SpaceToken {
			return strings.ToLower(token.Text)
		}
	}
	return ""
}

// LabelOnly reports whether the body defines a label and nothing else.
func (p Parts) LabelOnly() bool {
	return p.Label != "" && strings.TrimSpace(stripComments(p.Operation)) == ""
}

// stripComments removes comment tokens from an operation.
func stripComments(op string) string {
	var builder strings.Builder
	for _, token := range Lex(op) {
		if token.Kind == SpaceToken {
			builder.WriteByte(' ')
		} else {
			builder.WriteString(token.Text)
		}
	}
	return builder.String()
}
