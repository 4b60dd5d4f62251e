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
)

// prologueGuard opens the prologue and marks it as already present.
const prologueGuard = "#ifndef " + externMacro

// compatPrologue implements the naming macros, .funtype, and cbz/cbnz for
// cores without Thumb-2.
var compatPrologue = strings.Join([]string{
	prologueGuard,
	"#if defined(__APPLE__)",
	"#define " + externMacro + "(x) _##x",
	"#define " + localMacro + "(x) L##x",
	"#else",
	"#define " + externMacro + "(x) x",
	"#define " + localMacro + "(x) .L##x",
	"#endif",
	"#endif",
	"",
	".macro .funtype symbol",
	"#if defined(__APPLE__)",
	"#if defined(__thumb__)",
	"\t.thumb_func \\symbol",
	"#endif",
	"#else",
	"\t.type \\symbol, %function",
	"#endif",
	".endm",
	"",
	"#if !defined(__thumb2__)",
	".macro cbz reg, label",
	"\tcmp \\reg, #0",
	"\tbeq \\label",
	".endm",
	".macro cbnz reg, label",
	"\tcmp \\reg, #0",
	"\tbne \\label",
	".endm",
	"#endif",
	"",
}, "\n")

// prologuePass inserts compatPrologue once, after the leading comments and
// preprocessor guard and before the first statement.
type prologuePass struct{}

func (*prologuePass) Name() string {
	return "prologue"
}

func (*prologuePass) Apply(_ *Pipeline, records []Record) ([]Record, error) {
	for _, record := range records {
		if record.Kind == PreprocessorRecord && strings.TrimSpace(record.Body) == prologueGuard {
			return records, nil
		}
	}
	prologue, err := Tokenize(compatPrologue)
	if err != nil {
		return nil, err
	}

	at := 0
	for at < len(records) && !startsCode(records[at]) {
		at++
	}
	head := terminateLast(records[:at:at])
	output := make([]Record, 0, len(records)+len(prologue)+1)
	output = append(output, head...)
	output = append(output, prologue...)
	return append(output, records[at:]...), nil
}

// startsCode reports whether a record is a real statement rather than a
// comment, blank line or preprocessor directive.
func startsCode(record Record) bool {
	return record.Kind == InstructionRecord && record.Body != ""
}
