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

	"github.com/samber/lo"
)

// ldr rX, =symbol, with any condition or width suffix on the mnemonic
var literalLoad = regexp.MustCompile(`^(\s*(?i:ldr)[a-zA-Z.]*\s+)([a-zA-Z0-9]+\s*,\s*)=\s*([$.A-Za-z_][$.A-Za-z0-9_]*)(\s*(?:(?:@|//)[\s\S]*)?)$`)

// literalPass replaces the "ldr rX, =symbol" shorthand, which Apple's
// assembler does not accept, with a pc-relative load from an explicit pool.
type literalPass struct{}

func (*literalPass) Name() string {
	return "literal"
}

func (*literalPass) Apply(p *Pipeline, records []Record) ([]Record, error) {
	// symbol -> pool label, in order of first use
	var pool []lo.Tuple2[string, string]
	labels := map[string]string{}
	taken := definedLabels(records)

	rewritten := mapInstructions(records, func(body string) string {
		parts := SplitParts(body)
		m := literalLoad.FindStringSubmatch(parts.Operation)
		if m == nil {
			return body
		}
		symbol := m[3]
		label, ok := labels[symbol]
		if !ok {
			label = freshLabel(poolLabel(symbol), taken)
			labels[symbol] = label
			pool = append(pool, lo.T2(symbol, label))
		}
		parts.Operation = m[1] + m[2] + label + m[4]
		return parts.String()
	})
	if len(pool) == 0 {
		return rewritten, nil
	}

	rewritten = terminateLast(rewritten)
	rewritten = append(rewritten, newInstruction(".text"), newInstruction(".align 2"))
	for _, entry := range pool {
		rewritten = append(rewritten, newInstruction(entry.B+":"), newInstruction(".word "+entry.A))
	}
	return rewritten, nil
}

// poolLabel derives the pool label of a symbol.
func poolLabel(symbol string) string {
	return localPrefix + "pool_" + strings.TrimPrefix(symbol, localPrefix)
}

// freshLabel returns label, or label with the smallest numeric suffix that is
// not in taken, and marks the result taken.
func freshLabel(label string, taken map[string]struct{}) string {
	candidate := label
	for n := 1; ; n++ {
		if _, ok := taken[candidate]; !ok {
			break
		}
		candidate = fmt.Sprintf("%s_%d", label, n)
	}
	taken[candidate] = struct{}{}
	return candidate
}

// definedLabels returns the labels defined by instruction records.
func definedLabels(records []Record) map[string]struct{} {
	labels := map[string]struct{}{}
	for _, record := range records {
		if record.Kind != InstructionRecord {
			continue
		}
		if label := record.Parts().Label; label != "" {
			labels[label] = struct{}{}
		}
	}
	return labels
}

// terminateLast makes sure text appended after records starts on a new line.
func terminateLast(records []Record) []Record {
	if len(records) == 0 || records[len(records)-1].Terminator == "\n" {
		return records
	}
	return append(records[:len(records):len(records)], Record{Kind: InstructionRecord, Terminator: "\n"})
}
