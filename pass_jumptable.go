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
	"strconv"
)

// .short (target - .)/2 + k, the entry format of tbh tables
var jumpTableEntry = regexp.MustCompile(`^(\.short\s+)\(\s*([$.A-Za-z_][$.A-Za-z0-9_]*)\s*-\s*\.\s*\)\s*/\s*2(?:\s*\+\s*([0-9]+))?(\s*(?:(?:@|//)[\s\S]*)?)$`)

var numericLabel = regexp.MustCompile(`^[0-9]+$`)

// jumpTableEntryRef is a recognized table entry: its record index and the
// parsed operand.
type jumpTableEntryRef struct {
	index   int
	matches []string
	k       int
}

// jumpTablePass rewrites tbh offset tables so that entries are relative to a
// label at the start of the table instead of to ".". Apple's assembler
// miscomputes "." inside such tables.
//
// Entry i of a run whose operand ends in "+k" holds (target - entry[i])/2 + k,
// which equals (target - entry[i-k])/2. The entry is rewritten against a
// label on entry i-k; entries with fewer than k predecessors are left alone.
type jumpTablePass struct{}

func (*jumpTablePass) Name() string {
	return "jumptable"
}

func (*jumpTablePass) Apply(p *Pipeline, records []Record) ([]Record, error) {
	rewrites := map[int]string{}
	// record index -> label to synthesize in front of it
	inserted := map[int]string{}
	// record index -> label the entry is based on
	bases := map[int]string{}

	baseLabel := func(index int) string {
		if label, ok := bases[index]; ok {
			return label
		}
		label := existingLabel(records, index)
		if label == "" {
			label = p.label("jt_base")
			inserted[index] = label
		}
		bases[index] = label
		return label
	}

	var run []jumpTableEntryRef
	flush := func() {
		for i, entry := range run {
			if entry.k > i {
				continue
			}
			base := baseLabel(run[i-entry.k].index)
			parts := records[entry.index].Parts()
			parts.Operation = fmt.Sprintf("%s(%s - %s)/2%s", entry.matches[1], entry.matches[2], base, entry.matches[4])
			rewrites[entry.index] = parts.String()
		}
		run = nil
	}

	for i, record := range records {
		if record.Kind == CommentRecord || (record.Kind == InstructionRecord && record.Body == "") {
			continue
		}
		if record.Kind != InstructionRecord {
			flush()
			continue
		}
		parts := record.Parts()
		m := jumpTableEntry.FindStringSubmatch(parts.Operation)
		if m == nil {
			flush()
			continue
		}
		// a label in front of an entry starts a new table
		if parts.Label != "" {
			flush()
		}
		k := 0
		if m[3] != "" {
			var err error
			if k, err = strconv.Atoi(m[3]); err != nil {
				return nil, fmt.Errorf("line %q: %w", record.Body, err)
			}
		}
		run = append(run, jumpTableEntryRef{index: i, matches: m, k: k})
	}
	flush()

	if len(rewrites) == 0 {
		return records, nil
	}
	output := make([]Record, 0, len(records)+len(inserted))
	for i, record := range records {
		if label, ok := inserted[i]; ok {
			output = append(output, newInstruction(label+":"))
		}
		if body, ok := rewrites[i]; ok {
			record = record.withBody(body)
		}
		output = append(output, record)
	}
	return output, nil
}

// existingLabel returns a symbolic label already marking the record at
// index, either on the record itself or on a label-only line right before
// it. Numeric labels are not usable as a base.
func existingLabel(records []Record, index int) string {
	usable := func(label string) string {
		if numericLabel.MatchString(label) {
			return ""
		}
		return label
	}
	if label := records[index].Parts().Label; label != "" {
		return usable(label)
	}
	for i := index - 1; i >= 0; i-- {
		record := records[i]
		if record.Kind == CommentRecord || (record.Kind == InstructionRecord && record.Body == "") {
			continue
		}
		if record.Kind != InstructionRecord {
			return ""
		}
		parts := record.Parts()
		if parts.LabelOnly() {
			return usable(parts.Label)
		}
		return ""
	}
	return ""
}
