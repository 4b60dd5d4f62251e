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
	"io"
	"os"

	"github.com/samber/lo"
)

// Pass is one rewrite step of the pipeline.
type Pass interface {
	// Name returns the name used by --stop-after and in diagnostics
	Name() string

	// Apply rewrites the full record sequence. It must not modify records
	// in place; the returned slice replaces the input.
	Apply(p *Pipeline, records []Record) ([]Record, error)
}

// passes holds the rewrite passes in the order they run. Each pass relies on
// the text left behind by the ones before it.
var passes = []Pass{
	&literalPass{},
	&funtypePass{},
	&jumpTablePass{},
	&globalPass{},
	&localPass{},
	&dotRelPass{},
	&prologuePass{},
}

// GetPass returns the registered pass with the given name
func GetPass(name string) (Pass, error) {
	if p, ok := lo.Find(passes, func(p Pass) bool { return p.Name() == name }); ok {
		return p, nil
	}
	return nil, fmt.Errorf("unknown pass: %s (available: %v)", name, ListPasses())
}

// ListPasses returns the names of the registered passes in order
func ListPasses() []string {
	return lo.Map(passes, func(p Pass, _ int) string { return p.Name() })
}

// Pipeline carries the state of one rewrite run. It is created per
// invocation and discarded once the output is written.
type Pipeline struct {
	Passes []Pass
	// Log receives the --verbose diagnostics
	Log io.Writer
	// next suffix for each family of synthesized label
	counters map[string]int
}

// NewPipeline returns a pipeline running every registered pass, or the
// passes up to and including stopAfter when it is not empty.
func NewPipeline(stopAfter string) (*Pipeline, error) {
	selected := passes
	if stopAfter != "" {
		if _, err := GetPass(stopAfter); err != nil {
			return nil, err
		}
		_, i, _ := lo.FindIndexOf(passes, func(p Pass) bool { return p.Name() == stopAfter })
		selected = passes[:i+1]
	}
	return &Pipeline{Passes: selected, Log: os.Stderr, counters: map[string]int{}}, nil
}

// label returns a fresh local label of the given family, e.g. ".Ljt_base_0".
func (p *Pipeline) label(family string) string {
	n := p.counters[family]
	p.counters[family]++
	return fmt.Sprintf("%s%s_%d", localPrefix, family, n)
}

func (p *Pipeline) logf(format string, args ...any) {
	if verbose {
		_, _ = fmt.Fprintf(p.Log, format, args...)
	}
}

// Rewrite runs every pass over records in order.
func (p *Pipeline) Rewrite(records []Record) ([]Record, error) {
	for _, pass := range p.Passes {
		var err error
		if records, err = pass.Apply(p, records); err != nil {
			return nil, fmt.Errorf("%s: %w", pass.Name(), err)
		}
		p.logf("%-10s %d records\n", pass.Name(), len(records))
	}
	return records, nil
}

// Run tokenizes text, rewrites it and returns the resulting source. Nothing
// is returned unless every pass succeeds.
func (p *Pipeline) Run(text string) (string, error) {
	records, err := Tokenize(text)
	if err != nil {
		return "", err
	}
	if records, err = p.Rewrite(records); err != nil {
		return "", err
	}
	return Serialize(records), nil
}

// mapInstructions applies fn to the body of every instruction record and
// returns the rewritten sequence.
func mapInstructions(records []Record, fn func(body string) string) []Record {
	return lo.Map(records, func(record Record, _ int) Record {
		if record.Kind != InstructionRecord || record.Body == "" {
			return record
		}
		return record.withBody(fn(record.Body))
	})
}
