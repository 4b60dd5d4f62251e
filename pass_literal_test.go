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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralPass_SharedPoolEntry(t *testing.T) {
	got := applyPass(t, &literalPass{}, lines(
		"\tldr r0, =foo",
		"\tldr r1, =foo",
		"\tldrne r2, =.Lbar @ local",
	))
	want := lines(
		"\tldr r0, .Lpool_foo",
		"\tldr r1, .Lpool_foo",
		"\tldrne r2, .Lpool_bar @ local",
		"\t.text",
		"\t.align 2",
		".Lpool_foo:",
		"\t.word foo",
		".Lpool_bar:",
		"\t.word .Lbar",
	)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, strings.Count(got, ".word foo"))
}

func TestLiteralPass_LabelledLoad(t *testing.T) {
	got := applyPass(t, &literalPass{}, "entry:\tLDR r3, =table")
	assert.Equal(t, lines(
		"entry:\tLDR r3, .Lpool_table",
		"\t.text",
		"\t.align 2",
		".Lpool_table:",
		"\t.word table",
	), got)
}

func TestLiteralPass_NoLoads(t *testing.T) {
	source := lines("\tldr r0, [r1, #4]", "\tmov r0, #0")
	assert.Equal(t, source, applyPass(t, &literalPass{}, source))
}

func TestPoolLabel(t *testing.T) {
	assert.Equal(t, ".Lpool_foo", poolLabel("foo"))
	assert.Equal(t, ".Lpool_bar", poolLabel(".Lbar"))
}

func TestLiteralPass_DistinctPoolLabels(t *testing.T) {
	got := applyPass(t, &literalPass{}, lines(
		".Lpool_baz:",
		"\tldr r0, =foo",
		"\tldr r1, =.Lfoo",
		"\tldr r2, =baz",
		"\tldr r3, =.Lfoo",
	))
	assert.Equal(t, lines(
		".Lpool_baz:",
		"\tldr r0, .Lpool_foo",
		"\tldr r1, .Lpool_foo_1",
		"\tldr r2, .Lpool_baz_1",
		"\tldr r3, .Lpool_foo_1",
		"\t.text",
		"\t.align 2",
		".Lpool_foo:",
		"\t.word foo",
		".Lpool_foo_1:",
		"\t.word .Lfoo",
		".Lpool_baz_1:",
		"\t.word baz",
	), got)
}

func TestFreshLabel(t *testing.T) {
	taken := map[string]struct{}{".Lpool_x": {}, ".Lpool_x_1": {}}
	assert.Equal(t, ".Lpool_x_2", freshLabel(".Lpool_x", taken))
	assert.Equal(t, ".Lpool_x_3", freshLabel(".Lpool_x", taken))
	assert.Equal(t, ".Lpool_y", freshLabel(".Lpool_y", taken))
}
