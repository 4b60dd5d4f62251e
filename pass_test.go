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
	"github.com/stretchr/testify/require"
)

// applyPass runs a single pass over source on a fresh pipeline.
func applyPass(t *testing.T, pass Pass, source string) string {
	t.Helper()
	records, err := Tokenize(source)
	require.NoError(t, err)
	pipeline, err := NewPipeline("")
	require.NoError(t, err)
	records, err = pass.Apply(pipeline, records)
	require.NoError(t, err)
	return Serialize(records)
}

// lines joins assembly lines, each terminated by a newline.
func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestPasses_Order(t *testing.T) {
	assert.Equal(t, []string{"literal", "funtype", "jumptable", "global", "local", "dotrel", "prologue"}, ListPasses())
}

func TestNewPipeline_StopAfter(t *testing.T) {
	pipeline, err := NewPipeline("jumptable")
	require.NoError(t, err)
	assert.Len(t, pipeline.Passes, 3)

	_, err = NewPipeline("nosuchpass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pass: nosuchpass")
}

func TestPipeline_Label(t *testing.T) {
	pipeline, err := NewPipeline("")
	require.NoError(t, err)
	assert.Equal(t, ".Ljt_base_0", pipeline.label("jt_base"))
	assert.Equal(t, ".Ljt_base_1", pipeline.label("jt_base"))
	assert.Equal(t, ".Ldotrel_0", pipeline.label("dotrel"))
}

// A source none of the passes before the prologue reacts to.
const inertSource = "\t.syntax unified\n\t.arm\n1:\tsubs r0, r0, #1\n\tbne 1b\n\tbx lr\n"

func TestPasses_InertInputUnchanged(t *testing.T) {
	for _, pass := range passes[:len(passes)-1] {
		t.Run(pass.Name(), func(t *testing.T) {
			assert.Equal(t, inertSource, applyPass(t, pass, inertSource))
		})
	}
}

func TestPasses_NoOpOnOwnOutput(t *testing.T) {
	source := lines(
		"\t.globl\tentry",
		"\t.type entry, %function",
		"entry:",
		"\tldr r0, =table",
		"\ttbh [pc, r0, lsl #1]",
		"\t.short (.Lcase0-.)/2+0",
		"\t.short (.Lcase1-.)/2+1",
		".Lcase0:",
		"\tbl helper",
		".Lcase1:",
		"\t.word .Lcase0 - . + 0x80000000",
		"\tbx lr",
	)
	text := source
	for _, pass := range passes {
		t.Run(pass.Name(), func(t *testing.T) {
			once := applyPass(t, pass, text)
			assert.Equal(t, once, applyPass(t, pass, once))
			text = once
		})
	}
}
