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

func TestDotRelPass(t *testing.T) {
	got := applyPass(t, &dotRelPass{}, lines(
		"\t.word LOCAL_SYM(target) - . + 0x80000000 @ offset",
		"\t.word LOCAL_SYM(target) - 4",
		"\t.word LOCAL_SYM(a) - . + 1, 2",
		"tbl:\t.long LOCAL_SYM(b)-.-8",
	))
	assert.Equal(t, lines(
		"\t.set LOCAL_SYM(dotrel_0), LOCAL_SYM(target) - . + 0x80000000",
		"\t.word LOCAL_SYM(dotrel_0) @ offset",
		"\t.word LOCAL_SYM(target) - 4",
		"\t.word LOCAL_SYM(a) - . + 1, 2",
		"\t.set LOCAL_SYM(dotrel_1), LOCAL_SYM(b)-.-8",
		"tbl:\t.long LOCAL_SYM(dotrel_1)",
	), got)
}

func TestDotRelative(t *testing.T) {
	tests := []struct {
		op        string
		directive string
		expr      string
		ok        bool
	}{
		{".quad LOCAL_SYM(x) - . + 8", ".quad ", "LOCAL_SYM(x) - . + 8", true},
		{".byte  LOCAL_SYM(x)-.+1  ", ".byte  ", "LOCAL_SYM(x)-.+1", true},
		{".word EXTERN_SYM(x) - . + 8", "", "", false},
		{".word LOCAL_SYM(x) - .", "", "", false},
		{"add r0, LOCAL_SYM(x) - . + 8", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			directive, expr, _, ok := dotRelative(tt.op)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.directive, directive)
			assert.Equal(t, tt.expr, expr)
		})
	}
}

func TestProloguePass_AfterGuard(t *testing.T) {
	got := applyPass(t, &prologuePass{}, lines(
		"@ header comment",
		"#ifdef __arm__",
		"",
		"\tmov r0, r1",
		"#endif",
	))
	assert.True(t, strings.HasPrefix(got, "@ header comment\n#ifdef __arm__\n\n"+compatPrologue+"\tmov r0, r1\n"), got)
	assert.True(t, strings.HasSuffix(got, "\tmov r0, r1\n#endif\n"), got)
	assert.Equal(t, 1, strings.Count(got, prologueGuard))
}

func TestProloguePass_OnlyOnce(t *testing.T) {
	once := applyPass(t, &prologuePass{}, "\tnop\n")
	assert.Equal(t, compatPrologue+"\tnop\n", once)
	assert.Equal(t, once, applyPass(t, &prologuePass{}, once))
}

func TestProloguePass_UnterminatedHead(t *testing.T) {
	got := applyPass(t, &prologuePass{}, "#if X")
	assert.Equal(t, "#if X\n"+compatPrologue, got)
}

func TestCompatPrologue_Tokenizes(t *testing.T) {
	records, err := Tokenize(compatPrologue)
	require.NoError(t, err)
	assert.Equal(t, compatPrologue, Serialize(records))
	kinds := map[RecordKind]int{}
	for _, record := range records {
		kinds[record.Kind]++
	}
	assert.Equal(t, 16, kinds[PreprocessorRecord])
	assert.Zero(t, kinds[CommentRecord])
}
