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
	"testing"
)

func TestSplitParts(t *testing.T) {
	tests := []struct {
		body string
		want Parts
	}{
		{"foo: mov r0, r1", Parts{Label: "foo", Colon: ": ", Operation: "mov r0, r1"}},
		{"mov r0, r1", Parts{Operation: "mov r0, r1"}},
		{"#define X 1", Parts{Operation: "#define X 1"}},
		{".Ltable:", Parts{Label: ".Ltable", Colon: ":"}},
		{"1:\tb 1b", Parts{Label: "1", Colon: ":\t", Operation: "b 1b"}},
		{"ldr r0, [r1]", Parts{Operation: "ldr r0, [r1]"}},
		{"movw r0, #:lower16:sym", Parts{Operation: "movw r0, #:lower16:sym"}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got := SplitParts(tt.body)
			if got != tt.want {
				t.Errorf("SplitParts(%q) = %+v, want %+v", tt.body, got, tt.want)
			}
			if got.String() != tt.body {
				t.Errorf("SplitParts(%q).String() = %q", tt.body, got.String())
			}
		})
	}
}

func TestParts_Directive(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"foo: .WORD 1", ".word"},
		{"ldrne.w r0, [r1]", "ldrne.w"},
		{"label:", ""},
		{"/* c */ nop", "nop"},
	}
	for _, tt := range tests {
		if got := SplitParts(tt.body).Directive(); got != tt.want {
			t.Errorf("Directive(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestParts_LabelOnly(t *testing.T) {
	if !SplitParts("table: @ offsets").LabelOnly() {
		t.Error("label followed by a comment should be label-only")
	}
	if SplitParts("table: .short 0").LabelOnly() {
		t.Error("label followed by a directive is not label-only")
	}
	if SplitParts("nop").LabelOnly() {
		t.Error("statement without a label is not label-only")
	}
}
