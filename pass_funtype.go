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

import "regexp"

var functionType = regexp.MustCompile(`^\.type(\s+)([^\s,]+)\s*,\s*[%@#]function\b([\s\S]*)$`)

// funtypePass turns ".type sym, %function" into ".funtype sym". The
// prologue defines .funtype per target.
type funtypePass struct{}

func (*funtypePass) Name() string {
	return "funtype"
}

func (*funtypePass) Apply(_ *Pipeline, records []Record) ([]Record, error) {
	return mapInstructions(records, func(body string) string {
		parts := SplitParts(body)
		if m := functionType.FindStringSubmatch(parts.Operation); m != nil {
			parts.Operation = ".funtype" + m[1] + m[2] + m[3]
			return parts.String()
		}
		return body
	}), nil
}
