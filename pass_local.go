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

import "strings"

// localPass wraps ".L" labels in LOCAL_SYM; Mach-O spells private labels
// with a bare "L".
type localPass struct{}

func (*localPass) Name() string {
	return "local"
}

func (*localPass) Apply(_ *Pipeline, records []Record) ([]Record, error) {
	defined := map[string]struct{}{}
	for _, record := range records {
		if record.Kind != InstructionRecord || record.Body == "" {
			continue
		}
		if label := record.Parts().Label; strings.HasPrefix(label, localPrefix) {
			defined[label] = struct{}{}
		}
	}
	if len(defined) == 0 {
		return records, nil
	}

	isLocal := func(name string) bool {
		_, ok := defined[name]
		return ok
	}
	return mapInstructions(records, func(body string) string {
		parts := SplitParts(body)
		if isLocal(parts.Label) {
			parts.Label = wrapLocal(parts.Label)
		}
		parts.Operation = rewriteOperands(parts.Operation, func(token Token) (Token, bool) {
			if token.Kind == IdentToken && isLocal(token.Text) {
				return Token{Kind: LocalRefToken, Text: wrapLocal(token.Text)}, true
			}
			return token, false
		})
		return parts.String()
	}), nil
}
