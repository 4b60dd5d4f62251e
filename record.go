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
)

// RecordKind tells which line shape produced a Record.
type RecordKind int

const (
	// InstructionRecord is a generic statement: directive, instruction,
	// label, or nothing but whitespace and comments.
	InstructionRecord RecordKind = iota
	// PreprocessorRecord is a C preprocessor conditional or definition,
	// including any backslash continuation lines.
	PreprocessorRecord
	// CommentRecord is any other line starting with '#'.
	CommentRecord
)

func (k RecordKind) String() string {
	switch k {
	case InstructionRecord:
		return "instruction"
	case PreprocessorRecord:
		return "preprocessor"
	case CommentRecord:
		return "comment"
	default:
		return fmt.Sprintf("RecordKind(%d)", int(k))
	}
}

// Record is one statement of the input. Prefix+Body+Terminator is exactly
// the text it was scanned from.
type Record struct {
	Kind RecordKind
	// Prefix holds leading blanks and comments.
	Prefix string
	// Body is the significant text, empty for blank and comment-only lines.
	Body string
	// Terminator is "\n", ";" or "" at end of input.
	Terminator string
}

func (r Record) String() string {
	return r.Prefix + r.Body + r.Terminator
}

// Parts splits the body of an instruction record.
func (r Record) Parts() Parts {
	return SplitParts(r.Body)
}

// withBody returns a copy of r carrying a new body.
func (r Record) withBody(body string) Record {
	r.Body = body
	return r
}

// newInstruction builds a synthesized instruction record ending in a newline.
func newInstruction(body string) Record {
	if strings.HasSuffix(body, ":") {
		return Record{Kind: InstructionRecord, Body: body, Terminator: "\n"}
	}
	return Record{Kind: InstructionRecord, Prefix: "\t", Body: body, Terminator: "\n"}
}

// statement shapes, tried in order at the start of each record
var (
	preprocessorLine = regexp.MustCompile(`^([ \t]*)(#[ \t]*(?:ifdef|ifndef|if|elif|else|endif|define|undef|include)\b(?:[^\\\n]|\\[\s\S])*)(\n|$)`)
	commentLine      = regexp.MustCompile(`^([ \t]*#[^\n]*)()(\n|$)`)
	statementLine    = regexp.MustCompile(`^((?:[ \t\f\r\v]+|/\*(?:[^*]|\*+[^*/])*\*+/|//[^\n]*|@[^\n]*)*)` +
		`((?:"(?:[^"\\\n]|\\[\s\S])*"|/\*(?:[^*]|\*+[^*/])*\*+/|//[^\n]*|@[^\n]*|\\[\s\S]|/[^*/;\n]|[^;\n"\\@/])*)` +
		`(;|\n|$)`)
)

// SyntaxError reports a position where no statement shape matched. It
// indicates input the rewriter cannot represent, such as an unterminated
// block comment or string.
type SyntaxError struct {
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: unrecognized statement: %q", e.Line, e.Column, e.Text)
}

// Scanner produces records from assembly text one at a time. Like
// bufio.Scanner it cannot be rewound.
type Scanner struct {
	text   string
	pos    int
	line   int
	record Record
	err    error
}

// NewScanner returns a Scanner reading from text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text, line: 1}
}

// Scan advances to the next record. It returns false at the end of the
// input or on the first error.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.text) {
		return false
	}
	rest := s.text[s.pos:]
	atLineStart := s.pos == 0 || s.text[s.pos-1] == '\n'

	var kind RecordKind
	var m []string
	if atLineStart {
		if m = preprocessorLine.FindStringSubmatch(rest); m != nil {
			kind = PreprocessorRecord
		} else if m = commentLine.FindStringSubmatch(rest); m != nil {
			kind = CommentRecord
		}
	}
	if m == nil {
		if m = statementLine.FindStringSubmatch(rest); m != nil {
			kind = InstructionRecord
		}
	}
	if m == nil || len(m[0]) == 0 {
		s.err = s.syntaxError(rest)
		return false
	}

	s.record = Record{Kind: kind, Prefix: m[1], Body: m[2], Terminator: m[3]}
	s.pos += len(m[0])
	s.line += strings.Count(m[0], "\n")
	return true
}

func (s *Scanner) syntaxError(rest string) error {
	column := s.pos - strings.LastIndexByte(s.text[:s.pos], '\n')
	text, _, _ := strings.Cut(rest, "\n")
	return &SyntaxError{Line: s.line, Column: column, Text: text}
}

// Record returns the most recent record produced by Scan.
func (s *Scanner) Record() Record {
	return s.record
}

// Err returns the first error encountered by the Scanner.
func (s *Scanner) Err() error {
	return s.err
}

// Tokenize splits text into records covering it without gaps or overlaps.
func Tokenize(text string) ([]Record, error) {
	var records []Record
	scanner := NewScanner(text)
	for scanner.Scan() {
		records = append(records, scanner.Record())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Serialize concatenates records back into text.
func Serialize(records []Record) string {
	var builder strings.Builder
	for _, record := range records {
		builder.WriteString(record.String())
	}
	return builder.String()
}
