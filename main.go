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
	"strings"

	"github.com/spf13/cobra"
)

// gatherInput concatenates the named files, or stdin when there are none.
// Every fragment ends with a newline. Files that cannot be read are reported
// on stderr and left out.
func gatherInput(paths []string, stdin io.Reader, stderr io.Writer) string {
	var builder strings.Builder
	appendFragment := func(data []byte) {
		builder.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			builder.WriteByte('\n')
		}
	}
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
		}
		appendFragment(data)
		return builder.String()
	}
	for _, path := range paths {
		if verbose {
			_, _ = fmt.Fprintf(stderr, "Reading %v\n", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			continue
		}
		appendFragment(data)
	}
	return builder.String()
}

// run rewrites the input named by args and writes the result to stdout.
// Nothing is written to stdout unless the whole pipeline succeeds.
func run(args []string, stopAfter string, stdin io.Reader, stdout, stderr io.Writer) error {
	pipeline, err := NewPipeline(stopAfter)
	if err != nil {
		return err
	}
	pipeline.Log = stderr
	output, err := pipeline.Run(gatherInput(args, stdin, stderr))
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, output)
	return err
}

var verbose bool

var command = &cobra.Command{
	Use:   "arm-as-to-ios [file...]",
	Short: "Rewrite GNU ARM assembly so that Apple's assembler accepts it",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stopAfter, _ := cmd.PersistentFlags().GetString("stop-after")
		if err := run(args, stopAfter, os.Stdin, os.Stdout, os.Stderr); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "if set, increase verbosity level")
	command.PersistentFlags().String("stop-after", "", "stop after the named pass ("+strings.Join(ListPasses(), ", ")+")")
}

func main() {
	if err := command.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
