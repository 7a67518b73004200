// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Command flatc compiles flats schema files into generated Go source
// or text dumps, exercising the actions named in spec.md §6 (direct,
// packed, view, packed_view) plus the debug and obj_map actions
// recovered from original_source/ (SPEC_FULL.md §4).
//
// Grounded on bin/idol/idol.go's command-tree registration loop.
package main

import (
	"context"
	stdflag "flag"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/morganstanley-labs/flats/codegen"
	"github.com/morganstanley-labs/flats/compiler"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
}

func main() {
	ctx := context.Background()

	flatcCmd := &cobra.Command{
		Use: "flatc [options] COMMAND",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	flatcCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, flatcCmd.UsageString())
		os.Exit(1)
		return nil
	}

	commands := []command{
		&cmdGenerate{action: codegen.Direct, name: "direct"},
		&cmdGenerate{action: codegen.Packed, name: "packed"},
		&cmdGenerate{action: codegen.View, name: "view"},
		&cmdGenerate{action: codegen.PackedView, name: "packed_view"},
		&cmdGenerate{action: codegen.Debug, name: "debug"},
		&cmdGenerate{action: codegen.ObjMap, name: "obj_map"},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			RunE: func(_ *cobra.Command, args []string) error {
				os.Exit(cmd.run(ctx, args))
				return nil
			},
		}
		flatcCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	flatcCmd.Flags().AddGoFlagSet(stdflag.CommandLine)
	flatcCmd.ParseFlags(nil)
	if _, err := flatcCmd.ExecuteC(); err != nil {
		os.Exit(1)
	}
}

// cmdGenerate implements every action flatc supports: they all share
// the same "read schema, compile, render one action's output" shape,
// differing only in which codegen.Action is rendered.
type cmdGenerate struct {
	action  codegen.Action
	name    string
	outPath string
}

func (c *cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   c.name + " [options] SCHEMA",
		summary: "compile a flats schema and emit its " + c.name + " output",
	}
}

func (c *cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringVar(&c.outPath, "out", "", "output file (default: stdout)")
}

func (c *cmdGenerate) run(_ context.Context, argv []string) int {
	src, err := readInput(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	compile := compiler.Compile
	if c.action == codegen.Packed || c.action == codegen.PackedView {
		compile = compiler.CompilePacked
	}
	result, err := compile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out, err := codegen.Generate(result, codegen.Options{Action: c.action})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := writeOutput(c.outPath, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// readInput reads the schema from argv[0], or from stdin when no
// positional argument is given.
func readInput(argv []string) (string, error) {
	if len(argv) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(argv[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", argv[0], err)
	}
	return string(data), nil
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
