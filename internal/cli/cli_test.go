// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"-q", "ask", "--verbose", "hello"})
	if !args.Quiet || !args.Verbose {
		t.Errorf("global flags not parsed: %+v", args)
	}
	if len(remaining) != 2 || remaining[0] != "ask" || remaining[1] != "hello" {
		t.Errorf("remaining = %v", remaining)
	}
}

func TestParseAskArgs(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"explain", "photosynthesis", "--file", "notes.pdf"})
	if args.Query != "explain photosynthesis" {
		t.Errorf("query = %q", args.Query)
	}
	if args.File != "notes.pdf" {
		t.Errorf("file = %q", args.File)
	}

	var eq Args
	parseAskArgs(&eq, []string{"--file=sheet.png", "grade", "this"})
	if eq.File != "sheet.png" || eq.Query != "grade this" {
		t.Errorf("equals form: file=%q query=%q", eq.File, eq.Query)
	}
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"search", "long", "division", "--limit", "5", "--json"})

	if p.Subcommand() != "search" {
		t.Errorf("subcommand = %q", p.Subcommand())
	}
	if p.Rest() != "long division" {
		t.Errorf("rest = %q", p.Rest())
	}
	if p.IntFlag("limit", 20) != 5 {
		t.Errorf("limit = %d", p.IntFlag("limit", 20))
	}
	if !p.BoolFlag("json") {
		t.Error("json flag not detected")
	}
	if p.BoolFlag("missing") {
		t.Error("missing flag reported as set")
	}
}

func TestArgParserEqualsAndBools(t *testing.T) {
	p := NewArgParser([]string{"set", "--format=json", "--confirm=false"})
	if p.Flag("format") != "json" {
		t.Errorf("format = %q", p.Flag("format"))
	}
	if p.BoolFlag("confirm") {
		t.Error("confirm=false should read as unset")
	}
	if p.IntFlag("format", 7) != 7 {
		t.Error("non-numeric flag should fall back to default")
	}
}

func TestParseGrades(t *testing.T) {
	grades, err := parseGrades("3, 4 5")
	if err != nil {
		t.Fatalf("parseGrades: %v", err)
	}
	if len(grades) != 3 || grades[0] != 3 || grades[2] != 5 {
		t.Errorf("grades = %v", grades)
	}

	if _, err := parseGrades("3,x"); err == nil {
		t.Error("expected error for non-numeric grade")
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 9 {
			t.Errorf("line too long: %q", line)
		}
	}

	if WrapText("short", 80) != "short" {
		t.Error("short text should pass through")
	}
	if got := WrapText("keep\nlines", 80); got != "keep\nlines" {
		t.Errorf("newlines not preserved: %q", got)
	}
}
