// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"testing"
)

func TestLookupAndAliases(t *testing.T) {
	r := NewRegistry()

	c, ok := r.Lookup("/help")
	if !ok || c.Name != CmdHelp {
		t.Fatalf("Lookup(/help) = %+v, %v", c, ok)
	}
	c, ok = r.Lookup("/?")
	if !ok || c.Name != CmdHelp {
		t.Errorf("alias /? did not resolve: %+v", c)
	}
	if _, ok := r.Lookup("/bogus"); ok {
		t.Error("unknown command resolved")
	}
}

func TestParsePlainMessage(t *testing.T) {
	r := NewRegistry()
	res := r.Parse("what is the water cycle?")
	if res.IsCommand {
		t.Error("plain text classified as command")
	}
}

func TestParseCommandWithArgs(t *testing.T) {
	r := NewRegistry()
	res := r.Parse("/attach  /tmp/lesson plan.pdf")
	if !res.IsCommand || res.Command == nil || res.Command.Name != CmdAttach {
		t.Fatalf("res = %+v", res)
	}
	if res.RawArgs != "/tmp/lesson plan.pdf" {
		t.Errorf("raw args = %q", res.RawArgs)
	}
	if len(res.Args) != 2 {
		t.Errorf("args = %v", res.Args)
	}
}

func TestParseUnknown(t *testing.T) {
	r := NewRegistry()
	res := r.Parse("/frobnicate now")
	if !res.IsCommand {
		t.Fatal("should still classify as command")
	}
	if !errors.Is(res.Err, ErrUnknownCommand) {
		t.Errorf("err = %v", res.Err)
	}
}

func TestComplete(t *testing.T) {
	r := NewRegistry()
	got := r.Complete("/s")
	joined := strings.Join(got, ",")
	if !strings.Contains(joined, "/sessions") || !strings.Contains(joined, "/settings") || !strings.Contains(joined, "/set") {
		t.Errorf("Complete(/s) = %v", got)
	}
	if len(r.Complete("/zzz")) != 0 {
		t.Error("bogus prefix matched")
	}
}

func TestHelpTextListsVisible(t *testing.T) {
	r := NewRegistry()
	help := r.HelpText()
	for _, name := range []string{"/new", "/record", "/voice", "/thought"} {
		if !strings.Contains(help, name) {
			t.Errorf("help missing %s", name)
		}
	}
}
