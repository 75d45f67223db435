package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/amonks/lists/listable"
	"github.com/spf13/cobra"
)

func TestReadPasswordFromPipe(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("alice@example.com\nsecret123\n"))
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	in := bufio.NewReader(cmd.InOrStdin())

	email, err := promptValue(cmd, in, "Email: ", "")
	if err != nil || email != "alice@example.com" {
		t.Fatalf("unexpected email %q (%v)", email, err)
	}
	password, err := readPassword(cmd, in, "Password: ")
	if err != nil || password != "secret123" {
		t.Fatalf("unexpected password %q (%v)", password, err)
	}
	if stderr.String() != "Email: " {
		t.Fatalf("expected only the email prompt, got %q", stderr.String())
	}
}

func TestReadPasswordWithoutTrailingNewline(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("secret123"))
	password, err := readPassword(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
	if err != nil || password != "secret123" {
		t.Fatalf("unexpected password %q (%v)", password, err)
	}
}

func TestReadPasswordEmptyInput(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(""))
	if _, err := readPassword(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: "); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestPromptValueUsesFlag(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(""))
	value, err := promptValue(cmd, bufio.NewReader(cmd.InOrStdin()), "Email: ", " bob@example.com ")
	if err != nil || value != "bob@example.com" {
		t.Fatalf("unexpected value %q (%v)", value, err)
	}
}

func TestFormatUser(t *testing.T) {
	got := formatUser(listable.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Location: "Lisbon, Portugal"})
	want := "Alice\nEmail:    alice@example.com\nLocation: Lisbon, Portugal\nID:       u1\n"
	if got != want {
		t.Fatalf("formatUser() = %q, want %q", got, want)
	}
}
