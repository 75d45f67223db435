package main

import (
	"errors"
	"testing"

	"github.com/amonks/lists/listable"
	"github.com/spf13/cobra"
)

func TestTypeValue(t *testing.T) {
	var target listable.Type
	cmd := &cobra.Command{Use: "create"}
	cmd.Flags().VarP(newTypeValue(&target, listable.TypeToDo), "type", "t", "")

	if target != listable.TypeToDo {
		t.Fatalf("expected default todo, got %q", target)
	}
	if err := cmd.Flags().Parse([]string{"-t", " Shop "}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if target != listable.TypeShop {
		t.Fatalf("expected shop, got %q", target)
	}

	err := typeValue{target: &target}.Set("board")
	if !errors.Is(err, listable.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if err := cmd.Flags().Set("type", "board"); err == nil {
		t.Fatal("expected flag set to fail")
	}
	if target != listable.TypeShop {
		t.Fatalf("expected rejected value to leave target unchanged, got %q", target)
	}
}
