package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddAllFlagBindsTarget(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "show"}
	AddAllFlag(cmd, &all)

	if err := cmd.Flags().Parse([]string{"-a"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if !all {
		t.Fatal("expected --all to be set")
	}
}

func TestAddAllFlagWithoutTarget(t *testing.T) {
	cmd := &cobra.Command{Use: "show"}
	AddAllFlag(cmd, nil)

	if err := cmd.Flags().Parse([]string{"--all"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil || !all {
		t.Fatalf("expected --all to be set, got %v (%v)", all, err)
	}
}
