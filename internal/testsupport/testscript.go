package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/lists/listable"
	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	listsPath string
	buildErr  error
)

// BuildLists builds the lists binary once and returns its path.
func BuildLists(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "lists-bin-")
		if err != nil {
			buildErr = err
			return
		}

		listsPath = filepath.Join(binDir, "lists")
		cmd := exec.Command("go", "build", "-o", listsPath, "./cmd/lists")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build lists: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return listsPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("LISTS", BuildLists(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdListID finds a listable by name in `lists ls --json` output and stores
// its ID in an env var.
func CmdListID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("listid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: listid FILE NAME VAR")
	}

	var listables []listable.Listable
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &listables); err != nil {
		ts.Fatalf("parse listables: %v", err)
	}

	name := args[1]
	for _, l := range listables {
		if l.Name == name {
			ts.Setenv(args[2], l.ID)
			return
		}
	}

	ts.Fatalf("listable named %q not found", name)
}

// CmdItemID finds an item by name in `lists show --json` output and stores
// its ID in an env var.
func CmdItemID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("itemid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: itemid FILE NAME VAR")
	}

	var list listable.ListWithItems
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		ts.Fatalf("parse list: %v", err)
	}

	name := args[1]
	for _, item := range list.Items {
		if item.Name == name {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("item named %q not found", name)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
