package main

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/amonks/lists/internal/config"
	"github.com/amonks/lists/internal/testsupport"
	"github.com/rogpeppe/go-internal/testscript"
	"go.uber.org/zap"
)

func TestListsScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/lists",
		Setup: func(env *testscript.Env) error {
			if err := testsupport.SetupScriptEnv(t, env); err != nil {
				return err
			}
			return startScriptServer(env)
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"envset": testsupport.CmdEnvSet,
			"listid": testsupport.CmdListID,
			"itemid": testsupport.CmdItemID,
		},
	})
}

// startScriptServer runs a server over a JSONL store in the script's work
// dir and points the CLI at it.
func startScriptServer(env *testscript.Env) error {
	cfg := &config.Config{}
	cfg.Auth.Secret = "script-secret"
	cfg.Store.Backend = "jsonl"
	cfg.Store.Path = filepath.Join(env.WorkDir, "data")

	srv, closeStore, err := buildServer(context.Background(), cfg, zap.NewNop())
	if err != nil {
		return err
	}
	httpServer := httptest.NewServer(srv.Handler())
	env.Defer(func() {
		httpServer.Close()
		closeStore()
	})
	env.Setenv(config.EnvURL, httpServer.URL)
	env.Setenv(config.EnvToken, "")
	return nil
}
