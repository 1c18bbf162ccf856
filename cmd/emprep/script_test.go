// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/invowk/emprep/internal/testutil"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"emprep": Execute,
	})
}

// TestCLI runs the scripts in testdata against the emprep command.
func TestCLI(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, "xdg"))
			env.Setenv("XDG_CACHE_HOME", filepath.Join(env.WorkDir, "cache"))
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// mkrepo dir commits the files under dir into a fresh repository.
			"mkrepo": func(ts *testscript.TestScript, neg bool, args []string) {
				if neg || len(args) != 1 {
					ts.Fatalf("usage: mkrepo dir")
				}
				if _, err := testutil.CommitDir(ts.MkAbs(args[0]), "initial"); err != nil {
					ts.Fatalf("mkrepo: %v", err)
				}
			},
		},
		ContinueOnError: true,
	})
}
