package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const lsccConfig = "../../config/testdata/lscc.yaml"

// run executes the CLI with fresh flag values; cobra keeps them between
// executions and slice flags would otherwise accumulate.
func run(args ...string) error {
	for _, cmd := range []*cobra.Command{rootCmd, loadCmd, joinCmd} {
		for _, flags := range []*pflag.FlagSet{cmd.PersistentFlags(), cmd.Flags()} {
			flags.VisitAll(func(f *pflag.Flag) {
				if sv, ok := f.Value.(pflag.SliceValue); ok {
					sv.Replace(nil)
				} else {
					f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
	}

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestLoadCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "proteomics.tsv")
	if err := run("load", "--config", lsccConfig, "--table", "proteomics", "--out", out); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Patient_ID", "C3L-00001", "C3N-00002", "NP_1"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("expected %q in output:\n%s", want, b)
		}
	}

	if err := run("load", "--config", lsccConfig, "--table", "nope", "--out", out); err == nil {
		t.Errorf("expected an error for an unknown table")
	}
	if err := run("load", "--table", "proteomics", "--out", out); err == nil || !strings.Contains(err.Error(), "--config") {
		t.Errorf("expected an error for a missing --config, got %v", err)
	}
}

func TestJoinCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "joined.tsv")
	if err := run("join", "--config", lsccConfig, "--tables", "proteomics,clinical", "--out", out); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "Stage") {
		t.Errorf("expected clinical columns in output:\n%s", b)
	}

	for _, v := range []struct {
		Args     []string
		Expected string
	}{
		{[]string{"join", "--config", lsccConfig, "--tables", "proteomics", "--out", out}, "at least two"},
		{[]string{"join", "--config", lsccConfig, "--tables", "proteomics,clinical", "--how", "sideways", "--out", out}, "unknown join type"},
	} {
		err := run(v.Args...)
		if err == nil || !strings.Contains(err.Error(), v.Expected) {
			t.Errorf("%v: expected an error containing %q, got %v", v.Args, v.Expected, err)
		}
	}
}
