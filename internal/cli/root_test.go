package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v %v", name, sub, err)
		}
	}
	if cmd.PersistentFlags().Lookup("config") == nil || cmd.PersistentFlags().Lookup("port") == nil {
		t.Fatalf("expected persistent config and port flags")
	}
}

func TestMigrateRequiresPostgres(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path, "migrate"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "postgres url not configured") {
		t.Fatalf("expected missing postgres error, got %v", err)
	}
}
