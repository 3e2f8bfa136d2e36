package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/chorechamp/internal/database"
	"github.com/dukerupert/chorechamp/internal/household"
	"github.com/dukerupert/chorechamp/internal/model"
	"github.com/dukerupert/chorechamp/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// seedDB writes a small household to a fresh database file.
func seedDB(t *testing.T, path string) {
	t.Helper()
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	s := household.New(ctx, store.NewCollectionStore(db), discard)
	s.SetHouseholdName(ctx, "The Burrow")
	sam := s.AddMember(ctx, "Sam", "")
	s.AddMember(ctx, "Alex", "")
	c := s.AddChore(ctx, model.ChoreInput{Name: "Dishes", Points: 10, AssignedTo: &sam.ID})
	s.ToggleChoreCompletion(ctx, c.ID)
}

func setEnv(t *testing.T, dbPath string) {
	t.Helper()
	t.Setenv("CHORECHAMP_DB_PATH", dbPath)
	t.Setenv("CHORECHAMP_LOG_LEVEL", "error")
	t.Setenv(passphraseEnv, "")
}

func TestLeaderboardCmd(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chorechamp.db")
	setEnv(t, dbPath)
	seedDB(t, dbPath)

	out, err := runCmd(t, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if lines[0] != "The Burrow" {
		t.Errorf("title = %q", lines[0])
	}
	if f := strings.Fields(lines[2]); len(f) != 4 || f[1] != "Sam" || f[2] != "10" || f[3] != "1" {
		t.Errorf("first row = %q", lines[2])
	}
	if f := strings.Fields(lines[3]); len(f) != 4 || f[1] != "Alex" || f[2] != "0" {
		t.Errorf("second row = %q", lines[3])
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "empty.db"))

	out, err := runCmd(t, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "no members yet") {
		t.Errorf("output = %q", out)
	}
}

func TestExportImport(t *testing.T) {
	dir := t.TempDir()
	srcDB := filepath.Join(dir, "src.db")
	snapshot := filepath.Join(dir, "household.snap")

	setEnv(t, srcDB)
	seedDB(t, srcDB)

	out, err := runCmd(t, "export", snapshot, "--passphrase", "hunter2")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "exported 3 collections") || !strings.Contains(out, "  choreChampionMembers\n") {
		t.Errorf("export output = %q", out)
	}

	dstDB := filepath.Join(dir, "dst.db")
	t.Setenv("CHORECHAMP_DB_PATH", dstDB)

	if _, err := runCmd(t, "import", snapshot, "--passphrase", "wrong"); err == nil {
		t.Error("import with wrong passphrase should fail")
	}

	t.Setenv(passphraseEnv, "hunter2")
	out, err = runCmd(t, "import", snapshot)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	wantLines := []string{
		"imported 3 collections from " + snapshot,
		"  choreChampionChores",
		"  choreChampionHouseholdName",
		"  choreChampionMembers",
	}
	if got := strings.TrimSpace(out); got != strings.Join(wantLines, "\n") {
		t.Errorf("import output:\n%s\nwant:\n%s", out, strings.Join(wantLines, "\n"))
	}

	out, err = runCmd(t, "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.HasPrefix(out, "The Burrow\n") || !strings.Contains(out, "Sam") {
		t.Errorf("imported leaderboard = %q", out)
	}
}

func TestExportRequiresPassphrase(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "db.db"))

	if _, err := runCmd(t, "export", filepath.Join(dir, "out.snap")); err == nil {
		t.Error("export without a passphrase should fail")
	}
}

func TestBadConfigFile(t *testing.T) {
	setEnv(t, filepath.Join(t.TempDir(), "db.db"))

	if _, err := runCmd(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "leaderboard"); err == nil {
		t.Error("missing config file should fail")
	}
}
