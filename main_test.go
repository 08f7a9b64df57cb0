package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"timelane/layout"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--env", filepath.Join(t.TempDir(), ".env")}, args...)
	err := run(context.Background(), args, &stdout, &stderr, mustDate(t, "2024-07-01"))
	return stdout.String(), stderr.String(), err
}

func TestRun_SVG(t *testing.T) {
	in := writeFile(t, "items.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "plan.svg")

	stdout, stderr, err := runCLI(t, "--csv", in, "--output", out, "--group-by", "Team", "--zoom", "day")
	require.NoError(t, err)
	require.Contains(t, stdout, "Timeline generated successfully: "+out)
	require.Contains(t, stderr, "loaded items")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `data-zoom="day"`)
	require.Contains(t, string(data), ">web</tspan>")
	require.Contains(t, string(data), "data-scroll-now=")
}

func TestRun_Text(t *testing.T) {
	in := writeFile(t, "items.csv", sampleCSV)

	stdout, _, err := runCLI(t, "--csv", in, "--format", "TEXT", "--from", "2024-01-01")
	require.NoError(t, err)
	require.Contains(t, stdout, "Timeline 2024-01 to 2024-12")
	require.Contains(t, stdout, "Design")
	require.NotContains(t, stdout, "Schema", "starts before the window")
}

func TestRun_WindowEndIncludesWholeDay(t *testing.T) {
	in := writeFile(t, "items.csv", "id,name,start,end\n1,Standup,2024-01-31 09:00,2024-01-31 09:15\n2,Retro,2024-02-01 10:00,2024-02-01 11:00\n")

	stdout, _, err := runCLI(t, "--csv", in, "--format", "text", "--to", "2024-01-31")
	require.NoError(t, err)
	require.Contains(t, stdout, "Standup")
	require.NotContains(t, stdout, "Retro")
}

func TestRun_ConfigFromEnv(t *testing.T) {
	in := writeFile(t, "items.csv", sampleCSV)
	cfgPath := writeFile(t, "timelane.yaml", "zoom:\n  mode: external\n  current: Year\n")
	t.Setenv("TIMELANE_CONFIG_PATH", cfgPath)
	t.Setenv("TIMELANE_GROUP_BY", "team")

	stdout, _, err := runCLI(t, "--csv", in, "--format", "text")
	require.NoError(t, err)
	require.Contains(t, stdout, "zoom Year (4.5 px/day)")
	require.Contains(t, stdout, "api")
}

func TestRun_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "plan.db")
	store, err := openStore(context.Background(), dbPath)
	require.NoError(t, err)
	_, err = store.Exec(`CREATE TABLE tasks (id TEXT, name TEXT, start TEXT, "end" TEXT, team TEXT)`)
	require.NoError(t, err)
	_, err = store.Exec(`INSERT INTO tasks VALUES ('1', 'Migrate', '2024-02-01', '2024-02-15', 'ops')`)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	stdout, _, err := runCLI(t, "--db", dbPath, "--table", "tasks", "--format", "text", "--group-by", "team")
	require.NoError(t, err)
	require.Contains(t, stdout, "Migrate")
	require.Contains(t, stdout, "ops")
}

func TestRun_Errors(t *testing.T) {
	in := writeFile(t, "items.csv", sampleCSV)

	_, stderr, err := runCLI(t)
	require.ErrorContains(t, err, "exactly one of --csv or --db")
	require.Contains(t, stderr, "Usage: timelane")

	_, _, err = runCLI(t, "--csv", in, "--db", "plan.db")
	require.ErrorContains(t, err, "exactly one of --csv or --db")

	missing := filepath.Join(t.TempDir(), "typo.db")
	_, _, err = runCLI(t, "--db", missing)
	require.ErrorIs(t, err, errDatabaseNotFound)
	require.NoFileExists(t, missing)

	_, _, err = runCLI(t, "--csv", in, "--format", "pdf")
	require.ErrorContains(t, err, `unknown format "pdf"`)

	_, _, err = runCLI(t, "--help")
	require.ErrorIs(t, err, flag.ErrHelp)

	_, _, err = runCLI(t, "--csv", in, "--format", "text", "--from", "2030-01-01")
	require.ErrorIs(t, err, layout.ErrEmptyDataset)
	require.EqualError(t, err, "no timeline items to display")
}

func TestRun_RejectInvalid(t *testing.T) {
	in := writeFile(t, "items.csv", sampleCSV+"5,Broken,2024-04-02,2024-04-01,web,\n")
	cfgPath := writeFile(t, "timelane.yaml", "validation:\n  invalid_items: reject\n")

	_, _, err := runCLI(t, "--csv", in, "--config", cfgPath, "--format", "text")
	require.ErrorIs(t, err, layout.ErrInvalidRange)

	var itemErr *layout.ItemError
	require.ErrorAs(t, err, &itemErr)
	require.Equal(t, "5", itemErr.ID)
}
