package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/taskdeck/pkg/config"
	"github.com/harrisonrobin/taskdeck/pkg/model"
)

func newTestApp(dir string, stdin string, out *bytes.Buffer, args ...string) *app {
	a := newApp("test")
	a.root.SetOut(out)
	a.root.SetErr(out)
	a.root.SetIn(strings.NewReader(stdin))
	a.root.SetArgs(append([]string{"--config", filepath.Join(dir, "config.yaml")}, args...))
	return a
}

func run(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newTestApp(dir, stdin, &out, args...).execute()
	return out.String(), err
}

const orgFile = `* TODO Collect numbers :finance:
  :PROPERTIES:
  :ID: n1
  :END:
* TODO Write report :finance:
  DEADLINE: <2000-01-10 Mon>
  :PROPERTIES:
  :ID: r1
  :BLOCKER: n1
  :END:
`

func TestImportOrgThenExport(t *testing.T) {
	dir := t.TempDir()
	org := filepath.Join(dir, "work.org")
	require.NoError(t, os.WriteFile(org, []byte(orgFile), 0600))

	out, err := run(t, dir, "", "import", "org", org)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2 tasks.")

	out, err = run(t, dir, "", "export")
	require.NoError(t, err)
	var exported []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "Collect numbers", exported[0].Name)
	assert.Equal(t, []string{exported[0].ID}, exported[1].Dependencies)

	out, err = run(t, dir, "", "export", "--format", "yaml")
	require.NoError(t, err)
	var fromYAML []model.Task
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Len(t, fromYAML, 2)

	_, err = run(t, dir, "", "export", "--format", "xml")
	assert.Error(t, err)
}

func TestListOverdue(t *testing.T) {
	dir := t.TempDir()
	org := filepath.Join(dir, "work.org")
	require.NoError(t, os.WriteFile(org, []byte(orgFile), 0600))
	_, err := run(t, dir, "", "import", "org", org)
	require.NoError(t, err)

	out, err := run(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Collect numbers")
	assert.Contains(t, out, "Write report")

	assert.Contains(t, out, "│ 0 │ Collect numbers")
	assert.Contains(t, out, "│ 1 │ Write report")

	// the overdue task still names its dependency, so look at rows by index
	out, err = run(t, dir, "", "list", "--overdue")
	require.NoError(t, err)
	assert.Contains(t, out, "│ 1 │ Write report")
	assert.NotContains(t, out, "│ 0 │")
	assert.Equal(t, 1, strings.Count(out, "│ Pending │"))
}

func TestImportTaskwarriorFromStdin(t *testing.T) {
	dir := t.TempDir()
	export := `[{"uuid":"a","description":"Plan","status":"pending"},
{"uuid":"b","description":"Build","status":"pending","depends":"a"},
{"uuid":"c","description":"Gone","status":"deleted"}]`

	out, err := run(t, dir, export, "import", "taskwarrior", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2 tasks.")
}

func TestDBFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "other.db")

	_, err := run(t, dir, "[]", "--db", db, "import", "taskwarrior", "-")
	require.NoError(t, err)
	_, err = os.Stat(db)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "tasks.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigSetDBAndShow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "data", "work.db")

	out, err := run(t, dir, "", "config", "set-db", db)
	require.NoError(t, err)
	assert.Contains(t, out, db)

	cfg, err := config.LoadFrom(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, db, cfg.DBPath)

	out, err = run(t, dir, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "db_path: "+db)
}

func TestConfigSetDBDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	db := filepath.Join(home, "work.db")

	var out bytes.Buffer
	a := newApp("test")
	a.root.SetOut(&out)
	a.root.SetArgs([]string{"config", "set-db", db})
	require.NoError(t, a.execute())

	path := filepath.Join(home, ".config", "taskdeck", "config.yaml")
	assert.Equal(t, path, a.configPath)
	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, db, cfg.DBPath)
}

func TestLogFileClosedOnCommandError(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	a := newTestApp(dir, "", &out, "export", "--format", "xml")

	require.Error(t, a.execute())
	assert.Nil(t, a.logFile)
	_, err := os.Stat(filepath.Join(dir, "taskdeck.log"))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "taskdeck test\n", out)
}
