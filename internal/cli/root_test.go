package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/studyhub/internal/config"
)

const wednesday = "2026-10-14T09:00:00Z"

type harness struct {
	t       *testing.T
	cfgPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, key := range []string{"STUDYHUB_DATA_DIR", "STUDYHUB_DRIVER", "STUDYHUB_TZ", "STUDYHUB_USER", "STUDYHUB_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, config.Config{DataDir: filepath.Join(dir, "db"), Timezone: "UTC"}.Save(cfgPath))
	return &harness{t: t, cfgPath: cfgPath}
}

// runAt executes the CLI with the clock fixed at now
func (h *harness) runAt(now string, args ...string) (string, string, int) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", h.cfgPath, "--now", now}, args...)
	code := Execute(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-10-01"}, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func (h *harness) run(args ...string) (string, string, int) {
	h.t.Helper()
	return h.runAt(wednesday, args...)
}

// must runs a command that has to succeed and returns its stdout
func (h *harness) must(args ...string) string {
	h.t.Helper()
	stdout, stderr, code := h.run(args...)
	require.Equal(h.t, ExitSuccess, code, "args %v: %s%s", args, stdout, stderr)
	return stdout
}

func (h *harness) json(v any, args ...string) {
	h.t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	out := h.must(append(args, "--format", "json")...)
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(h.t, "ok", resp.Status)
	require.NoError(h.t, json.Unmarshal(resp.Data, v))
}

// classroomSetup creates teacher tina teaching Biology (id 1) with sam enrolled
func (h *harness) classroomSetup() {
	h.t.Helper()
	h.must("user", "add", "tina", "--role", "teacher")
	h.must("user", "add", "sam")

	var c classroomView
	h.json(&c, "class", "create", "Biology", "--as", "tina")
	require.Len(h.t, c.Code, 6)
	h.must("class", "join", c.Code, "--as", "sam")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	require.NotNil(t, cmd)
	assert.Equal(t, "studyhub", cmd.Use)
	assert.Contains(t, cmd.Long, "assignments")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	commands := [][]string{
		{"user", "add"}, {"user", "list"}, {"user", "use"},
		{"task", "add"}, {"task", "list"}, {"task", "done"}, {"task", "edit"}, {"task", "rm"},
		{"habit", "add"}, {"habit", "list"}, {"habit", "done"}, {"habit", "undo"}, {"habit", "rm"},
		{"class", "create"}, {"class", "list"}, {"class", "join"}, {"class", "leave"}, {"class", "kick"}, {"class", "rm"},
		{"assign", "add"}, {"assign", "list"}, {"assign", "done"}, {"assign", "edit"}, {"assign", "rm"},
		{"subject", "add"}, {"subject", "list"}, {"subject", "rm"},
		{"comment", "add"}, {"comment", "list"},
		{"streak"},
	}

	for _, path := range commands {
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	nowFlag := cmd.PersistentFlags().Lookup("now")
	require.NotNil(t, nowFlag)
	assert.True(t, nowFlag.Hidden)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	stdout, _, code := h.run("--version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "studyhub 1.2.3 (commit: abc123, built: 2026-10-01)\n", stdout)
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("user", "list", "--format", "xml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestNoUserSelected(t *testing.T) {
	h := newHarness(t)
	_, stderr, code := h.run("task", "list")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "no user selected")
}

func TestUserUse_SavesConfig(t *testing.T) {
	h := newHarness(t)
	h.must("user", "add", "sam")
	h.must("user", "use", "SAM")

	file, err := config.ReadFile(h.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "sam", file.User)
	assert.Equal(t, "UTC", file.Timezone)

	stdout := h.must("task", "list")
	assert.Equal(t, "No items.\n", stdout)
}

func TestTaskList_Golden(t *testing.T) {
	h := newHarness(t)
	h.classroomSetup()

	h.must("task", "add", "Laundry", "--due", "2026-10-12", "--priority", "low", "--as", "sam")
	h.must("subject", "add", "Math", "--as", "sam")
	h.must("task", "add", "Problem", "set", "--due", "2026-10-14", "-p", "high", "-s", "Math", "--as", "sam")
	h.must("assign", "add", "1", "Lab report", "--due", "2026-10-16", "--as", "tina")
	h.must("task", "add", "Call home", "--as", "sam")
	h.must("task", "done", "4", "--as", "sam")

	stdout := h.must("task", "list", "--as", "sam")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "task_list_text", []byte(stdout))
}

func TestTaskList_FiltersAndJSON(t *testing.T) {
	h := newHarness(t)
	h.classroomSetup()
	h.must("task", "add", "Laundry", "--due", "2026-10-12", "--as", "sam")
	h.must("task", "add", "Essay", "--due", "2026-10-20", "-p", "high", "--as", "sam")
	h.must("assign", "add", "1", "Quiz", "--due", "2026-10-15", "-p", "low", "--as", "tina")

	var overdue itemList
	h.json(&overdue, "task", "list", "--status", "overdue", "--as", "sam")
	require.Len(t, overdue.Items, 1)
	assert.Equal(t, "Laundry", overdue.Items[0].Title)
	assert.Equal(t, "overdue", overdue.Items[0].Status)

	var byDue itemList
	h.json(&byDue, "task", "list", "--sort-due", "desc", "--as", "sam")
	assert.Equal(t, []string{"Essay", "Quiz", "Laundry"}, listTitles(byDue))

	var assignments itemList
	h.json(&assignments, "task", "list", "--kind", "assignment", "--as", "sam")
	require.Len(t, assignments.Items, 1)
	assert.Equal(t, int64(1), assignments.Items[0].ClassroomID)

	var search itemList
	h.json(&search, "task", "list", "-q", "ESS", "--as", "sam")
	assert.Equal(t, []string{"Essay"}, listTitles(search))
}

func TestTaskEdit(t *testing.T) {
	h := newHarness(t)
	h.must("user", "add", "sam")
	h.must("task", "add", "Draft", "--due", "2026-10-20", "--as", "sam")

	var v itemView
	h.json(&v, "task", "edit", "1", "--title", "Final", "--due", "none", "--as", "sam")
	assert.Equal(t, "Final", v.Title)
	assert.Equal(t, "", v.Due)
	assert.Equal(t, "medium", v.Priority)
}

func TestHabits_AlreadyCompleted(t *testing.T) {
	h := newHarness(t)
	h.must("user", "add", "sam")
	h.must("habit", "add", "Flashcards", "--as", "sam")
	h.must("habit", "done", "1", "--as", "sam")

	stdout, _, code := h.run("habit", "done", "1", "--as", "sam", "--format", "json")
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_COMPLETED", resp.Error.Code)

	var undone habitView
	h.json(&undone, "habit", "undo", "1", "--as", "sam")
	assert.False(t, undone.DoneToday)
	assert.Equal(t, 0, undone.Streak)
}

func TestStreak_Golden(t *testing.T) {
	h := newHarness(t)
	h.must("user", "add", "sam")
	h.must("habit", "add", "Flashcards", "--as", "sam")
	h.must("habit", "add", "Stretch", "--as", "sam")
	h.must("task", "add", "Essay", "--due", "2026-10-13", "--as", "sam")
	h.must("task", "done", "3", "--as", "sam")

	_, _, code := h.runAt("2026-10-13T20:00:00Z", "habit", "done", "1", "--as", "sam")
	require.Equal(t, ExitSuccess, code)
	h.must("habit", "done", "1", "--as", "sam")

	stdout := h.must("streak", "--as", "sam")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "streak_text", []byte(stdout))
}

func TestClassroomLifecycle(t *testing.T) {
	h := newHarness(t)
	h.classroomSetup()
	h.must("user", "add", "ola")

	_, stderr, code := h.run("class", "create", "Art", "--as", "sam")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "Error [AUTHORIZATION]")

	var list classroomList
	h.json(&list, "class", "list", "--as", "sam")
	require.Len(t, list.Classrooms, 1)
	assert.Equal(t, 1, list.Classrooms[0].Students)

	_, stderr, code = h.run("class", "join", list.Classrooms[0].Code, "--as", "sam")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "already in this class")

	h.must("assign", "add", "1", "Essay", "--as", "tina")
	var a itemView
	h.json(&a, "assign", "done", "1", "--as", "sam")
	assert.Equal(t, "completed", a.Status)
	assert.Equal(t, 1, a.Completions)

	_, _, code = h.run("assign", "list", "1", "--as", "ola")
	assert.Equal(t, ExitFailure, code, "outsiders cannot list the classroom")

	h.must("comment", "add", "1", "Done", "early!", "--as", "sam")
	stdout := h.must("comment", "list", "1", "--as", "tina")
	assert.Equal(t, "#1 sam: Done early!\n", stdout)

	h.must("class", "kick", "1", "sam", "--as", "tina")
	h.json(&list, "class", "list", "--as", "sam")
	assert.Empty(t, list.Classrooms)

	stdout = h.must("class", "rm", "1", "--as", "tina")
	assert.Equal(t, "Deleted classroom 1.\n", stdout)
	_, _, code = h.run("assign", "list", "1", "--as", "tina")
	assert.Equal(t, ExitFailure, code)
}

func TestDefault_PrintsListWhenNotATerminal(t *testing.T) {
	h := newHarness(t)
	h.must("user", "add", "sam")
	h.must("task", "add", "Laundry", "--as", "sam")

	stdout := h.must("--as", "sam")
	assert.Contains(t, stdout, "Laundry")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f))
}

func listTitles(l itemList) []string {
	out := make([]string, len(l.Items))
	for i, v := range l.Items {
		out[i] = v.Title
	}
	return out
}
