package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &harness{t: t, dir: t.TempDir()}
}

// run executes one CLI invocation against the harness data directory.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := newApp()
	defer a.close()

	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", h.dir, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestInit_SeedsEmptyPoolsOnce(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("init")
	assert.Contains(t, out, "Created pools.yaml")
	assert.Contains(t, out, "Seeded 28 pool entries")
	assert.FileExists(t, filepath.Join(h.dir, "pools.yaml"))

	out = h.mustRun("init")
	assert.Contains(t, out, "Kept existing pools.yaml")
	assert.Contains(t, out, "Seeded 0 pool entries")

	out = h.mustRun("mood", "list")
	assert.Contains(t, out, "Jealous")
	assert.Equal(t, 9, strings.Count(out, "\n"))
}

func TestCourseAndStudentCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("course", "add", "Monday", "evening")
	out := h.mustRun("course", "list")
	assert.Contains(t, out, "Monday evening")

	h.mustRun("student", "add", "monday evening", "Ana", "Ben", "Cleo")
	h.mustRun("student", "rename", "Monday evening", "ben", "Benjamin")
	h.mustRun("student", "rm", "Monday evening", "Cleo")

	out = h.mustRun("student", "list", "Monday evening")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Benjamin")
	assert.NotContains(t, out, "Cleo")

	_, err := h.run("student", "rm", "Monday evening", "Zoe")
	require.Error(t, err)

	h.mustRun("course", "rename", "Monday evening", "Tuesday")
	h.mustRun("course", "rm", "tuesday")
	out = h.mustRun("course", "list")
	assert.Contains(t, out, "No courses yet")
}

func TestPoolCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("place", "add", "Beach", "Moon")
	h.mustRun("place", "rename", "moon", "Dark side of the moon")
	h.mustRun("place", "rm", "Beach")

	out := h.mustRun("place", "list")
	assert.Contains(t, out, "Dark side of the moon")
	assert.NotContains(t, out, "Beach")

	_, err := h.run("character", "rename", "nobody", "x")
	require.Error(t, err)
}

func seedClass(h *harness) {
	h.mustRun("init")
	h.mustRun("course", "add", "Monday")
	h.mustRun("student", "add", "Monday", "Ana", "Ben", "Cleo")
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	h := newHarness(t)
	seedClass(h)

	first := h.mustRun("generate", "--course", "Monday", "--seed", "42", "--places", "2")
	second := h.mustRun("generate", "--course", "monday", "--seed", "42", "--places", "2")
	assert.Equal(t, first, second)
	for _, name := range []string{"Ana", "Ben", "Cleo", "Places:"} {
		assert.Contains(t, first, name)
	}

	md := h.mustRun("generate", "-c", "Monday", "-s", "Ana", "--seed", "1", "--format", "markdown")
	assert.Contains(t, md, "| Student | Character | Mood |")
	assert.Contains(t, md, "| Ana |")
	assert.NotContains(t, md, "Ben")
}

func TestGenerate_ValidationMessages(t *testing.T) {
	h := newHarness(t)
	seedClass(h)

	_, err := h.run("generate", "--course", "Monday", "--places", "20")
	require.Error(t, err)
	assert.Equal(t, "maximum 8 places available", err.Error())

	_, err = h.run("generate", "--course", "Monday", "--places", "0")
	require.Error(t, err)
	assert.Equal(t, "at least one place required", err.Error())

	h.mustRun("course", "add", "Empty")
	_, err = h.run("generate", "--course", "Empty")
	require.Error(t, err)
	assert.Equal(t, "select at least one student", err.Error())

	_, err = h.run("generate")
	require.Error(t, err)
}

func TestPoolsExportImport(t *testing.T) {
	src := newHarness(t)
	src.mustRun("init")
	file := filepath.Join(t.TempDir(), "export.yaml")
	src.mustRun("pools", "export", file)

	dst := newHarness(t)
	out := dst.mustRun("pools", "import", file)
	assert.Contains(t, out, "Imported 28 entries")

	// Ids are kept, so a second import updates in place.
	dst.mustRun("pools", "import", file)
	assert.Equal(t, src.mustRun("character", "list"), dst.mustRun("character", "list"))
}

func TestMigrateLegacy(t *testing.T) {
	h := newHarness(t)
	dump := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(dump, []byte(`{
		"cre-impro~places": "[{\"id\":\"p1\",\"name\":\"Beach\"}]",
		"cre-impro~courses": "[{\"id\":\"k1\",\"name\":\"Monday\",\"students\":[{\"id\":\"s1\",\"name\":\"Ana\"}]}]"
	}`), 0644))

	out := h.mustRun("migrate-legacy", "--dry-run", dump)
	assert.Contains(t, out, "cre-impro~places → caucus~places")
	assert.Contains(t, out, "Found 2 items")
	assert.Contains(t, h.mustRun("place", "list"), "No places yet")

	out = h.mustRun("migrate-legacy", dump)
	assert.Contains(t, out, "Imported 2 items")
	assert.Contains(t, h.mustRun("place", "list"), "Beach")
	assert.Contains(t, h.mustRun("student", "list", "k1"), "Ana")
}
