package eval_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/flowrun/internal/eval"
	"github.com/aledsdavies/flowrun/internal/flow"
	"github.com/aledsdavies/flowrun/internal/proc"
)

// runToString evaluates name against cat and returns whatever was written
// to its output file.
func runToString(t *testing.T, cat *flow.Catalog, name string) (string, error) {
	t.Helper()

	out, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer out.Close()

	e := eval.New(cat)
	evalErr := e.Evaluate(context.Background(), name, out)

	data, readErr := os.ReadFile(out.Name())
	require.NoError(t, readErr)
	return string(data), evalErr
}

func parseFlow(t *testing.T, text string) *flow.Catalog {
	t.Helper()
	cat, err := flow.Parse(strings.NewReader(text))
	require.NoError(t, err)
	return cat
}

// Scenario 1: node only.
func TestEvaluateNodeOnly(t *testing.T) {
	cat := parseFlow(t, `
node=hello
command=printf hello
`)
	out, err := runToString(t, cat, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

// Scenario 2: file source to stdout.
func TestEvaluateFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents\n"), 0o644))

	cat := parseFlow(t, `
file=f
name=`+path+`
`)
	out, err := runToString(t, cat, "f")
	require.NoError(t, err)
	assert.Equal(t, "file contents\n", out)
}

// Scenario 3: simple pipe between two nodes.
func TestEvaluateSimplePipe(t *testing.T) {
	cat := parseFlow(t, `
node=src
command=printf "a\nb\n"

node=up
command=tr a-z A-Z

pipe=P
from=src
to=up
`)
	out, err := runToString(t, cat, "P")
	require.NoError(t, err)
	assert.Equal(t, "A\nB\n", out)
}

// Scenario 4: concatenation ordering.
func TestEvaluateConcatenateOrdering(t *testing.T) {
	cat := parseFlow(t, `
node=one
command=printf 1

node=two
command=printf 2

node=three
command=printf 3

concatenate=c
parts=3
part_0=one
part_1=two
part_2=three
`)
	out, err := runToString(t, cat, "c")
	require.NoError(t, err)
	assert.Equal(t, "123", out)
}

// Scenario 5: stderr capture.
func TestEvaluateStderrCapture(t *testing.T) {
	cat := parseFlow(t, `
node=err
command=printf oops 1>&2

stderr=e
from=err
`)
	out, err := runToString(t, cat, "e")
	require.NoError(t, err)
	assert.Equal(t, "oops", out)
}

// Scenario 6: pipe to a file sink.
func TestEvaluatePipeToFile(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "flow_out")

	cat := parseFlow(t, `
node=src
command=printf hi

file=out
name=`+sink+`

pipe=P
from=src
to=out
`)
	out, err := runToString(t, cat, "P")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, readErr := os.ReadFile(sink)
	require.NoError(t, readErr)
	assert.Equal(t, "hi", string(data))
}

// Scenario 7: a cycle is detected and nothing is spawned.
func TestEvaluateCycleError(t *testing.T) {
	cat := parseFlow(t, `
concatenate=c
parts=1
part_0=c
`)
	_, err := runToString(t, cat, "c")
	require.Error(t, err)

	var cycleErr *eval.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, "c", cycleErr.Name)
}

// Scenario 8: a failing child propagates as a failure.
func TestEvaluateChildFailurePropagates(t *testing.T) {
	cat := parseFlow(t, `
node=bad
command=false
`)
	_, err := runToString(t, cat, "bad")
	require.Error(t, err)

	var childErr *proc.ChildFailedError
	require.ErrorAs(t, err, &childErr)
}

// An undefined reference produces UnknownComponent.
func TestEvaluateUnknownComponent(t *testing.T) {
	cat := parseFlow(t, `
node=hello
command=printf hello
`)
	_, err := runToString(t, cat, "nope")
	require.Error(t, err)

	var unknownErr *flow.UnknownComponentError
	require.ErrorAs(t, err, &unknownErr)
}

// Concatenate with zero parts produces empty output.
func TestEvaluateConcatenateEmpty(t *testing.T) {
	cat := parseFlow(t, `
concatenate=c
parts=0
`)
	out, err := runToString(t, cat, "c")
	require.NoError(t, err)
	assert.Empty(t, out)
}
