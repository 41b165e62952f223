package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runFixture(t *testing.T, input, expression string, mode Mode, policy ErrorPolicy, parallelization Parallelization) string {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.csv")
	outPath := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o644))

	opts := Options{
		Expression:      expression,
		Input:           &inPath,
		Output:          &outPath,
		Delimiter:       ',',
		Mode:            mode,
		ErrorPolicy:     policy,
		Parallelization: parallelization,
	}
	require.NoError(t, Run(context.Background(), opts))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	return string(out)
}

func TestScenarioForeachPanicWritesNothing(t *testing.T) {
	got := runFixture(t, "a,b,c\n1,2,3\n", "1", ModeForeach, PolicyPanic, ParallelNone())
	require.Empty(t, got)
}

func TestScenarioMapSumsTwoColumns(t *testing.T) {
	got := runFixture(t, "a,b\n1,2\n10,20\n", `col("a") + col("b")`, ModeMap, PolicyPanic, ParallelNone())
	require.Equal(t, "a,b,result\n1,2,3\n10,20,30\n", got)
}

func TestScenarioFilterKeepsGreaterThanOne(t *testing.T) {
	got := runFixture(t, "a\n1\n2\n3\n", `col("a") > 1`, ModeFilter, PolicyPanic, ParallelNone())
	require.Equal(t, "a\n2\n3\n", got)
}

func TestScenarioIfElseBranchNeverFaults(t *testing.T) {
	got := runFixture(t, "a\n1\n", `if(col("a"), "yes", 1 / col("a"))`, ModeMap, PolicyPanic, ParallelNone())
	require.Equal(t, "a,result\n1,yes\n", got)
}

func TestScenarioMapOverListLiteral(t *testing.T) {
	got := runFixture(t, "a\n1\n", `map([1,2,3], x => x * 2)`, ModeMap, PolicyPanic, ParallelNone())
	require.Equal(t, "a,result\n1,\"[2,4,6]\"\n", got)
}

func TestScenarioForeachTryWithLogPolicyContinues(t *testing.T) {
	got := runFixture(t, "a\n0\n2\n", `try(1 / col("a"))`, ModeForeach, PolicyLog, ParallelNone())
	require.Empty(t, got)
}

func TestOrderPreservedUnderParallelism(t *testing.T) {
	var input string
	input = "a\n"
	for i := 0; i < 200; i++ {
		input += "x\n"
	}
	sequential := runFixture(t, input, "index()", ModeMap, PolicyPanic, ParallelNone())
	parallel := runFixture(t, input, "index()", ModeMap, PolicyPanic, ParallelCount(8))
	require.Equal(t, sequential, parallel)
}

func TestMapModeUnderPanicPolicyAbortsOnRowError(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.csv")
	outPath := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(inPath, []byte("a\n0\n"), 0o644))

	opts := Options{
		Expression:      `1 / col("a")`,
		Input:           &inPath,
		Output:          &outPath,
		Delimiter:       ',',
		Mode:            ModeMap,
		ErrorPolicy:     PolicyPanic,
		Parallelization: ParallelNone(),
	}
	err := Run(context.Background(), opts)
	require.Error(t, err)
}

func TestNoHeadersSynthesizesPositionalNames(t *testing.T) {
	got := runFixtureNoHeaders(t, "1,2\n3,4\n", `col("0") + col("1")`)
	require.Equal(t, "1,2,3\n3,4,7\n", got)
}

func runFixtureNoHeaders(t *testing.T, input, expression string) string {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.csv")
	outPath := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(inPath, []byte(input), 0o644))

	opts := Options{
		Expression:      expression,
		Input:           &inPath,
		Output:          &outPath,
		Delimiter:       ',',
		NoHeaders:       true,
		Mode:            ModeMap,
		ErrorPolicy:     PolicyPanic,
		Parallelization: ParallelNone(),
	}
	require.NoError(t, Run(context.Background(), opts))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	return string(out)
}
