package challenge

import (
	"errors"
	"testing"
	"time"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsContainsDuplicate = `
var containsDuplicate = function(nums) {
    return new Set(nums).size !== nums.length;
};
`

const pyContainsDuplicate = `
def contains_duplicate(nums):
    seen = set()
    for n in nums:
        if n in seen:
            return True
        seen.add(n)
    return False
`

func TestRunnerJavaScriptCorrect(t *testing.T) {
	p := containsDuplicateProblem(t)
	r := NewRunner(0)

	report, err := r.RunAll(p, types.LanguageJavaScript, jsContainsDuplicate)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Passed)
	assert.True(t, report.AllPassed())
	assert.True(t, report.Results[2].Hidden)

	visible, err := r.RunVisible(p, types.LanguageJavaScript, jsContainsDuplicate)
	require.NoError(t, err)
	assert.Equal(t, 2, visible.Total)
	assert.True(t, visible.AllPassed())
}

func TestRunnerJavaScriptWrongAnswer(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := `function containsDuplicate(nums) { return false; }`

	report, err := NewRunner(0).RunAll(p, types.LanguageJavaScript, code)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Passed)
	assert.False(t, report.AllPassed())
	assert.False(t, report.Results[0].Passed)
	assert.Equal(t, "false", report.Results[0].Output)
	assert.Equal(t, false, report.Results[0].Actual)
	assert.True(t, report.Results[1].Passed)
}

func TestRunnerMissingReturnValue(t *testing.T) {
	p := containsDuplicateProblem(t)

	tests := []struct {
		name   string
		code   string
		output string
	}{
		{"undefined", `var containsDuplicate = function(nums) {};`, "undefined"},
		{"null", `var containsDuplicate = function(nums) { return null; };`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, tt.code)
			require.NoError(t, err)
			assert.Equal(t, 0, report.Passed)
			for _, res := range report.Results {
				assert.Equal(t, tt.output, res.Output)
				assert.Nil(t, res.Actual)
				assert.Empty(t, res.Error)
			}
		})
	}
}

func TestRunnerCompilationErrors(t *testing.T) {
	p := containsDuplicateProblem(t)

	tests := []struct {
		name    string
		code    string
		message string
	}{
		{"syntax error", `var containsDuplicate = function(nums) {`, "SyntaxError"},
		{"missing function", `var other = 1;`, "expected containsDuplicate to be a function, but got undefined"},
		{"not a function", `var containsDuplicate = 42;`, "but got number"},
		{"throws at load", `throw new Error("load failed");`, "load failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, tt.code)
			require.Error(t, err)
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, ErrCompilation))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRunnerTimeout(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := `var containsDuplicate = function(nums) { while (true) {} };`

	start := time.Now()
	report, err := NewRunner(50*time.Millisecond).RunVisible(p, types.LanguageJavaScript, code)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.False(t, res.Passed)
		assert.Equal(t, ErrTimeout.Error(), res.Error)
	}
}

func TestRunnerTimeoutAtLoad(t *testing.T) {
	p := containsDuplicateProblem(t)
	_, err := NewRunner(50*time.Millisecond).RunVisible(p, types.LanguageJavaScript, `for (;;) {}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompilation))
	assert.Contains(t, err.Error(), "timed out")
}

func TestRunnerRecoversAfterTimeout(t *testing.T) {
	p := containsDuplicateProblem(t)
	// 只有第一个用例死循环，第二个用例仍然正常执行
	code := `
function containsDuplicate(nums) {
    if (nums[3] === 1) { for (;;) {} }
    return false;
}`
	report, err := NewRunner(50*time.Millisecond).RunVisible(p, types.LanguageJavaScript, code)
	require.NoError(t, err)
	assert.Equal(t, ErrTimeout.Error(), report.Results[0].Error)
	assert.True(t, report.Results[1].Passed)
}

func TestWithTimeoutClearsLateInterrupt(t *testing.T) {
	r := NewRunner(time.Millisecond)
	vm := goja.New()

	// f 在时限附近返回，计时回调可能正在执行；之后运行时必须可以正常使用
	for i := 0; i < 200; i++ {
		err := r.withTimeout(vm, func() error {
			time.Sleep(time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		v, err := vm.RunString("1 + 1")
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, int64(2), v.ToInteger())
	}
}

func TestRunnerExceptionIsolatedPerCase(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := `
function containsDuplicate(nums) {
    if (nums[3] === 1) throw new Error("boom");
    return false;
}`
	report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, code)
	require.NoError(t, err)
	assert.Contains(t, report.Results[0].Error, "boom")
	assert.False(t, report.Results[0].Passed)
	assert.True(t, report.Results[1].Passed)
	assert.Equal(t, 1, report.Passed)
}

func TestRunnerCapturesConsole(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := `
function containsDuplicate(nums) {
    console.log("checking", nums.length);
    return new Set(nums).size !== nums.length;
}`
	report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, code)
	require.NoError(t, err)
	assert.True(t, report.AllPassed())
	assert.Equal(t, []string{"checking 4", "checking 4"}, report.Logs)
}

func TestRunnerSandboxHasNoRequire(t *testing.T) {
	p := &Problem{
		ID:           "probe",
		Difficulty:   1,
		FunctionName: "probe",
		Parameters:   []string{"x"},
		TestCases:    []TestCase{{Input: 0, Expected: "undefined"}},
	}
	require.NoError(t, p.Validate())

	report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, `function probe(x) { return typeof require; }`)
	require.NoError(t, err)
	assert.True(t, report.AllPassed(), "require should not be reachable from submitted code")
}

func TestRunnerObjectEqualityIgnoresKeyOrder(t *testing.T) {
	p := &Problem{
		ID:           "pair",
		Difficulty:   1,
		FunctionName: "pair",
		Parameters:   []string{"a", "b"},
		TestCases: []TestCase{
			{Input: []any{1, 2}, Expected: map[string]any{"a": 1, "b": 2}},
			{Input: []any{1, 2}, Expected: []any{1, 2}},
		},
	}
	require.NoError(t, p.Validate())

	report, err := NewRunner(0).RunVisible(p, types.LanguageJavaScript, `function pair(a, b) { return {b: b, a: a}; }`)
	require.NoError(t, err)
	assert.True(t, report.Results[0].Passed)
	assert.False(t, report.Results[1].Passed)
}

func TestJSONEqual(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected any
		want     bool
	}{
		{"numbers", "3", 3, true},
		{"float vs int", "2", 2.0, true},
		{"arrays ordered", "[1,2]", []any{1, 2}, true},
		{"arrays order matters", "[2,1]", []any{1, 2}, false},
		{"object key order", `{"b":1,"a":2}`, map[string]any{"a": 2, "b": 1}, true},
		{"null", "null", nil, true},
		{"undefined never equal", "undefined", nil, false},
		{"bool vs number", "true", 1, false},
		{"nested", `[[1,2],[3]]`, []any{[]any{1, 2}, []any{3}}, true},
		{"string", `"abc"`, "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jsonEqual(tt.actual, tt.expected))
		})
	}
}

func TestRunnerPython(t *testing.T) {
	p := containsDuplicateProblem(t)

	report, err := NewRunner(0).RunAll(p, types.LanguagePython, pyContainsDuplicate)
	require.NoError(t, err)
	assert.True(t, report.AllPassed())

	starter, err := NewRunner(0).RunVisible(p, types.LanguagePython, p.Starter(types.LanguagePython))
	require.NoError(t, err)
	assert.Equal(t, 0, starter.Passed)
	assert.Equal(t, "null", starter.Results[0].Output)
}

func TestRunnerPythonUnsupportedIsCompilationError(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := "import collections\n\ndef contains_duplicate(nums):\n    return False\n"

	_, err := NewRunner(0).RunVisible(p, types.LanguagePython, code)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompilation))
	assert.True(t, errors.Is(err, ErrUnsupportedSyntax))
	assert.Contains(t, err.Error(), "line 1")
}

func TestRunnerPythonRuntimeError(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := "def contains_duplicate(nums):\n    return nums[10]\n"

	report, err := NewRunner(0).RunVisible(p, types.LanguagePython, code)
	require.NoError(t, err)
	assert.Equal(t, "IndexError: list index out of range", report.Results[0].Error)
}

func TestRunnerPythonTimeout(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := "def contains_duplicate(nums):\n    while True:\n        pass\n"

	report, err := NewRunner(50*time.Millisecond).RunVisible(p, types.LanguagePython, code)
	require.NoError(t, err)
	assert.Equal(t, ErrTimeout.Error(), report.Results[0].Error)
}

func TestRunnerPythonWrongEntryPoint(t *testing.T) {
	p := containsDuplicateProblem(t)
	code := "def containsDuplicate(nums):\n    return False\n"

	_, err := NewRunner(0).RunVisible(p, types.LanguagePython, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected contains_duplicate to be a function")
}
