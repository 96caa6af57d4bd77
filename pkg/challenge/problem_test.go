package challenge

import (
	"errors"
	"strings"
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func containsDuplicateProblem(t *testing.T) *Problem {
	t.Helper()
	p := &Problem{
		ID:                 "contains_duplicate",
		Number:             217,
		Title:              "Contains Duplicate",
		Difficulty:         2,
		LeetCodeDifficulty: "Easy",
		Topics:             []string{"Array", "Hash Table"},
		FunctionName:       "containsDuplicate",
		Parameters:         []string{"nums"},
		TestCases: []TestCase{
			{Input: []any{1, 2, 3, 1}, Expected: true},
			{Input: []any{1, 2, 3, 4}, Expected: false},
		},
		HiddenTestCases: []TestCase{
			{Input: []any{1, 1, 1, 3, 3, 4, 3, 2, 4, 2}, Expected: true},
		},
		Reward: 100,
	}
	require.NoError(t, p.Validate())
	return p
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		paramCount int
		want       []any
		wantErr    bool
	}{
		{"single param keeps list whole", []any{1, 2, 3}, 1, []any{[]any{1, 2, 3}}, false},
		{"single param scalar", 5, 1, []any{5}, false},
		{"single param nested list", []any{[]any{1, 2}}, 1, []any{[]any{[]any{1, 2}}}, false},
		{"two params spread", []any{[]any{2, 7, 11}, 9}, 2, []any{[]any{2, 7, 11}, 9}, false},
		{"two params wrong length", []any{1, 2, 3}, 2, nil, true},
		{"two params not a list", "abc", 2, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeArgs(tt.input, tt.paramCount)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProblemValidateNormalizesCases(t *testing.T) {
	p := containsDuplicateProblem(t)
	assert.Equal(t, []any{[]any{1, 2, 3, 1}}, p.TestCases[0].Args)
	assert.Len(t, p.AllTestCases(), 3)

	twoSum := &Problem{
		ID:           "two_sum",
		Difficulty:   2,
		FunctionName: "twoSum",
		Parameters:   []string{"nums", "target"},
		TestCases: []TestCase{
			{Input: []any{[]any{2, 7, 11, 15}, 9}, Expected: []any{0, 1}},
			{Args: []any{[]any{3, 3}, 6}, Expected: []any{0, 1}},
		},
	}
	require.NoError(t, twoSum.Validate())
	assert.Equal(t, []any{[]any{2, 7, 11, 15}, 9}, twoSum.TestCases[0].Args)
	assert.Equal(t, twoSum.TestCases[1].Args, twoSum.TestCases[1].Input)
}

func TestProblemValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Problem)
	}{
		{"empty id", func(p *Problem) { p.ID = "" }},
		{"bad function name", func(p *Problem) { p.FunctionName = "contains-duplicate" }},
		{"no parameters", func(p *Problem) { p.Parameters = nil }},
		{"difficulty too low", func(p *Problem) { p.Difficulty = 0 }},
		{"difficulty too high", func(p *Problem) { p.Difficulty = 11 }},
		{"no visible cases", func(p *Problem) { p.TestCases = nil }},
		{"negative reward", func(p *Problem) { p.Reward = -1 }},
		{"args length mismatch", func(p *Problem) {
			p.TestCases = []TestCase{{Args: []any{1, 2}, Expected: true}}
		}},
		{"hidden case bad input", func(p *Problem) {
			p.Parameters = []string{"a", "b"}
			p.TestCases = []TestCase{{Args: []any{1, 2}, Expected: 3}}
			p.HiddenTestCases = []TestCase{{Input: 7, Expected: 3}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Problem{
				ID:           "p",
				Difficulty:   3,
				FunctionName: "solve",
				Parameters:   []string{"x"},
				TestCases:    []TestCase{{Input: 1, Expected: 1}},
			}
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProblem), "got %v", err)
		})
	}
}

func TestProblemStarterAndEntryPoint(t *testing.T) {
	p := containsDuplicateProblem(t)

	assert.Equal(t, "containsDuplicate", p.EntryPoint(types.LanguageJavaScript))
	assert.Equal(t, "contains_duplicate", p.EntryPoint(types.LanguagePython))

	assert.Equal(t,
		"var containsDuplicate = function(nums) {\n    // Write your solution here\n    \n};\n",
		p.Starter(types.LanguageJavaScript))
	assert.Equal(t,
		"def contains_duplicate(nums):\n    # Write your solution here\n    pass\n",
		p.Starter(types.LanguagePython))

	p.StarterCode = "function containsDuplicate(nums) {}"
	assert.Equal(t, p.StarterCode, p.Starter(types.LanguageJavaScript))
}

func TestPythonFunctionName(t *testing.T) {
	tests := map[string]string{
		"twoSum":                   "two_sum",
		"containsDuplicate":        "contains_duplicate",
		"maxSubArray":              "max_sub_array",
		"search":                   "search",
		"lengthOfLongestSubstring": "length_of_longest_substring",
	}
	for in, want := range tests {
		p := &Problem{FunctionName: in}
		assert.Equal(t, want, p.PythonFunctionName(), in)
	}
}

func TestProblemStatement(t *testing.T) {
	p := &Problem{
		Description: "  Return true if any value repeats.\n",
		Examples: []Example{
			{Input: "nums = [1,2,1]", Output: "true", Explanation: "1 repeats."},
			{Input: "nums = [1,2]", Output: "false"},
		},
		Constraints: []string{"1 <= nums.length"},
		Hints:       []string{"Use a set.", "Second hint is not shown."},
	}

	s := p.Statement()
	assert.True(t, strings.HasPrefix(s, "Return true if any value repeats.\n\nExample 1:"))
	assert.Contains(t, s, "Input: nums = [1,2,1]\nOutput: true\nExplanation: 1 repeats.")
	assert.Contains(t, s, "Example 2:\nInput: nums = [1,2]\nOutput: false\n\nConstraints:\n- 1 <= nums.length")
	assert.True(t, strings.HasSuffix(s, "Hint: Use a set."))
	assert.NotContains(t, s, "Second hint")
}
