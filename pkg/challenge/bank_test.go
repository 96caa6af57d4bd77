package challenge

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProblem(id string, number, difficulty int, topics ...string) *Problem {
	return &Problem{
		ID:           id,
		Number:       number,
		Difficulty:   difficulty,
		Topics:       topics,
		FunctionName: "solve",
		Parameters:   []string{"x"},
		TestCases:    []TestCase{{Input: 1, Expected: 1}},
		Reward:       difficulty * 10,
	}
}

func testBank(t *testing.T) *Bank {
	t.Helper()
	b, err := NewBank(
		testProblem("easy_b", 20, 2, "Array"),
		testProblem("easy_a", 10, 3, "String"),
		testProblem("medium", 30, 5, "Array"),
		testProblem("hard", 40, 9, "Graph"),
	)
	require.NoError(t, err)
	return b
}

func ids(problems []*Problem) []string {
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.ID
	}
	return out
}

func TestBankForTierDefaultRules(t *testing.T) {
	b := testBank(t)

	assert.Equal(t, []string{"easy_a", "easy_b"}, ids(b.ForTier(types.TierWhite)))
	assert.Equal(t, []string{"medium"}, ids(b.ForTier(types.TierBlue)))
	assert.Equal(t, []string{"hard"}, ids(b.ForTier(types.TierBlack)))
	assert.Empty(t, b.ForTier(types.DiamondTier("gold")))
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []string{"easy_a", "easy_b", "medium", "hard"}, ids(b.All()))
}

func TestBankCustomTierRules(t *testing.T) {
	b := testBank(t)
	err := b.SetTierRules(&config.TierRulesConfig{Tiers: map[types.DiamondTier]string{
		types.TierWhite: `"Array" in topics`,
		types.TierBlue:  `leetcodeDifficulty == "Medium" || reward >= 50`,
		types.TierBlack: `id startsWith "h"`,
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"easy_b", "medium"}, ids(b.ForTier(types.TierWhite)))
	assert.Equal(t, []string{"medium", "hard"}, ids(b.ForTier(types.TierBlue)))
	assert.Equal(t, []string{"hard"}, ids(b.ForTier(types.TierBlack)))
}

func TestBankInvalidTierRule(t *testing.T) {
	b := testBank(t)
	tests := map[string]string{
		"syntax":       "difficulty <=",
		"unknown name": "hardness > 3",
		"not boolean":  "difficulty + 1",
	}
	for name, rule := range tests {
		t.Run(name, func(t *testing.T) {
			err := b.SetTierRules(&config.TierRulesConfig{Tiers: map[types.DiamondTier]string{types.TierWhite: rule}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig))
		})
	}
}

func TestBankRejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := NewBank(testProblem("a", 1, 1), testProblem("a", 2, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProblem))

	bad := testProblem("b", 1, 1)
	bad.FunctionName = ""
	_, err = NewBank(bad)
	assert.True(t, errors.Is(err, ErrInvalidProblem))
}

func TestBankPick(t *testing.T) {
	b := testBank(t)
	completed := map[string]bool{}
	isDone := func(id string) bool { return completed[id] }

	tests := []struct {
		name      string
		tier      types.DiamondTier
		preferred string
		done      []string
		want      string
		wantErr   bool
	}{
		{"preferred uncompleted", types.TierWhite, "medium", nil, "medium", false},
		{"preferred completed falls back to tier", types.TierWhite, "medium", []string{"medium"}, "easy_a", false},
		{"skips completed in tier", types.TierWhite, "", []string{"easy_a"}, "easy_b", false},
		{"all completed returns preferred", types.TierWhite, "medium", []string{"medium", "easy_a", "easy_b"}, "medium", false},
		{"all completed no preferred returns first", types.TierWhite, "", []string{"easy_a", "easy_b"}, "easy_a", false},
		{"unknown preferred uses tier", types.TierBlack, "missing", nil, "hard", false},
		{"nothing available", types.DiamondTier("gold"), "missing", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := range completed {
				delete(completed, k)
			}
			for _, id := range tt.done {
				completed[id] = true
			}
			p, err := b.Pick(tt.tier, tt.preferred, isDone)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNoProblem))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ID)
		})
	}

	p, err := b.Pick(types.TierBlue, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "medium", p.ID)
}

func TestLoadBank(t *testing.T) {
	fsys := fstest.MapFS{
		"problems/contains_duplicate.yaml": {Data: []byte(`
id: contains_duplicate
number: 217
title: Contains Duplicate
difficulty: 2
leetcodeDifficulty: Easy
topics: [Array, Hash Table]
functionName: containsDuplicate
parameters: [nums]
testCases:
  - input: [1, 2, 3, 1]
    expected: true
hiddenTestCases:
  - input: [1, 2, 3, 4]
    expected: false
reward: 100
`)},
		"problems/two_sum.json": {Data: []byte(`{
  "id": "two_sum",
  "number": 1,
  "title": "Two Sum",
  "difficulty": 2,
  "functionName": "twoSum",
  "parameters": ["nums", "target"],
  "testCases": [{"input": [[2, 7, 11, 15], 9], "expected": [0, 1]}],
  "reward": 100
}`)},
		"problems/README.txt": {Data: []byte("not a problem")},
	}

	b, err := LoadBank(fsys, "problems")
	require.NoError(t, err)
	assert.Equal(t, []string{"two_sum", "contains_duplicate"}, ids(b.All()))

	twoSum, ok := b.Get("two_sum")
	require.True(t, ok)
	assert.Equal(t, []any{[]any{2, 7, 11, 15}, 9}, twoSum.TestCases[0].Args)

	cd, ok := b.Get("contains_duplicate")
	require.True(t, ok)
	assert.Equal(t, []any{[]any{1, 2, 3, 1}}, cd.TestCases[0].Args)
	assert.Len(t, cd.HiddenTestCases, 1)

	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestLoadBankErrors(t *testing.T) {
	_, err := LoadBank(fstest.MapFS{}, "problems")
	assert.Error(t, err)

	_, err = LoadBank(fstest.MapFS{
		"problems/bad.yaml": {Data: []byte("id: [unclosed")},
	}, "problems")
	assert.Error(t, err)

	_, err = LoadBank(fstest.MapFS{
		"problems/a.yaml": {Data: []byte("id: a\ndifficulty: 1\nfunctionName: f\nparameters: [x]\ntestCases: [{input: 1, expected: 1}]\n")},
		"problems/b.yaml": {Data: []byte("id: a\ndifficulty: 1\nfunctionName: f\nparameters: [x]\ntestCases: [{input: 1, expected: 1}]\n")},
	}, "problems")
	assert.True(t, errors.Is(err, ErrInvalidProblem))
}
