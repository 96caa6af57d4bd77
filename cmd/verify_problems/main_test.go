package main

import (
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// recordingEvaluator 代码中包含 "bad" 时判定失败
type recordingEvaluator struct {
	calls []string
}

func (e *recordingEvaluator) RunVisible(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	return e.RunAll(p, lang, code)
}

func (e *recordingEvaluator) RunAll(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	e.calls = append(e.calls, p.ID+":"+string(lang))
	switch code {
	case "bad":
		return &challenge.Report{Passed: 0, Total: 1, Results: []challenge.TestResult{{Error: "wrong"}}}, nil
	case "broken":
		return nil, challenge.ErrCompilation
	}
	return &challenge.Report{Passed: 1, Total: 1, Results: []challenge.TestResult{{Passed: true}}}, nil
}

func TestVerifyAll(t *testing.T) {
	fsys := fstest.MapFS{
		"data/solutions/a.js": {Data: []byte("ok")},
		"data/solutions/a.py": {Data: []byte("bad")},
		"data/solutions/b.js": {Data: []byte("broken")},
	}
	problems := []*challenge.Problem{{ID: "a"}, {ID: "b"}}
	eval := &recordingEvaluator{}

	results := verifyAll(fsys, eval, problems, []types.Language{types.LanguageJavaScript, types.LanguagePython})
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	if len(eval.calls) != 3 {
		t.Errorf("evaluator calls = %v, want 3 (b.py is missing)", eval.calls)
	}

	tests := []struct {
		i       int
		ok      bool
		missing bool
	}{
		{0, true, false},  // a.js
		{1, false, false}, // a.py
		{2, false, false}, // b.js
		{3, true, true},   // b.py
	}
	for _, tt := range tests {
		r := results[tt.i]
		if r.ok() != tt.ok || r.missing != tt.missing {
			t.Errorf("%s/%s: ok=%v missing=%v, want ok=%v missing=%v", r.problem, r.lang, r.ok(), r.missing, tt.ok, tt.missing)
		}
	}
	if !errors.Is(results[2].err, challenge.ErrCompilation) {
		t.Errorf("b.js err = %v, want ErrCompilation", results[2].err)
	}
}

func TestReferenceSolutionsJavaScript(t *testing.T) {
	if testing.Short() {
		t.Skip("runs every reference solution")
	}
	fsys := os.DirFS("../..")
	bank, err := challenge.LoadBank(fsys, problemsDir)
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	results := verifyAll(fsys, challenge.NewRunner(challenge.DefaultTimeout), bank.All(), []types.Language{types.LanguageJavaScript})
	for _, r := range results {
		if r.missing {
			t.Errorf("%s has no JavaScript reference solution", r.problem)
			continue
		}
		if !r.ok() {
			t.Errorf("%s: err=%v report=%+v", r.problem, r.err, r.report)
		}
	}
}
