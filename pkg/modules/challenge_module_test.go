package modules

import (
	"errors"
	"strings"
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// fakeEvaluator 按预设结果返回，记录收到的代码
type fakeEvaluator struct {
	visible *challenge.Report
	all     *challenge.Report
	err     error

	codes []string
	langs []types.Language
}

func (f *fakeEvaluator) RunVisible(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	f.codes = append(f.codes, code)
	f.langs = append(f.langs, lang)
	return f.visible, f.err
}

func (f *fakeEvaluator) RunAll(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	f.codes = append(f.codes, code)
	f.langs = append(f.langs, lang)
	return f.all, f.err
}

func passing() *challenge.Report { return &challenge.Report{Passed: 3, Total: 3} }
func failing() *challenge.Report { return &challenge.Report{Passed: 1, Total: 3} }

func testProblem(id string, difficulty int) *challenge.Problem {
	return &challenge.Problem{
		ID:           id,
		Number:       difficulty,
		Title:        "Problem " + id,
		Difficulty:   difficulty,
		FunctionName: "solve",
		Parameters:   []string{"nums"},
		TestCases: []challenge.TestCase{
			{Input: []any{1.0, 2.0}, Expected: false},
		},
		Reward: 150,
	}
}

type outcomeRecorder struct {
	outcomes []challenge.Outcome
}

func (r *outcomeRecorder) record(o challenge.Outcome) {
	r.outcomes = append(r.outcomes, o)
}

func newTestChallenge(t *testing.T, eval *fakeEvaluator, bus *game.InputBus) (*ChallengeModule, *outcomeRecorder) {
	t.Helper()
	p := testProblem("two_sum", 2)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	session := challenge.NewSession(p, eval, challenge.SessionOptions{SkipPenalty: 100})
	rec := &outcomeRecorder{}
	m := NewChallengeModule(session, challenge.Handoff{ProblemID: "two_sum", Tier: types.TierWhite}, bus, rec.record)
	return m, rec
}

func TestChallengeModuleSubmitSolvedClosesAfterDelay(t *testing.T) {
	eval := &fakeEvaluator{all: passing()}
	m, rec := newTestChallenge(t, eval, nil)

	m.Submit()
	if !m.Closing() {
		t.Fatal("solved submission should start the close countdown")
	}
	if !strings.Contains(m.Status(), "All tests passed") {
		t.Errorf("status = %q", m.Status())
	}

	m.Update(SolvedCloseDelayMs / 2)
	if m.Finished() || len(rec.outcomes) != 0 {
		t.Fatal("challenge closed before the delay elapsed")
	}
	m.Update(SolvedCloseDelayMs / 2)
	if !m.Finished() || len(rec.outcomes) != 1 {
		t.Fatalf("challenge should close after %dms", SolvedCloseDelayMs)
	}

	o := rec.outcomes[0]
	if o.Kind != challenge.OutcomeSolved || o.ScoreDelta != 150 || o.ProblemID != "two_sum" {
		t.Errorf("unexpected outcome %+v", o)
	}

	m.Update(SolvedCloseDelayMs)
	if len(rec.outcomes) != 1 {
		t.Error("onClose must be called exactly once")
	}
}

func TestChallengeModuleSubmitFailingStaysOpen(t *testing.T) {
	eval := &fakeEvaluator{all: failing()}
	m, rec := newTestChallenge(t, eval, nil)

	m.Submit()
	m.Update(SolvedCloseDelayMs * 2)

	if m.Closing() || m.Finished() || len(rec.outcomes) != 0 {
		t.Error("failed submission must keep the challenge open")
	}
	if !strings.Contains(m.Status(), "1/3") {
		t.Errorf("status = %q, want pass count", m.Status())
	}
}

func TestChallengeModuleRunUsesEditorText(t *testing.T) {
	eval := &fakeEvaluator{visible: passing()}
	m, _ := newTestChallenge(t, eval, nil)

	m.Editor().SetText("function solve(nums) { return false; }")
	m.Run()

	if len(eval.codes) != 1 || eval.codes[0] != "function solve(nums) { return false; }" {
		t.Errorf("evaluator received %q", eval.codes)
	}
	if m.Finished() || m.Closing() {
		t.Error("Run must not close the challenge")
	}
	if !strings.HasPrefix(m.Status(), "Run:") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestChallengeModuleCompileErrorStatus(t *testing.T) {
	eval := &fakeEvaluator{err: challenge.ErrCompilation}
	m, _ := newTestChallenge(t, eval, nil)

	m.Run()
	if !strings.Contains(m.Status(), "failed") {
		t.Errorf("status = %q", m.Status())
	}
	if m.Finished() {
		t.Error("compilation errors are not fatal")
	}
}

func TestChallengeModuleToggleLanguageKeepsCode(t *testing.T) {
	eval := &fakeEvaluator{visible: passing()}
	m, _ := newTestChallenge(t, eval, nil)

	m.Editor().SetText("// my js")
	m.ToggleLanguage()

	if m.Session().Language() != types.LanguagePython {
		t.Fatalf("language = %s, want python", m.Session().Language())
	}
	if !strings.HasPrefix(m.Editor().String(), "def solve(nums):") {
		t.Errorf("python starter not loaded: %q", m.Editor().String())
	}

	m.ToggleLanguage()
	if m.Editor().String() != "// my js" {
		t.Errorf("javascript code lost after toggling back: %q", m.Editor().String())
	}
}

func TestChallengeModuleSkipAndAbandon(t *testing.T) {
	tests := []struct {
		name   string
		action func(m *ChallengeModule)
		kind   challenge.OutcomeKind
		delta  int
	}{
		{"skip", (*ChallengeModule).Skip, challenge.OutcomeSkipped, -100},
		{"abandon", (*ChallengeModule).Abandon, challenge.OutcomeAbandoned, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newTestChallenge(t, &fakeEvaluator{}, nil)
			tt.action(m)
			tt.action(m)

			if len(rec.outcomes) != 1 {
				t.Fatalf("outcomes = %d, want 1", len(rec.outcomes))
			}
			if o := rec.outcomes[0]; o.Kind != tt.kind || o.ScoreDelta != tt.delta {
				t.Errorf("outcome = %+v, want %s %+d", o, tt.kind, tt.delta)
			}
		})
	}
}

func TestChallengeModuleIntents(t *testing.T) {
	bus := game.NewInputBus()
	eval := &fakeEvaluator{visible: failing(), all: passing()}
	m, rec := newTestChallenge(t, eval, bus)

	bus.Publish(game.IntentRunCode)
	m.Update(frameMs)
	if len(eval.codes) != 1 {
		t.Fatalf("run intent not handled, evaluator calls = %d", len(eval.codes))
	}

	bus.Publish(game.IntentSubmit)
	m.Update(frameMs)
	if !m.Closing() {
		t.Fatal("submit intent should solve the challenge")
	}

	// 倒计时期间忽略其他操作
	bus.Publish(game.IntentSkip)
	m.Update(frameMs)
	if m.Finished() {
		t.Error("skip during countdown should be ignored")
	}

	m.Update(SolvedCloseDelayMs)
	if len(rec.outcomes) != 1 || rec.outcomes[0].Kind != challenge.OutcomeSolved {
		t.Errorf("outcomes = %+v", rec.outcomes)
	}
	if bus.Subscribers() != 0 {
		t.Error("finished challenge should unsubscribe from input")
	}
}

func TestChallengeLauncherPicksAndReopens(t *testing.T) {
	bank, err := challenge.NewBank(testProblem("a_easy", 1), testProblem("b_easy", 2), testProblem("c_hard", 8))
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	progress := game.NewProgressManager(nil)
	progress.MarkComplete("a_easy")

	var opened, closed int
	launcher := NewChallengeLauncher(ChallengeLauncherConfig{
		Bank:        bank,
		Runner:      &fakeEvaluator{all: passing()},
		Progress:    progress,
		SkipPenalty: 100,
		OnOpen:      func(*ChallengeModule) { opened++ },
		OnClose:     func(*ChallengeModule) { closed++ },
	})

	rec := &outcomeRecorder{}
	if err := launcher.Launch(challenge.Handoff{ProblemID: "a_easy", Tier: types.TierWhite}, rec.record); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	active := launcher.Active()
	if active == nil || opened != 1 {
		t.Fatal("launcher should open a challenge")
	}
	if active.Problem().ID != "b_easy" {
		t.Errorf("picked %s, want first uncompleted white problem b_easy", active.Problem().ID)
	}

	if err := launcher.Launch(challenge.Handoff{ProblemID: "a_easy", Tier: types.TierWhite}, rec.record); !errors.Is(err, ErrChallengeOpen) {
		t.Errorf("second Launch: got %v, want ErrChallengeOpen", err)
	}

	active.ToggleLanguage()
	active.Abandon()
	if closed != 1 || len(rec.outcomes) != 1 || launcher.Active() != nil {
		t.Fatalf("close bookkeeping: closed=%d outcomes=%d", closed, len(rec.outcomes))
	}
	if launcher.Language() != types.LanguagePython {
		t.Errorf("launcher should remember the last language, got %s", launcher.Language())
	}

	if err := launcher.Launch(challenge.Handoff{ProblemID: "c_hard", Tier: types.TierBlack}, rec.record); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if launcher.Active().Session().Language() != types.LanguagePython {
		t.Error("reopened challenge should start in the remembered language")
	}
}

func TestChallengeLauncherRequiresBank(t *testing.T) {
	launcher := NewChallengeLauncher(ChallengeLauncherConfig{})
	if err := launcher.Launch(challenge.Handoff{Tier: types.TierWhite}, nil); err == nil {
		t.Error("Launch without bank should fail")
	}
}

func TestChallengeLauncherWithRunModule(t *testing.T) {
	bank, err := challenge.NewBank(testProblem("contains_duplicate", 1))
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	bus := game.NewInputBus()
	launcher := NewChallengeLauncher(ChallengeLauncherConfig{
		Bank:   bank,
		Runner: &fakeEvaluator{all: passing()},
		Input:  bus,
	})
	m := newTestRunModule(t, nil, testPatterns(0), launcher, bus)

	runUntilLatched(t, m, 400)
	active := launcher.Active()
	if active == nil {
		t.Fatal("pickup should open a challenge")
	}

	bus.Publish(game.IntentSubmit)
	active.Update(frameMs)
	active.Update(SolvedCloseDelayMs)

	if m.Latched() || m.State().Paused {
		t.Error("run should resume once the challenge closes")
	}
	if m.State().Bonus != 150 {
		t.Errorf("Bonus = %d, want 150", m.State().Bonus)
	}
}
