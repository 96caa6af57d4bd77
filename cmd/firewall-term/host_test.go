package main

import (
	"strings"
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/app"
	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/gdamore/tcell/v2"
)

const frameMs = 1000.0 / 60

type fakeEvaluator struct{}

func (fakeEvaluator) RunVisible(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	return &challenge.Report{Passed: 1, Total: 1, Results: []challenge.TestResult{{Passed: true}}}, nil
}

func (fakeEvaluator) RunAll(p *challenge.Problem, lang types.Language, code string) (*challenge.Report, error) {
	return &challenge.Report{Passed: 1, Total: 1, Results: []challenge.TestResult{{Passed: true}}}, nil
}

func testData(t *testing.T, diamondAt float64) *app.Data {
	t.Helper()
	p := &challenge.Problem{
		ID:           "contains_duplicate",
		Number:       1,
		Title:        "Contains Duplicate",
		Difficulty:   1,
		Description:  "Return true if any value appears at least twice.",
		FunctionName: "containsDuplicate",
		Parameters:   []string{"nums"},
		TestCases:    []challenge.TestCase{{Input: []any{1.0, 1.0}, Expected: true}},
		Reward:       100,
	}
	bank, err := challenge.NewBank(p)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	cfg := config.DefaultGameConfig()
	cfg.Laser.InitialIntervalMs = 1e9
	return &app.Data{
		Config: cfg,
		Patterns: &config.SpawnPatterns{
			DiamondSpawns: []config.SpawnEvent{
				{Distance: diamondAt, Kind: config.KindDiamond, Tier: types.TierWhite, ChallengeID: "contains_duplicate"},
			},
			PlatformSpawns: []config.SpawnEvent{
				{Distance: 1e9, Kind: config.KindPlatform, Width: 100, Height: 200},
			},
		},
		Bank: bank,
	}
}

func newTestHost(t *testing.T, data *app.Data) *host {
	t.Helper()
	h := newHost(data, fakeEvaluator{}, game.NewProgressManager(nil), game.NewSettingsManager(nil), nil, app.SeedFunc(3))
	if err := h.newRun(); err != nil {
		t.Fatalf("newRun: %v", err)
	}
	t.Cleanup(h.close)
	return h
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func openChallenge(t *testing.T, h *host) {
	t.Helper()
	for i := 0; i < 600 && h.active == nil; i++ {
		h.update(frameMs)
	}
	if h.active == nil {
		t.Fatal("diamond pickup should open a challenge")
	}
}

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(120, 40)
	t.Cleanup(s.Fini)
	return s
}

// screenText 屏幕内容按行拼接
func screenText(s tcell.Screen) string {
	w, ht := s.Size()
	var sb strings.Builder
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestWrapCells(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "two sum", 10, []string{"two sum"}},
		{"wraps", "return the indices of two numbers", 12, []string{"return the", "indices of", "two numbers"}},
		{"keeps newlines", "a\n\nb", 5, []string{"a", "", "b"}},
		{"breaks long word", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"zero width", "abc", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapCells(tt.text, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("wrapCells(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestViewportMapping(t *testing.T) {
	v := viewport{width: 192, height: 109}
	if got := v.col(0); got != 0 {
		t.Errorf("col(0) = %d", got)
	}
	if got := v.col(config.GameWindowWidth / 2); got != 96 {
		t.Errorf("col(mid) = %d, want 96", got)
	}
	if got := v.row(0); got != 1 {
		t.Errorf("row(0) = %d, want 1 (row 0 is the HUD)", got)
	}
	if got := v.row(config.GameWindowHeight / 2); got != 55 {
		t.Errorf("row(mid) = %d, want 55", got)
	}
}

func TestHostDownReleaseAfterTimeout(t *testing.T) {
	h := newTestHost(t, testData(t, 1e9))
	intents, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	h.handleKey(key(tcell.KeyDown))
	h.update(100)
	h.handleKey(key(tcell.KeyDown)) // 按键重复
	h.update(downReleaseMs - 50)
	if !h.downHeld {
		t.Fatal("repeat should keep the down key held")
	}
	h.update(100)
	if h.downHeld {
		t.Fatal("down key should release after the repeat timeout")
	}

	var got []game.Intent
	got = append(got, game.Drain(intents)...)
	want := []game.Intent{game.IntentDownPress, game.IntentDownRelease}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("intents = %v, want %v", got, want)
	}
}

func TestHostRunKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want game.Intent
	}{
		{"space", char(' '), game.IntentJump},
		{"up", key(tcell.KeyUp), game.IntentJump},
		{"pause", char('p'), game.IntentPause},
		{"enter", key(tcell.KeyEnter), game.IntentConfirm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHost(t, testData(t, 1e9))
			intents, unsubscribe := h.bus.Subscribe()
			defer unsubscribe()

			h.handleKey(tt.ev)
			got := game.Drain(intents)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("intents = %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestHostQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{char('q'), key(tcell.KeyEscape), key(tcell.KeyCtrlC)} {
		h := newTestHost(t, testData(t, 1e9))
		h.handleKey(ev)
		if !h.quit {
			t.Errorf("%v should quit", ev.Name())
		}
	}
}

func TestHostChallengeEditing(t *testing.T) {
	h := newTestHost(t, testData(t, 0))
	openChallenge(t, h)

	editor := h.active.Editor()
	editor.SetText("")
	for _, r := range "return 1" {
		h.handleKey(char(r))
	}
	h.handleKey(key(tcell.KeyBackspace2))
	h.handleKey(char('2'))
	if got := editor.String(); got != "return 2" {
		t.Errorf("editor = %q, want %q", got, "return 2")
	}
	// 编辑时 p / q 是普通字符
	h.handleKey(char('q'))
	if h.quit {
		t.Error("q inside the editor must not quit")
	}

	h.handleKey(key(tcell.KeyF7))
	h.update(frameMs)
	if h.active.Session().Language() != types.LanguagePython {
		t.Errorf("language = %s, want python", h.active.Session().Language())
	}
}

func TestHostChallengeSubmitResumesRun(t *testing.T) {
	h := newTestHost(t, testData(t, 0))
	openChallenge(t, h)

	h.handleKey(key(tcell.KeyF6))
	h.update(frameMs)
	if h.active == nil || !h.active.Closing() {
		t.Fatal("passing submit should start the close countdown")
	}
	for i := 0; i < 300 && h.active != nil; i++ {
		h.update(frameMs)
	}
	if h.active != nil {
		t.Fatal("challenge should close after the countdown")
	}
	if h.run.Latched() || h.run.State().Bonus != 100 {
		t.Errorf("latched=%v bonus=%d", h.run.Latched(), h.run.State().Bonus)
	}
	if got := h.settings.GetSettings().Language; got != types.LanguageJavaScript {
		t.Errorf("settings language = %q", got)
	}
}

func TestHostSkipChallenge(t *testing.T) {
	h := newTestHost(t, testData(t, 0))
	openChallenge(t, h)

	h.handleKey(key(tcell.KeyEscape))
	h.update(frameMs)
	if h.active != nil {
		t.Fatal("Esc should skip the challenge")
	}
	if h.quit {
		t.Error("Esc in a challenge must not quit")
	}
	if got := h.run.State().Bonus; got != -h.data.Config.Rules.SkipPenalty {
		t.Errorf("Bonus = %d", got)
	}
}

func TestHostGameOverRestart(t *testing.T) {
	data := testData(t, 1e9)
	data.Config.Rules.MaxHits = 1
	data.Config.Laser.InitialIntervalMs = 100
	h := newTestHost(t, data)

	for i := 0; i < 600 && !h.gameOver(); i++ {
		h.update(frameMs)
	}
	if !h.gameOver() {
		t.Fatal("standing under a ground laser should end the run")
	}
	old := h.run

	h.handleKey(key(tcell.KeyEnter))
	if h.run == old || h.gameOver() {
		t.Error("Enter should start a new run")
	}
}

func TestHostDraw(t *testing.T) {
	s := simScreen(t)
	h := newTestHost(t, testData(t, 0))

	h.update(frameMs)
	h.draw(s)
	if text := screenText(s); !strings.Contains(text, "Distance") || !strings.Contains(text, "Hits 0/3") {
		t.Errorf("HUD missing:\n%s", text)
	}

	openChallenge(t, h)
	h.draw(s)
	text := screenText(s)
	for _, want := range []string{"#1 Contains Duplicate", "Return true if any value", "F5 run"} {
		if !strings.Contains(text, want) {
			t.Errorf("challenge screen missing %q", want)
		}
	}
	if h.editorLines <= 0 {
		t.Error("editor height should follow the screen")
	}
}
