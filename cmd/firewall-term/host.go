package main

import (
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/app"
	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/modules"
	"github.com/DSoyomokun/CSC4821/pkg/systems"
	"github.com/gdamore/tcell/v2"
)

// downReleaseMs 终端没有按键松开事件，超过这个时间没有收到下键重复即视为松开
// 需要大于终端的按键重复延迟
const downReleaseMs = 550

// host 终端宿主：把按键翻译成意图，驱动 RunModule / ChallengeModule
type host struct {
	data      *app.Data
	bus       *game.InputBus
	evaluator challenge.Evaluator
	progress  *game.ProgressManager
	settings  *game.SettingsManager
	sound     *soundPlayer
	seed      func() int64

	run      *modules.RunModule
	launcher *modules.ChallengeLauncher
	active   *modules.ChallengeModule

	clock    float64 // 毫秒
	downAt   float64
	downHeld bool

	editorLines int // 编辑器可见行数，由渲染按屏幕尺寸更新
	quit        bool
}

func newHost(data *app.Data, evaluator challenge.Evaluator, progress *game.ProgressManager, settings *game.SettingsManager, sound *soundPlayer, seed func() int64) *host {
	return &host{
		data:        data,
		bus:         game.NewInputBus(),
		evaluator:   evaluator,
		progress:    progress,
		settings:    settings,
		sound:       sound,
		seed:        seed,
		editorLines: 20,
	}
}

// newRun 开始新的一局
func (h *host) newRun() error {
	if h.run != nil {
		h.run.Close()
	}
	h.active = nil
	h.downHeld = false

	language := h.data.Config.Challenge.DefaultLanguage
	if h.settings != nil && h.settings.GetSettings().Language != "" {
		language = h.settings.GetSettings().Language
	}
	h.launcher = modules.NewChallengeLauncher(modules.ChallengeLauncherConfig{
		Bank:        h.data.Bank,
		Runner:      h.evaluator,
		Progress:    h.progress,
		Input:       h.bus,
		Language:    language,
		SkipPenalty: h.data.Config.Rules.SkipPenalty,
		OnOpen:      func(m *modules.ChallengeModule) { h.active = m },
		OnClose: func(m *modules.ChallengeModule) {
			if h.active == m {
				h.active = nil
			}
		},
	})

	seed := h.seed()
	run, err := modules.NewRunModule(modules.RunModuleConfig{
		Config:   h.data.Config,
		Patterns: h.data.Patterns,
		Seed:     seed,
		Input:    h.bus,
		Launcher: h.launcher,
		Progress: h.progress,
		Events: modules.RunEvents{
			OnLaserHit: func(int) { h.sound.Play(game.SoundLaserHit) },
			OnPickup:   func(challenge.Handoff) { h.sound.Play(game.SoundPickup) },
			OnResume:   h.onResume,
			OnGameOver: func(*game.GameState) { h.sound.Play(game.SoundGameOver) },
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	h.run = run
	log.Printf("[Term] New run, seed %d", seed)
	return nil
}

func (h *host) onResume(o challenge.Outcome) {
	switch o.Kind {
	case challenge.OutcomeSolved:
		h.sound.Play(game.SoundSolved)
	case challenge.OutcomeSkipped:
		h.sound.Play(game.SoundSkip)
	}
	if h.settings != nil && o.Language != "" {
		h.settings.SetLanguage(o.Language)
	}
}

// gameOver 本局是否已结束
func (h *host) gameOver() bool {
	return h.run != nil && h.run.State().GameOver
}

// update 推进一帧
// 参数:
//   - deltaMs: 帧时间（毫秒）
func (h *host) update(deltaMs float64) {
	h.clock += deltaMs
	if h.downHeld && h.clock-h.downAt >= downReleaseMs {
		h.downHeld = false
		h.bus.Publish(game.IntentDownRelease)
	}

	if h.active != nil {
		if editor := h.active.Editor(); editor != nil {
			systems.UpdateCursorBlink(editor, deltaMs/1000)
		}
		h.active.Update(deltaMs)
		return
	}
	if h.run != nil {
		h.run.Update(deltaMs)
	}
}

// handleKey 处理一个按键事件
func (h *host) handleKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlC {
		h.quit = true
		return
	}
	switch {
	case h.active != nil:
		h.handleChallengeKey(ev)
	case h.gameOver():
		h.handleGameOverKey(ev)
	default:
		h.handleRunKey(ev)
	}
}

func (h *host) handleRunKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		h.bus.Publish(game.IntentJump)
	case tcell.KeyDown:
		h.pressDown()
	case tcell.KeyEnter:
		h.bus.Publish(game.IntentConfirm)
	case tcell.KeyEscape:
		h.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ', 'w':
			h.bus.Publish(game.IntentJump)
		case 's':
			h.pressDown()
		case 'p':
			h.bus.Publish(game.IntentPause)
		case 'q':
			h.quit = true
		}
	}
}

// pressDown 首次按下发布 DownPress，之后的按键重复只刷新时间
func (h *host) pressDown() {
	h.downAt = h.clock
	if !h.downHeld {
		h.downHeld = true
		h.bus.Publish(game.IntentDownPress)
	}
}

func (h *host) handleGameOverKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		h.restart()
	case tcell.KeyEscape:
		h.quit = true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			h.restart()
		case 'q':
			h.quit = true
		}
	}
}

func (h *host) restart() {
	if err := h.newRun(); err != nil {
		log.Printf("[Term] Error: %v", err)
		h.quit = true
	}
}

// handleChallengeKey 功能键发布意图，其余按键编辑代码
func (h *host) handleChallengeKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyF5:
		h.bus.Publish(game.IntentRunCode)
		return
	case tcell.KeyF6:
		h.bus.Publish(game.IntentSubmit)
		return
	case tcell.KeyF7:
		h.bus.Publish(game.IntentToggleLanguage)
		return
	case tcell.KeyF8:
		h.bus.Publish(game.IntentCloseChallenge)
		return
	case tcell.KeyEscape:
		h.bus.Publish(game.IntentSkip)
		return
	}

	if h.active.Closing() {
		return
	}
	editor := h.active.Editor()
	if editor == nil {
		return
	}
	switch ev.Key() {
	case tcell.KeyRune:
		editor.Insert(string(ev.Rune()))
	case tcell.KeyEnter:
		editor.Newline()
	case tcell.KeyTab:
		editor.Tab()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		editor.Backspace()
	case tcell.KeyDelete:
		editor.Delete()
	case tcell.KeyLeft:
		editor.MoveLeft()
	case tcell.KeyRight:
		editor.MoveRight()
	case tcell.KeyUp:
		editor.MoveUp()
	case tcell.KeyDown:
		editor.MoveDown()
	case tcell.KeyHome:
		editor.Home()
	case tcell.KeyEnd:
		editor.End()
	default:
		return
	}
	editor.CursorVisible = true
	editor.CursorBlinkTimer = 0
	editor.EnsureVisible(h.editorLines)
}

// close 结束本局并保存
func (h *host) close() {
	if h.active != nil {
		h.active.Abandon()
	}
	if h.run != nil {
		h.run.Close()
	}
	if h.progress != nil {
		if err := h.progress.Save(); err != nil {
			log.Printf("[Term] Warning: Failed to save progress: %v", err)
		}
	}
	if h.settings != nil {
		if err := h.settings.Save(); err != nil {
			log.Printf("[Term] Warning: Failed to save settings: %v", err)
		}
	}
}
