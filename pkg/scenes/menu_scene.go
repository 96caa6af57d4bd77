package scenes

import (
	"fmt"
	"math"

	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// menuScrollSpeed 背景网格卷动速度（像素/秒）
const menuScrollSpeed = 50.0

// MenuScene 主菜单
// Space / Enter 开始，显示历史最佳成绩与已完成题目数
type MenuScene struct {
	deps  *Deps
	fonts fonts

	elapsed float64 // 秒
	scrollX float64

	intents     <-chan game.Intent
	unsubscribe func()
}

// NewMenuScene 创建主菜单场景
func NewMenuScene(deps *Deps) *MenuScene {
	s := &MenuScene{
		deps:  deps,
		fonts: loadFonts(),
	}
	if deps.Input != nil {
		s.intents, s.unsubscribe = deps.Input.Subscribe()
	}
	return s
}

// Update 背景卷动，等待开始
func (s *MenuScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	s.scrollX = math.Mod(s.scrollX+menuScrollSpeed*deltaTime, 120)

	if s.intents == nil {
		return
	}
	for _, intent := range game.Drain(s.intents) {
		if intent == game.IntentConfirm || intent == game.IntentJump {
			s.deps.SceneManager.LoadScene(SceneRun)
			return
		}
	}
}

// Close 取消输入订阅
func (s *MenuScene) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Draw 绘制标题与开始提示
func (s *MenuScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	for x := -s.scrollX; x < config.GameWindowWidth; x += 120 {
		fillRect(screen, x, 0, 1, config.GameWindowHeight, colorGround)
	}
	for y := 0.0; y < config.GameWindowHeight; y += 120 {
		fillRect(screen, 0, y, config.GameWindowWidth, 1, colorGround)
	}

	drawCenteredText(screen, "FIREWALL", s.fonts.title, 340, colorGroundLine)

	// 开始提示闪烁
	if math.Sin(s.elapsed*math.Pi) > -0.5 {
		drawCenteredText(screen, "Press SPACE or ENTER to Start", s.fonts.body, 560, colorText)
	}

	if s.deps.Progress != nil {
		p := s.deps.Progress.GetProgress()
		stats := fmt.Sprintf("Best score %d | Best distance %d | Challenges completed %d/%d",
			p.BestScore, int(p.BestDistance), s.deps.Progress.CompletedCount(), s.bankSize())
		drawCenteredText(screen, stats, s.fonts.body, 660, colorDimText)
	}
}

func (s *MenuScene) bankSize() int {
	if s.deps.Bank == nil {
		return 0
	}
	return s.deps.Bank.Len()
}
