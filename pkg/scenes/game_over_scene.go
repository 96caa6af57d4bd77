package scenes

import (
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// titleDropDuration 标题落下动画时长（秒）
const titleDropDuration = 0.6

// GameOverScene 游戏结束画面
// Enter / Space 重新开始，Esc 回到主菜单
type GameOverScene struct {
	deps  *Deps
	state game.GameState
	fonts fonts

	newBest bool
	elapsed float64

	intents     <-chan game.Intent
	unsubscribe func()
}

// NewGameOverScene 创建游戏结束场景
// state 是结束时的快照
func NewGameOverScene(deps *Deps, state game.GameState) *GameOverScene {
	s := &GameOverScene{
		deps:  deps,
		state: state,
		fonts: loadFonts(),
	}
	if deps.Progress != nil {
		s.newBest = deps.Progress.GetProgress().BestScore == state.Score() && state.Score() > 0
	}
	if deps.Input != nil {
		s.intents, s.unsubscribe = deps.Input.Subscribe()
	}
	log.Printf("[GameOverScene] distance %.0f, score %d", state.Distance, state.Score())
	return s
}

// Update 处理重新开始/返回菜单
func (s *GameOverScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	if s.intents == nil {
		return
	}
	for _, intent := range game.Drain(s.intents) {
		switch intent {
		case game.IntentConfirm, game.IntentJump:
			s.deps.SceneManager.LoadScene(SceneRun)
			return
		case game.IntentSkip:
			s.deps.SceneManager.LoadScene(SceneMenu)
			return
		}
	}
}

// Close 取消输入订阅
func (s *GameOverScene) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// State 结束时的状态快照
func (s *GameOverScene) State() game.GameState {
	return s.state
}

// Draw 绘制结算信息
func (s *GameOverScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	titleY := utils.Lerp(120, 280, utils.EaseOutCubic(s.elapsed/titleDropDuration))
	drawCenteredText(screen, "GAME OVER", s.fonts.title, titleY, colorLaserFire)

	maxHits := s.deps.Config.Rules.MaxHits
	drawCenteredText(screen, fmt.Sprintf("%d Failed Attempts", maxHits), s.fonts.body, 400, colorText)

	lines := []string{
		fmt.Sprintf("Distance: %d", int(s.state.Distance)),
		fmt.Sprintf("Score: %d", s.state.Score()),
		fmt.Sprintf("Challenges solved: %d", s.state.Solved),
	}
	if s.newBest {
		lines = append(lines, "New best score!")
	}
	y := 500.0
	for _, line := range lines {
		drawCenteredText(screen, line, s.fonts.body, y, colorText)
		y += lineHeight(s.fonts.body)
	}

	drawCenteredText(screen, "ENTER: run again    ESC: main menu", s.fonts.body, y+60, colorDimText)
}
