package scenes

import (
	"fmt"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/modules"
	"github.com/DSoyomokun/CSC4821/pkg/systems"
	"github.com/DSoyomokun/CSC4821/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// 挑战界面布局（逻辑像素）
const (
	challengeMargin   = 60.0
	problemPanelWidth = 760.0
	editorTop         = 140.0
	editorHeight      = 620.0
	resultsTop        = editorTop + editorHeight + 30
	gutterWidth       = 60.0
)

// ChallengeScene 代码挑战覆盖场景
// 左侧题面，右侧代码编辑器，底部状态栏和用例结果；跑酷场景在下面继续绘制但不更新
type ChallengeScene struct {
	module       *modules.ChallengeModule
	editorSystem *systems.CodeEditorSystem
	fonts        fonts

	problemLines []string // 按面板宽度换行后的题面
	visibleLines int
	closed       bool
}

// NewChallengeScene 创建挑战场景
func NewChallengeScene(m *modules.ChallengeModule, f fonts) *ChallengeScene {
	s := &ChallengeScene{
		module: m,
		fonts:  f,
	}
	s.visibleLines = 1
	if lh := lineHeight(f.code); lh > 0 {
		s.visibleLines = int(editorHeight / lh)
	}
	s.editorSystem = systems.NewCodeEditorSystem(m.EntityManager(), s.visibleLines)
	s.problemLines = utils.WrapText(m.Problem().Statement(), f.body, problemPanelWidth-40)
	return s
}

// Update 编辑器输入与挑战逻辑
// 参数:
//   - deltaTime: 帧时间（秒）
func (s *ChallengeScene) Update(deltaTime float64) {
	if s.module.Finished() {
		return
	}
	if !s.module.Closing() {
		s.editorSystem.Update(deltaTime)
	}
	s.module.Update(deltaTime * 1000)
}

// Close 场景出栈；挑战尚未结束时按放弃处理
func (s *ChallengeScene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if !s.module.Finished() {
		s.module.Abandon()
	}
}

// Module 挑战模块
func (s *ChallengeScene) Module() *modules.ChallengeModule {
	return s.module
}

// Draw 绘制挑战界面
func (s *ChallengeScene) Draw(screen *ebiten.Image) {
	drawOverlay(screen)
	fillRect(screen, challengeMargin/2, challengeMargin/2,
		config.GameWindowWidth-challengeMargin, config.GameWindowHeight-challengeMargin, colorPanel)

	s.drawHeader(screen)
	s.drawProblem(screen)
	s.drawEditor(screen)
	s.drawResults(screen)
}

func (s *ChallengeScene) drawHeader(screen *ebiten.Image) {
	p := s.module.Problem()
	session := s.module.Session()
	title := fmt.Sprintf("#%d %s", p.Number, p.Title)
	drawText(screen, title, s.fonts.body, challengeMargin, 50, colorText)

	meta := fmt.Sprintf("%s diamond | %s | reward %d | %s", s.module.Handoff().Tier, p.LeetCodeDifficulty, p.Reward, session.Language())
	drawText(screen, meta, s.fonts.body, challengeMargin, 50+lineHeight(s.fonts.body), colorDimText)
}

func (s *ChallengeScene) drawProblem(screen *ebiten.Image) {
	y := editorTop
	lh := lineHeight(s.fonts.body)
	for _, line := range s.problemLines {
		if y > resultsTop+200 {
			break
		}
		drawText(screen, line, s.fonts.body, challengeMargin, y, colorText)
		y += lh
	}
}

func (s *ChallengeScene) drawEditor(screen *ebiten.Image) {
	editor := s.module.Editor()
	if editor == nil {
		return
	}
	x := challengeMargin + problemPanelWidth
	width := config.GameWindowWidth - x - challengeMargin
	fillRect(screen, x, editorTop, width, editorHeight, colorEditor)
	strokeRect(screen, x, editorTop, width, editorHeight, 2, colorGround)

	face := s.fonts.code
	lh := lineHeight(face)
	charWidth := utils.MeasureTextWidth("M", face)
	textX := x + gutterWidth

	lines := editor.Lines()
	for i := editor.ScrollTop; i < len(lines) && i < editor.ScrollTop+s.visibleLines; i++ {
		y := editorTop + float64(i-editor.ScrollTop)*lh + 6
		drawText(screen, fmt.Sprintf("%3d", i+1), face, x+6, y, colorDimText)
		drawText(screen, lines[i], face, textX, y, colorText)
	}

	if editor.CursorVisible && !s.module.Closing() {
		s.drawCursor(screen, editor, textX, charWidth, lh)
	}
}

func (s *ChallengeScene) drawCursor(screen *ebiten.Image, editor *components.CodeEditorComponent, textX, charWidth, lh float64) {
	line, col := editor.CursorLineCol()
	row := line - editor.ScrollTop
	if row < 0 || row >= s.visibleLines {
		return
	}
	cx := textX + float64(col)*charWidth
	cy := editorTop + float64(row)*lh + 6
	fillRect(screen, cx, cy, 2, lh*0.9, colorText)
}

func (s *ChallengeScene) drawResults(screen *ebiten.Image) {
	x := challengeMargin + problemPanelWidth
	y := resultsTop
	lh := lineHeight(s.fonts.body)

	statusColor := colorText
	if s.module.Closing() {
		statusColor = colorPass
	}
	drawText(screen, s.module.Status(), s.fonts.body, x, y, statusColor)
	y += lh * 1.3

	report := s.module.Session().LastReport()
	if report == nil {
		drawText(screen, "F5 run  F6 submit  F7 language  Esc skip  F8 close", s.fonts.body, x, y, colorDimText)
		return
	}
	for i, r := range report.Results {
		if y > config.GameWindowHeight-challengeMargin-lh {
			break
		}
		clr := colorFail
		if r.Passed {
			clr = colorPass
		}
		drawText(screen, r.Describe(i+1), s.fonts.body, x, y, clr)
		y += lh
	}
	for _, log := range report.Logs {
		if y > config.GameWindowHeight-challengeMargin-lh {
			break
		}
		drawText(screen, "> "+log, s.fonts.body, x, y, colorDimText)
		y += lh
	}
}
