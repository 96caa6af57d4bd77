package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/systems"
	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleDefault  = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleGround   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePlatform = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleWarn     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFire     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePass     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFail     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleCursor   = tcell.StyleDefault.Reverse(true)
)

func tierStyle(tier types.DiamondTier) tcell.Style {
	switch tier {
	case types.TierBlue:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case types.TierBlack:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorWhite)
}

// viewport 世界坐标到终端格子的映射，第 0 行留给 HUD
type viewport struct {
	width, height int
}

func (v viewport) col(x float64) int {
	return int(math.Floor(x * float64(v.width) / config.GameWindowWidth))
}

func (v viewport) row(y float64) int {
	return 1 + int(math.Floor(y*float64(v.height-1)/config.GameWindowHeight))
}

// fillRect 用 ch 填充世界坐标矩形，至少占一个格子
func (v viewport) fillRect(s tcell.Screen, minX, minY, maxX, maxY float64, ch rune, style tcell.Style) {
	x0, x1 := v.col(minX), v.col(maxX)
	y0, y1 := v.row(minY), v.row(maxY)
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	for y := max(y0, 1); y < min(y1, v.height); y++ {
		for x := max(x0, 0); x < min(x1, v.width); x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// drawString 写一行文字，返回占用的列数
func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	return col - x
}

// wrapCells 按显示宽度折行，保留原有的换行
func wrapCells(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				lines = append(lines, head)
				word = word[len(head):]
			}
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// draw 绘制一帧
func (h *host) draw(s tcell.Screen) {
	s.Clear()
	w, ht := s.Size()
	switch {
	case h.active != nil:
		h.drawChallenge(s, w, ht)
	case h.gameOver():
		h.drawGameOver(s, w, ht)
	default:
		h.drawRun(s, viewport{width: w, height: ht})
	}
	s.Show()
}

func (h *host) drawRun(s tcell.Screen, v viewport) {
	cfg := h.run.Config()
	em := h.run.EntityManager()

	groundRow := v.row(cfg.GroundY)
	for x := 0; x < v.width; x++ {
		s.SetContent(x, groundRow, '▀', nil, styleGround)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.PlatformComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		p, _ := ecs.GetComponent[*components.PlatformComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		v.fillRect(s, pos.X-p.Width/2, pos.Y-p.Thickness/2, pos.X+p.Width/2, pos.Y+p.Thickness/2, '=', stylePlatform)
	}
	for _, id := range ecs.GetEntitiesWith2[*components.DiamondComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		d, _ := ecs.GetComponent[*components.DiamondComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		if x, y := v.col(pos.X), v.row(pos.Y); x >= 0 && x < v.width && y > 0 && y < v.height {
			s.SetContent(x, y, '◆', nil, tierStyle(d.Tier))
		}
	}
	for _, id := range ecs.GetEntitiesWith3[*components.LaserComponent, *components.PositionComponent, *components.CollisionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		laser, _ := ecs.GetComponent[*components.LaserComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		minX, minY, maxX, maxY := col.Bounds(pos)
		if laser.Phase == components.LaserActive {
			v.fillRect(s, minX, minY, maxX, maxY, '█', styleFire)
		} else {
			v.fillRect(s, minX, minY, maxX, maxY, '-', styleWarn)
		}
	}

	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, h.run.PlayerID()); ok {
		if col, ok := ecs.GetComponent[*components.CollisionComponent](em, h.run.PlayerID()); ok {
			minX, minY, maxX, maxY := col.Bounds(pos)
			style := stylePlayer
			if systems.FlashAmount(em, h.run.PlayerID()) > 0 {
				style = styleFire
			}
			v.fillRect(s, minX, minY, maxX, maxY, '█', style)
		}
	}

	state := h.run.State()
	hud := fmt.Sprintf("Distance %d  Score %d  Hits %d/%d  Solved %d",
		int(state.Distance), state.Score(), state.Hits, cfg.Rules.MaxHits, state.Solved)
	drawString(s, 1, 0, hud, styleDefault)
	if state.Paused && !h.run.Latched() {
		drawString(s, v.width/2-3, v.height/2, "PAUSED", styleWarn)
	} else if h.clock < 5000 {
		drawString(s, 1, 1, "SPACE/UP jump  DOWN slide (hold to drop)  P pause  Q quit", styleDim)
	}
}

func (h *host) drawGameOver(s tcell.Screen, w, ht int) {
	state := h.run.State()
	lines := []struct {
		text  string
		style tcell.Style
	}{
		{"GAME OVER", styleFire},
		{"", styleDefault},
		{fmt.Sprintf("Distance: %d", int(state.Distance)), styleDefault},
		{fmt.Sprintf("Score: %d", state.Score()), styleDefault},
		{fmt.Sprintf("Challenges solved: %d", state.Solved), styleDefault},
		{"", styleDefault},
		{"ENTER: run again    Q: quit", styleDim},
	}
	if h.progress != nil {
		p := h.progress.GetProgress()
		lines = append(lines, struct {
			text  string
			style tcell.Style
		}{fmt.Sprintf("Best score %d, completed %d", p.BestScore, h.progress.CompletedCount()), styleDim})
	}
	y := ht/2 - len(lines)/2
	for _, l := range lines {
		drawString(s, (w-runewidth.StringWidth(l.text))/2, y, l.text, l.style)
		y++
	}
}

// drawChallenge 左侧题面，右侧编辑器，底部状态与用例结果
func (h *host) drawChallenge(s tcell.Screen, w, ht int) {
	m := h.active
	p := m.Problem()

	drawString(s, 1, 0, fmt.Sprintf("#%d %s", p.Number, p.Title), styleDefault)
	drawString(s, 1, 1, fmt.Sprintf("%s diamond | %s | reward %d | %s",
		m.Handoff().Tier, p.LeetCodeDifficulty, p.Reward, m.Session().Language()), styleDim)

	split := w * 2 / 5
	resultsRows := 8
	bodyTop := 3
	bodyBottom := ht - resultsRows
	for i, line := range wrapCells(p.Statement(), split-2) {
		if bodyTop+i >= bodyBottom {
			break
		}
		drawString(s, 1, bodyTop+i, line, styleDefault)
	}

	h.editorLines = max(bodyBottom-bodyTop, 1)
	if editor := m.Editor(); editor != nil {
		lines := editor.Lines()
		for row := 0; row < h.editorLines; row++ {
			i := editor.ScrollTop + row
			if i >= len(lines) {
				break
			}
			drawString(s, split, bodyTop+row, fmt.Sprintf("%3d ", i+1), styleDim)
			drawString(s, split+4, bodyTop+row, lines[i], styleDefault)
		}
		if editor.CursorVisible && !m.Closing() {
			line, col := editor.CursorLineCol()
			if row := line - editor.ScrollTop; row >= 0 && row < h.editorLines {
				cx := split + 4 + runewidth.StringWidth(string([]rune(lines[line])[:col]))
				r, _, _, _ := s.GetContent(cx, bodyTop+row)
				s.SetContent(cx, bodyTop+row, r, nil, styleCursor)
			}
		}
	}

	y := bodyBottom
	statusStyle := styleDefault
	if m.Closing() {
		statusStyle = stylePass
	}
	drawString(s, 1, y, m.Status(), statusStyle)
	y++
	report := m.Session().LastReport()
	if report == nil {
		drawString(s, 1, y, "F5 run  F6 submit  F7 language  Esc skip  F8 close", styleDim)
		return
	}
	for i, r := range report.Results {
		if y >= ht {
			return
		}
		style := styleFail
		if r.Passed {
			style = stylePass
		}
		drawString(s, 1, y, r.Describe(i+1), style)
		y++
	}
	for _, l := range report.Logs {
		if y >= ht {
			return
		}
		drawString(s, 1, y, "> "+l, styleDim)
		y++
	}
}
