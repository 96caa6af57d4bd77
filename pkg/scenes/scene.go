package scenes

import (
	"image/color"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/DSoyomokun/CSC4821/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Scene is a type alias for game.Scene to maintain backward compatibility.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// 场景名称，供 SceneManager.LoadScene 使用
const (
	SceneMenu = "menu"
	SceneRun  = "run"
)

// Deps 场景共享的依赖，由 app 在启动时组装
type Deps struct {
	SceneManager *game.SceneManager
	Input        *game.InputBus

	Config    *config.GameConfig
	Patterns  *config.SpawnPatterns
	Bank      *challenge.Bank
	Evaluator challenge.Evaluator

	Progress *game.ProgressManager
	Settings *game.SettingsManager
	Audio    *game.AudioManager // 可为 nil

	// Seed 返回每局的随机种子
	Seed func() int64
}

func (d *Deps) playSound(effect game.SoundEffect) {
	if d.Audio != nil {
		d.Audio.PlaySound(effect)
	}
}

// 调色板
var (
	colorBackground = color.RGBA{R: 12, G: 16, B: 28, A: 255}
	colorGround     = color.RGBA{R: 38, G: 52, B: 78, A: 255}
	colorGroundLine = color.RGBA{R: 80, G: 200, B: 255, A: 255}
	colorPlayer     = color.RGBA{R: 90, G: 230, B: 140, A: 255}
	colorPlatform   = color.RGBA{R: 120, G: 110, B: 200, A: 255}
	colorLaserWarn  = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	colorLaserFire  = color.RGBA{R: 255, G: 40, B: 40, A: 255}
	colorText       = color.RGBA{R: 230, G: 236, B: 245, A: 255}
	colorDimText    = color.RGBA{R: 140, G: 150, B: 170, A: 255}
	colorPass       = color.RGBA{R: 90, G: 230, B: 140, A: 255}
	colorFail       = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	colorOverlay    = color.RGBA{A: 200}
	colorPanel      = color.RGBA{R: 20, G: 26, B: 44, A: 245}
	colorEditor     = color.RGBA{R: 8, G: 10, B: 18, A: 255}
)

// tierColor 钻石等级对应的颜色
func tierColor(tier types.DiamondTier) color.Color {
	switch tier {
	case types.TierBlue:
		return color.RGBA{R: 60, G: 140, B: 255, A: 255}
	case types.TierBlack:
		return color.RGBA{R: 160, G: 60, B: 220, A: 255}
	default:
		return color.RGBA{R: 245, G: 245, B: 255, A: 255}
	}
}

// fonts 场景使用的字号
type fonts struct {
	title *text.GoTextFace
	body  *text.GoTextFace
	code  *text.GoTextFace
}

func loadFonts() fonts {
	var f fonts
	var err error
	if f.title, err = utils.LoadMonoFont(72); err != nil {
		log.Printf("[Scenes] Warning: Failed to load font: %v", err)
	}
	f.body, _ = utils.LoadMonoFont(26)
	f.code, _ = utils.LoadMonoFont(24)
	return f
}

// drawText 在 (x, y) 处绘制左上对齐的文字
func drawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

// drawCenteredText 水平居中绘制文字
func drawCenteredText(screen *ebiten.Image, s string, face *text.GoTextFace, y float64, clr color.Color) {
	x := (config.GameWindowWidth - utils.MeasureTextWidth(s, face)) / 2
	drawText(screen, s, face, x, y, clr)
}

// lineHeight 字体的行高
func lineHeight(face *text.GoTextFace) float64 {
	if face == nil {
		return 0
	}
	return face.Size * 1.4
}

// fillRect 以左上角坐标填充矩形
func fillRect(screen *ebiten.Image, x, y, w, h float64, clr color.Color) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

// strokeRect 以左上角坐标描边矩形
func strokeRect(screen *ebiten.Image, x, y, w, h, width float64, clr color.Color) {
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), float32(width), clr, false)
}

// blend 从 a 向 b 混合，t ∈ [0, 1]
func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(utils.Lerp(float64(x), float64(y), t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// drawOverlay 全屏半透明遮罩
func drawOverlay(screen *ebiten.Image) {
	fillRect(screen, 0, 0, config.GameWindowWidth, config.GameWindowHeight, colorOverlay)
}
