package app

import (
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyBinding 按键到意图的映射
type keyBinding struct {
	key     ebiten.Key
	intent  game.Intent
	release bool // 为 true 时在松开时触发
}

// keyBindings 桌面版键位
// 编辑器打开时方向键和空格同样会发布跑酷意图，RunModule 恢复时会丢弃积压的意图
var keyBindings = []keyBinding{
	{key: ebiten.KeySpace, intent: game.IntentJump},
	{key: ebiten.KeyArrowUp, intent: game.IntentJump},
	{key: ebiten.KeyArrowDown, intent: game.IntentDownPress},
	{key: ebiten.KeyArrowDown, intent: game.IntentDownRelease, release: true},
	{key: ebiten.KeyP, intent: game.IntentPause},
	{key: ebiten.KeyEnter, intent: game.IntentConfirm},
	{key: ebiten.KeyF5, intent: game.IntentRunCode},
	{key: ebiten.KeyF6, intent: game.IntentSubmit},
	{key: ebiten.KeyF7, intent: game.IntentToggleLanguage},
	{key: ebiten.KeyF8, intent: game.IntentCloseChallenge},
	{key: ebiten.KeyEscape, intent: game.IntentSkip},
}

// publishIntents 把本帧的按键事件翻译成意图发布到总线
func publishIntents(bus *game.InputBus) {
	for _, b := range keyBindings {
		if b.release && inpututil.IsKeyJustReleased(b.key) {
			bus.Publish(b.intent)
		} else if !b.release && inpututil.IsKeyJustPressed(b.key) {
			bus.Publish(b.intent)
		}
	}
}
