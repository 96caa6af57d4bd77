package systems

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 按键重复：第1帧立即响应，按住 30 帧后每 3 帧响应一次
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 3
	cursorBlinkPeriod = 0.5 // 秒
)

// CodeEditorSystem 代码编辑器键盘输入
// 把物理键盘映射到 CodeEditorComponent 的编辑操作，并处理光标闪烁
type CodeEditorSystem struct {
	entityManager *ecs.EntityManager
	visibleLines  int
}

// NewCodeEditorSystem 创建代码编辑器系统
func NewCodeEditorSystem(em *ecs.EntityManager, visibleLines int) *CodeEditorSystem {
	return &CodeEditorSystem{
		entityManager: em,
		visibleLines:  visibleLines,
	}
}

// Update 更新所有获得焦点的编辑器
// 参数:
//   - deltaTime: 帧时间（秒）
func (s *CodeEditorSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.CodeEditorComponent](s.entityManager) {
		editor, ok := ecs.GetComponent[*components.CodeEditorComponent](s.entityManager, id)
		if !ok {
			continue
		}
		if !editor.IsFocused {
			editor.CursorVisible = false
			continue
		}

		UpdateCursorBlink(editor, deltaTime)
		if s.handleKeyboardInput(editor) {
			editor.CursorBlinkTimer = 0
			editor.CursorVisible = true
			editor.EnsureVisible(s.visibleLines)
		}
	}
}

// UpdateCursorBlink 推进光标闪烁
func UpdateCursorBlink(editor *components.CodeEditorComponent, deltaTime float64) {
	editor.CursorBlinkTimer += deltaTime
	if editor.CursorBlinkTimer >= cursorBlinkPeriod {
		editor.CursorBlinkTimer = 0
		editor.CursorVisible = !editor.CursorVisible
	}
}

// handleKeyboardInput 处理键盘输入，返回缓冲区或光标是否变化
func (s *CodeEditorSystem) handleKeyboardInput(editor *components.CodeEditorComponent) bool {
	changed := false

	if runes := ebiten.AppendInputChars(nil); len(runes) > 0 {
		changed = editor.Insert(string(runes)) || changed
	}

	repeat := []struct {
		key    ebiten.Key
		action func() bool
	}{
		{ebiten.KeyBackspace, editor.Backspace},
		{ebiten.KeyDelete, editor.Delete},
		{ebiten.KeyEnter, editor.Newline},
		{ebiten.KeyArrowLeft, moved(editor.MoveLeft)},
		{ebiten.KeyArrowRight, moved(editor.MoveRight)},
		{ebiten.KeyArrowUp, moved(editor.MoveUp)},
		{ebiten.KeyArrowDown, moved(editor.MoveDown)},
	}
	for _, r := range repeat {
		if keyRepeated(r.key) {
			changed = r.action() || changed
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		changed = editor.Tab() || changed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		editor.Home()
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		editor.End()
		changed = true
	}
	return changed
}

func keyRepeated(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= keyRepeatDelay && d%keyRepeatInterval == 0)
}

func moved(f func()) func() bool {
	return func() bool {
		f()
		return true
	}
}
