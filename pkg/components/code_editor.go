package components

import "strings"

const editorTabWidth = 4

// CodeEditorComponent 多行代码编辑缓冲区
// 编辑操作都是纯函数式的方法，键盘映射由 CodeEditorSystem 负责
type CodeEditorComponent struct {
	Text   []rune // 缓冲区内容
	Cursor int    // 光标位置（字符索引）

	// 光标状态
	CursorVisible    bool    // 光标是否可见（闪烁效果）
	CursorBlinkTimer float64 // 光标闪烁计时器（秒）

	MaxLength int  // 最大字符数（0 = 无限制）
	IsFocused bool // 是否接收键盘输入
	ScrollTop int  // 首个可见行
}

// NewCodeEditor 以初始代码创建编辑器，光标置于末尾
func NewCodeEditor(code string) *CodeEditorComponent {
	e := &CodeEditorComponent{IsFocused: true, CursorVisible: true}
	e.SetText(code)
	return e
}

// SetText 替换缓冲区内容
func (e *CodeEditorComponent) SetText(code string) {
	e.Text = []rune(code)
	e.Cursor = len(e.Text)
	e.ScrollTop = 0
}

// String 返回缓冲区内容
func (e *CodeEditorComponent) String() string {
	return string(e.Text)
}

// Insert 在光标处插入文本
func (e *CodeEditorComponent) Insert(s string) bool {
	r := []rune(s)
	if len(r) == 0 {
		return false
	}
	if e.MaxLength > 0 && len(e.Text)+len(r) > e.MaxLength {
		return false
	}
	e.clampCursor()
	text := make([]rune, 0, len(e.Text)+len(r))
	text = append(text, e.Text[:e.Cursor]...)
	text = append(text, r...)
	text = append(text, e.Text[e.Cursor:]...)
	e.Text = text
	e.Cursor += len(r)
	return true
}

// Newline 换行并沿用当前行的缩进；行尾为 ':' 或 '{' 时额外缩进一级
func (e *CodeEditorComponent) Newline() bool {
	line, _ := e.CursorLineCol()
	lines := e.Lines()
	current := lines[line]
	col := e.Cursor - e.lineStart(line)
	before := string([]rune(current)[:col])

	indent := leadingSpaces(current)
	trimmed := strings.TrimRight(before, " ")
	if strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "{") {
		indent += editorTabWidth
	}
	return e.Insert("\n" + strings.Repeat(" ", indent))
}

// Tab 插入一级缩进
func (e *CodeEditorComponent) Tab() bool {
	return e.Insert(strings.Repeat(" ", editorTabWidth))
}

// Backspace 删除光标前的字符
func (e *CodeEditorComponent) Backspace() bool {
	e.clampCursor()
	if e.Cursor == 0 {
		return false
	}
	e.Text = append(e.Text[:e.Cursor-1], e.Text[e.Cursor:]...)
	e.Cursor--
	return true
}

// Delete 删除光标后的字符
func (e *CodeEditorComponent) Delete() bool {
	e.clampCursor()
	if e.Cursor >= len(e.Text) {
		return false
	}
	e.Text = append(e.Text[:e.Cursor], e.Text[e.Cursor+1:]...)
	return true
}

// MoveLeft 光标左移
func (e *CodeEditorComponent) MoveLeft() {
	if e.Cursor > 0 {
		e.Cursor--
	}
}

// MoveRight 光标右移
func (e *CodeEditorComponent) MoveRight() {
	if e.Cursor < len(e.Text) {
		e.Cursor++
	}
}

// Home 光标移到行首
func (e *CodeEditorComponent) Home() {
	line, _ := e.CursorLineCol()
	e.Cursor = e.lineStart(line)
}

// End 光标移到行尾
func (e *CodeEditorComponent) End() {
	line, _ := e.CursorLineCol()
	e.Cursor = e.lineStart(line) + len([]rune(e.Lines()[line]))
}

// MoveUp 光标上移一行，列号按目标行长度截断
func (e *CodeEditorComponent) MoveUp() {
	line, col := e.CursorLineCol()
	if line == 0 {
		e.Cursor = 0
		return
	}
	e.moveTo(line-1, col)
}

// MoveDown 光标下移一行
func (e *CodeEditorComponent) MoveDown() {
	line, col := e.CursorLineCol()
	if line >= len(e.Lines())-1 {
		e.Cursor = len(e.Text)
		return
	}
	e.moveTo(line+1, col)
}

// Lines 按行切分缓冲区（至少返回一行）
func (e *CodeEditorComponent) Lines() []string {
	return strings.Split(string(e.Text), "\n")
}

// CursorLineCol 返回光标所在行与列（从0开始）
func (e *CodeEditorComponent) CursorLineCol() (line, col int) {
	e.clampCursor()
	for i := 0; i < e.Cursor; i++ {
		if e.Text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// EnsureVisible 调整 ScrollTop 使光标行落在可见区域内
func (e *CodeEditorComponent) EnsureVisible(visibleLines int) {
	if visibleLines <= 0 {
		return
	}
	line, _ := e.CursorLineCol()
	if line < e.ScrollTop {
		e.ScrollTop = line
	}
	if line >= e.ScrollTop+visibleLines {
		e.ScrollTop = line - visibleLines + 1
	}
}

func (e *CodeEditorComponent) moveTo(line, col int) {
	length := len([]rune(e.Lines()[line]))
	if col > length {
		col = length
	}
	e.Cursor = e.lineStart(line) + col
}

func (e *CodeEditorComponent) lineStart(line int) int {
	if line == 0 {
		return 0
	}
	seen := 0
	for i, r := range e.Text {
		if r == '\n' {
			seen++
			if seen == line {
				return i + 1
			}
		}
	}
	return len(e.Text)
}

func (e *CodeEditorComponent) clampCursor() {
	if e.Cursor < 0 {
		e.Cursor = 0
	}
	if e.Cursor > len(e.Text) {
		e.Cursor = len(e.Text)
	}
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}
