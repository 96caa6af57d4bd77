package utils

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	monoOnce   sync.Once
	monoSource *text.GoTextFaceSource
	monoErr    error

	faceMu    sync.Mutex
	faceCache = map[float64]*text.GoTextFace{}
)

// LoadMonoFont 返回指定字号的等宽字体（Go Mono），按字号缓存
// 代码编辑器依赖等宽字体来定位光标
func LoadMonoFont(size float64) (*text.GoTextFace, error) {
	monoOnce.Do(func() {
		monoSource, monoErr = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	})
	if monoErr != nil {
		return nil, fmt.Errorf("failed to create mono font source: %w", monoErr)
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face, nil
	}
	face := &text.GoTextFace{
		Source:    monoSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	faceCache[size] = face
	return face, nil
}

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本，原有换行符保留为段落分隔
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 优先在空格处断行
//   - 如果单词太长超过最大宽度，按字符强制断行
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if textStr == "" || font == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	for _, paragraph := range strings.Split(strings.TrimRight(textStr, "\n"), "\n") {
		lines = append(lines, wrapParagraph(paragraph, font, maxWidth)...)
	}
	return lines
}

func wrapParagraph(paragraph string, font *text.GoTextFace, maxWidth float64) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	currentLine := ""
	for _, word := range words {
		testLine := word
		if currentLine != "" {
			testLine = currentLine + " " + word
		}
		if measureTextWidth(testLine, font) <= maxWidth {
			currentLine = testLine
			continue
		}

		if currentLine != "" {
			lines = append(lines, currentLine)
		}
		// 单词本身超宽，按字符断开
		for measureTextWidth(word, font) > maxWidth {
			head := breakWord(word, font, maxWidth)
			lines = append(lines, head)
			word = word[len(head):]
		}
		currentLine = word
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

// breakWord 返回 word 中能放进 maxWidth 的最长前缀（至少一个字符）
func breakWord(word string, font *text.GoTextFace, maxWidth float64) string {
	end := 0
	for end < len(word) {
		_, size := utf8.DecodeRuneInString(word[end:])
		if end > 0 && measureTextWidth(word[:end+size], font) > maxWidth {
			break
		}
		end += size
	}
	return word[:end]
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}
	width, _ := text.Measure(textStr, font, 0)
	return width
}

// MeasureTextWidth 测量文本宽度（导出给场景居中对齐使用）
func MeasureTextWidth(textStr string, font *text.GoTextFace) float64 {
	return measureTextWidth(textStr, font)
}
