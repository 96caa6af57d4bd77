package challenge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrPythonSyntax Python 代码无法解析
	ErrPythonSyntax = errors.New("python syntax error")
	// ErrUnsupportedSyntax 使用了转换器不支持的 Python 语法
	ErrUnsupportedSyntax = errors.New("unsupported python syntax")
)

// PythonError 带行号的 Python 转换错误
type PythonError struct {
	Line        int
	Msg         string
	Unsupported bool
}

func (e *PythonError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *PythonError) Unwrap() error {
	if e.Unsupported {
		return ErrUnsupportedSyntax
	}
	return ErrPythonSyntax
}

func syntaxErr(line int, format string, args ...any) error {
	return &PythonError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func unsupportedErr(line int, format string, args ...any) error {
	return &PythonError{Line: line, Msg: fmt.Sprintf(format, args...), Unsupported: true}
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokName
	tokKeyword
	tokNumber
	tokString
	tokOp
)

type token struct {
	kind tokKind
	text string // 字符串为解码后的值
	line int
}

// logicalLine 一个逻辑行：括号内换行和反斜杠续行会合并
type logicalLine struct {
	indent int
	toks   []token
	line   int
}

var pyKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// 不支持的关键字（出现即拒绝）
var pyUnsupported = map[string]bool{
	"class": true, "import": true, "from": true, "with": true, "try": true,
	"except": true, "finally": true, "raise": true, "yield": true, "global": true,
	"nonlocal": true, "async": true, "await": true, "assert": true, "as": true,
}

// 按长度降序匹配
var pyOperators = []string{
	"**=", "//=", ">>=", "<<=",
	"**", "//", "==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->", "<<", ">>", ":=",
	"+", "-", "*", "/", "%", "<", ">", "=", "(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "~", "&", "|", "^", "@",
}

// lexPython 把源码切分为逻辑行
func lexPython(src string) ([]logicalLine, error) {
	rs := []rune(strings.ReplaceAll(src, "\r\n", "\n"))

	var (
		lines       []logicalLine
		cur         *logicalLine
		depth       int
		line        = 1
		atLineStart = true
	)

	i := 0
	for i < len(rs) {
		if atLineStart && cur == nil {
			col := 0
			for i < len(rs) && (rs[i] == ' ' || rs[i] == '\t' || rs[i] == '\f') {
				if rs[i] == '\t' {
					col = (col/8 + 1) * 8
				} else if rs[i] == ' ' {
					col++
				}
				i++
			}
			atLineStart = false
			if i >= len(rs) {
				break
			}
			if rs[i] == '\n' || rs[i] == '#' {
				// 空行或纯注释行
				for i < len(rs) && rs[i] != '\n' {
					i++
				}
				continue
			}
			cur = &logicalLine{indent: col, line: line}
			continue
		}

		c := rs[i]
		switch {
		case c == '\n':
			line++
			i++
			if depth == 0 {
				if cur != nil && len(cur.toks) > 0 {
					lines = append(lines, *cur)
				}
				cur = nil
				atLineStart = true
			}

		case c == ' ' || c == '\t' || c == '\f':
			i++

		case c == '#':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}

		case c == '\\':
			if i+1 < len(rs) && rs[i+1] == '\n' {
				i += 2
				line++
				continue
			}
			return nil, syntaxErr(line, "unexpected character after line continuation")

		case c == '"' || c == '\'':
			value, next, nl, err := lexString(rs, i, "", line)
			if err != nil {
				return nil, err
			}
			cur.toks = append(cur.toks, token{kind: tokString, text: value, line: line})
			line += nl
			i = next

		case isIdentStart(c):
			j := i
			for j < len(rs) && isIdentPart(rs[j]) {
				j++
			}
			word := string(rs[i:j])
			if j < len(rs) && (rs[j] == '"' || rs[j] == '\'') && isStringPrefix(word) {
				value, next, nl, err := lexString(rs, j, strings.ToLower(word), line)
				if err != nil {
					return nil, err
				}
				cur.toks = append(cur.toks, token{kind: tokString, text: value, line: line})
				line += nl
				i = next
				continue
			}
			kind := tokName
			if pyKeywords[word] {
				kind = tokKeyword
			}
			cur.toks = append(cur.toks, token{kind: kind, text: word, line: line})
			i = j

		case unicode.IsDigit(c) || (c == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			text, next, err := lexNumber(rs, i, line)
			if err != nil {
				return nil, err
			}
			cur.toks = append(cur.toks, token{kind: tokNumber, text: text, line: line})
			i = next

		default:
			op := matchOperator(rs, i)
			if op == "" {
				return nil, syntaxErr(line, "invalid character %q", c)
			}
			switch op {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return nil, syntaxErr(line, "unmatched %q", op)
				}
				depth--
			case ":=":
				return nil, unsupportedErr(line, "assignment expressions (:=) are not supported")
			}
			cur.toks = append(cur.toks, token{kind: tokOp, text: op, line: line})
			i += len([]rune(op))
		}
	}

	if depth > 0 {
		return nil, syntaxErr(line, "unexpected EOF: unclosed bracket")
	}
	if cur != nil && len(cur.toks) > 0 {
		lines = append(lines, *cur)
	}
	return lines, nil
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "rb", "br", "fr", "rf":
		return true
	}
	return false
}

func matchOperator(rs []rune, i int) string {
	for _, op := range pyOperators {
		n := len(op)
		if i+n <= len(rs) && string(rs[i:i+n]) == op {
			return op
		}
	}
	return ""
}

// lexNumber 读取数字字面量，返回可直接用于 JS 的文本
func lexNumber(rs []rune, i, line int) (string, int, error) {
	j := i
	for j < len(rs) {
		c := rs[j]
		if unicode.IsDigit(c) || unicode.IsLetter(c) || c == '_' || c == '.' {
			// 1e-5 / 1E+5
			if (c == 'e' || c == 'E') && j+1 < len(rs) && (rs[j+1] == '-' || rs[j+1] == '+') && !isHexLiteral(rs[i:j]) {
				j += 2
				continue
			}
			j++
			continue
		}
		break
	}
	text := strings.ReplaceAll(string(rs[i:j]), "_", "")
	lower := strings.ToLower(text)
	if strings.HasSuffix(lower, "j") && !strings.HasPrefix(lower, "0x") {
		return "", 0, unsupportedErr(line, "complex numbers are not supported")
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		if _, err := strconv.ParseInt(text, 0, 64); err != nil {
			return "", 0, syntaxErr(line, "invalid number %q", text)
		}
		return lower, j, nil
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return "", 0, syntaxErr(line, "invalid number %q", text)
	}
	// 去掉前导零，避免 JS 按八进制解析
	trimmed := strings.TrimLeft(text, "0")
	if trimmed == "" || trimmed[0] == '.' || trimmed[0] == 'e' || trimmed[0] == 'E' {
		trimmed = "0" + trimmed
	}
	return trimmed, j, nil
}

func isHexLiteral(rs []rune) bool {
	s := strings.ToLower(string(rs))
	return strings.HasPrefix(s, "0x")
}

// lexString 读取字符串字面量，返回解码后的值、结束位置和跨越的换行数
func lexString(rs []rune, i int, prefix string, line int) (string, int, int, error) {
	if strings.Contains(prefix, "f") {
		return "", 0, 0, unsupportedErr(line, "f-strings are not supported")
	}
	if strings.Contains(prefix, "b") {
		return "", 0, 0, unsupportedErr(line, "bytes literals are not supported")
	}
	raw := strings.Contains(prefix, "r")

	quote := rs[i]
	triple := i+2 < len(rs) && rs[i+1] == quote && rs[i+2] == quote
	if triple {
		i += 3
	} else {
		i++
	}

	var sb strings.Builder
	newlines := 0
	for i < len(rs) {
		c := rs[i]
		switch {
		case triple && c == quote && i+2 < len(rs) && rs[i+1] == quote && rs[i+2] == quote:
			return sb.String(), i + 3, newlines, nil
		case !triple && c == quote:
			return sb.String(), i + 1, newlines, nil
		case c == '\n':
			if !triple {
				return "", 0, 0, syntaxErr(line, "unterminated string literal")
			}
			newlines++
			sb.WriteRune(c)
			i++
		case c == '\\' && i+1 < len(rs):
			next := rs[i+1]
			if raw {
				sb.WriteRune(c)
				sb.WriteRune(next)
				if next == '\n' {
					newlines++
				}
				i += 2
				continue
			}
			n, err := decodeEscape(rs, i, &sb, line)
			if err != nil {
				return "", 0, 0, err
			}
			if next == '\n' {
				newlines++
			}
			i += n
		default:
			sb.WriteRune(c)
			i++
		}
	}
	return "", 0, 0, syntaxErr(line, "unterminated string literal")
}

// decodeEscape 解码 rs[i] 处的转义序列，返回消耗的字符数
func decodeEscape(rs []rune, i int, sb *strings.Builder, line int) (int, error) {
	next := rs[i+1]
	switch next {
	case '\n':
		return 2, nil
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\\', '\'', '"':
		sb.WriteRune(next)
	case 'x', 'u', 'U':
		width := map[rune]int{'x': 2, 'u': 4, 'U': 8}[next]
		if i+2+width > len(rs) {
			return 0, syntaxErr(line, "truncated \\%c escape", next)
		}
		v, err := strconv.ParseUint(string(rs[i+2:i+2+width]), 16, 32)
		if err != nil {
			return 0, syntaxErr(line, "invalid \\%c escape", next)
		}
		sb.WriteRune(rune(v))
		return 2 + width, nil
	default:
		// 未知转义保留原样
		sb.WriteRune('\\')
		sb.WriteRune(next)
	}
	return 2, nil
}
