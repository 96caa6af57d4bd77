// Package challenge 实现代码挑战：题库、沙箱执行、Python 子集转换与挑战会话
package challenge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/DSoyomokun/CSC4821/pkg/types"
)

var (
	// ErrInvalidProblem 题目定义不合法
	ErrInvalidProblem = errors.New("invalid problem")
	// ErrNoProblem 找不到可用的题目
	ErrNoProblem = errors.New("no problem available")
)

// Example 题面中的示例
type Example struct {
	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	Explanation string `yaml:"explanation,omitempty"`
}

// TestCase 一个测试用例
//
// Args 是显式的位置参数列表；旧格式只写 Input 时由 NormalizeArgs 推导：
// 单参数题目把整个 Input 作为唯一参数，多参数题目要求 Input 是等长列表并逐个展开。
type TestCase struct {
	Input    any   `yaml:"input"`
	Args     []any `yaml:"args,omitempty"`
	Expected any   `yaml:"expected"`
}

// Problem 一道编程题
type Problem struct {
	ID                 string    `yaml:"id"`
	Number             int       `yaml:"number"`
	Title              string    `yaml:"title"`
	Difficulty         int       `yaml:"difficulty"`         // 1-10
	LeetCodeDifficulty string    `yaml:"leetcodeDifficulty"` // Easy / Medium / Hard
	Topic              string    `yaml:"topic"`
	Topics             []string  `yaml:"topics"`
	Description        string    `yaml:"description"`
	Examples           []Example `yaml:"examples"`
	Constraints        []string  `yaml:"constraints"`
	Hints              []string  `yaml:"hints"`

	FunctionName      string   `yaml:"functionName"`
	FunctionSignature string   `yaml:"functionSignature"`
	Parameters        []string `yaml:"parameters"`
	ReturnType        string   `yaml:"returnType"`

	StarterCode       string `yaml:"starterCode"`
	StarterCodePython string `yaml:"starterCodePython"`

	TestCases       []TestCase `yaml:"testCases"`
	HiddenTestCases []TestCase `yaml:"hiddenTestCases"`

	Reward          int      `yaml:"reward"`
	Companies       []string `yaml:"companies"`
	SimilarProblems []string `yaml:"similarProblems"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate 校验题目并规范化所有用例的参数
func (p *Problem) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidProblem)
	}
	if !identPattern.MatchString(p.FunctionName) {
		return fmt.Errorf("%w: %s: functionName %q is not an identifier", ErrInvalidProblem, p.ID, p.FunctionName)
	}
	if len(p.Parameters) == 0 {
		return fmt.Errorf("%w: %s: parameters cannot be empty", ErrInvalidProblem, p.ID)
	}
	if p.Difficulty < 1 || p.Difficulty > 10 {
		return fmt.Errorf("%w: %s: difficulty must be 1-10, got %d", ErrInvalidProblem, p.ID, p.Difficulty)
	}
	if len(p.TestCases) == 0 {
		return fmt.Errorf("%w: %s: at least one visible test case is required", ErrInvalidProblem, p.ID)
	}
	if p.Reward < 0 {
		return fmt.Errorf("%w: %s: reward must be >= 0", ErrInvalidProblem, p.ID)
	}

	for i := range p.TestCases {
		if err := p.normalizeCase(&p.TestCases[i]); err != nil {
			return fmt.Errorf("%w: %s: testCases[%d]: %v", ErrInvalidProblem, p.ID, i, err)
		}
	}
	for i := range p.HiddenTestCases {
		if err := p.normalizeCase(&p.HiddenTestCases[i]); err != nil {
			return fmt.Errorf("%w: %s: hiddenTestCases[%d]: %v", ErrInvalidProblem, p.ID, i, err)
		}
	}
	return nil
}

func (p *Problem) normalizeCase(tc *TestCase) error {
	if tc.Args != nil {
		if len(tc.Args) != len(p.Parameters) {
			return fmt.Errorf("args has %d values for %d parameters", len(tc.Args), len(p.Parameters))
		}
		if tc.Input == nil {
			tc.Input = tc.Args
		}
		return nil
	}
	args, err := NormalizeArgs(tc.Input, len(p.Parameters))
	if err != nil {
		return err
	}
	tc.Args = args
	return nil
}

// NormalizeArgs 把旧格式的 Input 转成位置参数列表
//
//   - 单参数：Input 整体就是那个参数（[1,2,3] 传入的是一个数组）
//   - 多参数：Input 必须是长度等于参数个数的列表，逐个展开
func NormalizeArgs(input any, paramCount int) ([]any, error) {
	if paramCount == 1 {
		return []any{input}, nil
	}
	list, ok := input.([]any)
	if !ok {
		return nil, fmt.Errorf("input must be a list of %d arguments, got %T", paramCount, input)
	}
	if len(list) != paramCount {
		return nil, fmt.Errorf("input has %d values for %d parameters", len(list), paramCount)
	}
	return list, nil
}

// AllTestCases 可见用例 + 隐藏用例
func (p *Problem) AllTestCases() []TestCase {
	all := make([]TestCase, 0, len(p.TestCases)+len(p.HiddenTestCases))
	all = append(all, p.TestCases...)
	return append(all, p.HiddenTestCases...)
}

var camelBoundary = regexp.MustCompile(`([A-Z])`)

// PythonFunctionName 函数名的 snake_case 形式（containsDuplicate -> contains_duplicate）
func (p *Problem) PythonFunctionName() string {
	return strings.ToLower(camelBoundary.ReplaceAllString(p.FunctionName, "_$1"))
}

// EntryPoint 指定语言下用户代码中应定义的函数名
func (p *Problem) EntryPoint(lang types.Language) string {
	if lang == types.LanguagePython {
		return p.PythonFunctionName()
	}
	return p.FunctionName
}

// Starter 指定语言的初始代码；题目未提供时生成一个空函数
func (p *Problem) Starter(lang types.Language) string {
	params := strings.Join(p.Parameters, ", ")
	switch lang {
	case types.LanguagePython:
		if p.StarterCodePython != "" {
			return p.StarterCodePython
		}
		return fmt.Sprintf("def %s(%s):\n    # Write your solution here\n    pass\n", p.PythonFunctionName(), params)
	default:
		if p.StarterCode != "" {
			return p.StarterCode
		}
		return fmt.Sprintf("var %s = function(%s) {\n    // Write your solution here\n    \n};\n", p.FunctionName, params)
	}
}

// Statement 完整题面：描述、示例、约束和第一条提示
func (p *Problem) Statement() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(p.Description))
	for i, ex := range p.Examples {
		fmt.Fprintf(&sb, "\n\nExample %d:\nInput: %s\nOutput: %s", i+1, ex.Input, ex.Output)
		if ex.Explanation != "" {
			fmt.Fprintf(&sb, "\nExplanation: %s", ex.Explanation)
		}
	}
	if len(p.Constraints) > 0 {
		sb.WriteString("\n\nConstraints:")
		for _, c := range p.Constraints {
			sb.WriteString("\n- " + c)
		}
	}
	if len(p.Hints) > 0 {
		sb.WriteString("\n\nHint: " + p.Hints[0])
	}
	return sb.String()
}
