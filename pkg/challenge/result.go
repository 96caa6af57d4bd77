package challenge

import (
	"encoding/json"
	"fmt"
	"time"
)

// TestResult 单个用例的执行结果
type TestResult struct {
	Passed   bool
	Input    any
	Expected any
	Actual   any    // 返回值（按 JSON 还原），出错或 undefined 时为 nil
	Output   string // 返回值的 JSON 文本，undefined 时为 "undefined"
	Error    string // 异常或超时信息，为空表示正常返回
	Duration time.Duration
	Hidden   bool // 隐藏用例，界面上不展示输入和期望值
}

// Report 一次运行的汇总
type Report struct {
	Results []TestResult
	Passed  int
	Total   int
	Logs    []string // 用户代码的 console 输出
}

// AllPassed 是否全部通过（没有用例时为 false）
func (r *Report) AllPassed() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// Summary 一行摘要
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d test cases passed", r.Passed, r.Total)
}

func (r *Report) add(res TestResult) {
	r.Results = append(r.Results, res)
	r.Total++
	if res.Passed {
		r.Passed++
	}
}

// Describe 单个用例的一行描述，index 从 1 开始
// 隐藏用例不暴露输入和期望值
func (r TestResult) Describe(index int) string {
	name := fmt.Sprintf("Case %d", index)
	if r.Hidden {
		name = fmt.Sprintf("Hidden case %d", index)
	}
	switch {
	case r.Passed:
		return name + ": passed"
	case r.Error != "":
		return fmt.Sprintf("%s: %s", name, r.Error)
	case r.Hidden:
		return name + ": wrong answer"
	default:
		return fmt.Sprintf("%s: input %s, expected %s, got %s", name, FormatValue(r.Input), FormatValue(r.Expected), r.Output)
	}
}

// FormatValue 用 JSON 表示测试数据，无法编码时退回 %v
func FormatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
