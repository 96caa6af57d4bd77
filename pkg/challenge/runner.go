package challenge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
)

var (
	// ErrCompilation 用户代码无法编译或没有定义约定的函数
	ErrCompilation = errors.New("compilation error")
	// ErrTimeout 用例执行超时
	ErrTimeout = errors.New("execution timed out")
)

// DefaultTimeout 单个用例的默认执行时限
const DefaultTimeout = 2 * time.Second

// maxLogLines console 输出保留的最大行数
const maxLogLines = 200

// Runner 在隔离的 goja 运行时中执行用户代码
//
// 每次评测新建一个运行时，除了被捕获的 console 之外不暴露任何宿主对象。
// 编译和每个用例都有时限，超时通过 Interrupt 打断。
type Runner struct {
	Timeout time.Duration
}

// NewRunner 创建执行器，timeout<=0 时使用默认时限
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Timeout: timeout}
}

// RunVisible 只运行可见用例
func (r *Runner) RunVisible(p *Problem, lang types.Language, code string) (*Report, error) {
	return r.Evaluate(p, lang, code, p.TestCases, nil)
}

// RunAll 运行可见用例和隐藏用例
func (r *Runner) RunAll(p *Problem, lang types.Language, code string) (*Report, error) {
	return r.Evaluate(p, lang, code, p.TestCases, p.HiddenTestCases)
}

// Evaluate 编译代码并逐个运行用例
// 只有编译失败会返回错误（包装 ErrCompilation），单个用例的异常记录在结果里
func (r *Runner) Evaluate(p *Problem, lang types.Language, code string, visible, hidden []TestCase) (*Report, error) {
	report := &Report{}

	source := code
	if lang == types.LanguagePython {
		js, err := TranspilePython(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCompilation, err)
		}
		source = js
	}

	vm, err := r.newRuntime(report)
	if err != nil {
		return nil, err
	}

	entry, err := r.compile(vm, source, p.EntryPoint(lang))
	if err != nil {
		return nil, err
	}
	if lang == types.LanguagePython {
		// Python 侧使用 Map/Set，出入参需要转换
		if entry, err = wrapEntry(vm, entry); err != nil {
			return nil, err
		}
	}
	fn, ok := goja.AssertFunction(entry)
	if !ok {
		return nil, fmt.Errorf("%w: entry point is not callable", ErrCompilation)
	}

	for _, tc := range visible {
		report.add(r.runCase(vm, fn, tc, false))
	}
	for _, tc := range hidden {
		report.add(r.runCase(vm, fn, tc, true))
	}

	log.Printf("[ChallengeRunner] %s (%s): %s", p.ID, lang, report.Summary())
	return report, nil
}

// logPrinter 把 console 输出收集到报告里
type logPrinter struct {
	report *Report
}

func (p logPrinter) append(prefix, s string) {
	if len(p.report.Logs) >= maxLogLines {
		return
	}
	p.report.Logs = append(p.report.Logs, prefix+s)
}

func (p logPrinter) Log(s string)   { p.append("", s) }
func (p logPrinter) Warn(s string)  { p.append("warn: ", s) }
func (p logPrinter) Error(s string) { p.append("error: ", s) }

// newRuntime 创建只带 console 的运行时
func (r *Runner) newRuntime(report *Report) (*goja.Runtime, error) {
	vm := goja.New()

	// 模块加载器不读磁盘，require 在启用 console 后移除
	registry := require.NewRegistry(require.WithLoader(func(path string) ([]byte, error) {
		return nil, require.ModuleFileDoesNotExistError
	}))
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(logPrinter{report: report}))
	registry.Enable(vm)
	console.Enable(vm)
	if err := vm.GlobalObject().Delete("require"); err != nil {
		return nil, fmt.Errorf("failed to remove require: %w", err)
	}

	if _, err := vm.RunString(jsPrelude); err != nil {
		return nil, fmt.Errorf("failed to install prelude: %w", err)
	}
	return vm, nil
}

// compile 把代码包进 IIFE 并取出约定的函数
func (r *Runner) compile(vm *goja.Runtime, source, entry string) (goja.Value, error) {
	wrapped := fmt.Sprintf("(function() {\n%s\n;return typeof %s === 'undefined' ? undefined : %s;\n})()", source, entry, entry)

	var result goja.Value
	err := r.withTimeout(vm, func() error {
		var err error
		result, err = vm.RunScript("solution.js", wrapped)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCompilation, describeError(err))
	}

	if _, ok := goja.AssertFunction(result); !ok {
		return nil, fmt.Errorf("%w: expected %s to be a function, but got %s", ErrCompilation, entry, typeOf(result))
	}
	return result, nil
}

func wrapEntry(vm *goja.Runtime, entry goja.Value) (goja.Value, error) {
	wrap, ok := goja.AssertFunction(vm.Get("__pyEntry"))
	if !ok {
		return nil, errors.New("python entry wrapper unavailable")
	}
	return wrap(goja.Undefined(), entry)
}

// runCase 运行单个用例
func (r *Runner) runCase(vm *goja.Runtime, fn goja.Callable, tc TestCase, hidden bool) TestResult {
	res := TestResult{Input: tc.Input, Expected: tc.Expected, Hidden: hidden}

	args := make([]goja.Value, len(tc.Args))
	for i, a := range tc.Args {
		v, err := toJSValue(vm, a)
		if err != nil {
			res.Error = fmt.Sprintf("bad test input: %v", err)
			return res
		}
		args[i] = v
	}

	start := time.Now()
	var out goja.Value
	err := r.withTimeout(vm, func() error {
		var err error
		out, err = fn(goja.Undefined(), args...)
		return err
	})
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = describeError(err)
		return res
	}

	actualJSON, err := stringify(vm, out)
	if err != nil {
		res.Error = fmt.Sprintf("result is not serializable: %v", err)
		return res
	}
	res.Output = actualJSON
	if actualJSON != "undefined" {
		_ = json.Unmarshal([]byte(actualJSON), &res.Actual)
	}
	res.Passed = jsonEqual(actualJSON, tc.Expected)
	return res
}

// withTimeout 在时限内执行 f，超时后打断运行时
func (r *Runner) withTimeout(vm *goja.Runtime, f func() error) error {
	fired := make(chan struct{})
	timer := time.AfterFunc(r.Timeout, func() {
		vm.Interrupt(ErrTimeout)
		close(fired)
	})
	err := f()
	if !timer.Stop() {
		// 回调已经开始，等它打断完再清除，避免误伤下一个用例
		<-fired
	}
	vm.ClearInterrupt()
	return err
}

// toJSValue 通过 JSON 把 Go 值转成 JS 值，得到普通数组和对象
func toJSValue(vm *goja.Runtime, v any) (goja.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	parse, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))
	if !ok {
		return nil, errors.New("JSON.parse unavailable")
	}
	return parse(goja.Undefined(), vm.ToValue(string(data)))
}

// stringify 等价于 JSON.stringify，undefined 返回 "undefined"
func stringify(vm *goja.Runtime, v goja.Value) (string, error) {
	if v == nil || goja.IsUndefined(v) {
		return "undefined", nil
	}
	fn, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return "", errors.New("JSON.stringify unavailable")
	}
	out, err := fn(goja.Undefined(), v)
	if err != nil {
		return "", err
	}
	if goja.IsUndefined(out) {
		return "undefined", nil
	}
	return out.String(), nil
}

// jsonEqual 结构相等：两边都规范化为 JSON 后比较（数组有序，对象键排序）
func jsonEqual(actualJSON string, expected any) bool {
	if actualJSON == "undefined" {
		return false
	}
	var actual any
	if err := json.Unmarshal([]byte(actualJSON), &actual); err != nil {
		return false
	}
	a, err := json.Marshal(actual)
	if err != nil {
		return false
	}
	e, err := canonicalJSON(expected)
	if err != nil {
		return false
	}
	return string(a) == e
}

func canonicalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return "", err
	}
	out, err := json.Marshal(normalized)
	return string(out), err
}

// describeError 把 goja 错误转成给玩家看的文本
func describeError(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok && errors.Is(v, ErrTimeout) {
			return ErrTimeout.Error()
		}
		return "interrupted"
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return strings.TrimSpace(exception.Value().String())
	}
	var syntax *goja.CompilerSyntaxError
	if errors.As(err, &syntax) {
		return "SyntaxError: " + syntax.Message
	}
	return err.Error()
}

func typeOf(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "object"
	}
	switch v.Export().(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, float64:
		return "number"
	}
	return "object"
}
