// verify_problems 用参考解答校验题库
//
// 对 data/problems 中的每道题，读取 data/solutions/<id>.js 和 <id>.py，
// 用与游戏相同的沙箱跑全部用例（含隐藏用例）。有任何失败时退出码为 1。
//
// 用法:
//
//	go run ./cmd/verify_problems [-root .] [-problem two_sum] [-lang python] [-verbose]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

var (
	rootFlag    = flag.String("root", ".", "Directory containing data/")
	problemFlag = flag.String("problem", "", "Only verify this problem id")
	langFlag    = flag.String("lang", "", "Only verify this language (javascript or python)")
	verboseFlag = flag.Bool("verbose", false, "Show every test case and runner logs")
)

const (
	problemsDir  = "data/problems"
	solutionsDir = "data/solutions"
)

// solutionExt 每种语言的参考解答扩展名
var solutionExt = map[types.Language]string{
	types.LanguageJavaScript: ".js",
	types.LanguagePython:     ".py",
}

// result 单个题目/语言的校验结果
type result struct {
	problem string
	lang    types.Language
	report  *challenge.Report
	err     error
	missing bool
}

func (r result) ok() bool {
	return r.err == nil && (r.missing || r.report.AllPassed())
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	languages := []types.Language{types.LanguageJavaScript, types.LanguagePython}
	if *langFlag != "" {
		lang := types.Language(*langFlag)
		if _, ok := solutionExt[lang]; !ok {
			fmt.Fprintf(os.Stderr, "unknown language %q\n", *langFlag)
			os.Exit(2)
		}
		languages = []types.Language{lang}
	}

	fsys := os.DirFS(*rootFlag)
	bank, err := challenge.LoadBank(fsys, problemsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	problems := bank.All()
	if *problemFlag != "" {
		p, ok := bank.Get(*problemFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "problem %q not found\n", *problemFlag)
			os.Exit(2)
		}
		problems = []*challenge.Problem{p}
	}

	results := verifyAll(fsys, challenge.NewRunner(challenge.DefaultTimeout), problems, languages)
	failed := 0
	for _, r := range results {
		printResult(r, *verboseFlag)
		if !r.ok() {
			failed++
		}
	}

	fmt.Printf("\n%d checks, %d failed\n", len(results), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// verifyAll 逐题逐语言运行参考解答
// 缺少参考解答时记为 missing，不算失败
func verifyAll(fsys fs.FS, runner challenge.Evaluator, problems []*challenge.Problem, languages []types.Language) []result {
	var results []result
	for _, p := range problems {
		for _, lang := range languages {
			r := result{problem: p.ID, lang: lang}
			code, err := fs.ReadFile(fsys, path.Join(solutionsDir, p.ID+solutionExt[lang]))
			switch {
			case errors.Is(err, fs.ErrNotExist):
				r.missing = true
			case err != nil:
				r.err = err
			default:
				r.report, r.err = runner.RunAll(p, lang, string(code))
			}
			results = append(results, r)
		}
	}
	return results
}

func printResult(r result, verbose bool) {
	switch {
	case r.missing:
		fmt.Printf("[SKIP] %-32s %-10s no reference solution\n", r.problem, r.lang)
		return
	case r.err != nil:
		fmt.Printf("[FAIL] %-32s %-10s %v\n", r.problem, r.lang, r.err)
		return
	case r.report.AllPassed():
		fmt.Printf("[ OK ] %-32s %-10s %s\n", r.problem, r.lang, r.report.Summary())
	default:
		fmt.Printf("[FAIL] %-32s %-10s %s\n", r.problem, r.lang, r.report.Summary())
	}

	for i, tr := range r.report.Results {
		if verbose || !tr.Passed {
			fmt.Printf("       %s\n", tr.Describe(i+1))
		}
	}
	if verbose {
		for _, l := range r.report.Logs {
			fmt.Printf("       > %s\n", l)
		}
	}
}
