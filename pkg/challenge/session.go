package challenge

import (
	"errors"
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"github.com/google/uuid"
)

// ErrSessionClosed 会话已经结束
var ErrSessionClosed = errors.New("challenge session closed")

// OutcomeKind 会话结束方式
type OutcomeKind string

const (
	OutcomeSolved    OutcomeKind = "solved"
	OutcomeSkipped   OutcomeKind = "skipped"
	OutcomeAbandoned OutcomeKind = "abandoned"
)

// Handoff 跑酷场景交给挑战场景的信息
type Handoff struct {
	ProblemID string
	Tier      types.DiamondTier
	Distance  float64
}

// Outcome 挑战结束后交回跑酷场景的结果
type Outcome struct {
	SessionID  string
	ProblemID  string
	Kind       OutcomeKind
	ScoreDelta int // 加到奖励分上（跳过为负）
	Attempts   int // 提交次数
	Language   types.Language
}

// Evaluator 执行用户代码
type Evaluator interface {
	RunVisible(p *Problem, lang types.Language, code string) (*Report, error)
	RunAll(p *Problem, lang types.Language, code string) (*Report, error)
}

// SessionOptions 会话参数
type SessionOptions struct {
	Language    types.Language // 初始语言，默认 JavaScript
	SkipPenalty int            // 跳过扣分（正数）
}

// Session 一次代码挑战
// 拾取钻石时创建，提交通过、跳过或关闭时结束
type Session struct {
	ID      string
	Problem *Problem

	runner   Evaluator
	opts     SessionOptions
	language types.Language
	code     map[types.Language]string

	lastReport *Report
	lastErr    error
	attempts   int
	outcome    *Outcome
}

// NewSession 创建会话，每种语言的代码用初始代码填充
func NewSession(p *Problem, runner Evaluator, opts SessionOptions) *Session {
	if opts.Language == "" {
		opts.Language = types.LanguageJavaScript
	}
	s := &Session{
		ID:       uuid.NewString(),
		Problem:  p,
		runner:   runner,
		opts:     opts,
		language: opts.Language,
		code: map[types.Language]string{
			types.LanguageJavaScript: p.Starter(types.LanguageJavaScript),
			types.LanguagePython:     p.Starter(types.LanguagePython),
		},
	}
	log.Printf("[ChallengeSession] %s opened for %s (%s)", s.ID, p.ID, s.language)
	return s
}

// Language 当前语言
func (s *Session) Language() types.Language {
	return s.language
}

// SetLanguage 切换语言，各语言的代码分别保留
func (s *Session) SetLanguage(lang types.Language) error {
	switch lang {
	case types.LanguageJavaScript, types.LanguagePython:
	default:
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.language = lang
	return nil
}

// ToggleLanguage 在 JavaScript 与 Python 之间切换
func (s *Session) ToggleLanguage() types.Language {
	if s.language == types.LanguagePython {
		s.language = types.LanguageJavaScript
	} else {
		s.language = types.LanguagePython
	}
	return s.language
}

// Code 当前语言的代码
func (s *Session) Code() string {
	return s.code[s.language]
}

// SetCode 更新当前语言的代码
func (s *Session) SetCode(code string) {
	s.code[s.language] = code
}

// LastReport 最近一次运行结果（编译失败时为 nil）
func (s *Session) LastReport() *Report {
	return s.lastReport
}

// LastError 最近一次运行的编译错误
func (s *Session) LastError() error {
	return s.lastErr
}

// Attempts 提交次数
func (s *Session) Attempts() int {
	return s.attempts
}

// Run 只运行可见用例，不结束会话
func (s *Session) Run() (*Report, error) {
	if s.outcome != nil {
		return nil, ErrSessionClosed
	}
	return s.record(s.runner.RunVisible(s.Problem, s.language, s.Code()))
}

// Submit 运行全部用例，全部通过时以 solved 结束会话
func (s *Session) Submit() (*Report, error) {
	if s.outcome != nil {
		return nil, ErrSessionClosed
	}
	s.attempts++
	report, err := s.record(s.runner.RunAll(s.Problem, s.language, s.Code()))
	if err != nil {
		return nil, err
	}
	if report.AllPassed() {
		s.finish(OutcomeSolved, s.Problem.Reward)
	}
	return report, nil
}

func (s *Session) record(report *Report, err error) (*Report, error) {
	s.lastReport, s.lastErr = report, err
	return report, err
}

// Skip 放弃题目并扣分
func (s *Session) Skip() Outcome {
	if s.outcome == nil {
		s.finish(OutcomeSkipped, -s.opts.SkipPenalty)
	}
	return *s.outcome
}

// Close 不计分关闭会话；已结束的会话返回原结果
func (s *Session) Close() Outcome {
	if s.outcome == nil {
		s.finish(OutcomeAbandoned, 0)
	}
	return *s.outcome
}

// Closed 会话是否已结束
func (s *Session) Closed() bool {
	return s.outcome != nil
}

// Outcome 会话结果，未结束时返回 false
func (s *Session) Outcome() (Outcome, bool) {
	if s.outcome == nil {
		return Outcome{}, false
	}
	return *s.outcome, true
}

func (s *Session) finish(kind OutcomeKind, delta int) {
	s.outcome = &Outcome{
		SessionID:  s.ID,
		ProblemID:  s.Problem.ID,
		Kind:       kind,
		ScoreDelta: delta,
		Attempts:   s.attempts,
		Language:   s.language,
	}
	log.Printf("[ChallengeSession] %s closed: %s (%+d)", s.ID, kind, delta)
}
