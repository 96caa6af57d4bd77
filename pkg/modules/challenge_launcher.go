package modules

import (
	"errors"
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// ErrChallengeOpen 已有挑战在进行中
var ErrChallengeOpen = errors.New("a challenge is already open")

// ChallengeLauncherConfig 挑战启动器配置
type ChallengeLauncherConfig struct {
	Bank        *challenge.Bank
	Runner      challenge.Evaluator
	Progress    *game.ProgressManager // 可为 nil，为 nil 时不跳过已完成的题目
	Input       *game.InputBus
	Language    types.Language // 首次打开时的语言
	SkipPenalty int

	// 宿主回调：桌面版在这里压入/弹出挑战场景，终端版切换渲染目标
	OnOpen  func(m *ChallengeModule)
	OnClose func(m *ChallengeModule)
}

// ChallengeLauncher 实现 Launcher：按钻石等级选题，创建会话和挑战模块
// 记住玩家上一次使用的语言
type ChallengeLauncher struct {
	cfg      ChallengeLauncherConfig
	language types.Language
	active   *ChallengeModule
}

// NewChallengeLauncher 创建挑战启动器
func NewChallengeLauncher(cfg ChallengeLauncherConfig) *ChallengeLauncher {
	lang := cfg.Language
	if lang == "" {
		lang = types.LanguageJavaScript
	}
	return &ChallengeLauncher{cfg: cfg, language: lang}
}

// Launch 打开挑战
//
// 返回:
//   - error: 已有挑战进行中、题库为空或找不到可用题目时返回错误
func (l *ChallengeLauncher) Launch(h challenge.Handoff, onClose func(challenge.Outcome)) error {
	if l.active != nil && !l.active.Finished() {
		return ErrChallengeOpen
	}
	if l.cfg.Bank == nil || l.cfg.Runner == nil {
		return fmt.Errorf("challenge launcher: bank and runner are required")
	}

	var completed func(string) bool
	if l.cfg.Progress != nil {
		completed = l.cfg.Progress.IsCompleted
	}
	problem, err := l.cfg.Bank.Pick(h.Tier, h.ProblemID, completed)
	if err != nil {
		return fmt.Errorf("pick problem: %w", err)
	}
	if problem.ID != h.ProblemID {
		log.Printf("[ChallengeLauncher] %s unavailable or completed, picked %s", h.ProblemID, problem.ID)
	}

	session := challenge.NewSession(problem, l.cfg.Runner, challenge.SessionOptions{
		Language:    l.language,
		SkipPenalty: l.cfg.SkipPenalty,
	})

	var m *ChallengeModule
	m = NewChallengeModule(session, h, l.cfg.Input, func(o challenge.Outcome) {
		l.language = o.Language
		l.active = nil
		if l.cfg.OnClose != nil {
			l.cfg.OnClose(m)
		}
		if onClose != nil {
			onClose(o)
		}
	})
	l.active = m

	if l.cfg.OnOpen != nil {
		l.cfg.OnOpen(m)
	}
	return nil
}

// Active 当前进行中的挑战，没有时返回 nil
func (l *ChallengeLauncher) Active() *ChallengeModule {
	return l.active
}

// Language 下一次打开挑战时使用的语言
func (l *ChallengeLauncher) Language() types.Language {
	return l.language
}
