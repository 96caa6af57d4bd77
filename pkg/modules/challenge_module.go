package modules

import (
	"errors"
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/game"
)

// SolvedCloseDelayMs 提交通过后停留多久再关闭挑战（毫秒）
const SolvedCloseDelayMs = 2000

// ChallengeModule 一次代码挑战
// 封装挑战会话与代码编辑器：
//   - 运行（只跑可见用例）/ 提交（可见 + 隐藏用例）
//   - 切换语言时分别保留两种语言的代码
//   - 跳过扣分、直接关闭不计分
//   - 提交通过后显示结果，延迟 2 秒关闭
//
// 结束时恰好调用一次 onClose，把 Outcome 交回跑酷场景。
type ChallengeModule struct {
	entityManager *ecs.EntityManager
	editorID      ecs.EntityID

	session *challenge.Session
	handoff challenge.Handoff

	intents     <-chan game.Intent
	unsubscribe func()

	status     string
	closeTimer float64 // 提交通过后的剩余停留时间（毫秒），<0 表示未在倒计时
	onClose    func(challenge.Outcome)
	finished   bool
}

// NewChallengeModule 创建挑战模块
//
// 参数:
//   - session: 已创建的挑战会话
//   - handoff: 跑酷场景交出的信息
//   - input: 输入总线，可为 nil（由调用方直接调用 HandleIntent）
//   - onClose: 挑战结束回调
func NewChallengeModule(session *challenge.Session, handoff challenge.Handoff, input *game.InputBus, onClose func(challenge.Outcome)) *ChallengeModule {
	em := ecs.NewEntityManager()
	m := &ChallengeModule{
		entityManager: em,
		session:       session,
		handoff:       handoff,
		closeTimer:    -1,
		onClose:       onClose,
	}

	m.editorID = em.CreateEntity()
	ecs.AddComponent(em, m.editorID, components.NewCodeEditor(session.Code()))

	if input != nil {
		m.intents, m.unsubscribe = input.Subscribe()
	}

	m.status = fmt.Sprintf("%s [%s] - F5 run, F6 submit, F7 language, Esc skip, F8 close", session.Problem.Title, handoff.Tier)
	log.Printf("[ChallengeModule] opened %s for %s diamond", session.Problem.ID, handoff.Tier)
	return m
}

// Update 处理输入并推进关闭倒计时
// 参数:
//   - deltaMs: 帧时间（毫秒）
func (m *ChallengeModule) Update(deltaMs float64) {
	if m.finished {
		return
	}
	if m.intents != nil {
		for _, intent := range game.Drain(m.intents) {
			m.HandleIntent(intent)
			if m.finished {
				return
			}
		}
	}

	if m.closeTimer >= 0 {
		m.closeTimer -= deltaMs
		if m.closeTimer <= 0 {
			outcome, _ := m.session.Outcome()
			m.finish(outcome)
		}
	}
}

// HandleIntent 处理单个意图
// 提交通过后的倒计时期间不再响应任何操作
func (m *ChallengeModule) HandleIntent(intent game.Intent) {
	if m.finished || m.closeTimer >= 0 {
		return
	}
	switch intent {
	case game.IntentRunCode:
		m.Run()
	case game.IntentSubmit:
		m.Submit()
	case game.IntentToggleLanguage:
		m.ToggleLanguage()
	case game.IntentSkip:
		m.Skip()
	case game.IntentCloseChallenge:
		m.Abandon()
	}
}

// Run 只跑可见用例，不结束会话
func (m *ChallengeModule) Run() {
	m.syncCode()
	report, err := m.session.Run()
	m.status = describeRun("Run", report, err)
}

// Submit 跑全部用例，全部通过时开始关闭倒计时
func (m *ChallengeModule) Submit() {
	m.syncCode()
	report, err := m.session.Submit()
	if outcome, ok := m.session.Outcome(); ok && outcome.Kind == challenge.OutcomeSolved {
		m.status = fmt.Sprintf("All tests passed! %s, +%d points", report.Summary(), outcome.ScoreDelta)
		m.closeTimer = SolvedCloseDelayMs
		return
	}
	m.status = describeRun("Submit", report, err)
}

// ToggleLanguage 切换语言，编辑器换成另一种语言的代码
func (m *ChallengeModule) ToggleLanguage() {
	m.syncCode()
	lang := m.session.ToggleLanguage()
	if editor := m.Editor(); editor != nil {
		editor.SetText(m.session.Code())
	}
	m.status = fmt.Sprintf("Language: %s", lang)
}

// Skip 跳过题目（扣分）并立即关闭
func (m *ChallengeModule) Skip() {
	m.finish(m.session.Skip())
}

// Abandon 不计分关闭
func (m *ChallengeModule) Abandon() {
	m.finish(m.session.Close())
}

// syncCode 把编辑器内容写回会话
func (m *ChallengeModule) syncCode() {
	if editor := m.Editor(); editor != nil {
		m.session.SetCode(editor.String())
	}
}

func (m *ChallengeModule) finish(outcome challenge.Outcome) {
	if m.finished {
		return
	}
	m.finished = true
	m.closeTimer = -1
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	log.Printf("[ChallengeModule] finished %s: %s", outcome.ProblemID, outcome.Kind)
	if m.onClose != nil {
		m.onClose(outcome)
	}
}

// describeRun 运行结果的状态栏文字
func describeRun(action string, report *challenge.Report, err error) string {
	switch {
	case errors.Is(err, challenge.ErrCompilation):
		return fmt.Sprintf("%s failed: %v", action, err)
	case err != nil:
		return fmt.Sprintf("%s error: %v", action, err)
	case report == nil:
		return action + ": no result"
	case report.AllPassed():
		return fmt.Sprintf("%s: %s", action, report.Summary())
	default:
		return fmt.Sprintf("%s: %s - keep trying", action, report.Summary())
	}
}

// Editor 代码编辑器组件
func (m *ChallengeModule) Editor() *components.CodeEditorComponent {
	editor, _ := ecs.GetComponent[*components.CodeEditorComponent](m.entityManager, m.editorID)
	return editor
}

// EntityManager 挑战自己的实体管理器（编辑器实体）
func (m *ChallengeModule) EntityManager() *ecs.EntityManager {
	return m.entityManager
}

// Session 挑战会话
func (m *ChallengeModule) Session() *challenge.Session {
	return m.session
}

// Problem 当前题目
func (m *ChallengeModule) Problem() *challenge.Problem {
	return m.session.Problem
}

// Handoff 跑酷场景交出的信息
func (m *ChallengeModule) Handoff() challenge.Handoff {
	return m.handoff
}

// Status 状态栏文字
func (m *ChallengeModule) Status() string {
	return m.status
}

// Closing 是否处于提交通过后的关闭倒计时
func (m *ChallengeModule) Closing() bool {
	return m.closeTimer >= 0
}

// Finished 是否已结束
func (m *ChallengeModule) Finished() bool {
	return m.finished
}
