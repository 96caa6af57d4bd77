package game

import (
	"errors"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrSceneNotFound 要关闭的场景不在场景栈中
var ErrSceneNotFound = errors.New("scene not on stack")

// SceneFactory 场景工厂函数类型
// 用于按名称创建场景（如游戏结束后重新开始），避免循环依赖
type SceneFactory func(name string) Scene

// SceneManager 管理场景栈
//
// 只有栈顶场景会被 Update；所有场景从栈底到栈顶依次 Draw，
// 因此被覆盖的场景处于暂停状态但仍然可见。
type SceneManager struct {
	stack        []Scene
	sceneFactory SceneFactory // 场景工厂函数，用于创建新场景
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 关闭栈中所有场景，并以 scene 作为唯一场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	for i := len(sm.stack) - 1; i >= 0; i-- {
		closeScene(sm.stack[i])
	}
	sm.stack = []Scene{scene}
}

// Launch 把覆盖场景压入栈顶，下面的场景暂停更新但继续绘制
func (sm *SceneManager) Launch(scene Scene) {
	sm.stack = append(sm.stack, scene)
	log.Printf("[SceneManager] launched overlay (depth %d)", len(sm.stack))
}

// Close 把场景出栈（连同压在它上面的场景），并恢复下面的场景
//
// 返回：
//   - error: 场景不在栈中时返回 ErrSceneNotFound
func (sm *SceneManager) Close(scene Scene) error {
	for i := len(sm.stack) - 1; i >= 0; i-- {
		if sm.stack[i] != scene {
			continue
		}
		for j := len(sm.stack) - 1; j >= i; j-- {
			closeScene(sm.stack[j])
		}
		sm.stack = sm.stack[:i]
		log.Printf("[SceneManager] closed scene (depth %d)", len(sm.stack))
		return nil
	}
	return ErrSceneNotFound
}

// GetCurrentScene 返回栈顶场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	if len(sm.stack) == 0 {
		return nil
	}
	return sm.stack[len(sm.stack)-1]
}

// Depth 场景栈深度
func (sm *SceneManager) Depth() int {
	return len(sm.stack)
}

// LoadScene 通过工厂创建场景并切换过去
// name: 场景名称，如 "run"
func (sm *SceneManager) LoadScene(name string) {
	log.Printf("[SceneManager] 加载场景: %s", name)

	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return
	}

	newScene := sm.sceneFactory(name)
	if newScene != nil {
		sm.SwitchTo(newScene)
		log.Printf("[SceneManager] 成功切换到场景: %s", name)
	} else {
		log.Printf("[SceneManager] 错误: 无法创建场景: %s", name)
	}
}

// Update updates the scene on top of the stack.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if top := sm.GetCurrentScene(); top != nil {
		top.Update(deltaTime)
	}
}

// Draw renders every scene on the stack, bottom first.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	for _, scene := range sm.stack {
		scene.Draw(screen)
	}
}

// SaveOnExit 对栈中所有实现 Saveable 的场景调用 SaveOnExit
// 返回 false 表示至少有一个场景保存失败
func (sm *SceneManager) SaveOnExit() bool {
	ok := true
	for _, scene := range sm.stack {
		if s, isSaveable := scene.(Saveable); isSaveable && !s.SaveOnExit() {
			log.Printf("[SceneManager] Warning: scene failed to save on exit")
			ok = false
		}
	}
	return ok
}

func closeScene(scene Scene) {
	if c, ok := scene.(Closer); ok {
		c.Close()
	}
}
