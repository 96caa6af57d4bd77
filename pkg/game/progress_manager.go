package game

import (
	"fmt"
	"log"
	"sort"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Progress 跨局保存的玩家进度
type Progress struct {
	Completed    []string `yaml:"completed"`    // 已解出的题目ID（升序）
	BestDistance float64  `yaml:"bestDistance"` // 最远距离
	BestScore    int      `yaml:"bestScore"`    // 最高分
	Runs         int      `yaml:"runs"`         // 完成的局数
}

// ProgressManager 进度管理器
// 负责已完成题目与最佳成绩的加载、保存和内存管理
type ProgressManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	progress     *Progress
	completed    map[string]bool
}

// 存储路径常量
const (
	progressObject   = "progress"
	progressProperty = "player"
)

// NewProgressManager 创建进度管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，进度只保存在内存中）
func NewProgressManager(gdataManager *gdata.Manager) *ProgressManager {
	pm := &ProgressManager{
		gdataManager: gdataManager,
		progress:     &Progress{},
		completed:    make(map[string]bool),
	}

	// 加载失败不是致命错误，从空进度开始
	if err := pm.Load(); err != nil {
		log.Printf("[ProgressManager] Warning: Failed to load progress: %v (starting fresh)", err)
	}
	return pm
}

// Load 从 gdata 加载进度
func (pm *ProgressManager) Load() error {
	if pm.gdataManager == nil {
		return nil
	}
	if !pm.gdataManager.ObjectPropExists(progressObject, progressProperty) {
		return nil
	}

	data, err := pm.gdataManager.LoadObjectProp(progressObject, progressProperty)
	if err != nil {
		return fmt.Errorf("failed to load progress: %w", err)
	}

	var loaded Progress
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	pm.progress = &loaded
	pm.completed = make(map[string]bool, len(loaded.Completed))
	for _, id := range loaded.Completed {
		pm.completed[id] = true
	}
	log.Printf("[ProgressManager] Progress loaded (%d completed)", len(pm.completed))
	return nil
}

// Save 保存进度到 gdata
// gdataManager 为 nil 时直接返回 nil（降级模式，不报错）
func (pm *ProgressManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(pm.progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(progressObject, progressProperty, data); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	log.Printf("[ProgressManager] Progress saved")
	return nil
}

// MarkComplete 记录题目已解出，返回是否为首次解出
func (pm *ProgressManager) MarkComplete(problemID string) bool {
	if pm.completed[problemID] {
		return false
	}
	pm.completed[problemID] = true
	pm.progress.Completed = append(pm.progress.Completed, problemID)
	sort.Strings(pm.progress.Completed)
	return true
}

// IsCompleted 题目是否已解出
func (pm *ProgressManager) IsCompleted(problemID string) bool {
	return pm.completed[problemID]
}

// Completed 已解出题目集合的副本
func (pm *ProgressManager) Completed() map[string]bool {
	out := make(map[string]bool, len(pm.completed))
	for id := range pm.completed {
		out[id] = true
	}
	return out
}

// CompletedCount 已解出题目数
func (pm *ProgressManager) CompletedCount() int {
	return len(pm.completed)
}

// RecordRun 记录一局结果，返回是否刷新了最高分
func (pm *ProgressManager) RecordRun(distance float64, score int) bool {
	pm.progress.Runs++
	if distance > pm.progress.BestDistance {
		pm.progress.BestDistance = distance
	}
	if score > pm.progress.BestScore {
		pm.progress.BestScore = score
		return true
	}
	return false
}

// GetProgress 获取当前进度
func (pm *ProgressManager) GetProgress() *Progress {
	return pm.progress
}

// Reset 清空进度（仅内存，需调用 Save 持久化）
func (pm *ProgressManager) Reset() {
	pm.progress = &Progress{}
	pm.completed = make(map[string]bool)
}
