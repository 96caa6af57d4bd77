package components

import "github.com/DSoyomokun/CSC4821/pkg/types"

// LaserPhase 激光阶段
// 只能按 warning -> active -> expired 单向推进
type LaserPhase int

const (
	LaserWarning LaserPhase = iota // 预警：只显示轮廓，不造成伤害
	LaserActive                    // 激活：参与碰撞
	LaserExpired                   // 结束：等待回收
)

func (p LaserPhase) String() string {
	switch p {
	case LaserWarning:
		return "warning"
	case LaserActive:
		return "active"
	case LaserExpired:
		return "expired"
	}
	return "unknown"
}

// LaserComponent 激光障碍状态
type LaserComponent struct {
	Height types.LaserHeight

	Phase      LaserPhase
	PhaseTimer float64 // 当前阶段已持续时间（毫秒）

	WarningDuration float64 // 毫秒
	ActiveDuration  float64 // 毫秒

	HasHit bool // 本道激光是否已经命中过玩家（每道激光最多命中一次）
}

// CollisionEnabled 只有激活阶段参与碰撞
func (l *LaserComponent) CollisionEnabled() bool {
	return l.Phase == LaserActive
}
