package components

import "github.com/DSoyomokun/CSC4821/pkg/ecs"

// PlayerState 玩家动作状态
type PlayerState int

const (
	PlayerRunning PlayerState = iota
	PlayerJumping
	PlayerSliding
)

func (s PlayerState) String() string {
	switch s {
	case PlayerRunning:
		return "running"
	case PlayerJumping:
		return "jumping"
	case PlayerSliding:
		return "sliding"
	}
	return "unknown"
}

// PlayerComponent 玩家运动状态
// 玩家水平位置固定，只在竖直方向运动
type PlayerComponent struct {
	State     PlayerState
	VelocityY float64      // 像素/秒，负值向上
	OnGround  bool         // 站在地面或平台上
	Standing  ecs.EntityID // 脚下的平台，0 表示地面或空中

	SlideTimer float64 // 下滑剩余时间（毫秒）
	Down       bool    // 下键是否按住
	DownHeld   float64 // 下键持续按住时间（毫秒）
	DropTimer  float64 // 穿透平台剩余时间（毫秒），>0 时忽略平台

	StandWidth  float64
	StandHeight float64
	SlideWidth  float64
	SlideHeight float64
}
