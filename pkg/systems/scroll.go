package systems

import (
	"math"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
)

// ScrollDelta 一帧内卷动的距离
func ScrollDelta(speed, deltaMs float64) float64 {
	return speed * deltaMs / 1000
}

// advanceScroll 按实体自身速度左移，返回是否已越过回收阈值
func advanceScroll(pos *components.PositionComponent, scroll *components.ScrollComponent, deltaMs float64) bool {
	pos.X -= ScrollDelta(scroll.Speed, deltaMs)
	return pos.X < scroll.OffScreenX
}

// ScrollSpeedAt 按距离计算卷动速度
// RampEvery 为 0 时速度恒定；否则每经过 RampEvery 距离增加 RampStep，不超过 MaxSpeed
func ScrollSpeedAt(cfg config.ScrollConfig, distance float64) float64 {
	if cfg.RampEvery <= 0 || cfg.RampStep <= 0 {
		return cfg.InitialSpeed
	}
	steps := math.Floor((distance + spawnEpsilon) / cfg.RampEvery)
	speed := cfg.InitialSpeed + steps*cfg.RampStep
	if speed > cfg.MaxSpeed {
		return cfg.MaxSpeed
	}
	return speed
}
