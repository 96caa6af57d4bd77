package entities

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
)

// NewPlatformEntity 根据生成事件创建软平台
// 事件带钻石时在平台顶部中央放一颗钻石，钻石与平台同速移动
//
// 返回: 平台ID 与钻石ID（没有钻石时为0）
func NewPlatformEntity(manager *ecs.EntityManager, cfg *config.GameConfig, x float64, event config.SpawnEvent, speed float64) (ecs.EntityID, ecs.EntityID) {
	id := manager.CreateEntity()

	thickness := cfg.Platform.Thickness
	bottom := cfg.GroundY - event.Height

	manager.AddComponent(id, &components.PositionComponent{
		X: x,
		Y: bottom - thickness/2,
	})
	manager.AddComponent(id, &components.ScrollComponent{
		Speed:      speed,
		OffScreenX: cfg.Platform.OffScreenX,
	})
	platform := &components.PlatformComponent{
		Width:     event.Width,
		Thickness: thickness,
		Height:    event.Height,
	}
	manager.AddComponent(id, platform)

	if !event.HasDiamond() {
		return id, 0
	}

	top := bottom - thickness
	diamondID := NewDiamondEntity(manager, cfg, x, top-cfg.Diamond.Size/2, event.Tier, event.ChallengeID, speed)
	platform.Diamond = diamondID
	return id, diamondID
}

// PlatformTop 平台上表面的Y坐标
func PlatformTop(pos *components.PositionComponent, platform *components.PlatformComponent) float64 {
	return pos.Y - platform.Thickness/2
}
