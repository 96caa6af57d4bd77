package entities

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
)

// NewPlayerEntity 创建站在地面上的玩家
func NewPlayerEntity(manager *ecs.EntityManager, cfg *config.GameConfig) ecs.EntityID {
	id := manager.CreateEntity()
	p := cfg.Player

	manager.AddComponent(id, &components.PositionComponent{
		X: cfg.PlayerX,
		Y: cfg.GroundY - p.Height/2,
	})
	manager.AddComponent(id, &components.PlayerComponent{
		State:       components.PlayerRunning,
		OnGround:    true,
		StandWidth:  p.Width,
		StandHeight: p.Height,
		SlideWidth:  p.SlideWidth,
		SlideHeight: p.SlideHeight,
	})
	manager.AddComponent(id, &components.CollisionComponent{
		Width:   p.Width,
		Height:  p.Height,
		Enabled: true,
		Group:   components.GroupPlayer,
	})

	return id
}
