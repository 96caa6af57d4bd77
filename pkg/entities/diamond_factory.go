package entities

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// NewDiamondEntity 在指定位置创建钻石
func NewDiamondEntity(manager *ecs.EntityManager, cfg *config.GameConfig, x, y float64, tier types.DiamondTier, challengeID string, speed float64) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	manager.AddComponent(id, &components.ScrollComponent{
		Speed:      speed,
		OffScreenX: cfg.Diamond.OffScreenX,
	})
	manager.AddComponent(id, &components.DiamondComponent{
		Tier:        tier,
		ChallengeID: challengeID,
	})
	manager.AddComponent(id, &components.CollisionComponent{
		Width:   cfg.Diamond.Size,
		Height:  cfg.Diamond.Size,
		Enabled: true,
		Group:   components.GroupCollectible,
	})

	return id
}

// NewGroundDiamondEntity 创建贴地钻石（底边落在地面上）
func NewGroundDiamondEntity(manager *ecs.EntityManager, cfg *config.GameConfig, x float64, tier types.DiamondTier, challengeID string, speed float64) ecs.EntityID {
	return NewDiamondEntity(manager, cfg, x, cfg.GroundY-cfg.Diamond.Size/2, tier, challengeID, speed)
}
