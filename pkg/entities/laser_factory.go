package entities

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// NewLaserEntity 创建一道处于预警阶段的激光
// 参数:
//   - manager: EntityManager 实例
//   - cfg: 游戏配置（高度、尺寸、阶段时长、回收阈值）
//   - x: 生成X坐标（光束中心）
//   - height: 激光高度
//   - speed: 当前卷动速度
//
// 返回: 创建的实体ID
func NewLaserEntity(manager *ecs.EntityManager, cfg *config.GameConfig, x float64, height types.LaserHeight, speed float64) ecs.EntityID {
	id := manager.CreateEntity()

	manager.AddComponent(id, &components.PositionComponent{
		X: x,
		Y: cfg.LaserY(height),
	})
	manager.AddComponent(id, &components.ScrollComponent{
		Speed:      speed,
		OffScreenX: cfg.Laser.OffScreenX,
	})
	manager.AddComponent(id, &components.LaserComponent{
		Height:          height,
		Phase:           components.LaserWarning,
		WarningDuration: cfg.Laser.WarningDurationMs,
		ActiveDuration:  cfg.Laser.ActiveDurationMs,
	})
	// 预警阶段不参与碰撞
	manager.AddComponent(id, &components.CollisionComponent{
		Width:   cfg.Laser.Width,
		Height:  cfg.Laser.Thickness,
		Enabled: false,
		Group:   components.GroupObstacle,
	})

	return id
}
