package systems

import (
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/utils"
)

// FlashEffectSystem 管理受击闪烁的生命周期
type FlashEffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewFlashEffectSystem 创建闪烁效果系统
func NewFlashEffectSystem(em *ecs.EntityManager) *FlashEffectSystem {
	return &FlashEffectSystem{
		entityManager: em,
	}
}

// Flash 给实体挂上（或重新开始）闪烁
func (s *FlashEffectSystem) Flash(id ecs.EntityID, durationMs float64) {
	if flash, ok := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, id); ok {
		flash.ElapsedMs = 0
		flash.DurationMs = durationMs
		return
	}
	ecs.AddComponent(s.entityManager, id, &components.FlashEffectComponent{
		DurationMs: durationMs,
		Intensity:  1,
	})
}

// Update 推进所有闪烁，结束的移除组件
// 参数：
//   - deltaMs: 帧时间（毫秒）
func (s *FlashEffectSystem) Update(deltaMs float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.FlashEffectComponent](s.entityManager) {
		flash, ok := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, id)
		if !ok {
			continue
		}
		flash.ElapsedMs += deltaMs
		if flash.ElapsedMs >= flash.DurationMs {
			ecs.RemoveComponent[*components.FlashEffectComponent](s.entityManager, id)
		}
	}
}

// FlashAmount 实体当前的闪白强度，没有闪烁时为 0
// 强度随进度按缓出曲线衰减
func FlashAmount(em *ecs.EntityManager, id ecs.EntityID) float64 {
	flash, ok := ecs.GetComponent[*components.FlashEffectComponent](em, id)
	if !ok {
		return 0
	}
	return flash.Intensity * (1 - utils.EaseOutQuad(flash.Progress()))
}
