package systems

import (
	"log"
	"math/rand"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/entities"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

// AdvanceLaser 推进激光阶段计时
// 每次调用最多发生一次阶段切换，超出部分计入下一阶段；返回本次是否切换
func AdvanceLaser(l *components.LaserComponent, deltaMs float64) bool {
	switch l.Phase {
	case components.LaserWarning:
		l.PhaseTimer += deltaMs
		if l.PhaseTimer >= l.WarningDuration {
			l.Phase = components.LaserActive
			l.PhaseTimer -= l.WarningDuration
			return true
		}
	case components.LaserActive:
		l.PhaseTimer += deltaMs
		if l.PhaseTimer >= l.ActiveDuration {
			l.Phase = components.LaserExpired
			l.PhaseTimer -= l.ActiveDuration
			return true
		}
	}
	return false
}

// LaserSpawnSystem 自适应计时的激光生成器
//
// 间隔从 InitialIntervalMs 开始，每次生成后缩短 StepMs，不低于 FloorMs。
// 同时负责所拥有激光的阶段推进、移动与回收。
type LaserSpawnSystem struct {
	entityManager *ecs.EntityManager
	cfg           *config.GameConfig
	rng           *rand.Rand

	timer       float64 // 距上次生成的时间（毫秒）
	interval    float64 // 当前生成间隔（毫秒）
	heightIndex int     // 顺序轮换时的下一个高度
	speed       float64 // 当前卷动速度
	enabled     bool

	lasers []ecs.EntityID

	onSpawn   func(ecs.EntityID)
	onDestroy func(ecs.EntityID)
}

// NewLaserSpawnSystem 创建激光生成系统
// 参数:
//   - em: EntityManager 实例
//   - cfg: 游戏配置
//   - rng: 随机高度使用的随机源（RandomHeights=false 时可为 nil）
//   - speed: 初始卷动速度
func NewLaserSpawnSystem(em *ecs.EntityManager, cfg *config.GameConfig, rng *rand.Rand, speed float64) *LaserSpawnSystem {
	return &LaserSpawnSystem{
		entityManager: em,
		cfg:           cfg,
		rng:           rng,
		interval:      cfg.Laser.InitialIntervalMs,
		speed:         speed,
		enabled:       true,
	}
}

// SetCallbacks 设置生成/回收回调（用于注册和注销碰撞形状）
func (s *LaserSpawnSystem) SetCallbacks(onSpawn, onDestroy func(ecs.EntityID)) {
	s.onSpawn = onSpawn
	s.onDestroy = onDestroy
}

// SetEnabled 开关定时生成；已存在的激光仍会推进
func (s *LaserSpawnSystem) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// SetScrollSpeed 更新卷动速度并下发给所有激光
func (s *LaserSpawnSystem) SetScrollSpeed(speed float64) {
	s.speed = speed
	for _, id := range s.lasers {
		if scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, id); ok {
			scroll.Speed = speed
		}
	}
}

// Update 更新已有激光，然后推进计时器并按需生成
// 新生成的激光从下一帧开始计时
func (s *LaserSpawnSystem) Update(deltaMs float64) {
	kept := s.lasers[:0]
	for _, id := range s.lasers {
		if s.updateLaser(id, deltaMs) {
			kept = append(kept, id)
		}
	}
	s.lasers = kept

	if !s.enabled {
		return
	}
	s.timer += deltaMs
	if s.timer >= s.interval {
		s.timer = 0
		s.spawn()
		if s.interval > s.cfg.Laser.FloorMs {
			s.interval -= s.cfg.Laser.StepMs
			if s.interval < s.cfg.Laser.FloorMs {
				s.interval = s.cfg.Laser.FloorMs
			}
		}
	}
}

// updateLaser 更新单道激光，返回是否保留
func (s *LaserSpawnSystem) updateLaser(id ecs.EntityID, deltaMs float64) bool {
	laser, ok := ecs.GetComponent[*components.LaserComponent](s.entityManager, id)
	if !ok {
		return false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return false
	}
	scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, id)
	if !ok {
		return false
	}

	if AdvanceLaser(laser, deltaMs) {
		log.Printf("[LaserSpawnSystem] laser %d -> %s at x=%.0f", id, laser.Phase, pos.X)
	}
	if col, ok := ecs.GetComponent[*components.CollisionComponent](s.entityManager, id); ok {
		col.Enabled = laser.CollisionEnabled()
	}

	if advanceScroll(pos, scroll, deltaMs) {
		s.destroy(id)
		return false
	}
	return true
}

func (s *LaserSpawnSystem) spawn() {
	height := s.nextHeight()
	id := entities.NewLaserEntity(s.entityManager, s.cfg, s.cfg.SpawnX, height, s.speed)
	s.lasers = append(s.lasers, id)
	log.Printf("[LaserSpawnSystem] spawned %s laser %d (interval %.0fms)", height, id, s.interval)
	if s.onSpawn != nil {
		s.onSpawn(id)
	}
}

func (s *LaserSpawnSystem) nextHeight() types.LaserHeight {
	heights := s.cfg.Laser.Heights
	if s.cfg.Laser.RandomHeights && s.rng != nil {
		return heights[s.rng.Intn(len(heights))]
	}
	h := heights[s.heightIndex%len(heights)]
	s.heightIndex++
	return h
}

func (s *LaserSpawnSystem) destroy(id ecs.EntityID) {
	s.entityManager.DestroyEntity(id)
	if s.onDestroy != nil {
		s.onDestroy(id)
	}
}

// Interval 当前生成间隔（毫秒）
func (s *LaserSpawnSystem) Interval() float64 {
	return s.interval
}

// Lasers 当前拥有的激光
func (s *LaserSpawnSystem) Lasers() []ecs.EntityID {
	return append([]ecs.EntityID(nil), s.lasers...)
}

// Destroy 销毁所有激光
func (s *LaserSpawnSystem) Destroy() {
	for _, id := range s.lasers {
		s.destroy(id)
	}
	s.lasers = nil
}
