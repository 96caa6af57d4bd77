package systems

import (
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/entities"
)

// dropThroughWindowMs 穿透平台后忽略平台的时间
const dropThroughWindowMs = 250

// PlayerSystem 玩家跳跃、下滑与软平台站立
//
// 水平位置固定，只做竖直方向的重力积分。
// 软平台是单向的：只有下落且上一帧脚底不低于平台上表面时才会落在上面。
type PlayerSystem struct {
	entityManager *ecs.EntityManager
	cfg           *config.GameConfig
	playerID      ecs.EntityID
}

// NewPlayerSystem 创建玩家系统
func NewPlayerSystem(em *ecs.EntityManager, cfg *config.GameConfig, playerID ecs.EntityID) *PlayerSystem {
	return &PlayerSystem{
		entityManager: em,
		cfg:           cfg,
		playerID:      playerID,
	}
}

// PlayerID 玩家实体
func (s *PlayerSystem) PlayerID() ecs.EntityID {
	return s.playerID
}

func (s *PlayerSystem) player() (*components.PlayerComponent, *components.PositionComponent, *components.CollisionComponent, bool) {
	p, ok1 := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	pos, ok2 := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	col, ok3 := ecs.GetComponent[*components.CollisionComponent](s.entityManager, s.playerID)
	return p, pos, col, ok1 && ok2 && ok3
}

// Jump 起跳（只能在站立且未下滑时）
func (s *PlayerSystem) Jump() bool {
	p, _, _, ok := s.player()
	if !ok || !p.OnGround || p.State == components.PlayerSliding {
		return false
	}
	p.VelocityY = s.cfg.Player.JumpVelocity
	p.OnGround = false
	p.Standing = 0
	p.State = components.PlayerJumping
	log.Printf("[PlayerSystem] jump")
	return true
}

// PressDown 按下下键：站立时开始下滑，并开始累计穿透平台的按住时间
func (s *PlayerSystem) PressDown() {
	p, pos, col, ok := s.player()
	if !ok {
		return
	}
	if !p.Down {
		p.Down = true
		p.DownHeld = 0
	}
	if p.OnGround && p.State != components.PlayerSliding {
		p.State = components.PlayerSliding
		p.SlideTimer = s.cfg.Player.SlideDurationMs
		setHitbox(pos, col, p.SlideWidth, p.SlideHeight)
		log.Printf("[PlayerSystem] slide")
	}
}

// ReleaseDown 松开下键
func (s *PlayerSystem) ReleaseDown() {
	p, _, _, ok := s.player()
	if !ok {
		return
	}
	p.Down = false
	p.DownHeld = 0
}

// Update 更新玩家状态
// 参数:
//   - deltaMs: 帧时间（毫秒）
func (s *PlayerSystem) Update(deltaMs float64) {
	p, pos, col, ok := s.player()
	if !ok {
		return
	}
	pos.X = s.cfg.PlayerX

	if p.State == components.PlayerSliding {
		p.SlideTimer -= deltaMs
		if p.SlideTimer <= 0 {
			p.SlideTimer = 0
			p.State = components.PlayerRunning
			setHitbox(pos, col, p.StandWidth, p.StandHeight)
		}
	}

	if p.DropTimer > 0 {
		p.DropTimer -= deltaMs
	}
	if p.Down {
		p.DownHeld += deltaMs
		if p.Standing != 0 && p.DownHeld >= s.cfg.Player.DropThroughMs {
			log.Printf("[PlayerSystem] drop through platform %d", p.Standing)
			p.DropTimer = dropThroughWindowMs
			p.Standing = 0
			p.OnGround = false
			p.DownHeld = 0
		}
	}

	dt := deltaMs / 1000
	prevBottom := pos.Y + col.Height/2
	p.VelocityY += s.cfg.Player.Gravity * dt
	pos.Y += p.VelocityY * dt
	bottom := pos.Y + col.Height/2

	switch {
	case bottom >= s.cfg.GroundY:
		s.land(p, pos, col, s.cfg.GroundY, 0)
	case p.VelocityY >= 0 && p.DropTimer <= 0:
		if id, top, found := s.findPlatform(pos, col, prevBottom, bottom); found {
			s.land(p, pos, col, top, id)
		} else {
			p.OnGround = false
			p.Standing = 0
		}
	default:
		p.OnGround = false
		p.Standing = 0
	}
}

func (s *PlayerSystem) land(p *components.PlayerComponent, pos *components.PositionComponent, col *components.CollisionComponent, surface float64, platform ecs.EntityID) {
	pos.Y = surface - col.Height/2
	p.VelocityY = 0
	p.OnGround = true
	p.Standing = platform
	if p.State == components.PlayerJumping {
		p.State = components.PlayerRunning
	}
}

// findPlatform 查找本帧脚底穿过其上表面的平台
func (s *PlayerSystem) findPlatform(pos *components.PositionComponent, col *components.CollisionComponent, prevBottom, bottom float64) (ecs.EntityID, float64, bool) {
	left := pos.X - col.Width/2
	right := pos.X + col.Width/2

	for _, id := range ecs.GetEntitiesWith2[*components.PlatformComponent, *components.PositionComponent](s.entityManager) {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		platform, _ := ecs.GetComponent[*components.PlatformComponent](s.entityManager, id)
		ppos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		if right <= ppos.X-platform.Width/2 || left >= ppos.X+platform.Width/2 {
			continue
		}
		top := entities.PlatformTop(ppos, platform)
		if prevBottom <= top && bottom >= top {
			return id, top, true
		}
	}
	return 0, 0, false
}

// setHitbox 切换碰撞盒尺寸，保持脚底位置不变
func setHitbox(pos *components.PositionComponent, col *components.CollisionComponent, width, height float64) {
	bottom := pos.Y + col.Height/2
	col.Width = width
	col.Height = height
	pos.Y = bottom - height/2
}
