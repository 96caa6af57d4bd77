package systems

import (
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/entities"
)

const testFrameMs = 16.0

func newPlayerTest(t *testing.T) (*ecs.EntityManager, *config.GameConfig, *PlayerSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig()
	id := entities.NewPlayerEntity(em, cfg)
	return em, cfg, NewPlayerSystem(em, cfg, id)
}

func runFrames(s *PlayerSystem, ms float64) {
	for elapsed := 0.0; elapsed < ms; elapsed += testFrameMs {
		s.Update(testFrameMs)
	}
}

func playerBottom(em *ecs.EntityManager, id ecs.EntityID) float64 {
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
	return pos.Y + col.Height/2
}

func TestPlayerJumpAndLand(t *testing.T) {
	em, cfg, s := newPlayerTest(t)
	id := s.PlayerID()
	p, _ := ecs.GetComponent[*components.PlayerComponent](em, id)

	if !s.Jump() {
		t.Fatal("jump from the ground should succeed")
	}
	if s.Jump() {
		t.Error("jump in the air should be ignored")
	}

	runFrames(s, 200)
	if playerBottom(em, id) >= cfg.GroundY {
		t.Error("player should be above the ground shortly after jumping")
	}
	if p.State != components.PlayerJumping {
		t.Errorf("expected jumping, got %s", p.State)
	}

	runFrames(s, 1500)
	if !p.OnGround || p.State != components.PlayerRunning {
		t.Errorf("player should have landed and be running, got %s onGround=%v", p.State, p.OnGround)
	}
	if got := playerBottom(em, id); got != cfg.GroundY {
		t.Errorf("player bottom should rest on the ground, got %v", got)
	}
}

func TestPlayerSlide(t *testing.T) {
	em, cfg, s := newPlayerTest(t)
	id := s.PlayerID()
	p, _ := ecs.GetComponent[*components.PlayerComponent](em, id)
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)

	s.PressDown()
	if p.State != components.PlayerSliding {
		t.Fatalf("expected sliding, got %s", p.State)
	}
	if col.Width != cfg.Player.SlideWidth || col.Height != cfg.Player.SlideHeight {
		t.Errorf("slide hitbox should be %vx%v, got %vx%v", cfg.Player.SlideWidth, cfg.Player.SlideHeight, col.Width, col.Height)
	}
	if got := playerBottom(em, id); got != cfg.GroundY {
		t.Errorf("sliding player should keep its feet on the ground, got %v", got)
	}
	if s.Jump() {
		t.Error("cannot jump while sliding")
	}

	s.ReleaseDown()
	runFrames(s, cfg.Player.SlideDurationMs+testFrameMs)
	if p.State != components.PlayerRunning {
		t.Errorf("slide should end after its duration, got %s", p.State)
	}
	if col.Height != cfg.Player.Height {
		t.Errorf("standing hitbox should be restored, got height %v", col.Height)
	}
	if got := playerBottom(em, id); got != cfg.GroundY {
		t.Errorf("player bottom should be on the ground after the slide, got %v", got)
	}
}

// spawnPlatformUnderPlayer 在玩家头顶放一块静止平台
func spawnPlatformUnderPlayer(em *ecs.EntityManager, cfg *config.GameConfig, height float64) ecs.EntityID {
	id, _ := entities.NewPlatformEntity(em, cfg, cfg.PlayerX, config.SpawnEvent{
		Kind:   config.KindPlatform,
		Width:  400,
		Height: height,
	}, 0)
	return id
}

func TestPlayerLandsOnPlatformAndDropsThrough(t *testing.T) {
	em, cfg, s := newPlayerTest(t)
	id := s.PlayerID()
	p, _ := ecs.GetComponent[*components.PlayerComponent](em, id)

	// 平台上表面在地面上方 100 像素，低于跳跃高度
	platformID := spawnPlatformUnderPlayer(em, cfg, 80)
	top := cfg.GroundY - 100

	s.Jump()
	runFrames(s, 1500)

	if p.Standing != platformID || !p.OnGround {
		t.Fatalf("player should stand on platform %d, standing=%d onGround=%v", platformID, p.Standing, p.OnGround)
	}
	if got := playerBottom(em, id); got != top {
		t.Errorf("player bottom should rest on the platform top %v, got %v", top, got)
	}

	s.PressDown()
	runFrames(s, cfg.Player.DropThroughMs+2*testFrameMs)
	s.ReleaseDown()
	runFrames(s, 1000)

	if p.Standing != 0 {
		t.Errorf("player should have dropped through, still standing on %d", p.Standing)
	}
	if got := playerBottom(em, id); got != cfg.GroundY {
		t.Errorf("player should fall back to the ground, bottom=%v", got)
	}
}

func TestPlayerIgnoresPlatformFromBelow(t *testing.T) {
	em, cfg, s := newPlayerTest(t)
	id := s.PlayerID()
	p, _ := ecs.GetComponent[*components.PlayerComponent](em, id)

	// 平台与站立的玩家重叠，但玩家没有从上方落下
	spawnPlatformUnderPlayer(em, cfg, 30)
	runFrames(s, 500)

	if p.Standing != 0 {
		t.Errorf("player must not snap onto a platform it did not fall onto")
	}
	if got := playerBottom(em, id); got != cfg.GroundY {
		t.Errorf("player should stay on the ground, bottom=%v", got)
	}
}
