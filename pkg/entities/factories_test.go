package entities

import (
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

func TestNewLaserEntityStartsInWarning(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig()

	id := NewLaserEntity(em, cfg, cfg.SpawnX, types.LaserMiddle, 600)

	laser, ok := ecs.GetComponent[*components.LaserComponent](em, id)
	if !ok {
		t.Fatal("laser should have LaserComponent")
	}
	if laser.Phase != components.LaserWarning {
		t.Errorf("expected warning phase, got %s", laser.Phase)
	}
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
	if col.Enabled {
		t.Error("warning laser must not collide")
	}
	if col.Group != components.GroupObstacle {
		t.Errorf("expected obstacle group, got %q", col.Group)
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.X != cfg.SpawnX || pos.Y != cfg.GroundY-150 {
		t.Errorf("unexpected laser position (%v, %v)", pos.X, pos.Y)
	}
	scroll, _ := ecs.GetComponent[*components.ScrollComponent](em, id)
	if scroll.Speed != 600 || scroll.OffScreenX != cfg.Laser.OffScreenX {
		t.Errorf("unexpected scroll component %+v", scroll)
	}
}

func TestNewGroundDiamondSitsOnGround(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig()

	id := NewGroundDiamondEntity(em, cfg, 2000, types.TierBlue, "two_sum", 600)

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.Y+cfg.Diamond.Size/2 != cfg.GroundY {
		t.Errorf("diamond bottom should touch the ground, center y=%v", pos.Y)
	}
	d, _ := ecs.GetComponent[*components.DiamondComponent](em, id)
	if d.Tier != types.TierBlue || d.ChallengeID != "two_sum" {
		t.Errorf("unexpected diamond %+v", d)
	}
}

func TestNewPlatformEntity(t *testing.T) {
	cfg := config.DefaultGameConfig()

	tests := []struct {
		name        string
		event       config.SpawnEvent
		wantDiamond bool
	}{
		{
			name:  "plain platform",
			event: config.SpawnEvent{Kind: config.KindPlatform, Width: 200, Height: 250},
		},
		{
			name: "platform with diamond",
			event: config.SpawnEvent{
				Kind: config.KindPlatform, Width: 200, Height: 250,
				Tier: types.TierWhite, ChallengeID: "contains_duplicate",
			},
			wantDiamond: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			em := ecs.NewEntityManager()
			id, diamondID := NewPlatformEntity(em, cfg, 2000, tt.event, 600)

			pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
			platform, _ := ecs.GetComponent[*components.PlatformComponent](em, id)
			if got := pos.Y + platform.Thickness/2; got != cfg.GroundY-250 {
				t.Errorf("platform bottom should be 250 above ground, got %v", got)
			}

			if (diamondID != 0) != tt.wantDiamond {
				t.Fatalf("diamond presence = %v, want %v", diamondID != 0, tt.wantDiamond)
			}
			if platform.Diamond != diamondID {
				t.Errorf("platform should reference its diamond")
			}
			if tt.wantDiamond {
				dpos, _ := ecs.GetComponent[*components.PositionComponent](em, diamondID)
				if dpos.X != pos.X {
					t.Errorf("diamond should be centered on platform")
				}
				if dpos.Y+cfg.Diamond.Size/2 != PlatformTop(pos, platform) {
					t.Errorf("diamond should rest on the platform top")
				}
			}
		})
	}
}

func TestNewPlayerEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultGameConfig()

	id := NewPlayerEntity(em, cfg)

	pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	if pos.X != cfg.PlayerX {
		t.Errorf("player x: got %v, want %v", pos.X, cfg.PlayerX)
	}
	if pos.Y+cfg.Player.Height/2 != cfg.GroundY {
		t.Errorf("player should stand on the ground")
	}
	player, _ := ecs.GetComponent[*components.PlayerComponent](em, id)
	if !player.OnGround || player.State != components.PlayerRunning {
		t.Errorf("unexpected initial player state %+v", player)
	}
}
