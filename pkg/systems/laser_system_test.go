package systems

import (
	"testing"

	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

func newTestLaser() *components.LaserComponent {
	return &components.LaserComponent{
		Phase:           components.LaserWarning,
		WarningDuration: 1000,
		ActiveDuration:  1000,
	}
}

func TestAdvanceLaserPhaseTimeline(t *testing.T) {
	l := newTestLaser()

	// t=999ms
	AdvanceLaser(l, 999)
	if l.Phase != components.LaserWarning || l.CollisionEnabled() {
		t.Fatalf("t=999: expected warning without collision, got %s", l.Phase)
	}

	// t=1001ms
	if !AdvanceLaser(l, 2) {
		t.Error("t=1001: expected a transition")
	}
	if l.Phase != components.LaserActive || !l.CollisionEnabled() {
		t.Fatalf("t=1001: expected active with collision, got %s", l.Phase)
	}

	// t=2001ms
	AdvanceLaser(l, 1000)
	if l.Phase != components.LaserExpired || l.CollisionEnabled() {
		t.Fatalf("t=2001: expected expired without collision, got %s", l.Phase)
	}

	if AdvanceLaser(l, 10000) {
		t.Error("expired laser should not transition again")
	}
	if l.Phase != components.LaserExpired {
		t.Errorf("expired laser changed phase to %s", l.Phase)
	}
}

func TestAdvanceLaserFrameStepping(t *testing.T) {
	l := newTestLaser()
	const frame = 16.0

	last := l.Phase
	elapsed := 0.0
	phaseAt := map[float64]components.LaserPhase{}
	for elapsed < 2100 {
		AdvanceLaser(l, frame)
		elapsed += frame
		if l.Phase < last {
			t.Fatalf("phase went backwards at %vms: %s -> %s", elapsed, last, l.Phase)
		}
		last = l.Phase
		phaseAt[elapsed] = l.Phase
	}

	tests := []struct {
		at   float64
		want components.LaserPhase
	}{
		{992, components.LaserWarning},
		{1008, components.LaserActive},
		{1984, components.LaserActive},
		{2000, components.LaserExpired},
	}
	for _, tt := range tests {
		if got := phaseAt[tt.at]; got != tt.want {
			t.Errorf("at %vms: got %s, want %s", tt.at, got, tt.want)
		}
	}
}

func TestAdvanceLaserOneTransitionPerCall(t *testing.T) {
	l := newTestLaser()
	AdvanceLaser(l, 5000)
	if l.Phase != components.LaserActive {
		t.Fatalf("a single huge step should only reach active, got %s", l.Phase)
	}
	AdvanceLaser(l, 0)
	if l.Phase != components.LaserExpired {
		t.Errorf("carried overshoot should expire the laser on the next call, got %s", l.Phase)
	}
}

func newLaserTestConfig() *config.GameConfig {
	cfg := config.DefaultGameConfig()
	cfg.Laser.InitialIntervalMs = 1000
	cfg.Laser.StepMs = 400
	cfg.Laser.FloorMs = 300
	return cfg
}

func TestLaserSpawnSystemAdaptiveInterval(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewLaserSpawnSystem(em, newLaserTestConfig(), nil, 600)

	s.Update(999)
	if len(s.Lasers()) != 0 {
		t.Fatal("no laser before the first interval elapses")
	}

	s.Update(1)
	if len(s.Lasers()) != 1 {
		t.Fatalf("expected 1 laser, got %d", len(s.Lasers()))
	}
	if s.Interval() != 600 {
		t.Errorf("interval after first spawn: got %v, want 600", s.Interval())
	}

	s.Update(600)
	if len(s.Lasers()) != 2 {
		t.Fatalf("expected 2 lasers, got %d", len(s.Lasers()))
	}
	if s.Interval() != 300 {
		t.Errorf("interval should clamp to the floor: got %v, want 300", s.Interval())
	}

	s.Update(300)
	if s.Interval() != 300 {
		t.Errorf("interval should stay at the floor: got %v", s.Interval())
	}
	if len(s.Lasers()) != 3 {
		t.Errorf("expected 3 lasers, got %d", len(s.Lasers()))
	}
}

func TestLaserSpawnSystemCollisionFollowsPhase(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := newLaserTestConfig()
	s := NewLaserSpawnSystem(em, cfg, nil, 0)

	s.Update(cfg.Laser.InitialIntervalMs)
	s.SetEnabled(false)
	id := s.Lasers()[0]
	col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)

	s.Update(cfg.Laser.WarningDurationMs - 1)
	if col.Enabled {
		t.Error("collision must stay disabled while warning")
	}

	s.Update(1)
	if !col.Enabled {
		t.Error("collision should be enabled once active")
	}

	s.Update(cfg.Laser.ActiveDurationMs)
	if col.Enabled {
		t.Error("collision should be disabled once expired")
	}
}

func TestLaserSpawnSystemCullsOffScreen(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := newLaserTestConfig()
	s := NewLaserSpawnSystem(em, cfg, nil, 600)

	spawned, destroyed := 0, 0
	s.SetCallbacks(
		func(ecs.EntityID) { spawned++ },
		func(ecs.EntityID) { destroyed++ },
	)

	s.Update(cfg.Laser.InitialIntervalMs)
	s.SetEnabled(false)
	id := s.Lasers()[0]

	// 2000 - 600*4 = -400 < -100
	s.Update(4000)

	if spawned != 1 || destroyed != 1 {
		t.Errorf("expected 1 spawn and 1 destroy callback, got %d/%d", spawned, destroyed)
	}
	if len(s.Lasers()) != 0 {
		t.Errorf("off-screen laser should be released")
	}
	if !em.IsMarkedForDestroy(id) {
		t.Error("off-screen laser entity should be marked for destroy")
	}
}

func TestLaserSpawnSystemSetScrollSpeed(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := newLaserTestConfig()
	s := NewLaserSpawnSystem(em, cfg, nil, 600)
	s.Update(cfg.Laser.InitialIntervalMs)

	s.SetScrollSpeed(900)
	for _, id := range s.Lasers() {
		scroll, _ := ecs.GetComponent[*components.ScrollComponent](em, id)
		if scroll.Speed != 900 {
			t.Errorf("laser %d speed: got %v, want 900", id, scroll.Speed)
		}
	}
}

func TestLaserSpawnSystemRotatesHeights(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := newLaserTestConfig()
	cfg.Laser.StepMs = 0
	cfg.Laser.FloorMs = cfg.Laser.InitialIntervalMs
	cfg.Laser.Heights = []types.LaserHeight{types.LaserGround, types.LaserHigh}
	s := NewLaserSpawnSystem(em, cfg, nil, 0)

	for i := 0; i < 3; i++ {
		s.Update(cfg.Laser.InitialIntervalMs)
	}

	want := []types.LaserHeight{types.LaserGround, types.LaserHigh, types.LaserGround}
	for i, id := range s.Lasers() {
		laser, _ := ecs.GetComponent[*components.LaserComponent](em, id)
		if laser.Height != want[i] {
			t.Errorf("laser %d height: got %s, want %s", i, laser.Height, want[i])
		}
	}
}

func TestScrollSpeedAt(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.ScrollConfig
		distance float64
		want     float64
	}{
		{"constant", config.ScrollConfig{InitialSpeed: 600, MaxSpeed: 600}, 99999, 600},
		{"before first ramp", config.ScrollConfig{InitialSpeed: 600, RampEvery: 1000, RampStep: 50, MaxSpeed: 900}, 999, 600},
		{"two ramps", config.ScrollConfig{InitialSpeed: 600, RampEvery: 1000, RampStep: 50, MaxSpeed: 900}, 2500, 700},
		{"drift at threshold", config.ScrollConfig{InitialSpeed: 600, RampEvery: 96, RampStep: 50, MaxSpeed: 900}, 95.999999999999986, 650},
		{"capped", config.ScrollConfig{InitialSpeed: 600, RampEvery: 1000, RampStep: 50, MaxSpeed: 900}, 100000, 900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScrollSpeedAt(tt.cfg, tt.distance); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
