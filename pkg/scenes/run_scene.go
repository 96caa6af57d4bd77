package scenes

import (
	"fmt"
	"log"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/modules"
	"github.com/DSoyomokun/CSC4821/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// helpDuration 开局操作提示显示多久（秒，按宿主时间计）
const helpDuration = 5.0

// RunScene 跑酷场景
// 持有一局 RunModule，负责绘制世界与 HUD；拾取钻石时把挑战场景压入场景栈
type RunScene struct {
	deps     *Deps
	module   *modules.RunModule
	launcher *modules.ChallengeLauncher
	fonts    fonts

	challengeScene *ChallengeScene // 当前压在本场景之上的挑战场景

	hostTime float64 // 场景创建以来的时间（秒），暂停时也累加
	showHelp bool

	// 游戏结束在本帧 Update 结束后再切换场景
	gameOver bool
}

// NewRunScene 创建新的一局
//
// 返回:
//   - error: 配置缺失时返回错误
func NewRunScene(deps *Deps) (*RunScene, error) {
	s := &RunScene{
		deps:     deps,
		fonts:    loadFonts(),
		showHelp: true,
	}
	if deps.Settings != nil {
		s.showHelp = deps.Settings.GetSettings().ShowHelp
	}

	language := deps.Config.Challenge.DefaultLanguage
	if deps.Settings != nil && deps.Settings.GetSettings().Language != "" {
		language = deps.Settings.GetSettings().Language
	}

	s.launcher = modules.NewChallengeLauncher(modules.ChallengeLauncherConfig{
		Bank:        deps.Bank,
		Runner:      deps.Evaluator,
		Progress:    deps.Progress,
		Input:       deps.Input,
		Language:    language,
		SkipPenalty: deps.Config.Rules.SkipPenalty,
		OnOpen:      s.openChallenge,
		OnClose:     s.closeChallenge,
	})

	var seed int64
	if deps.Seed != nil {
		seed = deps.Seed()
	}
	module, err := modules.NewRunModule(modules.RunModuleConfig{
		Config:   deps.Config,
		Patterns: deps.Patterns,
		Seed:     seed,
		Input:    deps.Input,
		Launcher: s.launcher,
		Progress: deps.Progress,
		Events: modules.RunEvents{
			OnLaserHit: func(int) { deps.playSound(game.SoundLaserHit) },
			OnPickup:   func(challenge.Handoff) { deps.playSound(game.SoundPickup) },
			OnResume:   s.onResume,
			OnGameOver: func(*game.GameState) {
				deps.playSound(game.SoundGameOver)
				s.gameOver = true
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	s.module = module

	log.Printf("[RunScene] New run, seed %d", seed)
	return s, nil
}

// openChallenge 挑战打开时把挑战场景压入场景栈，本场景暂停更新
func (s *RunScene) openChallenge(m *modules.ChallengeModule) {
	s.challengeScene = NewChallengeScene(m, s.fonts)
	s.deps.SceneManager.Launch(s.challengeScene)
}

// closeChallenge 挑战结束时挑战场景出栈，随后 RunModule 结算并恢复
func (s *RunScene) closeChallenge(m *modules.ChallengeModule) {
	scene := s.challengeScene
	if scene == nil || scene.Module() != m {
		return
	}
	s.challengeScene = nil
	if err := s.deps.SceneManager.Close(scene); err != nil {
		log.Printf("[RunScene] Warning: Failed to close challenge scene: %v", err)
	}
}

func (s *RunScene) onResume(o challenge.Outcome) {
	switch o.Kind {
	case challenge.OutcomeSolved:
		s.deps.playSound(game.SoundSolved)
	case challenge.OutcomeSkipped:
		s.deps.playSound(game.SoundSkip)
	}
	if s.deps.Settings != nil && o.Language != "" {
		s.deps.Settings.SetLanguage(o.Language)
	}
}

// Update 推进一帧
// 参数:
//   - deltaTime: 帧时间（秒）
func (s *RunScene) Update(deltaTime float64) {
	s.hostTime += deltaTime
	if s.showHelp && s.hostTime >= helpDuration {
		s.showHelp = false
	}

	s.module.Update(deltaTime * 1000)

	if s.gameOver {
		s.gameOver = false
		state := *s.module.State()
		s.deps.SceneManager.SwitchTo(NewGameOverScene(s.deps, state))
	}
}

// Close 场景出栈时销毁本局
func (s *RunScene) Close() {
	s.module.Close()
}

// SaveOnExit 退出时保存进度
func (s *RunScene) SaveOnExit() bool {
	ok := true
	if s.deps.Progress != nil {
		if err := s.deps.Progress.Save(); err != nil {
			log.Printf("[RunScene] Warning: Failed to save progress: %v", err)
			ok = false
		}
	}
	if s.deps.Settings != nil {
		if err := s.deps.Settings.Save(); err != nil {
			log.Printf("[RunScene] Warning: Failed to save settings: %v", err)
			ok = false
		}
	}
	return ok
}

// Module 本局的 RunModule
func (s *RunScene) Module() *modules.RunModule {
	return s.module
}

// Launcher 挑战启动器
func (s *RunScene) Launcher() *modules.ChallengeLauncher {
	return s.launcher
}

// HelpVisible 是否显示操作提示
func (s *RunScene) HelpVisible() bool {
	return s.showHelp
}

// Draw 绘制世界与 HUD
func (s *RunScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	cfg := s.module.Config()
	em := s.module.EntityManager()

	fillRect(screen, 0, cfg.GroundY, config.GameWindowWidth, config.GameWindowHeight-cfg.GroundY, colorGround)
	fillRect(screen, 0, cfg.GroundY, config.GameWindowWidth, 3, colorGroundLine)

	s.drawPlatforms(screen, em)
	s.drawDiamonds(screen, em)
	s.drawLasers(screen, em)
	s.drawPlayer(screen, em)
	s.drawHUD(screen)

	state := s.module.State()
	if state.Paused && !s.module.Latched() {
		drawOverlay(screen)
		drawCenteredText(screen, "PAUSED", s.fonts.title, 420, colorText)
		drawCenteredText(screen, "Press P to resume", s.fonts.body, 540, colorDimText)
	}
}

func (s *RunScene) drawPlatforms(screen *ebiten.Image, em *ecs.EntityManager) {
	for _, id := range ecs.GetEntitiesWith2[*components.PlatformComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		platform, _ := ecs.GetComponent[*components.PlatformComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		fillRect(screen, pos.X-platform.Width/2, pos.Y-platform.Thickness/2, platform.Width, platform.Thickness, colorPlatform)
	}
}

func (s *RunScene) drawDiamonds(screen *ebiten.Image, em *ecs.EntityManager) {
	size := s.module.Config().Diamond.Size
	for _, id := range ecs.GetEntitiesWith2[*components.DiamondComponent, *components.PositionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		diamond, _ := ecs.GetComponent[*components.DiamondComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		fillRect(screen, pos.X-size/2, pos.Y-size/2, size, size, tierColor(diamond.Tier))
		strokeRect(screen, pos.X-size/2, pos.Y-size/2, size, size, 2, colorGroundLine)
	}
}

// drawLasers 预警阶段只画黄色轮廓，激活阶段画红色实体
func (s *RunScene) drawLasers(screen *ebiten.Image, em *ecs.EntityManager) {
	for _, id := range ecs.GetEntitiesWith3[*components.LaserComponent, *components.PositionComponent, *components.CollisionComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		laser, _ := ecs.GetComponent[*components.LaserComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		col, _ := ecs.GetComponent[*components.CollisionComponent](em, id)
		minX, minY, maxX, maxY := col.Bounds(pos)

		switch laser.Phase {
		case components.LaserWarning:
			strokeRect(screen, minX, minY, maxX-minX, maxY-minY, 2, colorLaserWarn)
		case components.LaserActive:
			fillRect(screen, minX, minY, maxX-minX, maxY-minY, colorLaserFire)
		}
	}
}

func (s *RunScene) drawPlayer(screen *ebiten.Image, em *ecs.EntityManager) {
	id := s.module.PlayerID()
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		return
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](em, id)
	if !ok {
		return
	}
	minX, minY, maxX, maxY := col.Bounds(pos)
	clr := colorPlayer
	if amount := systems.FlashAmount(em, id); amount > 0 {
		clr = blend(colorPlayer, colorText, amount)
	}
	fillRect(screen, minX, minY, maxX-minX, maxY-minY, clr)
}

func (s *RunScene) drawHUD(screen *ebiten.Image) {
	state := s.module.State()
	maxHits := s.module.Config().Rules.MaxHits

	lines := []string{
		fmt.Sprintf("Distance: %d", int(state.Distance)),
		fmt.Sprintf("Score: %d", state.Score()),
		fmt.Sprintf("Hits: %d/%d", state.Hits, maxHits),
	}
	if state.Solved > 0 {
		lines = append(lines, fmt.Sprintf("Solved: %d", state.Solved))
	}
	y := 30.0
	for _, line := range lines {
		drawText(screen, line, s.fonts.body, 40, y, colorText)
		y += lineHeight(s.fonts.body)
	}

	if s.showHelp {
		help := []string{
			"SPACE / UP: jump",
			"DOWN: slide, hold to drop through platforms",
			"P: pause    F11: fullscreen",
			"Collect diamonds to open code challenges",
		}
		y := 30.0
		for _, line := range help {
			drawText(screen, line, s.fonts.body, config.GameWindowWidth-760, y, colorDimText)
			y += lineHeight(s.fonts.body)
		}
	}
}
