package modules

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/components"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/ecs"
	"github.com/DSoyomokun/CSC4821/pkg/entities"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/systems"
)

// HitFlashMs 受击闪烁时长（毫秒）
const HitFlashMs = 400

// Launcher 打开代码挑战
// onClose 在挑战结束时调用一次，带回结构化结果
type Launcher interface {
	Launch(h challenge.Handoff, onClose func(challenge.Outcome)) error
}

// RunEvents 可选的事件回调（音效、日志）
type RunEvents struct {
	OnLaserHit func(hits int)
	OnPickup   func(h challenge.Handoff)
	OnResume   func(o challenge.Outcome)
	OnGameOver func(gs *game.GameState)
}

// RunModuleConfig 创建 RunModule 所需的依赖
type RunModuleConfig struct {
	Config   *config.GameConfig
	Patterns *config.SpawnPatterns
	Seed     int64 // 平台生成与随机激光高度的种子

	Input    *game.InputBus
	Launcher Launcher
	Progress *game.ProgressManager // 可为 nil
	Events   RunEvents
}

// RunModule 跑酷主场景控制器
// 封装一局游戏的全部逻辑：
//   - 累计行进距离，按距离提速并把速度下发给所有生成器
//   - 钻石/平台按距离生成，激光按自适应计时生成
//   - 玩家与障碍组、可拾取组的重叠检测
//   - 拾取钻石后暂停并打开代码挑战，挑战结束后结算并恢复
//
// 每帧流程：输入 → 玩家 → 距离 → 生成器 → 碰撞 → 计分 → 清理。
// 生成总在碰撞检测之前，新生成的实体当帧即可被检测到。
type RunModule struct {
	entityManager *ecs.EntityManager
	cfg           *config.GameConfig
	state         *game.GameState

	playerID        ecs.EntityID
	playerSystem    *systems.PlayerSystem
	collisionSystem *systems.CollisionSystem
	flashSystem     *systems.FlashEffectSystem
	diamondSpawner  *systems.Spawner
	platformSpawner *systems.Spawner
	laserSystem     *systems.LaserSpawnSystem

	intents     <-chan game.Intent
	unsubscribe func()

	launcher Launcher
	progress *game.ProgressManager
	events   RunEvents

	// 拾取锁：挑战打开期间为 true，保证一次拾取只打开一次挑战
	latched bool
	handoff challenge.Handoff
	closed  bool
}

// NewRunModule 创建一局新的跑酷
//
// 返回:
//   - *RunModule: 新创建的模块实例
//   - error: 配置缺失时返回错误
func NewRunModule(rc RunModuleConfig) (*RunModule, error) {
	if rc.Config == nil {
		return nil, fmt.Errorf("run module: %w: game config is nil", config.ErrInvalidConfig)
	}
	if rc.Patterns == nil {
		return nil, fmt.Errorf("run module: %w: spawn patterns are nil", config.ErrInvalidConfig)
	}

	cfg := rc.Config
	em := ecs.NewEntityManager()
	rng := rand.New(rand.NewSource(rc.Seed))
	speed := cfg.Scroll.InitialSpeed

	m := &RunModule{
		entityManager:   em,
		cfg:             cfg,
		state:           game.NewGameState(speed),
		collisionSystem: systems.NewCollisionSystem(em),
		flashSystem:     systems.NewFlashEffectSystem(em),
		launcher:        rc.Launcher,
		progress:        rc.Progress,
		events:          rc.Events,
	}

	m.playerID = entities.NewPlayerEntity(em, cfg)
	m.collisionSystem.Register(m.playerID)
	m.playerSystem = systems.NewPlayerSystem(em, cfg, m.playerID)

	m.diamondSpawner = systems.NewSpawner(em, rc.Patterns.DiamondSpawns, m.spawnDiamond, systems.SpawnerOptions{
		Name:      "DiamondSpawner",
		Policy:    cfg.Rules.DrainPolicy,
		Speed:     speed,
		OnDestroy: m.collisionSystem.Unregister,
	})

	platformOpts := systems.SpawnerOptions{
		Name:      "PlatformSpawner",
		Policy:    cfg.Rules.DrainPolicy,
		Speed:     speed,
		OnDestroy: m.collisionSystem.Unregister,
	}
	platformEvents := rc.Patterns.PlatformSpawns
	if len(platformEvents) == 0 {
		gen := rc.Patterns.PlatformGenerator
		if gen == nil {
			gen = config.DefaultPlatformGenerator()
		}
		platformEvents = gen.Generate(rng, gen.StartDistance, gen.InitialCount)
		platformOpts.RefillThreshold = gen.RefillThreshold
		platformOpts.Refill = func(last float64) []config.SpawnEvent {
			return gen.GenerateAfter(rng, last, gen.RefillCount)
		}
	}
	m.platformSpawner = systems.NewSpawner(em, platformEvents, m.spawnPlatform, platformOpts)

	m.laserSystem = systems.NewLaserSpawnSystem(em, cfg, rng, speed)
	m.laserSystem.SetCallbacks(m.collisionSystem.Register, m.collisionSystem.Unregister)

	if rc.Input != nil {
		m.intents, m.unsubscribe = rc.Input.Subscribe()
	}

	log.Printf("[RunModule] Initialized: %d diamond events, %d platform events, speed %.0f",
		m.diamondSpawner.Pending(), m.platformSpawner.Pending(), speed)
	return m, nil
}

func (m *RunModule) spawnDiamond(event config.SpawnEvent, speed float64) []ecs.EntityID {
	id := entities.NewGroundDiamondEntity(m.entityManager, m.cfg, m.cfg.SpawnX, event.Tier, event.ChallengeID, speed)
	m.collisionSystem.Register(id)
	return []ecs.EntityID{id}
}

func (m *RunModule) spawnPlatform(event config.SpawnEvent, speed float64) []ecs.EntityID {
	platformID, diamondID := entities.NewPlatformEntity(m.entityManager, m.cfg, m.cfg.SpawnX, event, speed)
	if diamondID == 0 {
		return []ecs.EntityID{platformID}
	}
	m.collisionSystem.Register(diamondID)
	return []ecs.EntityID{platformID, diamondID}
}

// Update 推进一帧
// 参数:
//   - deltaMs: 帧时间（毫秒）
func (m *RunModule) Update(deltaMs float64) {
	if m.closed || m.state.GameOver {
		return
	}
	m.handleInput()
	if m.state.Paused {
		return
	}

	m.playerSystem.Update(deltaMs)
	m.flashSystem.Update(deltaMs)

	m.state.Advance(deltaMs)
	if speed := systems.ScrollSpeedAt(m.cfg.Scroll, m.state.Distance); speed != m.state.ScrollSpeed {
		m.SetScrollSpeed(speed)
	}

	m.diamondSpawner.Update(deltaMs, m.state.Distance)
	m.platformSpawner.Update(deltaMs, m.state.Distance)
	m.laserSystem.Update(deltaMs)

	m.collisionSystem.Sync()
	m.checkObstacles()
	if !m.state.GameOver {
		m.checkCollectibles()
	}

	m.entityManager.RemoveMarkedEntities()
}

// SetScrollSpeed 修改卷动速度并下发给所有生成器
func (m *RunModule) SetScrollSpeed(speed float64) {
	m.state.ScrollSpeed = speed
	m.diamondSpawner.SetScrollSpeed(speed)
	m.platformSpawner.SetScrollSpeed(speed)
	m.laserSystem.SetScrollSpeed(speed)
	log.Printf("[RunModule] scroll speed -> %.0f at distance %.0f", speed, m.state.Distance)
}

func (m *RunModule) handleInput() {
	if m.intents == nil {
		return
	}
	for _, intent := range game.Drain(m.intents) {
		m.HandleIntent(intent)
	}
}

// HandleIntent 处理单个意图
// 暂停中只响应暂停切换
func (m *RunModule) HandleIntent(intent game.Intent) {
	if intent == game.IntentPause {
		m.TogglePause()
		return
	}
	if m.state.Paused || m.state.GameOver {
		return
	}
	switch intent {
	case game.IntentJump:
		m.playerSystem.Jump()
	case game.IntentDownPress:
		m.playerSystem.PressDown()
	case game.IntentDownRelease:
		m.playerSystem.ReleaseDown()
	}
}

// TogglePause 手动暂停/继续，挑战打开期间忽略
func (m *RunModule) TogglePause() bool {
	if m.latched || m.state.GameOver {
		log.Printf("[RunModule] pause toggle ignored (latched=%v)", m.latched)
		return false
	}
	m.state.Paused = !m.state.Paused
	log.Printf("[RunModule] paused=%v", m.state.Paused)
	return true
}

// checkObstacles 玩家与激光的重叠
// 每道激光最多命中一次：扣奖励分、累计命中，达到上限后游戏结束
func (m *RunModule) checkObstacles() {
	for _, id := range m.collisionSystem.Overlaps(m.playerID, components.GroupObstacle) {
		laser, ok := ecs.GetComponent[*components.LaserComponent](m.entityManager, id)
		if !ok || laser.HasHit || !laser.CollisionEnabled() {
			continue
		}
		laser.HasHit = true
		m.state.Hits++
		m.state.AddBonus(-m.cfg.Laser.HitPenalty)
		m.flashSystem.Flash(m.playerID, HitFlashMs)
		log.Printf("[RunModule] laser hit %d/%d (%s laser %d, -%d)",
			m.state.Hits, m.cfg.Rules.MaxHits, laser.Height, id, m.cfg.Laser.HitPenalty)
		if m.events.OnLaserHit != nil {
			m.events.OnLaserHit(m.state.Hits)
		}
		if m.state.Hits >= m.cfg.Rules.MaxHits {
			m.gameOver()
			return
		}
	}
}

// checkCollectibles 玩家与钻石的重叠
// 拾取锁已置位时不再处理，每帧最多拾取一颗
func (m *RunModule) checkCollectibles() {
	if m.latched {
		return
	}
	for _, id := range m.collisionSystem.Overlaps(m.playerID, components.GroupCollectible) {
		diamond, ok := ecs.GetComponent[*components.DiamondComponent](m.entityManager, id)
		if !ok {
			continue
		}
		m.pickup(id, *diamond)
		return
	}
}

// pickup 置位拾取锁、移除钻石、暂停并打开挑战
func (m *RunModule) pickup(id ecs.EntityID, diamond components.DiamondComponent) {
	m.latched = true
	m.handoff = challenge.Handoff{
		ProblemID: diamond.ChallengeID,
		Tier:      diamond.Tier,
		Distance:  m.state.Distance,
	}

	m.detachFromPlatform(id)
	if !m.diamondSpawner.Remove(id) && !m.platformSpawner.Remove(id) {
		m.entityManager.DestroyEntity(id)
		m.collisionSystem.Unregister(id)
	}

	m.state.Paused = true
	log.Printf("[RunModule] picked up %s diamond (%s) at distance %.0f", diamond.Tier, diamond.ChallengeID, m.state.Distance)
	if m.events.OnPickup != nil {
		m.events.OnPickup(m.handoff)
	}

	if m.launcher == nil {
		log.Printf("[RunModule] no launcher, resuming")
		m.resume(challenge.Outcome{ProblemID: diamond.ChallengeID, Kind: challenge.OutcomeAbandoned})
		return
	}
	if err := m.launcher.Launch(m.handoff, m.onChallengeClosed); err != nil {
		log.Printf("[RunModule] failed to launch challenge: %v", err)
		m.resume(challenge.Outcome{ProblemID: diamond.ChallengeID, Kind: challenge.OutcomeAbandoned})
	}
}

// detachFromPlatform 清除平台对被拾取钻石的引用
func (m *RunModule) detachFromPlatform(diamondID ecs.EntityID) {
	for _, id := range ecs.GetEntitiesWith1[*components.PlatformComponent](m.entityManager) {
		platform, _ := ecs.GetComponent[*components.PlatformComponent](m.entityManager, id)
		if platform.Diamond == diamondID {
			platform.Diamond = 0
		}
	}
}

// onChallengeClosed 挑战结束回调，重复调用只结算一次
func (m *RunModule) onChallengeClosed(outcome challenge.Outcome) {
	if !m.latched {
		log.Printf("[RunModule] ignoring outcome for %s: no challenge open", outcome.ProblemID)
		return
	}
	m.resume(outcome)
}

// resume 结算挑战结果、清除拾取锁并恢复游戏
func (m *RunModule) resume(outcome challenge.Outcome) {
	m.state.AddBonus(outcome.ScoreDelta)
	if outcome.Kind == challenge.OutcomeSolved {
		m.state.Solved++
		if m.progress != nil && m.progress.MarkComplete(outcome.ProblemID) {
			if err := m.progress.Save(); err != nil {
				log.Printf("[RunModule] Warning: failed to save progress: %v", err)
			}
		}
	}

	m.latched = false
	m.state.Paused = false

	// 挑战期间积压的输入作废，下键状态以松开为准
	if m.intents != nil {
		game.Drain(m.intents)
	}
	m.playerSystem.ReleaseDown()

	log.Printf("[RunModule] resumed after %s (%s, %+d), score %d", outcome.ProblemID, outcome.Kind, outcome.ScoreDelta, m.state.Score())
	if m.events.OnResume != nil {
		m.events.OnResume(outcome)
	}
}

func (m *RunModule) gameOver() {
	m.state.GameOver = true
	m.laserSystem.SetEnabled(false)
	log.Printf("[RunModule] game over: distance %.0f, score %d, hits %d", m.state.Distance, m.state.Score(), m.state.Hits)

	if m.progress != nil {
		if m.progress.RecordRun(m.state.Distance, m.state.Score()) {
			log.Printf("[RunModule] new best score %d", m.state.Score())
		}
		if err := m.progress.Save(); err != nil {
			log.Printf("[RunModule] Warning: failed to save progress: %v", err)
		}
	}
	if m.events.OnGameOver != nil {
		m.events.OnGameOver(m.state)
	}
}

// Close 取消输入订阅并销毁所有实体，可重复调用
func (m *RunModule) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.diamondSpawner.Destroy()
	m.platformSpawner.Destroy()
	m.laserSystem.Destroy()
	m.collisionSystem.Clear()
	m.entityManager.RemoveMarkedEntities()
	log.Printf("[RunModule] closed")
}

// State 当前局状态（只读使用）
func (m *RunModule) State() *game.GameState {
	return m.state
}

// EntityManager 实体管理器（渲染使用）
func (m *RunModule) EntityManager() *ecs.EntityManager {
	return m.entityManager
}

// PlayerID 玩家实体
func (m *RunModule) PlayerID() ecs.EntityID {
	return m.playerID
}

// Config 游戏配置
func (m *RunModule) Config() *config.GameConfig {
	return m.cfg
}

// Latched 是否有挑战正在进行
func (m *RunModule) Latched() bool {
	return m.latched
}

// Handoff 最近一次拾取交出的信息
func (m *RunModule) Handoff() challenge.Handoff {
	return m.handoff
}

// LaserInterval 当前激光生成间隔（毫秒）
func (m *RunModule) LaserInterval() float64 {
	return m.laserSystem.Interval()
}
