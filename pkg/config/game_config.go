package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 配置校验失败
// 所有校验错误都包装此错误，调用方可用 errors.Is 判断
var ErrInvalidConfig = errors.New("invalid config")

// DrainPolicy 生成事件的消费策略
type DrainPolicy string

const (
	// DrainOnePerTick 每次 Update 最多触发一个生成事件（原版行为，限制每帧生成速率）
	DrainOnePerTick DrainPolicy = "one_per_tick"
	// DrainAll 每次 Update 触发所有已到期的生成事件
	DrainAll DrainPolicy = "all"
)

// 屏幕逻辑尺寸（与原版 1920x1080 画布一致）
const (
	GameWindowWidth  = 1920
	GameWindowHeight = 1080
)

// GameConfig 游戏调参配置（data/game.yaml）
type GameConfig struct {
	GroundY float64 `yaml:"groundY"` // 地面Y坐标
	PlayerX float64 `yaml:"playerX"` // 玩家固定X坐标
	SpawnX  float64 `yaml:"spawnX"`  // 实体生成X坐标（屏幕右侧外）

	Scroll    ScrollConfig    `yaml:"scroll"`
	Laser     LaserConfig     `yaml:"laser"`
	Diamond   DiamondConfig   `yaml:"diamond"`
	Platform  PlatformConfig  `yaml:"platform"`
	Player    PlayerConfig    `yaml:"player"`
	Rules     RulesConfig     `yaml:"rules"`
	Challenge ChallengeConfig `yaml:"challenge"`
}

// ScrollConfig 卷动速度与难度爬坡
type ScrollConfig struct {
	InitialSpeed float64 `yaml:"initialSpeed"` // 初始卷动速度（像素/秒）
	RampEvery    float64 `yaml:"rampEvery"`    // 每经过多少距离提速一次，0 表示不提速
	RampStep     float64 `yaml:"rampStep"`     // 每次提速增量
	MaxSpeed     float64 `yaml:"maxSpeed"`     // 速度上限
}

// LaserConfig 激光障碍配置
type LaserConfig struct {
	WarningDurationMs float64 `yaml:"warningDurationMs"` // 预警阶段时长（毫秒）
	ActiveDurationMs  float64 `yaml:"activeDurationMs"`  // 激活阶段时长（毫秒）

	InitialIntervalMs float64 `yaml:"initialIntervalMs"` // 首个生成间隔（毫秒）
	StepMs            float64 `yaml:"stepMs"`            // 每次生成后间隔缩短量
	FloorMs           float64 `yaml:"floorMs"`           // 间隔下限

	Heights       []types.LaserHeight `yaml:"heights"`       // 可选高度，按顺序轮换
	RandomHeights bool                `yaml:"randomHeights"` // 为 true 时随机选择高度

	Width      float64 `yaml:"width"`      // 光束宽度（横贯屏幕）
	Thickness  float64 `yaml:"thickness"`  // 光束厚度
	OffScreenX float64 `yaml:"offScreenX"` // 回收阈值
	HitPenalty int     `yaml:"hitPenalty"` // 被激光击中扣除的奖励分
}

// DiamondConfig 钻石配置
type DiamondConfig struct {
	Size       float64 `yaml:"size"`
	OffScreenX float64 `yaml:"offScreenX"`
}

// PlatformConfig 软平台配置
type PlatformConfig struct {
	Thickness  float64 `yaml:"thickness"`
	OffScreenX float64 `yaml:"offScreenX"`
}

// PlayerConfig 玩家物理参数
type PlayerConfig struct {
	Gravity         float64 `yaml:"gravity"`         // 重力加速度（像素/秒²）
	JumpVelocity    float64 `yaml:"jumpVelocity"`    // 起跳速度（负值向上）
	SlideDurationMs float64 `yaml:"slideDurationMs"` // 下滑持续时间
	DropThroughMs   float64 `yaml:"dropThroughMs"`   // 按住下键多久穿透软平台
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	SlideWidth      float64 `yaml:"slideWidth"`
	SlideHeight     float64 `yaml:"slideHeight"`
}

// RulesConfig 计分与惩罚规则
type RulesConfig struct {
	MaxHits     int         `yaml:"maxHits"`     // 被击中多少次后游戏结束
	SkipPenalty int         `yaml:"skipPenalty"` // 跳过题目的扣分
	DrainPolicy DrainPolicy `yaml:"drainPolicy"` // 生成事件消费策略
}

// ChallengeConfig 代码挑战配置
type ChallengeConfig struct {
	TimeoutMs       int            `yaml:"timeoutMs"`       // 单个用例执行超时
	DefaultLanguage types.Language `yaml:"defaultLanguage"` // 默认编辑语言
}

// DefaultGameConfig 返回默认配置
// 数值取自原版调参（地面 900、卷动 600px/s、生成点 x=2000、回收阈值 -100/-200）
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		GroundY: 900,
		PlayerX: 300,
		SpawnX:  2000,
		Scroll: ScrollConfig{
			InitialSpeed: 600,
			RampEvery:    0,
			RampStep:     0,
			MaxSpeed:     600,
		},
		Laser: LaserConfig{
			WarningDurationMs: 1000,
			ActiveDurationMs:  1000,
			InitialIntervalMs: 4000,
			StepMs:            50,
			FloorMs:           1000,
			Heights:           []types.LaserHeight{types.LaserGround},
			Width:             4000,
			Thickness:         20,
			OffScreenX:        -100,
			HitPenalty:        50,
		},
		Diamond: DiamondConfig{
			Size:       30,
			OffScreenX: -100,
		},
		Platform: PlatformConfig{
			Thickness:  20,
			OffScreenX: -200,
		},
		Player: PlayerConfig{
			Gravity:         1800,
			JumpVelocity:    -650,
			SlideDurationMs: 600,
			DropThroughMs:   750,
			Width:           40,
			Height:          60,
			SlideWidth:      60,
			SlideHeight:     30,
		},
		Rules: RulesConfig{
			MaxHits:     3,
			SkipPenalty: 100,
			DrainPolicy: DrainOnePerTick,
		},
		Challenge: ChallengeConfig{
			TimeoutMs:       2000,
			DefaultLanguage: types.LanguageJavaScript,
		},
	}
}

// LoadGameConfig 从磁盘加载游戏配置
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file: %w", err)
	}
	return ParseGameConfig(data)
}

// LoadGameConfigFS 从文件系统（通常是嵌入资源）加载游戏配置
func LoadGameConfigFS(fsys fs.FS, path string) (*GameConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig 解析 YAML 内容
// 未出现的字段保留默认值
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 验证配置的有效性
func (c *GameConfig) Validate() error {
	if c.SpawnX <= c.PlayerX {
		return fmt.Errorf("%w: spawnX (%.0f) must be right of playerX (%.0f)", ErrInvalidConfig, c.SpawnX, c.PlayerX)
	}
	if c.Scroll.InitialSpeed <= 0 {
		return fmt.Errorf("%w: scroll.initialSpeed must be > 0, got %v", ErrInvalidConfig, c.Scroll.InitialSpeed)
	}
	if c.Scroll.RampEvery < 0 || c.Scroll.RampStep < 0 {
		return fmt.Errorf("%w: scroll ramp values must be >= 0", ErrInvalidConfig)
	}
	if c.Scroll.MaxSpeed < c.Scroll.InitialSpeed {
		return fmt.Errorf("%w: scroll.maxSpeed (%v) below initialSpeed (%v)", ErrInvalidConfig, c.Scroll.MaxSpeed, c.Scroll.InitialSpeed)
	}

	l := c.Laser
	if l.WarningDurationMs <= 0 || l.ActiveDurationMs <= 0 {
		return fmt.Errorf("%w: laser durations must be > 0", ErrInvalidConfig)
	}
	if l.InitialIntervalMs <= 0 || l.FloorMs <= 0 {
		return fmt.Errorf("%w: laser intervals must be > 0", ErrInvalidConfig)
	}
	if l.StepMs < 0 {
		return fmt.Errorf("%w: laser.stepMs must be >= 0, got %v", ErrInvalidConfig, l.StepMs)
	}
	if l.FloorMs > l.InitialIntervalMs {
		return fmt.Errorf("%w: laser.floorMs (%v) above initialIntervalMs (%v)", ErrInvalidConfig, l.FloorMs, l.InitialIntervalMs)
	}
	if len(l.Heights) == 0 {
		return fmt.Errorf("%w: laser.heights cannot be empty", ErrInvalidConfig)
	}
	for _, h := range l.Heights {
		if !h.Valid() {
			return fmt.Errorf("%w: unknown laser height %q", ErrInvalidConfig, h)
		}
	}
	if l.Width <= 0 || l.Thickness <= 0 {
		return fmt.Errorf("%w: laser size must be > 0", ErrInvalidConfig)
	}
	if l.HitPenalty < 0 {
		return fmt.Errorf("%w: laser.hitPenalty must be >= 0", ErrInvalidConfig)
	}

	if c.Diamond.Size <= 0 {
		return fmt.Errorf("%w: diamond.size must be > 0", ErrInvalidConfig)
	}
	if c.Platform.Thickness <= 0 {
		return fmt.Errorf("%w: platform.thickness must be > 0", ErrInvalidConfig)
	}

	p := c.Player
	if p.Gravity <= 0 || p.JumpVelocity >= 0 {
		return fmt.Errorf("%w: player needs gravity > 0 and jumpVelocity < 0", ErrInvalidConfig)
	}
	if p.Width <= 0 || p.Height <= 0 || p.SlideWidth <= 0 || p.SlideHeight <= 0 {
		return fmt.Errorf("%w: player hitboxes must be > 0", ErrInvalidConfig)
	}

	if c.Rules.MaxHits < 1 {
		return fmt.Errorf("%w: rules.maxHits must be >= 1, got %d", ErrInvalidConfig, c.Rules.MaxHits)
	}
	if c.Rules.SkipPenalty < 0 {
		return fmt.Errorf("%w: rules.skipPenalty must be >= 0", ErrInvalidConfig)
	}
	switch c.Rules.DrainPolicy {
	case DrainOnePerTick, DrainAll:
	default:
		return fmt.Errorf("%w: unknown rules.drainPolicy %q", ErrInvalidConfig, c.Rules.DrainPolicy)
	}

	if c.Challenge.TimeoutMs <= 0 {
		return fmt.Errorf("%w: challenge.timeoutMs must be > 0", ErrInvalidConfig)
	}
	switch c.Challenge.DefaultLanguage {
	case types.LanguageJavaScript, types.LanguagePython:
	default:
		return fmt.Errorf("%w: unknown challenge.defaultLanguage %q", ErrInvalidConfig, c.Challenge.DefaultLanguage)
	}

	return nil
}

// LaserY 返回指定高度激光的Y坐标（原版：地面-35 / -150 / -250）
func (c *GameConfig) LaserY(h types.LaserHeight) float64 {
	switch h {
	case types.LaserMiddle:
		return c.GroundY - 150
	case types.LaserHigh:
		return c.GroundY - 250
	default:
		return c.GroundY - 35
	}
}
