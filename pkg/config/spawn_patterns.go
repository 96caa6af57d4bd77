package config

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"gopkg.in/yaml.v3"
)

// EntityKind 生成事件对应的实体类型
type EntityKind string

const (
	KindDiamond  EntityKind = "diamond"
	KindPlatform EntityKind = "platform"
)

// SpawnEvent 一条按距离触发的生成事件
//
// 事件按 Distance 升序消费，每条最多触发一次。
type SpawnEvent struct {
	Distance    float64           `yaml:"distance"`              // 触发距离
	Kind        EntityKind        `yaml:"kind"`                  // 实体类型
	Tier        types.DiamondTier `yaml:"tier,omitempty"`        // 钻石等级（钻石或带钻石的平台）
	ChallengeID string            `yaml:"challengeId,omitempty"` // 题目ID（钻石或带钻石的平台）
	Height      float64           `yaml:"height,omitempty"`      // 平台离地高度
	Width       float64           `yaml:"width,omitempty"`       // 平台宽度
}

// HasDiamond 事件是否携带钻石
func (e SpawnEvent) HasDiamond() bool {
	return e.Kind == KindDiamond || (e.Kind == KindPlatform && e.Tier != "")
}

// SpawnPatterns 生成规则文件（data/spawn_patterns.yaml）
type SpawnPatterns struct {
	DiamondSpawns     []SpawnEvent             `yaml:"diamondSpawns"`
	PlatformSpawns    []SpawnEvent             `yaml:"platformSpawns"`
	PlatformGenerator *PlatformGeneratorConfig `yaml:"platformGenerator"`
}

// PlatformGeneratorConfig 软平台程序化生成参数
// 未配置 platformSpawns 时使用（原版：从 1000 开始，间隔 500~1500，30% 带钻石）
type PlatformGeneratorConfig struct {
	StartDistance   float64     `yaml:"startDistance"`
	MinInterval     float64     `yaml:"minInterval"`
	MaxInterval     float64     `yaml:"maxInterval"`
	MinWidth        float64     `yaml:"minWidth"`
	MaxWidth        float64     `yaml:"maxWidth"`
	MinHeight       float64     `yaml:"minHeight"`
	MaxHeight       float64     `yaml:"maxHeight"`
	DiamondChance   int         `yaml:"diamondChance"` // 带钻石概率（百分比）
	TierWeights     TierWeights `yaml:"tierWeights"`
	ChallengeID     string      `yaml:"challengeId"`
	InitialCount    int         `yaml:"initialCount"`    // 初始生成事件数
	RefillCount     int         `yaml:"refillCount"`     // 每次补充事件数
	RefillThreshold int         `yaml:"refillThreshold"` // 剩余事件少于此值时补充
}

// TierWeights 钻石等级权重
type TierWeights struct {
	White int `yaml:"white"`
	Blue  int `yaml:"blue"`
	Black int `yaml:"black"`
}

// DefaultPlatformGenerator 返回原版的平台生成参数
func DefaultPlatformGenerator() *PlatformGeneratorConfig {
	return &PlatformGeneratorConfig{
		StartDistance:   1000,
		MinInterval:     500,
		MaxInterval:     1500,
		MinWidth:        150,
		MaxWidth:        300,
		MinHeight:       200,
		MaxHeight:       400,
		DiamondChance:   30,
		TierWeights:     TierWeights{White: 70, Blue: 20, Black: 10},
		ChallengeID:     "contains_duplicate",
		InitialCount:    20,
		RefillCount:     10,
		RefillThreshold: 5,
	}
}

// LoadSpawnPatterns 从磁盘加载生成规则
func LoadSpawnPatterns(path string) (*SpawnPatterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawn patterns file: %w", err)
	}
	return ParseSpawnPatterns(data)
}

// LoadSpawnPatternsFS 从文件系统加载生成规则
func LoadSpawnPatternsFS(fsys fs.FS, path string) (*SpawnPatterns, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawn patterns file: %w", err)
	}
	return ParseSpawnPatterns(data)
}

// ParseSpawnPatterns 解析并校验生成规则
//
// 缺失或格式错误的生成规则是启动期致命错误，不会静默降级为"不再生成"。
func ParseSpawnPatterns(data []byte) (*SpawnPatterns, error) {
	var patterns SpawnPatterns
	if err := yaml.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("failed to parse spawn patterns YAML: %w", err)
	}
	if err := patterns.Validate(); err != nil {
		return nil, err
	}
	return &patterns, nil
}

// Validate 验证生成规则
func (p *SpawnPatterns) Validate() error {
	if len(p.DiamondSpawns) == 0 {
		return fmt.Errorf("%w: diamondSpawns cannot be empty", ErrInvalidConfig)
	}
	if err := validateEvents("diamondSpawns", p.DiamondSpawns, KindDiamond); err != nil {
		return err
	}
	if err := validateEvents("platformSpawns", p.PlatformSpawns, KindPlatform); err != nil {
		return err
	}
	if p.PlatformGenerator != nil {
		if err := p.PlatformGenerator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateEvents 校验事件列表：类型一致、距离非负且升序、钻石字段完整
func validateEvents(field string, events []SpawnEvent, kind EntityKind) error {
	last := 0.0
	for i := range events {
		e := &events[i]
		if e.Kind == "" {
			e.Kind = kind
		}
		if e.Kind != kind {
			return fmt.Errorf("%w: %s[%d] has kind %q, want %q", ErrInvalidConfig, field, i, e.Kind, kind)
		}
		if e.Distance < 0 {
			return fmt.Errorf("%w: %s[%d] distance must be >= 0, got %v", ErrInvalidConfig, field, i, e.Distance)
		}
		if e.Distance < last {
			return fmt.Errorf("%w: %s must be ordered by distance (index %d: %v < %v)", ErrInvalidConfig, field, i, e.Distance, last)
		}
		last = e.Distance

		if kind == KindDiamond || e.Tier != "" {
			if !e.Tier.Valid() {
				return fmt.Errorf("%w: %s[%d] unknown tier %q", ErrInvalidConfig, field, i, e.Tier)
			}
			if e.ChallengeID == "" {
				return fmt.Errorf("%w: %s[%d] challengeId cannot be empty", ErrInvalidConfig, field, i)
			}
		}
		if kind == KindPlatform && (e.Width <= 0 || e.Height <= 0) {
			return fmt.Errorf("%w: %s[%d] platform width and height must be > 0", ErrInvalidConfig, field, i)
		}
	}
	return nil
}

// Validate 验证平台生成参数
func (g *PlatformGeneratorConfig) Validate() error {
	if g.MinInterval <= 0 || g.MaxInterval < g.MinInterval {
		return fmt.Errorf("%w: platformGenerator interval range invalid (%v..%v)", ErrInvalidConfig, g.MinInterval, g.MaxInterval)
	}
	if g.MinWidth <= 0 || g.MaxWidth < g.MinWidth {
		return fmt.Errorf("%w: platformGenerator width range invalid", ErrInvalidConfig)
	}
	if g.MinHeight <= 0 || g.MaxHeight < g.MinHeight {
		return fmt.Errorf("%w: platformGenerator height range invalid", ErrInvalidConfig)
	}
	if g.DiamondChance < 0 || g.DiamondChance > 100 {
		return fmt.Errorf("%w: platformGenerator diamondChance must be 0..100", ErrInvalidConfig)
	}
	if g.DiamondChance > 0 {
		if g.ChallengeID == "" {
			return fmt.Errorf("%w: platformGenerator challengeId required when diamondChance > 0", ErrInvalidConfig)
		}
		w := g.TierWeights
		if w.White < 0 || w.Blue < 0 || w.Black < 0 || w.White+w.Blue+w.Black == 0 {
			return fmt.Errorf("%w: platformGenerator tierWeights must be non-negative with a positive sum", ErrInvalidConfig)
		}
	}
	if g.InitialCount < 1 || g.RefillCount < 1 || g.RefillThreshold < 0 {
		return fmt.Errorf("%w: platformGenerator counts invalid", ErrInvalidConfig)
	}
	return nil
}

// Generate 从 start 开始生成 count 条平台事件
// 使用调用方提供的随机源，保证相同种子得到相同序列
func (g *PlatformGeneratorConfig) Generate(rng *rand.Rand, start float64, count int) []SpawnEvent {
	events := make([]SpawnEvent, 0, count)
	distance := start
	for i := 0; i < count; i++ {
		e := SpawnEvent{
			Distance: distance,
			Kind:     KindPlatform,
			Width:    between(rng, g.MinWidth, g.MaxWidth),
			Height:   between(rng, g.MinHeight, g.MaxHeight),
		}
		if g.DiamondChance > 0 && rng.Intn(100) < g.DiamondChance {
			e.Tier = g.rollTier(rng)
			e.ChallengeID = g.ChallengeID
		}
		events = append(events, e)
		distance += between(rng, g.MinInterval, g.MaxInterval)
	}
	return events
}

// GenerateAfter 在 last 之后隔一个随机间隔继续生成 count 条平台事件
func (g *PlatformGeneratorConfig) GenerateAfter(rng *rand.Rand, last float64, count int) []SpawnEvent {
	return g.Generate(rng, last+between(rng, g.MinInterval, g.MaxInterval), count)
}

// rollTier 按权重抽取钻石等级
func (g *PlatformGeneratorConfig) rollTier(rng *rand.Rand) types.DiamondTier {
	w := g.TierWeights
	roll := rng.Intn(w.White + w.Blue + w.Black)
	switch {
	case roll < w.White:
		return types.TierWhite
	case roll < w.White+w.Blue:
		return types.TierBlue
	default:
		return types.TierBlack
	}
}

// between 返回 [min, max] 区间内的整数值（与原版 Phaser.Math.Between 一致）
func between(rng *rand.Rand, min, max float64) float64 {
	lo, hi := int(min), int(max)
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + rng.Intn(hi-lo+1))
}
