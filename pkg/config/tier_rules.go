package config

import (
	"fmt"
	"io/fs"

	"github.com/DSoyomokun/CSC4821/pkg/types"
	"gopkg.in/yaml.v3"
)

// TierRulesConfig 钻石等级 -> 题目筛选表达式（data/tier_rules.yaml）
//
// 表达式由 challenge.Bank 编译执行，可用变量：
//   - difficulty: 题目难度（1-10）
//   - leetcodeDifficulty: "Easy" / "Medium" / "Hard"
//   - topics: 题目标签列表
//   - reward: 题目奖励分
type TierRulesConfig struct {
	Tiers map[types.DiamondTier]string `yaml:"tiers"`
}

// DefaultTierRules 返回默认筛选规则
func DefaultTierRules() *TierRulesConfig {
	return &TierRulesConfig{
		Tiers: map[types.DiamondTier]string{
			types.TierWhite: "difficulty <= 3",
			types.TierBlue:  "difficulty > 3 && difficulty <= 6",
			types.TierBlack: "difficulty > 6",
		},
	}
}

// LoadTierRulesFS 从文件系统加载筛选规则
func LoadTierRulesFS(fsys fs.FS, path string) (*TierRulesConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier rules file: %w", err)
	}

	var rules TierRulesConfig
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse tier rules YAML: %w", err)
	}

	for tier, rule := range rules.Tiers {
		if !tier.Valid() {
			return nil, fmt.Errorf("%w: unknown tier %q in tier rules", ErrInvalidConfig, tier)
		}
		if rule == "" {
			return nil, fmt.Errorf("%w: empty rule for tier %q", ErrInvalidConfig, tier)
		}
	}
	for _, tier := range types.AllTiers() {
		if _, ok := rules.Tiers[tier]; !ok {
			return nil, fmt.Errorf("%w: missing rule for tier %q", ErrInvalidConfig, tier)
		}
	}
	return &rules, nil
}
