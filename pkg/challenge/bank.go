package challenge

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/types"
	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"gopkg.in/yaml.v3"
)

// problemEnv 等级筛选表达式可见的题目字段
type problemEnv struct {
	ID                 string   `expr:"id"`
	Number             int      `expr:"number"`
	Difficulty         int      `expr:"difficulty"`
	LeetCodeDifficulty string   `expr:"leetcodeDifficulty"`
	Topics             []string `expr:"topics"`
	Reward             int      `expr:"reward"`
}

func envFor(p *Problem) problemEnv {
	return problemEnv{
		ID:                 p.ID,
		Number:             p.Number,
		Difficulty:         p.Difficulty,
		LeetCodeDifficulty: p.LeetCodeDifficulty,
		Topics:             p.Topics,
		Reward:             p.Reward,
	}
}

// Bank 题库
type Bank struct {
	problems map[string]*Problem
	ordered  []*Problem
	rules    map[types.DiamondTier]*vm.Program
}

// NewBank 用给定题目创建题库，题目会被校验
func NewBank(problems ...*Problem) (*Bank, error) {
	b := &Bank{problems: make(map[string]*Problem)}
	for _, p := range problems {
		if err := b.add(p); err != nil {
			return nil, err
		}
	}
	if err := b.SetTierRules(config.DefaultTierRules()); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadBank 加载目录下所有 .yaml/.yml/.json 题目文件（每个文件一道题）
func LoadBank(fsys fs.FS, dir string) (*Bank, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem directory: %w", err)
	}

	var problems []*Problem
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}

		file := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read problem %s: %w", file, err)
		}
		// JSON 是 YAML 的子集，统一用 yaml 解析
		var p Problem
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse problem %s: %w", file, err)
		}
		problems = append(problems, &p)
	}

	b, err := NewBank(problems...)
	if err != nil {
		return nil, err
	}
	log.Printf("[ProblemBank] Loaded %d problems from %s", len(problems), dir)
	return b, nil
}

func (b *Bank) add(p *Problem) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := b.problems[p.ID]; exists {
		return fmt.Errorf("%w: duplicate problem id %q", ErrInvalidProblem, p.ID)
	}
	b.problems[p.ID] = p
	b.ordered = append(b.ordered, p)
	sort.SliceStable(b.ordered, func(i, j int) bool {
		if b.ordered[i].Number != b.ordered[j].Number {
			return b.ordered[i].Number < b.ordered[j].Number
		}
		return b.ordered[i].ID < b.ordered[j].ID
	})
	return nil
}

// SetTierRules 编译各等级的筛选表达式
func (b *Bank) SetTierRules(rules *config.TierRulesConfig) error {
	compiled := make(map[types.DiamondTier]*vm.Program, len(rules.Tiers))
	for tier, rule := range rules.Tiers {
		program, err := exprlang.Compile(rule, exprlang.Env(problemEnv{}), exprlang.AsBool())
		if err != nil {
			return fmt.Errorf("%w: tier %s rule %q: %v", config.ErrInvalidConfig, tier, rule, err)
		}
		compiled[tier] = program
	}
	b.rules = compiled
	return nil
}

// Get 按 id 查找题目
func (b *Bank) Get(id string) (*Problem, bool) {
	p, ok := b.problems[id]
	return p, ok
}

// All 按题号排序的所有题目
func (b *Bank) All() []*Problem {
	out := make([]*Problem, len(b.ordered))
	copy(out, b.ordered)
	return out
}

// Len 题目数量
func (b *Bank) Len() int {
	return len(b.ordered)
}

// ForTier 返回符合等级规则的题目（按题号排序）
func (b *Bank) ForTier(tier types.DiamondTier) []*Problem {
	program, ok := b.rules[tier]
	if !ok {
		return nil
	}
	var out []*Problem
	for _, p := range b.ordered {
		matched, err := exprlang.Run(program, envFor(p))
		if err != nil {
			log.Printf("[ProblemBank] Tier %s rule failed on %s: %v", tier, p.ID, err)
			continue
		}
		if ok, _ := matched.(bool); ok {
			out = append(out, p)
		}
	}
	return out
}

// Pick 为拾取的钻石选择题目
//
// 优先级：指定题目（未完成）> 该等级第一道未完成的题 > 指定题目 > 该等级第一道题。
// completed 可以为 nil。
func (b *Bank) Pick(tier types.DiamondTier, preferredID string, completed func(id string) bool) (*Problem, error) {
	done := func(id string) bool {
		return completed != nil && completed(id)
	}

	preferred, hasPreferred := b.problems[preferredID]
	if hasPreferred && !done(preferredID) {
		return preferred, nil
	}

	candidates := b.ForTier(tier)
	for _, p := range candidates {
		if !done(p.ID) {
			return p, nil
		}
	}
	if hasPreferred {
		return preferred, nil
	}
	if len(candidates) > 0 {
		return candidates[0], nil
	}
	return nil, fmt.Errorf("%w: tier %s (preferred %q)", ErrNoProblem, tier, preferredID)
}
