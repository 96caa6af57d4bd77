// Package types 定义共享的基础类型
package types

import "fmt"

// DiamondTier 钻石等级
// 等级决定拾取钻石后抽取哪一档题目（以及题目奖励）
type DiamondTier string

const (
	TierWhite DiamondTier = "white" // 白钻：简单题
	TierBlue  DiamondTier = "blue"  // 蓝钻：中等题
	TierBlack DiamondTier = "black" // 黑钻：困难题
)

// AllTiers 按难度升序返回所有钻石等级
func AllTiers() []DiamondTier {
	return []DiamondTier{TierWhite, TierBlue, TierBlack}
}

// Valid 检查等级是否为已知值
func (t DiamondTier) Valid() bool {
	switch t {
	case TierWhite, TierBlue, TierBlack:
		return true
	}
	return false
}

// ParseTier 解析等级字符串
func ParseTier(s string) (DiamondTier, error) {
	t := DiamondTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown diamond tier %q", s)
	}
	return t, nil
}
