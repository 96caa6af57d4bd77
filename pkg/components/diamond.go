package components

import "github.com/DSoyomokun/CSC4821/pkg/types"

// DiamondComponent 可拾取的钻石
// 生成后不可变：等级决定题目档位，ChallengeID 是首选题目
type DiamondComponent struct {
	Tier        types.DiamondTier
	ChallengeID string
}
