package components

import "github.com/DSoyomokun/CSC4821/pkg/ecs"

// PlatformComponent 软平台
// 玩家可从下方穿过、站在上面，按住下键一段时间后穿透落下
// 平台可携带一颗钻石，钻石跟随平台移动
type PlatformComponent struct {
	Width     float64
	Thickness float64
	Height    float64 // 离地高度

	Diamond ecs.EntityID // 携带的钻石，0 表示没有
}
