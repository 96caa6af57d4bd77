package components

// CollisionGroup 碰撞分组
// 主场景只对玩家与某一分组做重叠检测
type CollisionGroup string

const (
	GroupObstacle    CollisionGroup = "obstacle"    // 激光
	GroupCollectible CollisionGroup = "collectible" // 钻石
	GroupPlayer      CollisionGroup = "player"
)

// CollisionComponent 定义实体的碰撞检测边界框
// 边界框以 PositionComponent 为中心，可带偏移
type CollisionComponent struct {
	Width   float64 // 碰撞盒宽度（像素）
	Height  float64 // 碰撞盒高度（像素）
	OffsetX float64 // 碰撞盒相对于实体位置的X偏移量（像素），正值向右偏移
	OffsetY float64 // 碰撞盒相对于实体位置的Y偏移量（像素），正值向下偏移

	Enabled bool           // 为 false 时不参与重叠检测（如预警中的激光）
	Group   CollisionGroup // 所属分组
}

// Bounds 返回碰撞盒的左上角与右下角
func (c *CollisionComponent) Bounds(pos *PositionComponent) (minX, minY, maxX, maxY float64) {
	cx := pos.X + c.OffsetX
	cy := pos.Y + c.OffsetY
	return cx - c.Width/2, cy - c.Height/2, cx + c.Width/2, cy + c.Height/2
}
