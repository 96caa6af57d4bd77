package components

// PositionComponent 实体的唯一权威位置（中心点，世界坐标）
// 渲染与碰撞形状都从这里读取，不另存副本
type PositionComponent struct {
	X float64
	Y float64
}
