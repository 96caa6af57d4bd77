package components

// ScrollComponent 随场景向左卷动的实体
// 每帧 X -= Speed * deltaMs / 1000，X < OffScreenX 时被回收
type ScrollComponent struct {
	Speed      float64 // 卷动速度（像素/秒），由生成器统一下发
	OffScreenX float64 // 回收阈值
}
