package components

// FlashEffectComponent 受击闪烁
// 玩家被激光命中时挂上，持续 DurationMs 后由 FlashEffectSystem 移除
type FlashEffectComponent struct {
	DurationMs float64 // 闪烁持续时间（毫秒）
	ElapsedMs  float64 // 已经过的时间（毫秒）

	// Intensity 起始强度（0.0 - 1.0），1.0 = 完全白色
	Intensity float64
}

// Progress 闪烁进度 [0, 1]
func (f *FlashEffectComponent) Progress() float64 {
	if f.DurationMs <= 0 {
		return 1
	}
	p := f.ElapsedMs / f.DurationMs
	if p > 1 {
		return 1
	}
	return p
}
