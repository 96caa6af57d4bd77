package types

import "fmt"

// LaserHeight 激光所在高度
// ground: 贴地激光，需要跳过
// middle/high: 空中激光，需要下滑躲避
type LaserHeight string

const (
	LaserGround LaserHeight = "ground"
	LaserMiddle LaserHeight = "middle"
	LaserHigh   LaserHeight = "high"
)

// Valid 检查高度是否为已知值
func (h LaserHeight) Valid() bool {
	switch h {
	case LaserGround, LaserMiddle, LaserHigh:
		return true
	}
	return false
}

// ParseLaserHeight 解析激光高度字符串
func ParseLaserHeight(s string) (LaserHeight, error) {
	h := LaserHeight(s)
	if !h.Valid() {
		return "", fmt.Errorf("unknown laser height %q", s)
	}
	return h, nil
}
