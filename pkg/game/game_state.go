package game

import "math"

// distanceEpsilon 距离比较与取整的容差，吸收浮点累加误差
const distanceEpsilon = 1e-6

// GameState 一局跑酷的状态
//
// 每次开局创建新实例，由 RunModule 持有并在每帧更新；
// 场景和终端宿主只读取它来绘制 HUD。
type GameState struct {
	Distance    float64 // 累计行进距离（像素）
	ScrollSpeed float64 // 当前卷动速度（像素/秒）
	Bonus       int     // 奖励分（题目奖励减去惩罚），可为负
	Hits        int     // 被激光击中次数
	Solved      int     // 本局解出的题目数

	Paused   bool // 暂停中：距离、生成、移动全部冻结
	GameOver bool // 本局结束

	Elapsed float64 // 未暂停的游戏时间（秒）
}

// NewGameState 创建新一局的状态
func NewGameState(speed float64) *GameState {
	return &GameState{ScrollSpeed: speed}
}

// Score 当前得分：距离取整加奖励分
func (gs *GameState) Score() int {
	return int(math.Floor(gs.Distance+distanceEpsilon)) + gs.Bonus
}

// AddBonus 增加奖励分（负值为扣分）
func (gs *GameState) AddBonus(amount int) {
	gs.Bonus += amount
}

// Advance 按当前速度推进距离，返回本帧行进量
func (gs *GameState) Advance(deltaMs float64) float64 {
	step := gs.ScrollSpeed * deltaMs / 1000
	// 以微像素为单位累加，避免逐帧累积误差
	gs.Distance = math.Round((gs.Distance+step)*1e6) / 1e6
	gs.Elapsed += deltaMs / 1000
	return step
}
