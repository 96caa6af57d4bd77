package game

import "time"

// SoundEffect 游戏音效
// 音效全部由音符合成，不依赖音频文件；桌面版和终端版各自渲染
type SoundEffect int

const (
	SoundLaserHit SoundEffect = iota
	SoundPickup
	SoundSolved
	SoundSkip
	SoundGameOver
)

// AllSoundEffects 所有音效
func AllSoundEffects() []SoundEffect {
	return []SoundEffect{SoundLaserHit, SoundPickup, SoundSolved, SoundSkip, SoundGameOver}
}

func (s SoundEffect) String() string {
	switch s {
	case SoundLaserHit:
		return "laser_hit"
	case SoundPickup:
		return "pickup"
	case SoundSolved:
		return "solved"
	case SoundSkip:
		return "skip"
	case SoundGameOver:
		return "game_over"
	}
	return "unknown"
}

// Wave 振荡器波形
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
)

// Note 一个音符，按顺序播放
type Note struct {
	Freq     float64 // Hz，0 为休止
	Duration time.Duration
	Wave     Wave
}

// Notes 音效的音符序列
func (s SoundEffect) Notes() []Note {
	switch s {
	case SoundLaserHit:
		return []Note{
			{Freq: 110, Duration: 120 * time.Millisecond, Wave: WaveSaw},
			{Freq: 82.4, Duration: 100 * time.Millisecond, Wave: WaveSaw},
		}
	case SoundPickup:
		return []Note{
			{Freq: 987.77, Duration: 70 * time.Millisecond, Wave: WaveSquare},
			{Freq: 1318.51, Duration: 140 * time.Millisecond, Wave: WaveSquare},
		}
	case SoundSolved:
		return []Note{
			{Freq: 523.25, Duration: 90 * time.Millisecond, Wave: WaveSine},
			{Freq: 659.25, Duration: 90 * time.Millisecond, Wave: WaveSine},
			{Freq: 783.99, Duration: 90 * time.Millisecond, Wave: WaveSine},
			{Freq: 1046.5, Duration: 220 * time.Millisecond, Wave: WaveSine},
		}
	case SoundSkip:
		return []Note{
			{Freq: 440, Duration: 90 * time.Millisecond, Wave: WaveSquare},
			{Freq: 330, Duration: 140 * time.Millisecond, Wave: WaveSquare},
		}
	case SoundGameOver:
		return []Note{
			{Freq: 392, Duration: 200 * time.Millisecond, Wave: WaveSaw},
			{Freq: 0, Duration: 60 * time.Millisecond},
			{Freq: 311.13, Duration: 200 * time.Millisecond, Wave: WaveSaw},
			{Freq: 0, Duration: 60 * time.Millisecond},
			{Freq: 261.63, Duration: 400 * time.Millisecond, Wave: WaveSaw},
		}
	}
	return nil
}

// Duration 音效总时长
func (s SoundEffect) Duration() time.Duration {
	var total time.Duration
	for _, n := range s.Notes() {
		total += n.Duration
	}
	return total
}
