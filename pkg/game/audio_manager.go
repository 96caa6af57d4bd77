package game

import (
	"encoding/binary"
	"log"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// 合成参数
const (
	audioSampleRate = 48000
	noteRelease     = 30 * time.Millisecond // 每个音符末尾的淡出，避免爆音
	noteAmplitude   = 0.35
)

// AudioManager 音频管理器
// 职责：
//   - 把 SoundEffect 的音符序列合成为 PCM，并缓存 ebiten 播放器
//   - 实现音量控制（从 SettingsManager 读取设置）
//
// audio.Context 为 nil 时进入静音模式（测试、无音频设备）。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager
	soundPlayers    map[SoundEffect]*audio.Player
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil（静音）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[SoundEffect]*audio.Player),
	}
}

// SampleRate 合成使用的采样率
func SampleRate() int {
	return audioSampleRate
}

// PlaySound 播放音效
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(effect SoundEffect) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}

	player := am.getSoundPlayer(effect)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", effect, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量，立即应用到所有缓存的播放器
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(clampVolume(volume))
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// PreloadSounds 预先合成所有音效，避免首次播放时的延迟
func (am *AudioManager) PreloadSounds() {
	for _, effect := range AllSoundEffects() {
		am.getSoundPlayer(effect)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(am.soundPlayers))
}

// getSoundPlayer 获取或合成音效播放器
func (am *AudioManager) getSoundPlayer(effect SoundEffect) *audio.Player {
	if am.context == nil {
		return nil
	}
	if player, exists := am.soundPlayers[effect]; exists {
		return player
	}

	pcm := RenderPCM(effect.Notes(), audioSampleRate)
	if len(pcm) == 0 {
		log.Printf("[AudioManager] Warning: Sound has no notes: %s", effect)
		return nil
	}
	player := am.context.NewPlayerFromBytes(pcm)
	am.soundPlayers[effect] = player
	return player
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}

// RenderPCM 把音符序列合成为 16 位小端立体声 PCM（ebiten 音频的默认格式）
func RenderPCM(notes []Note, sampleRate int) []byte {
	var out []byte
	frame := make([]byte, 4)
	release := int(float64(sampleRate) * noteRelease.Seconds())

	for _, n := range notes {
		samples := int(float64(sampleRate) * n.Duration.Seconds())
		phase := 0.0
		for i := 0; i < samples; i++ {
			v := 0.0
			if n.Freq > 0 {
				v = oscillate(n.Wave, phase) * noteAmplitude
				if remaining := samples - i; remaining < release {
					v *= float64(remaining) / float64(release)
				}
				phase += n.Freq / float64(sampleRate)
				phase -= math.Floor(phase)
			}
			s := int16(v * math.MaxInt16)
			binary.LittleEndian.PutUint16(frame[0:], uint16(s))
			binary.LittleEndian.PutUint16(frame[2:], uint16(s))
			out = append(out, frame...)
		}
	}
	return out
}

// oscillate 相位 [0,1) 上的波形值，范围 [-1,1]
func oscillate(w Wave, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
