package main

import (
	"math"
	"sync"
	"time"

	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	noteAttack   = 5 * time.Millisecond
	noteRelease  = 30 * time.Millisecond
	masterVolume = 0.35
)

// soundPlayer 终端版音效，用 beep 实时合成
// 与桌面版共用 game.SoundEffect 的音符表
type soundPlayer struct {
	mu          sync.Mutex
	settings    *game.SettingsManager
	mixer       *beep.Mixer
	initialized bool
}

func newSoundPlayer(settings *game.SettingsManager) *soundPlayer {
	return &soundPlayer{settings: settings, mixer: &beep.Mixer{}}
}

// Init 打开音频设备；失败时保持静音
func (sp *soundPlayer) Init() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sp.mixer)
	sp.initialized = true
	return nil
}

// Play 播放音效，设备未初始化或音效关闭时返回 false
func (sp *soundPlayer) Play(effect game.SoundEffect) bool {
	if sp == nil {
		return false
	}
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if !sp.initialized {
		return false
	}
	volume := masterVolume
	if sp.settings != nil {
		s := sp.settings.GetSettings()
		if !s.SoundEnabled {
			return false
		}
		volume *= s.SoundVolume
	}

	streamer := newVolume(noteSequence(effect.Notes()), volume)
	speaker.Lock()
	sp.mixer.Add(streamer)
	speaker.Unlock()
	return true
}

// Close 清空混音器
func (sp *soundPlayer) Close() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if !sp.initialized {
		return
	}
	speaker.Lock()
	sp.mixer.Clear()
	speaker.Unlock()
	sp.initialized = false
}

// noteSequence 把音符表串成一个 streamer，休止符用静音填充
func noteSequence(notes []game.Note) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(sampleRate.N(n.Duration)))
			continue
		}
		osc := newOscillator(n.Freq, n.Duration, n.Wave, sampleRate)
		parts = append(parts, newEnvelope(osc, n.Duration, noteAttack, noteRelease, sampleRate))
	}
	return beep.Seq(parts...)
}

// oscillator 生成单个音符的原始波形
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     game.Wave
	rate     beep.SampleRate
}

func newOscillator(freq float64, duration time.Duration, wave game.Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case game.WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case game.WaveSaw:
			val = 2 * (o.phase - 0.5)
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope 起音/释音包络，消除音符首尾的爆音
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if remaining := e.totalSamples - e.position; remaining < e.releaseSamples {
			vol = math.Min(vol, math.Max(float64(remaining)/float64(e.releaseSamples), 0))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume 线性音量转换成 effects.Volume 的对数音量，0 为静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
