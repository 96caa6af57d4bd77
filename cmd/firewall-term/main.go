// firewall-term 在终端里运行 Firewall
//
// 与桌面版共用同一套 RunModule / ChallengeModule，用 tcell 绘制、beep 合成音效。
// 数据从磁盘读取（默认当前目录下的 data/）。
//
// 用法:
//
//	go run ./cmd/firewall-term -root . -log firewall.log
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/DSoyomokun/CSC4821/pkg/app"
	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/gdamore/tcell/v2"
)

const frameDuration = time.Second / 60

var (
	rootFlag    = flag.String("root", ".", "Directory containing data/")
	logFlag     = flag.String("log", "", "Write logs to this file (default: discard)")
	seedFlag    = flag.Int64("seed", 0, "Fixed random seed (0 = random per run)")
	noSoundFlag = flag.Bool("nosound", false, "Disable sound")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "firewall-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// tcell 占用终端，日志只能写文件
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	data, err := app.LoadData(os.DirFS(*rootFlag), app.Config{})
	if err != nil {
		return err
	}

	store := app.OpenStorage()
	progress := game.NewProgressManager(store)
	if err := progress.Load(); err != nil {
		log.Printf("[Term] Warning: failed to load progress: %v", err)
	}
	settings := game.NewSettingsManager(store)

	var sound *soundPlayer
	if !*noSoundFlag {
		sound = newSoundPlayer(settings)
		if err := sound.Init(); err != nil {
			// 没有音频设备时静音运行
			log.Printf("[Term] Audio initialization failed: %v", err)
		}
		defer sound.Close()
	}

	timeout := time.Duration(data.Config.Challenge.TimeoutMs) * time.Millisecond
	h := newHost(data, challenge.NewRunner(timeout), progress, settings, sound, app.SeedFunc(*seedFlag))
	if err := h.newRun(); err != nil {
		return err
	}
	defer h.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return loop(screen, h)
}

// loop 主循环：按键事件由 tcell 的轮询 goroutine 送入，固定 60 帧更新
func loop(screen tcell.Screen, h *host) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			// Fini 之后 PollEvent 返回 nil
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	frameMs := float64(frameDuration) / float64(time.Millisecond)
	for !h.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				h.handleKey(ev)
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			h.update(frameMs)
			h.draw(screen)
		}
	}
	return nil
}
