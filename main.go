package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DSoyomokun/CSC4821/pkg/app"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag   = flag.String("config", "", "Path to a game.yaml overriding the embedded one")
	patternsFlag = flag.String("patterns", "", "Path to a spawn_patterns.yaml overriding the embedded one")
	seedFlag     = flag.Int64("seed", 0, "Fixed random seed (0 = random per run)")
)

func main() {
	flag.Parse()

	// 初始化嵌入数据
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:      *verboseFlag,
		ConfigPath:   *configFlag,
		PatternsPath: *patternsFlag,
		Seed:         *seedFlag,
	})
	if err != nil {
		// 日志可能已被关闭，直接输出到 stderr
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(config.GameWindowWidth/2, config.GameWindowHeight/2)
	ebiten.SetWindowTitle("Firewall")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("[Main] Game loop error: %v", err)
	}

	// 窗口关闭后保存进度与设置
	if !gameApp.GetSceneManager().SaveOnExit() {
		log.Printf("[Main] Warning: some data failed to save")
	}
}
