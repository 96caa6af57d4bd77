// Package app 提供游戏应用的核心包装器
//
// 该包把配置加载、题库、存档和场景装配从 main 包中提取出来，
// main.go 只负责解析命令行参数并启动 ebiten。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"time"

	"github.com/DSoyomokun/CSC4821/pkg/challenge"
	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/embedded"
	"github.com/DSoyomokun/CSC4821/pkg/game"
	"github.com/DSoyomokun/CSC4821/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName 存档目录名
const AppName = "firewall"

// 嵌入数据中的默认路径
const (
	gameConfigPath = "data/game.yaml"
	patternsPath   = "data/spawn_patterns.yaml"
	tierRulesPath  = "data/tier_rules.yaml"
	problemsDir    = "data/problems"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 磁盘上的 game.yaml，为空时使用嵌入的配置
	ConfigPath string
	// PatternsPath 磁盘上的 spawn_patterns.yaml，为空时使用嵌入的配置
	PatternsPath string
	// Seed 固定随机种子，0 表示每局随机
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	input        *game.InputBus
	settings     *game.SettingsManager
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入数据。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	dataFS, err := embedded.FS()
	if err != nil {
		return nil, fmt.Errorf("嵌入数据未初始化: %w", err)
	}

	data, err := LoadData(dataFS, cfg)
	if err != nil {
		return nil, err
	}
	gameConfig := data.Config

	store := OpenStorage()
	progress := game.NewProgressManager(store)
	if err := progress.Load(); err != nil {
		log.Printf("[App] Warning: failed to load progress: %v", err)
	}
	settings := game.NewSettingsManager(store)

	audioManager := game.NewAudioManager(audio.NewContext(game.SampleRate()), settings)
	audioManager.PreloadSounds()
	log.Printf("[App] AudioManager initialized")

	input := game.NewInputBus()
	sceneManager := game.NewSceneManager()

	deps := &scenes.Deps{
		SceneManager: sceneManager,
		Input:        input,
		Config:       gameConfig,
		Patterns:     data.Patterns,
		Bank:         data.Bank,
		Evaluator:    challenge.NewRunner(time.Duration(gameConfig.Challenge.TimeoutMs) * time.Millisecond),
		Progress:     progress,
		Settings:     settings,
		Audio:        audioManager,
		Seed:         SeedFunc(cfg.Seed),
	}

	// 创建场景管理器
	sceneManager.SetSceneFactory(func(name string) game.Scene {
		switch name {
		case scenes.SceneMenu:
			return scenes.NewMenuScene(deps)
		case scenes.SceneRun:
			s, err := scenes.NewRunScene(deps)
			if err != nil {
				log.Printf("[App] 错误: 无法创建跑酷场景: %v", err)
				return nil
			}
			return s
		}
		return nil
	})
	sceneManager.LoadScene(scenes.SceneMenu)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		input:        input,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// Data 启动时加载的配置与题库
type Data struct {
	Config   *config.GameConfig
	Patterns *config.SpawnPatterns
	Bank     *challenge.Bank
}

// LoadData 加载游戏配置、生成配置和题库
// cfg.ConfigPath / cfg.PatternsPath 非空时读取磁盘上的文件，其余从 dataFS 读取
func LoadData(dataFS fs.FS, cfg Config) (*Data, error) {
	gameConfig, err := loadGameConfig(dataFS, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	patterns, err := loadPatterns(dataFS, cfg.PatternsPath)
	if err != nil {
		return nil, fmt.Errorf("生成配置加载失败: %w", err)
	}
	log.Printf("[Config] %d diamond spawns, %d platform spawns", len(patterns.DiamondSpawns), len(patterns.PlatformSpawns))

	bank, err := loadBank(dataFS)
	if err != nil {
		return nil, fmt.Errorf("题库加载失败: %w", err)
	}
	return &Data{Config: gameConfig, Patterns: patterns, Bank: bank}, nil
}

// OpenStorage 打开存档目录
// 存档不可用时返回 nil，游戏以无存档模式运行
func OpenStorage() *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: save data unavailable, progress will not persist: %v", err)
		return nil
	}
	return m
}

// loadGameConfig 优先读取磁盘上的覆盖文件
func loadGameConfig(dataFS fs.FS, path string) (*config.GameConfig, error) {
	if path != "" {
		log.Printf("[Config] 加载游戏配置: %s", path)
		return config.LoadGameConfig(path)
	}
	return config.LoadGameConfigFS(dataFS, gameConfigPath)
}

func loadPatterns(dataFS fs.FS, path string) (*config.SpawnPatterns, error) {
	if path != "" {
		log.Printf("[Config] 加载生成配置: %s", path)
		return config.LoadSpawnPatterns(path)
	}
	return config.LoadSpawnPatternsFS(dataFS, patternsPath)
}

// loadBank 加载题库并应用等级筛选规则
// tier_rules.yaml 缺失时使用默认规则
func loadBank(dataFS fs.FS) (*challenge.Bank, error) {
	bank, err := challenge.LoadBank(dataFS, problemsDir)
	if err != nil {
		return nil, err
	}

	rules, err := config.LoadTierRulesFS(dataFS, tierRulesPath)
	if err != nil {
		if _, statErr := fs.Stat(dataFS, tierRulesPath); !errors.Is(statErr, fs.ErrNotExist) {
			return nil, err
		}
		log.Printf("[Config] %s not found, using default tier rules", tierRulesPath)
		rules = config.DefaultTierRules()
	}
	if err := bank.SetTierRules(rules); err != nil {
		return nil, err
	}
	return bank, nil
}

// SeedFunc 返回每局的种子：固定种子时每局相同，否则取当前时间
func SeedFunc(seed int64) func() int64 {
	if seed != 0 {
		return func() int64 { return seed }
	}
	return func() int64 { return time.Now().UnixNano() }
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth/2, config.GameWindowHeight/2)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth/2, config.GameWindowHeight/2)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	publishIntents(a.input)

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制游戏画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
// 用于在游戏关闭时保存存档
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
