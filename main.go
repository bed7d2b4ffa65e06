package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-in-grid/api"
	"github.com/hoshinonyaruko/snake-in-grid/config"
	"github.com/hoshinonyaruko/snake-in-grid/memimg"
	"github.com/hoshinonyaruko/snake-in-grid/snake"
	"github.com/hoshinonyaruko/snake-in-grid/tui"
	"github.com/joho/godotenv"
)

func main() {
	// .env 可选，不存在就用系统环境变量
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	configPath := flag.String("config", envOr("SNAKE_CONFIG", "./config.json"), "Path to the JSON config file")
	terminal := flag.Bool("tui", false, "Play in the terminal instead of serving HTTP")
	flag.Parse()

	// Initialize the configuration
	cfg := config.LoadConfig(*configPath)
	config.OverridePort(os.Getenv("SNAKE_PORT"))
	settings := api.SettingsFromConfig(cfg)

	if *terminal {
		game, err := snake.New(settings)
		if err != nil {
			log.Fatalf("Failed to start game: %v", err)
		}
		if err := tui.Run(game, cfg.Frame()); err != nil {
			log.Fatalf("Terminal UI error: %v", err)
		}
		return
	}

	EnsureFoldersExist(cfg.SpriteDir, cfg.StaticDir)
	// 载入精灵图到内存
	if err := memimg.LoadSprites(cfg.SpriteDir, cfg.Blocksize); err != nil {
		log.Fatalf("Failed to load sprites: %v", err)
	}
	// 检测并热更新到内存 加速绘图
	go func() {
		if err := memimg.WatchSprites(cfg.SpriteDir, cfg.Blocksize, nil); err != nil {
			log.Printf("sprite watcher stopped: %v", err)
		}
	}()

	db := api.InitDB(cfg.DBPath)
	store := api.NewStore(db, settings)
	// 定时清理结束或长时间没动的对局
	go func() {
		for range time.Tick(time.Hour) {
			store.Sweep(24 * time.Hour)
		}
	}()

	router := gin.Default()
	api.RegisterRoutes(router, store, cfg)
	router.Static("/static", cfg.StaticDir) // 静态文件服务
	// 从配置单例读取端口 监听
	if err := router.Run(":" + config.GetConfigValue("port").(string)); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755) // 使用0755权限以确保读写权限
			if err != nil {
				// 如果创建失败，则记录错误并可能退出程序
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		} else {
			// 文件夹已存在
			log.Printf("%s directory already exists", folder)
		}
	}
}
