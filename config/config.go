package config

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath  string `json:"selfpath"`
	Port      string `json:"port"`
	Blocksize int    `json:"blocksize"`
	DBPath    string `json:"dbpath"`
	SpriteDir string `json:"spritedir"`
	StaticDir string `json:"staticdir"`

	// 棋盘与玩法，只在新开一局时读取
	Width          int                 `json:"width"`
	Height         int                 `json:"height"`
	FoodsCount     int                 `json:"foodscount"`
	RespawnAll     bool                `json:"respawnall"`
	FoodRespawnMS  int                 `json:"foodrespawnms"`
	MaxIntervalMS  int                 `json:"maxintervalms"`
	MinIntervalMS  int                 `json:"minintervalms"`
	StepIntervalMS int                 `json:"stepintervalms"`
	FrameMS        int                 `json:"framems"` // websocket/tui 刷新间隔
	Obstacles      []structs.Placement `json:"obstacles"`
}

var (
	instance *AppConfig
	once     sync.Once
)

// Default returns the built-in settings written to a fresh config file.
func Default() *AppConfig {
	return &AppConfig{
		SelfPath:       "127.0.0.1:38871", // Default value
		Port:           "38871",           // Default value
		Blocksize:      30,
		DBPath:         "snake.db",
		SpriteDir:      "./sprites",
		StaticDir:      "./static",
		Width:          30,
		Height:         30,
		FoodsCount:     1,
		RespawnAll:     true,
		FoodRespawnMS:  3000,
		MaxIntervalMS:  150,
		MinIntervalMS:  60,
		StepIntervalMS: 30,
		FrameMS:        16,
		Obstacles: []structs.Placement{
			{Shape: "star", X: 3, Y: 3},
			{Shape: "hwall", X: 20, Y: 20},
			{Shape: "star", X: 7, Y: 7},
		},
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		instance = Default()
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			saveConfig(filePath)
		} else {
			loadConfig(filePath)
		}
	})
	return instance
}

// Get returns the loaded configuration, or the defaults before LoadConfig.
func Get() *AppConfig {
	if instance == nil {
		return Default()
	}
	return instance
}

// loadConfig loads the settings from the file
func loadConfig(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(instance); err != nil {
		panic(err)
	}
	// 非正数会让 ticker panic 或画布为空，退回默认值
	if instance.FrameMS <= 0 {
		log.Printf("config: framems %d is not positive, using %d", instance.FrameMS, Default().FrameMS)
		instance.FrameMS = Default().FrameMS
	}
	if instance.Blocksize <= 0 {
		log.Printf("config: blocksize %d is not positive, using %d", instance.Blocksize, Default().Blocksize)
		instance.Blocksize = Default().Blocksize
	}
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string) {
	file, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(instance); err != nil {
		panic(err)
	}
}

// OverridePort replaces the listening port, e.g. from the environment.
func OverridePort(port string) {
	if instance != nil && port != "" {
		instance.Port = port
	}
}

// FoodRespawn and the interval helpers convert the millisecond fields.
func (c *AppConfig) FoodRespawn() time.Duration  { return ms(c.FoodRespawnMS) }
func (c *AppConfig) MaxInterval() time.Duration  { return ms(c.MaxIntervalMS) }
func (c *AppConfig) MinInterval() time.Duration  { return ms(c.MinIntervalMS) }
func (c *AppConfig) StepInterval() time.Duration { return ms(c.StepIntervalMS) }

// Frame is the refresh interval of the websocket and terminal loops; a
// non-positive value falls back to the default.
func (c *AppConfig) Frame() time.Duration {
	if c.FrameMS <= 0 {
		return ms(Default().FrameMS)
	}
	return ms(c.FrameMS)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	cfg := Get()
	switch key {
	case "selfpath":
		return cfg.SelfPath
	case "port":
		return cfg.Port
	case "blocksize":
		return cfg.Blocksize
	case "dbpath":
		return cfg.DBPath
	case "spritedir":
		return cfg.SpriteDir
	case "staticdir":
		return cfg.StaticDir
	default:
		return ""
	}
}
