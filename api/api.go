package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-in-grid/config"
	"github.com/hoshinonyaruko/snake-in-grid/memimg"
	"github.com/hoshinonyaruko/snake-in-grid/render"
	"github.com/hoshinonyaruko/snake-in-grid/snake"
	"github.com/hoshinonyaruko/snake-in-grid/sqlite"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) *sql.DB {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		log.Fatal(err)
	}

	if err := sqlite.InitializeDatabase(db); err != nil {
		log.Fatal(err)
	}

	return db
}

// SettingsFromConfig maps the config file onto game settings.
func SettingsFromConfig(cfg *config.AppConfig) snake.Settings {
	return snake.Settings{
		Width:       cfg.Width,
		Height:      cfg.Height,
		FoodsCount:  cfg.FoodsCount,
		FoodRespawn: cfg.FoodRespawn(),
		RespawnAll:  cfg.RespawnAll,
		Speed: snake.Speed{
			Max:  cfg.MaxInterval(),
			Min:  cfg.MinInterval(),
			Step: cfg.StepInterval(),
		},
		Obstacles: cfg.Obstacles,
	}
}

// RegisterRoutes mounts the game endpoints on router.
func RegisterRoutes(router gin.IRouter, store *Store, cfg *config.AppConfig) {
	// 开新局
	router.GET("/new-game", NewGameHandler(store))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(store))
	router.GET("/tick", TickHandler(store))
	router.GET("/state", StateHandler(store))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(store, cfg))
	// 删除地图
	router.GET("/delete-map", DeleteMapHandler(store))
	// 实时对局
	router.GET("/ws", PlayHandler(store, cfg.Frame()))
}

// sessionFromQuery writes the error response itself when ok is false.
func sessionFromQuery(c *gin.Context, store *Store) (*Session, bool) {
	id := c.Query("session")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: session"})
		return nil, false
	}
	sess, err := store.Get(id)
	switch {
	case errors.Is(err, ErrInvalidSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No game found for session " + id})
		return nil, false
	case err != nil:
		log.Printf("load session %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load session"})
		return nil, false
	}
	return sess, true
}

// queryInt reads an optional integer query parameter no larger than limit.
func queryInt(c *gin.Context, key string, fallback, limit int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s: %q is not a number", key, raw)
	}
	if n > limit {
		return 0, fmt.Errorf("query parameter %s: %d is above the limit %d", key, n, limit)
	}
	return n, nil
}

func NewGameHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 配置里的棋盘大小是上限，客户端只能开更小的局
		base := store.Settings()
		settings := base
		var err error
		if settings.Width, err = queryInt(c, "width", base.Width, base.Width); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if settings.Height, err = queryInt(c, "height", base.Height, base.Height); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if settings.FoodsCount, err = queryInt(c, "foods", base.FoodsCount, settings.Width*settings.Height); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if c.Query("obstacles") == "none" {
			settings.Obstacles = nil
		}

		sess, err := store.Create(settings)
		switch {
		case errors.Is(err, snake.ErrInvalidSettings), errors.Is(err, snake.ErrBoardFull):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("create session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create game"})
			return
		}

		sess.mu.Lock()
		snap := sess.game.Snapshot()
		sess.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"session": sess.ID, "state": snap})
	}
}

func UpdateDirection(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		newDirection := c.Query("direction")
		if newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: direction"})
			return
		}
		direction, err := structs.ParseDirection(newDirection)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, ok := sessionFromQuery(c, store)
		if !ok {
			return
		}

		advance(c, store, sess, func(g *snake.Game) { g.ApplyDirection(direction) })
	}
}

func TickHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromQuery(c, store)
		if !ok {
			return
		}
		advance(c, store, sess, nil)
	}
}

// advance runs one loop iteration on the session: optional input, then
// Tick, then persistence. A finished game answers 409 with its final state.
func advance(c *gin.Context, store *Store, sess *Session, input func(*snake.Game)) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "No game found for session " + sess.ID})
		return
	}
	if sess.game.Terminated() {
		c.JSON(http.StatusConflict, gin.H{"error": "Game over", "state": sess.game.Snapshot()})
		return
	}
	if input != nil {
		input(sess.game)
	}
	sess.game.Tick()

	if err := store.Persist(sess); err != nil {
		log.Printf("persist session %s: %v", sess.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": sess.game.Snapshot()})
}

func StateHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromQuery(c, store)
		if !ok {
			return
		}
		sess.mu.Lock()
		snap := sess.game.Snapshot()
		sess.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"state": snap})
	}
}

func RenderMapHandler(store *Store, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromQuery(c, store)
		if !ok {
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		// 贪食蛇刷新
		if !sess.game.Terminated() {
			sess.game.Tick()
		}
		// 持久化
		if err := store.Persist(sess); err != nil {
			log.Printf("persist session %s: %v", sess.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save game"})
			return
		}

		// inline=1 直接返回图片，不落盘
		if c.Query("inline") == "1" {
			c.Header("Content-Type", "image/png")
			c.Status(http.StatusOK)
			if err := render.EncodePNG(c.Writer, sess.game, cfg.Blocksize, memimg.Lookup{}); err != nil {
				log.Printf("render session %s: %v", sess.ID, err)
			}
			return
		}

		// 绘图
		fileName := filepath.Join(cfg.StaticDir, sess.ID+".png")
		if err := render.SavePNG(sess.game, cfg.Blocksize, memimg.Lookup{}, fileName); err != nil {
			log.Printf("render session %s: %v", sess.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render game map"})
			return
		}

		imageUrl := fmt.Sprintf("http://%s/static/%s.png", cfg.SelfPath, sess.ID)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl, "state": sess.game.Snapshot()})
	}
}

func DeleteMapHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("session")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: session"})
			return
		}
		err := store.Delete(id)
		switch {
		case errors.Is(err, ErrInvalidSessionID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No game found for session " + id})
		case err != nil:
			log.Printf("delete session %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
		}
	}
}
