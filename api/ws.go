package api

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsInput is what the client sends: {"direction":"up"} or {"quit":true}.
type wsInput struct {
	Direction string `json:"direction"`
	Quit      bool   `json:"quit"`
}

// PlayHandler upgrades to a websocket that drives one session in real time.
// Every frame applies the queued key presses, ticks and sends the state.
// Closing the socket quits the game.
func PlayHandler(store *Store, frame time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionFromQuery(c, store)
		if !ok {
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		play(conn, store, sess, frame)
	}
}

func play(conn *websocket.Conn, store *Store, sess *Session, frame time.Duration) {
	inputs := make(chan structs.Direction, 16)
	closed := make(chan struct{})

	go func() {
		defer close(closed)
		for {
			var in wsInput
			if err := conn.ReadJSON(&in); err != nil {
				return
			}
			if in.Quit {
				return
			}
			d, err := structs.ParseDirection(in.Direction)
			if err != nil {
				log.Printf("session %s: %v", sess.ID, err)
				continue
			}
			select {
			case inputs <- d:
			default:
				// 输入太快，丢掉
			}
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	var last structs.Snapshot
	for {
		select {
		case <-closed:
			sess.mu.Lock()
			sess.game.Quit()
			if err := store.Persist(sess); err != nil {
				log.Printf("persist session %s: %v", sess.ID, err)
			}
			sess.mu.Unlock()
			return

		case <-ticker.C:
			sess.mu.Lock()
			if !sess.game.Terminated() {
			drain:
				for {
					select {
					case d := <-inputs:
						sess.game.ApplyDirection(d)
					default:
						break drain
					}
				}
				sess.game.Tick()
			}
			snap := sess.game.Snapshot()
			if changed(last, snap) {
				if err := store.Persist(sess); err != nil {
					log.Printf("persist session %s: %v", sess.ID, err)
				}
			}
			sess.mu.Unlock()

			if err := conn.WriteJSON(snap); err != nil {
				continue // the reader sees the broken connection and closes
			}
			last = snap
			if snap.Phase == structs.Terminated {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
				return
			}
		}
	}
}

// changed skips sqlite writes on frames where nothing moved.
func changed(a, b structs.Snapshot) bool {
	return a.Phase != b.Phase || a.Score != b.Score || a.Direction != b.Direction ||
		!slices.Equal(a.Body, b.Body) || !slices.Equal(a.Foods, b.Foods)
}
