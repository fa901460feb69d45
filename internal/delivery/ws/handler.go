package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Vovarama1992/deskmate/internal/ports"
)

// Options configures the IPC endpoint.
type Options struct {
	AllowedOrigins []string
	MaxFrameBytes  int64 // 0 → no limit
}

type request struct {
	ID   json.RawMessage `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args"`
}

type reply struct {
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result any             `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// WSHandler serves the IPC channel: every text frame is one command call,
// answered by a reply frame carrying the same id.
func WSHandler(hub *Hub, invoker ports.CommandInvoker, opts Options) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return AllowedOrigin(opts.AllowedOrigins, r.Header.Get("Origin"))
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed origin=%q: %v", r.Header.Get("Origin"), err)
			return
		}
		conn.SetReadLimit(opts.MaxFrameBytes)

		window := r.URL.Query().Get("window")
		if window == "" {
			window = "main"
		}

		log.Printf("[WS] start window=%s", window)
		c := hub.Register(window, conn)

		var inflight sync.WaitGroup
		defer func() {
			inflight.Wait()
			hub.Unregister(window, c)
			log.Printf("[WS] end window=%s", window)
		}()

		ctx := r.Context()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Printf("[WS] disconnect window=%s", window)
				return
			}

			var req request
			if err := json.Unmarshal(raw, &req); err != nil {
				writeReply(c, reply{Error: "invalid frame: " + err.Error()})
				continue
			}

			inflight.Add(1)
			go func(req request) {
				defer inflight.Done()

				res, err := invoker.Invoke(ctx, req.Cmd, req.Args)
				if err != nil {
					writeReply(c, reply{ID: req.ID, Error: err.Error()})
					return
				}
				writeReply(c, reply{ID: req.ID, OK: true, Result: res})
			}(req)
		}
	}
}

func writeReply(c *client, rep reply) {
	b, err := json.Marshal(rep)
	if err != nil {
		log.Printf("[WS][ERR] marshal reply: %v", err)
		return
	}
	if err := c.write(b); err != nil {
		log.Printf("[WS][ERR] write reply: %v", err)
	}
}
