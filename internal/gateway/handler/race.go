package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"iplinsight/internal/roster"
)

const raceWriteWait = 10 * time.Second

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || h.allowedOrigins[origin]
		},
	}
}

// RaceWS streams the bar-chart-race frames over a websocket, one season per
// interval, then closes normally. A client close stops the stream.
func (h *Handler) RaceWS(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// drain client frames so close and ping messages are processed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	err = h.roster.Race().Stream(ctx, h.raceInterval, func(f roster.Frame) error {
		if err := conn.SetWriteDeadline(time.Now().Add(raceWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(f)
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			h.logger.Debugw("race stream stopped", "error", err)
		}
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "race finished"),
		time.Now().Add(raceWriteWait))
}
