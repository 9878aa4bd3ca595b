package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

type getEventsEvent struct {
	Mode string    `json:"mode"`
	Time time.Time `json:"time"`
}

func (a *Api) handleGetEvents() http.HandlerFunc {
	upgrader := &websocket.Upgrader{}

	return func(w http.ResponseWriter, r *http.Request) {
		client := a.orchestrator.Subscribe()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			client.Cancel()
			a.log.Errorf("Could not upgrade to websocket: %v", err)
			return
		}

		// the current mode first, changes follow
		c.SetWriteDeadline(time.Now().Add(writeWait))
		err = c.WriteJSON(&getEventsEvent{
			Mode: a.orchestrator.Mode().String(),
			Time: time.Now(),
		})
		if err != nil {
			client.Cancel()
			c.Close()
			return
		}

		// read pump
		go func() {
			defer client.Cancel()

			c.SetReadLimit(512)
			c.SetReadDeadline(time.Now().Add(pongWait))
			c.SetPongHandler(func(string) error {
				c.SetReadDeadline(time.Now().Add(pongWait))
				return nil
			})

			for {
				_, _, err := c.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						a.log.Errorf("unexpected websocket closure: %v", err)
					}
					break
				}
			}
		}()

		// write pump
		go func() {
			defer c.Close()

			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()

			for {
				select {
				case change, ok := <-client.Modes:
					c.SetWriteDeadline(time.Now().Add(writeWait))

					if !ok {
						c.WriteMessage(websocket.CloseMessage, []byte{})
						return
					}

					err := c.WriteJSON(&getEventsEvent{
						Mode: change.Mode.String(),
						Time: change.Time,
					})
					if err != nil {
						return
					}
				case <-ticker.C:
					c.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
	}
}
