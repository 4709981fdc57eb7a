package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/services"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// RefreshInterval is how often the stream re-reads the store to pick up
// writes made outside this process
var RefreshInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // admin PIN is checked before the upgrade
	},
}

// StreamOrders handles GET /api/v1/admin/orders/stream - a websocket feed
// of the order collection. A frame is sent on connect and whenever the
// collection changes, either through this process or in the store itself.
func StreamOrders(c *gin.Context) {
	svc := services.GetOrderService()
	logger := config.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var updates <-chan []models.Order
	if feed := svc.Feed(); feed != nil {
		ch, unsubscribe := feed.Subscribe()
		defer unsubscribe()
		updates = ch
	}

	// Reader: we only care about pongs and the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("Websocket closed", zap.Error(err))
				}
				return
			}
		}
	}()

	var last []byte
	send := func(orders []models.Order) bool {
		if orders == nil {
			orders = []models.Order{}
		}
		payload, err := json.Marshal(gin.H{"type": "orders", "data": orders})
		if err != nil {
			logger.Error("Failed to encode order snapshot", zap.Error(err))
			return true
		}
		if bytes.Equal(payload, last) {
			return true
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return false
		}
		last = payload
		return true
	}

	refresh := func() bool {
		orders, err := svc.ListOrders(c.Request.Context())
		if err != nil {
			logger.Warn("Stream refresh failed", zap.Error(err))
			return true
		}
		return send(orders)
	}

	if !refresh() {
		return
	}

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			return
		case orders, ok := <-updates:
			if !ok {
				return
			}
			if !send(orders) {
				return
			}
		case <-ticker.C:
			if !refresh() {
				return
			}
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
