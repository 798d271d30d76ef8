package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

// ============================================================================
// WEBSOCKET - dashboard refresh push
// ============================================================================
// Clients subscribe here instead of polling; every completed auto-refresh
// broadcasts a small signal telling them to reload the dashboard. The data
// itself still travels over the normal REST endpoints.
// ============================================================================

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024

	// Keep-alive matters behind cloud proxies that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		log.Printf("✅ Dashboard subscriber connected: %s", s.Request.RemoteAddr)
	})

	m.HandleDisconnect(func(s *melody.Session) {
		log.Printf("🔌 Dashboard subscriber disconnected: %s", s.Request.RemoteAddr)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the request to a websocket subscription.
func (h *WSHandler) HandleWS(c *gin.Context) {
	if err := h.M.HandleRequest(c.Writer, c.Request); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// BroadcastRefresh signals all subscribers that fresh dashboard data is
// available.
func (h *WSHandler) BroadcastRefresh(transactionCount int) {
	msg := fmt.Sprintf(`{"type": "dashboard_updated", "transactions": %d}`, transactionCount)
	if err := h.M.Broadcast([]byte(msg)); err != nil {
		log.Printf("⚠️ Error broadcasting dashboard update: %v", err)
	}
}
