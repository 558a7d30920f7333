// Package ws serves the assembly websocket: operators connect to one assembly
// date and receive entry events for it.
package ws

import (
	"net/http"
	"time"

	"orderdesk/internal/adapters/out/broadcast"
	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Hub is the part of broadcast.Hub the handler needs.
type Hub interface {
	Join(room string, m broadcast.Member)
	Leave(room string, id string)
}

type Handler struct {
	hub      Hub
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewHandler(hub Hub, log logrus.FieldLogger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The operator UI is served from another origin; identity is not
			// checked here either.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log.WithField("component", "ws"),
	}
}

// ServeAssembly handles GET /ws/assembly/:date.
func (h *Handler) ServeAssembly(c echo.Context) error {
	date, err := kernel.ParseShipDate(c.Param("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.WithError(err).Debug("upgrade failed")
		return nil
	}

	room := ports.AssemblyRoom(date)
	cl := newClient(conn)
	h.hub.Join(room, cl)
	h.log.WithFields(logrus.Fields{"room": room, "session": cl.id}).Debug("session joined")

	go cl.writePump()
	cl.readPump()

	h.hub.Leave(room, cl.id)
	cl.close()
	h.log.WithFields(logrus.Fields{"room": room, "session": cl.id}).Debug("session left")
	return nil
}
