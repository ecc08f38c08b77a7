// Package server exposes the role-view interface boundary over HTTP. Each
// running process is one client session (customer device, kitchen display
// or admin console); the handlers translate requests into order-builder,
// state-machine and check-in operations against the shared store.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hnquoc/tableserve/internal/checkin"
	"github.com/hnquoc/tableserve/internal/order"
	"github.com/hnquoc/tableserve/internal/session"
	"github.com/hnquoc/tableserve/internal/syncer"
)

type Server struct {
	engine     *gin.Engine
	reconciler *syncer.Reconciler
	orders     *order.Service
	session    *session.Session
	geoTimeout time.Duration
	log        *zap.Logger
}

func New(reconciler *syncer.Reconciler, orders *order.Service, sess *session.Session, geoTimeout time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		engine:     gin.New(),
		reconciler: reconciler,
		orders:     orders,
		session:    sess,
		geoTimeout: geoTimeout,
		log:        log,
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")

	api.GET("/state", s.handleState)
	api.GET("/entry", s.handleEntry)

	api.POST("/checkin", s.handleCheckIn)

	api.GET("/cart", s.handleGetCart)
	api.POST("/cart/lines", s.handleAddLine)
	api.DELETE("/cart/lines/:index", s.handleRemoveLine)
	api.PUT("/cart/note", s.handleCartNote)
	api.DELETE("/cart", s.handleAbandonCart)

	api.POST("/orders", s.handleSubmitOrder)
	api.POST("/orders/:id/status", s.handleTransition)
	api.PUT("/orders/:id/items", s.handleUpdateItems)
	api.PUT("/orders/:id/table", s.handleSetTable)
	api.POST("/orders/reset", s.handleReset)
	api.POST("/notifications/ack", s.handleAckReady)

	api.POST("/login", s.handleLogin)
	api.POST("/logout", s.handleLogout)

	api.GET("/branches/:id/tables/:table/qr", s.handleTableQR)
}

func (s *Server) Run(addr string) error {
	s.log.Info("http surface listening", zap.String("addr", addr), zap.String("role", s.session.Role()))
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// role resolves the acting role for an operation. The session role is the
// default; an explicit header lets a combined console act as another role.
func (s *Server) role(c *gin.Context) string {
	if r := c.GetHeader("X-Role"); r != "" {
		return r
	}
	return s.session.Role()
}

// requestLocator satisfies checkin.Geolocator from coordinates the device
// reported with the request; the browser performed the actual
// high-accuracy read before calling us.
type requestLocator struct {
	lat, lon float64
	have     bool
	denied   bool
}

func (l requestLocator) Locate(ctx context.Context) (checkin.Position, error) {
	if l.denied {
		return checkin.Position{}, checkin.ErrLocationDenied
	}
	if !l.have {
		return checkin.Position{}, checkin.ErrLocationUnavailable
	}
	return checkin.Position{Latitude: l.lat, Longitude: l.lon}, nil
}

func storeError(c *gin.Context, log *zap.Logger, err error) {
	// Store I/O problems surface as a generic, retryable notice.
	log.Error("store operation failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "temporary problem talking to the store, please retry"})
}
