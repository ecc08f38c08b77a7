package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnquoc/tableserve/internal/checkin"
	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/order"
	"github.com/hnquoc/tableserve/internal/session"
)

func (s *Server) handleState(c *gin.Context) {
	snap := s.reconciler.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"branches":        snap.Branches,
		"categories":      snap.Categories,
		"menuItems":       snap.MenuItems,
		"toppings":        snap.Toppings,
		"toppingGroups":   snap.ToppingGroups,
		"orders":          snap.Orders,
		"kitchenSettings": snap.KitchenSettings,
		"logoUrl":         snap.LogoURL,
		"themeColor":      snap.ThemeColor,
	})
}

// handleEntry consumes the branchId/table query parameters a printed table
// QR URL carries, binds them to the session once, and reports the cleaned
// query string the client should rewrite its address to.
func (s *Server) handleEntry(c *gin.Context) {
	cleaned := s.session.ConsumeTableParams(c.Request.URL.Query())
	cart := s.session.Cart()
	c.JSON(http.StatusOK, gin.H{
		"branchId":     cart.BranchID,
		"tableNumber":  cart.TableNumber,
		"cleanedQuery": cleaned.Encode(),
	})
}

type checkInRequest struct {
	Payload   string   `json:"payload" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"locationDenied"`
}

func (s *Server) handleCheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload is required"})
		return
	}

	locator := requestLocator{denied: req.Denied}
	if req.Latitude != nil && req.Longitude != nil {
		locator.lat, locator.lon = *req.Latitude, *req.Longitude
		locator.have = true
	}

	checker := checkin.NewChecker(locator, s.geoTimeout)
	result, err := checker.CheckIn(c.Request.Context(), s.reconciler.Snapshot().Branches, req.Payload)
	if err != nil {
		s.renderCheckInError(c, err)
		return
	}

	s.session.BindTable(result)
	c.JSON(http.StatusOK, gin.H{
		"branchId":    result.Branch.ID,
		"branchName":  result.Branch.Name,
		"tableNumber": result.Table,
	})
}

// renderCheckInError keeps each check-in failure mode user-distinguishable;
// none of them end the session, the user may rescan.
func (s *Server) renderCheckInError(c *gin.Context, err error) {
	var parseErr *checkin.ParseError
	var rangeErr *checkin.OutOfRangeError

	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": parseErr.Error()})
	case errors.Is(err, checkin.ErrNoMatchingBranch):
		c.JSON(http.StatusNotFound, gin.H{"error": "no branch matches this QR code"})
	case errors.Is(err, checkin.ErrLocationDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "location permission denied"})
	case errors.Is(err, checkin.ErrLocationUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "location unavailable"})
	case errors.Is(err, checkin.ErrLocationTimeout):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "location request timed out"})
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":      rangeErr.Error(),
			"distanceM":  rangeErr.DistanceM,
			"allowedM":   rangeErr.AllowedM,
			"outOfRange": true,
		})
	default:
		storeError(c, s.log, err)
	}
}

func (s *Server) handleGetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Cart())
}

type addLineRequest struct {
	MenuItemID string                `json:"menuItemId" binding:"required"`
	Quantity   int                   `json:"quantity" binding:"required"`
	Note       string                `json:"note"`
	Toppings   []models.OrderTopping `json:"toppings"`
}

func (s *Server) handleAddLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menuItemId and quantity are required"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "quantity must be positive"})
		return
	}

	s.session.AddLine(models.CartLine{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Note:       req.Note,
		Toppings:   req.Toppings,
	})
	c.JSON(http.StatusOK, s.session.Cart())
}

func (s *Server) handleRemoveLine(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line index"})
		return
	}
	s.session.RemoveLine(index)
	c.JSON(http.StatusOK, s.session.Cart())
}

func (s *Server) handleCartNote(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note body"})
		return
	}
	s.session.SetNote(req.Note)
	c.JSON(http.StatusOK, s.session.Cart())
}

func (s *Server) handleAbandonCart(c *gin.Context) {
	s.session.ClearCart()
	c.Status(http.StatusNoContent)
}

type submitOrderRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func (s *Server) handleSubmitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod is required"})
		return
	}

	snap := s.reconciler.Snapshot()
	cart := s.session.Cart()
	built, err := order.BuildOrder(&cart, order.Catalog{
		MenuItems:     snap.MenuItemIndex(),
		ToppingGroups: snap.ToppingGroupIndex(),
	}, req.PaymentMethod, time.Now())
	if err != nil {
		// Validation failures preserve the cart for correction.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := s.orders.Submit(c.Request.Context(), built); err != nil {
		storeError(c, s.log, err)
		return
	}

	s.reconciler.TrackOrder(built.ID)
	s.session.ClearCart()
	c.JSON(http.StatusCreated, built)
}

type transitionRequest struct {
	Status    string `json:"status" binding:"required"`
	Confirmed bool   `json:"confirmed"`
}

func (s *Server) handleTransition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	updated, err := s.orders.Transition(
		c.Request.Context(),
		c.Param("id"),
		req.Status,
		s.role(c),
		session.StaticConfirmer(req.Confirmed),
	)
	if err != nil {
		var transitionErr *order.TransitionError
		switch {
		case errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		case errors.Is(err, order.ErrNotConfirmed):
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required"})
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			storeError(c, s.log, err)
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleUpdateItems(c *gin.Context) {
	var req struct {
		Items []models.OrderItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
		return
	}

	updated, err := s.orders.UpdateItems(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		s.renderEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleSetTable(c *gin.Context) {
	var req struct {
		TableNumber int `json:"tableNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TableNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tableNumber must be positive"})
		return
	}

	updated, err := s.orders.SetTable(c.Request.Context(), c.Param("id"), req.TableNumber)
	if err != nil {
		s.renderEditError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) renderEditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
	case errors.Is(err, order.ErrOrderNotEditable):
		c.JSON(http.StatusConflict, gin.H{"error": "order is no longer editable"})
	default:
		storeError(c, s.log, err)
	}
}

func (s *Server) handleReset(c *gin.Context) {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	_ = c.ShouldBindJSON(&req)

	if s.role(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	err := s.orders.ResetOrders(c.Request.Context(), session.StaticConfirmer(req.Confirmed))
	if err != nil {
		if errors.Is(err, order.ErrNotConfirmed) {
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required"})
			return
		}
		storeError(c, s.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAckReady(c *gin.Context) {
	s.reconciler.AcknowledgeReady()
	c.Status(http.StatusNoContent)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !s.session.Login(s.reconciler.Snapshot().Admins, req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (s *Server) handleLogout(c *gin.Context) {
	s.session.Logout()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTableQR(c *gin.Context) {
	table, err := strconv.Atoi(c.Param("table"))
	if err != nil || table <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table must be a positive number"})
		return
	}

	branchID := c.Param("id")
	for _, b := range s.reconciler.Snapshot().Branches {
		if b.ID != branchID {
			continue
		}
		if table > b.TableCount && b.TableCount > 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "table number exceeds branch table count"})
			return
		}
		base := c.Query("base")
		if base == "" {
			base = "/"
		}
		c.JSON(http.StatusOK, gin.H{
			"payload": checkin.TablePayload(b, table),
			"url":     checkin.TableURL(base, b, table),
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
}
