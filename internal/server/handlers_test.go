package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnquoc/tableserve/internal/checkin"
	"github.com/hnquoc/tableserve/internal/models"
	"github.com/hnquoc/tableserve/internal/order"
	"github.com/hnquoc/tableserve/internal/session"
	"github.com/hnquoc/tableserve/internal/store"
	"github.com/hnquoc/tableserve/internal/syncer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server     *Server
	store      *store.MemoryStore
	reconciler *syncer.Reconciler
	session    *session.Session
}

func newTestEnv(t *testing.T, role string) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.ReplaceSubtree(ctx, models.PathBranches, []models.Branch{
		{ID: "cn1", Name: "District 1", Latitude: 10.7769, Longitude: 106.7009, AllowedDistance: 100, TableCount: 10},
	}))
	require.NoError(t, st.ReplaceSubtree(ctx, models.PathMenuItems, []models.MenuItem{
		{ID: "m1", Name: "Pho Bo", Price: 45000, BranchIDs: []string{"cn1"}},
	}))
	require.NoError(t, st.ReplaceSubtree(ctx, models.PathAdmins, []models.Admin{
		{Username: "admin", Password: "secret"},
	}))

	reconciler := syncer.NewReconciler(st, nil, nil, nil, nil)
	doc, err := st.ReadAll(ctx)
	require.NoError(t, err)
	reconciler.Apply(doc)

	sess := session.New(role)
	srv := New(reconciler, order.NewService(st, nil), sess, 2*time.Second, nil)
	return &testEnv{server: srv, store: st, reconciler: reconciler, session: sess}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// refresh re-applies the current document so the snapshot reflects writes
// made through the service, the way the running reconciler would.
func (e *testEnv) refresh(t *testing.T) {
	t.Helper()
	doc, err := e.store.ReadAll(context.Background())
	require.NoError(t, err)
	e.reconciler.Apply(doc)
}

func TestHandleCheckIn(t *testing.T) {
	env := newTestEnv(t, models.RoleCustomer)
	lat, lon := 10.7769, 106.7009

	t.Run("accepts at the branch and binds the table", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/checkin", gin.H{
			"payload":   "10.7769,106.7009-5",
			"latitude":  lat,
			"longitude": lon,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, env.session.Cart().TableNumber)
		assert.Equal(t, "cn1", env.session.Cart().BranchID)
	})

	t.Run("rejects out of range with measured distance", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/checkin", gin.H{
			"payload":   "10.7769,106.7009-5",
			"latitude":  10.77825, // ~150m north
			"longitude": lon,
		}, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["outOfRange"])
		assert.InDelta(t, 150, body["distanceM"].(float64), 5)
		assert.Equal(t, 100.0, body["allowedM"])
	})

	t.Run("malformed payload is 422 and leaves the cart alone", func(t *testing.T) {
		env := newTestEnv(t, models.RoleCustomer)
		rec := env.do(t, http.MethodPost, "/api/checkin", gin.H{
			"payload": "abc-5", "latitude": lat, "longitude": lon,
		}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Zero(t, env.session.Cart().TableNumber)
	})

	t.Run("denied location is 403", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/checkin", gin.H{
			"payload": "10.7769,106.7009-5", "locationDenied": true,
		}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandleSubmitOrder(t *testing.T) {
	env := newTestEnv(t, models.RoleCustomer)

	t.Run("empty cart rejected, cart preserved", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders", gin.H{"paymentMethod": "CASH"}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	env.session.BindTable(checkin.Result{Branch: models.Branch{ID: "cn1"}, Table: 5})
	rec := env.do(t, http.MethodPost, "/api/cart/lines", gin.H{
		"menuItemId": "m1", "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders", gin.H{"paymentMethod": "CASH"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	assert.Equal(t, 90000.0, placed.Total)
	assert.Equal(t, models.OrderStatusNew, placed.Status)
	assert.Equal(t, placed.ID, env.reconciler.TrackedOrder())
	assert.Empty(t, env.session.Cart().Lines)

	env.refresh(t)
	require.Len(t, env.reconciler.Snapshot().Orders, 1)
}

func TestHandleTransition(t *testing.T) {
	env := newTestEnv(t, models.RoleKitchen)

	env.session.OverrideTable("cn1", 2)
	env.session.AddLine(models.CartLine{MenuItemID: "m1", Quantity: 1})
	rec := env.do(t, http.MethodPost, "/api/orders", gin.H{"paymentMethod": "TRANSFER"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	t.Run("kitchen completes", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/status",
			gin.H{"status": models.OrderStatusCompleted}, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("kitchen cannot mark paid", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/status",
			gin.H{"status": models.OrderStatusPaid}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("admin role via header marks paid", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/status",
			gin.H{"status": models.OrderStatusPaid},
			map[string]string{"X-Role": models.RoleAdmin})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown order is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/orders/ghost/status",
			gin.H{"status": models.OrderStatusCompleted}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleTransition_CancellationGate(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	env.session.OverrideTable("cn1", 2)
	env.session.AddLine(models.CartLine{MenuItemID: "m1", Quantity: 1})
	rec := env.do(t, http.MethodPost, "/api/orders", gin.H{"paymentMethod": "CASH"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))

	rec = env.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/status",
		gin.H{"status": models.OrderStatusCancelled}, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/status",
		gin.H{"status": models.OrderStatusCancelled, "confirmed": true}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReset(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/orders/reset", gin.H{"confirmed": false}, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/orders/reset", gin.H{"confirmed": true}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	customer := newTestEnv(t, models.RoleCustomer)
	rec = customer.do(t, http.MethodPost, "/api/orders/reset", gin.H{"confirmed": true}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleLogin(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.session.Authenticated())

	rec = env.do(t, http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "secret"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.session.Authenticated())

	rec = env.do(t, http.MethodPost, "/api/logout", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, env.session.Authenticated())
}

func TestHandleEntry(t *testing.T) {
	env := newTestEnv(t, models.RoleCustomer)

	rec := env.do(t, http.MethodGet, "/api/entry?branchId=cn1&table=7&utm_source=poster", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cn1", body["branchId"])
	assert.Equal(t, 7.0, body["tableNumber"])
	assert.Equal(t, "utm_source=poster", body["cleanedQuery"])
}

func TestHandleTableQR(t *testing.T) {
	env := newTestEnv(t, models.RoleAdmin)

	rec := env.do(t, http.MethodGet, "/api/branches/cn1/tables/4/qr?base=https://order.example.com", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10.7769,106.7009-4", body["payload"])
	assert.Equal(t, "https://order.example.com?branchId=cn1&table=4", body["url"])

	rec = env.do(t, http.MethodGet, "/api/branches/cn1/tables/99/qr", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/branches/ghost/tables/1/qr", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
