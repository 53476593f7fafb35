package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type usersOnlyManager struct {
	repomanager.RepositoryManager
	users *memUsers
}

func (m *usersOnlyManager) Users(dbx.DBTX) users.Repository { return m.users }

type fakeStock struct {
	items     []models.InventoryItem
	recordIn  services.MovementInput
	recordErr error
	panicList bool
}

func (f *fakeStock) Record(ctx context.Context, in services.MovementInput) (*models.InventoryItem, *models.StockMovement, error) {
	f.recordIn = in
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}
	if f.recordErr != nil {
		return nil, nil, f.recordErr
	}
	return &models.InventoryItem{ID: in.InventoryID, Name: "Flour", Quantity: 4},
		&models.StockMovement{ID: "m-1", InventoryID: in.InventoryID, Quantity: in.Quantity, Type: in.Type, CreatedBy: in.CreatedBy}, nil
}

func (f *fakeStock) ListMovements(context.Context) ([]models.StockMovement, error) {
	return []models.StockMovement{}, nil
}

func (f *fakeStock) ListInventory(context.Context) ([]models.InventoryItem, error) {
	if f.panicList {
		panic("boom")
	}
	return f.items, nil
}

type fakeDeliveries struct {
	created *services.DeliveryInput
	byOrder map[string]*models.DeliveryConfirmation
	listErr error
}

func (f *fakeDeliveries) Create(ctx context.Context, in services.DeliveryInput) (*models.DeliveryConfirmation, error) {
	f.created = &in
	return &models.DeliveryConfirmation{ID: "d-1", OrderID: in.OrderID, Status: in.Status}, nil
}

func (f *fakeDeliveries) List(context.Context) ([]models.DeliveryConfirmation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []models.DeliveryConfirmation{}, nil
}

func (f *fakeDeliveries) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error) {
	return f.byOrder[orderID], nil
}

type testEnv struct {
	srv        *Server
	handler    http.Handler
	sessions   *services.SessionService
	stock      *fakeStock
	deliveries *fakeDeliveries
	admin      *models.User
}

var testNow = time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	hasher := auth.NewHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)

	name := "Admin"
	admin := &models.User{ID: "u-1", Email: "admin@example.com", PasswordHash: hash, Role: models.RoleAdmin, Name: &name}
	store := &memUsers{byEmail: map[string]*models.User{admin.Email: admin}}

	signer := auth.NewTokenSigner([]byte("test-secret"), 7*24*time.Hour)
	sessions := services.NewSessionService(db, &usersOnlyManager{users: store}, signer, hasher, logging.Nop())

	stock := &fakeStock{}
	deliveries := &fakeDeliveries{byOrder: map[string]*models.DeliveryConfirmation{}}

	srv := NewServer(Options{
		Address:            ":0",
		CookieNames:        common.DefaultSessionCookieNames,
		SameSite:           http.SameSiteLaxMode,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}, logging.Nop(), sessions, stock, deliveries)
	srv.now = func() time.Time { return testNow }

	return &testEnv{srv: srv, handler: srv.Handler(), sessions: sessions, stock: stock, deliveries: deliveries, admin: admin}
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, _, err := e.sessions.IssueSession(e.admin)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}
