package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/autopro-kz/autopro/internal/infrastructure/config"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	sharedConfig "github.com/autopro-kz/autopro/internal/shared/config"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const (
	apiPrefix      = "/api/v1"
	callbackSecret = "kassa24-callback-secret-0001"
)

type envelope struct {
	Data    json.RawMessage   `json:"data"`
	Code    int               `json:"code"`
	Message map[string]string `json:"message"`
}

// fakeKassa24 answers create-payment calls with sequential provider ids.
type fakeKassa24 struct {
	mu       sync.Mutex
	nextID   int
	orderIDs []string
}

func (f *fakeKassa24) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if r.URL.Path != "/payment/create" || json.NewDecoder(r.Body).Decode(&req) != nil {
		w.WriteHeader(nethttp.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.orderIDs = append(f.orderIDs, req.OrderID)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"url":"https://pay.kassa24.test/%s","id":%d}`, req.OrderID, id)
}

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	gateway := httptest.NewServer(&fakeKassa24{})
	t.Cleanup(gateway.Close)

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{
			Mode:           gin.TestMode,
			APIPrefix:      apiPrefix,
			AllowedOrigins: []string{"*"},
		},
		Database: sharedConfig.DatabaseConfig{Driver: "sqlite"},
		Auth: sharedConfig.AuthConfig{
			Password: sharedConfig.PasswordConfig{BcryptCost: 4},
			JWT:      sharedConfig.JWTConfig{Secret: "router-test-secret", AccessExpMinutes: 60},
		},
		Payment: sharedConfig.PaymentConfig{
			SignatureHeader: "X-Signature",
			RequestTimeout:  5 * time.Second,
			Kassa24:         sharedConfig.Kassa24Config{BaseURL: gateway.URL},
		},
	}

	router, err := NewRouter(gdb, cfg, logger.NewNop())
	require.NoError(t, err)
	router.SetupRoutes()
	t.Cleanup(func() { _ = router.Shutdown() })

	return &testApp{t: t, engine: router.GetEngine(), db: gdb}
}

func (a *testApp) do(method, path, token string, body any, headers map[string]string) (int, envelope) {
	a.t.Helper()

	var raw []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		raw = b
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(a.t, err)
	}

	req := httptest.NewRequest(method, apiPrefix+path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (a *testApp) registerAndLogin(login string, admin bool) string {
	a.t.Helper()

	status, _ := a.do(nethttp.MethodPost, "/auth/register", "", map[string]any{
		"login": login, "name": login, "password": "password123",
	}, nil)
	require.Equal(a.t, nethttp.StatusCreated, status)

	if admin {
		require.NoError(a.t, a.db.Model(&models.UserModel{}).Where("login = ?", login).Update("role", "admin").Error)
	}

	status, env := a.do(nethttp.MethodPost, "/auth/login", "", map[string]any{
		"login": login, "password": "password123",
	}, nil)
	require.Equal(a.t, nethttp.StatusOK, status)
	return decode[struct {
		AccessToken string `json:"access_token"`
	}](a.t, env).AccessToken
}

type planView struct {
	ID         uint   `json:"id"`
	Code       string `json:"code"`
	PriceKZT   int64  `json:"price_kzt"`
	PeriodDays int    `json:"period_days"`
	FreeDays   int    `json:"free_days"`
	MaxCars    *int   `json:"max_cars"`
}

type summaryView struct {
	Status     string     `json:"status"`
	Plan       planView   `json:"plan"`
	StartedAt  *time.Time `json:"started_at"`
	TrialUntil *time.Time `json:"trial_until"`
	ValidUntil *time.Time `json:"valid_until"`
}

type buyView struct {
	TransactionID uint   `json:"transaction_id"`
	PaymentURL    string `json:"payment_url"`
}

// marketplace is a running app with the LITE and PREMIUM plans and an active
// kassa24 account.
type marketplace struct {
	*testApp
	adminToken    string
	lite, premium planView
}

func newMarketplace(t *testing.T) *marketplace {
	app := newTestApp(t)
	adminToken := app.registerAndLogin("admin", true)

	upsert := func(body map[string]any) planView {
		status, env := app.do(nethttp.MethodPost, "/admin/plans", adminToken, body, nil)
		require.Equal(t, nethttp.StatusCreated, status)
		return decode[planView](t, env)
	}
	m := &marketplace{testApp: app, adminToken: adminToken}
	m.lite = upsert(map[string]any{
		"code": "LITE", "name": "Lite", "price_kzt": 4990, "period_days": 30, "free_days": 5, "max_cars": 3,
	})
	m.premium = upsert(map[string]any{
		"code": "PREMIUM", "name": "Premium", "price_kzt": 9990, "period_days": 30, "free_days": 7,
	})

	status, _ := app.do(nethttp.MethodPost, "/admin/payment-accounts", adminToken, map[string]any{
		"provider":        "kassa24",
		"login":           "merchant",
		"password":        "merchant-pass",
		"merchant_id":     "M-100",
		"callback_secret": callbackSecret,
		"demo":            true,
	}, nil)
	require.Equal(t, nethttp.StatusCreated, status)

	return m
}

func (m *marketplace) buy(token string, planID uint) buyView {
	m.t.Helper()
	status, env := m.do(nethttp.MethodPost, "/subscriptions/buy", token, map[string]any{
		"plan_id": planID, "provider": "kassa24",
	}, nil)
	require.Equal(m.t, nethttp.StatusOK, status)
	return decode[buyView](m.t, env)
}

func (m *marketplace) externalID(transactionID uint) string {
	m.t.Helper()
	var txn models.PaymentTransactionModel
	require.NoError(m.t, m.db.First(&txn, transactionID).Error)
	require.NotNil(m.t, txn.ExternalID)
	return *txn.ExternalID
}

func (m *marketplace) callback(body string, secret string) (int, envelope) {
	m.t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return m.do(nethttp.MethodPost, "/subscriptions/payments/kassa24/callback", "", []byte(body), map[string]string{
		"X-Signature": hex.EncodeToString(mac.Sum(nil)),
	})
}

func (m *marketplace) pay(transactionID uint, status int) {
	m.t.Helper()
	code, env := m.callback(fmt.Sprintf(`{"id":%q,"status":%d}`, m.externalID(transactionID), status), callbackSecret)
	require.Equal(m.t, nethttp.StatusOK, code)
	assert.JSONEq(m.t, `{"accepted":true}`, string(env.Data))
}

func (m *marketplace) current(token string) *summaryView {
	m.t.Helper()
	status, env := m.do(nethttp.MethodGet, "/subscriptions/me", token, nil, nil)
	require.Equal(m.t, nethttp.StatusOK, status)
	if string(env.Data) == "null" {
		return nil
	}
	s := decode[summaryView](m.t, env)
	return &s
}

func (m *marketplace) createCar(token, name string) int {
	m.t.Helper()
	status, _ := m.do(nethttp.MethodPost, "/cars", token, map[string]any{"name": name}, nil)
	return status
}

func TestRouter_PublicPlansOrderedByPrice(t *testing.T) {
	m := newMarketplace(t)

	status, env := m.do(nethttp.MethodGet, "/subscriptions/plans", "", nil, nil)
	require.Equal(t, nethttp.StatusOK, status)

	plans := decode[[]planView](t, env)
	require.Len(t, plans, 2)
	assert.Equal(t, "LITE", plans[0].Code)
	assert.Equal(t, "PREMIUM", plans[1].Code)
	assert.Nil(t, plans[1].MaxCars)
}

func TestRouter_PurchaseActivatesWithTrial(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner1", false)

	assert.Nil(t, m.current(owner))
	assert.Equal(t, nethttp.StatusForbidden, m.createCar(owner, "Camry"))

	bought := m.buy(owner, m.lite.ID)
	assert.True(t, strings.HasPrefix(bought.PaymentURL, "https://pay.kassa24.test/"))

	// Still pending until the provider reports success.
	assert.Nil(t, m.current(owner))

	m.pay(bought.TransactionID, 1)

	sub := m.current(owner)
	require.NotNil(t, sub)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "LITE", sub.Plan.Code)
	require.NotNil(t, sub.StartedAt)
	require.NotNil(t, sub.TrialUntil)
	require.NotNil(t, sub.ValidUntil)
	assert.Equal(t, 5*24*time.Hour, sub.TrialUntil.Sub(*sub.StartedAt))
	assert.Equal(t, 35*24*time.Hour, sub.ValidUntil.Sub(*sub.StartedAt))
}

func TestRouter_CarLimitFollowsPlan(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner2", false)
	m.pay(m.buy(owner, m.lite.ID).TransactionID, 1)

	for i := 0; i < 3; i++ {
		require.Equal(t, nethttp.StatusCreated, m.createCar(owner, fmt.Sprintf("car-%d", i)))
	}
	assert.Equal(t, nethttp.StatusForbidden, m.createCar(owner, "car-4"))

	status, env := m.do(nethttp.MethodGet, "/subscriptions/entitlement", owner, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	decision := decode[struct {
		Allowed    bool  `json:"allowed"`
		ActiveCars int64 `json:"active_cars"`
	}](t, env)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int64(3), decision.ActiveCars)

	status, env = m.do(nethttp.MethodGet, "/cars/mine", owner, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	cars := decode[[]struct {
		ID uint `json:"id"`
	}](t, env)
	require.Len(t, cars, 3)

	status, _ = m.do(nethttp.MethodDelete, fmt.Sprintf("/cars/%d", cars[0].ID), owner, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)

	assert.Equal(t, nethttp.StatusCreated, m.createCar(owner, "car-5"))
}

func TestRouter_FailedPaymentGrantsNothing(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner3", false)

	m.pay(m.buy(owner, m.premium.ID).TransactionID, 2)

	assert.Nil(t, m.current(owner))
	assert.Equal(t, nethttp.StatusForbidden, m.createCar(owner, "Camry"))

	var sub models.OwnerSubscriptionModel
	require.NoError(t, m.db.Last(&sub).Error)
	assert.Equal(t, "failed", sub.Status)
}

func TestRouter_DuplicateCallbackIsIdempotent(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner4", false)
	bought := m.buy(owner, m.lite.ID)

	m.pay(bought.TransactionID, 1)
	first := m.current(owner)
	require.NotNil(t, first)

	m.pay(bought.TransactionID, 1)
	m.pay(bought.TransactionID, 2)

	second := m.current(owner)
	require.NotNil(t, second)
	assert.Equal(t, "active", second.Status)
	assert.True(t, first.ValidUntil.Equal(*second.ValidUntil))
}

func TestRouter_SecondPurchaseKeepsLongerSubscriptionCurrent(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner5", false)

	m.pay(m.buy(owner, m.lite.ID).TransactionID, 1)
	m.pay(m.buy(owner, m.premium.ID).TransactionID, 1)

	// LITE runs 30+5 days, PREMIUM bought second gets no trial and runs 30.
	sub := m.current(owner)
	require.NotNil(t, sub)
	assert.Equal(t, "LITE", sub.Plan.Code)

	var premium models.OwnerSubscriptionModel
	require.NoError(t, m.db.Where("plan_id = ?", m.premium.ID).First(&premium).Error)
	assert.Equal(t, "active", premium.Status)
	assert.Nil(t, premium.TrialUntil)
}

func TestRouter_CallbackRejectsBadSignatureAndAcksUnknown(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner6", false)
	bought := m.buy(owner, m.lite.ID)
	body := fmt.Sprintf(`{"id":%q,"status":1}`, m.externalID(bought.TransactionID))

	status, _ := m.callback(body, "not-the-secret-at-all")
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = m.do(nethttp.MethodPost, "/subscriptions/payments/kassa24/callback", "", []byte(body), nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	assert.Nil(t, m.current(owner))

	status, env := m.callback(`{"id":"999999","status":1}`, callbackSecret)
	require.Equal(t, nethttp.StatusOK, status)
	assert.JSONEq(t, `{"accepted":true}`, string(env.Data))

	status, _ = m.callback(body, callbackSecret)
	assert.Equal(t, nethttp.StatusOK, status)
	require.NotNil(t, m.current(owner))
}

func TestRouter_UnsupportedProvider(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner7", false)

	status, _ := m.do(nethttp.MethodPost, "/subscriptions/buy", owner, map[string]any{
		"plan_id": m.lite.ID, "provider": "paypal",
	}, nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, _ = m.callback(`{"id":"1","status":1}`, callbackSecret)
	assert.Equal(t, nethttp.StatusOK, status)
	status, _ = m.do(nethttp.MethodPost, "/subscriptions/payments/paypal/callback", "", []byte(`{}`), nil)
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestRouter_AdminRoutesRequireAdmin(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner8", false)

	status, _ := m.do(nethttp.MethodGet, "/admin/plans", owner, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, _ = m.do(nethttp.MethodGet, "/admin/plans", "", nil, nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

type carView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

func (m *marketplace) publicCars() []carView {
	m.t.Helper()
	status, env := m.do(nethttp.MethodGet, "/cars", "", nil, nil)
	require.Equal(m.t, nethttp.StatusOK, status)
	return decode[[]carView](m.t, env)
}

func TestRouter_CarModeration(t *testing.T) {
	m := newMarketplace(t)
	owner := m.registerAndLogin("owner9", false)
	m.pay(m.buy(owner, m.lite.ID).TransactionID, 1)
	require.Equal(t, nethttp.StatusCreated, m.createCar(owner, "Camry"))

	assert.Empty(t, m.publicCars())

	status, env := m.do(nethttp.MethodGet, "/admin/cars?is_active=false", m.adminToken, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	queue := decode[[]carView](t, env)
	require.Len(t, queue, 1)
	carID := queue[0].ID

	toggle := fmt.Sprintf("/admin/cars/%d/toggle-active", carID)
	status, _ = m.do(nethttp.MethodGet, "/admin/cars", owner, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)
	status, _ = m.do(nethttp.MethodPost, toggle, owner, nil, nil)
	assert.Equal(t, nethttp.StatusForbidden, status)

	status, env = m.do(nethttp.MethodPost, toggle, m.adminToken, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.True(t, decode[carView](t, env).IsActive)

	published := m.publicCars()
	require.Len(t, published, 1)
	assert.Equal(t, "Camry", published[0].Name)

	status, env = m.do(nethttp.MethodPost, toggle, m.adminToken, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.False(t, decode[carView](t, env).IsActive)
	assert.Empty(t, m.publicCars())

	_, _ = m.do(nethttp.MethodPost, toggle, m.adminToken, nil, nil)
	status, _ = m.do(nethttp.MethodDelete, fmt.Sprintf("/cars/%d", carID), owner, nil, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.Empty(t, m.publicCars())

	status, _ = m.do(nethttp.MethodPost, toggle, m.adminToken, nil, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "autopro_http_requests_total")
}
