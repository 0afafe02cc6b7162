package handlers_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/api/handlers"
	"github.com/visionify/partner-api/internal/api/middleware"
	"github.com/visionify/partner-api/internal/domain"
	"github.com/visionify/partner-api/internal/payments"
	"github.com/visionify/partner-api/internal/pricing"
	"github.com/visionify/partner-api/internal/repository"
	"github.com/visionify/partner-api/pkg/errors"
)

type fakeQuoteRepo struct {
	quotes          map[uuid.UUID]*domain.Quote
	setPaymentCalls int
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[uuid.UUID]*domain.Quote)}
}

func (f *fakeQuoteRepo) Create(_ context.Context, quote *domain.Quote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	stored := *quote
	f.quotes[quote.ID] = &stored
	return nil
}

func (f *fakeQuoteRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Quote, error) {
	quote, ok := f.quotes[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "quote", ID: id.String()}
	}
	copied := *quote
	return &copied, nil
}

func (f *fakeQuoteRepo) ListByCreator(_ context.Context, userID uuid.UUID) ([]*domain.Quote, error) {
	var out []*domain.Quote
	for _, q := range f.quotes {
		if q.CreatedBy == userID {
			copied := *q
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeQuoteRepo) List(_ context.Context) ([]*domain.Quote, error) {
	var out []*domain.Quote
	for _, q := range f.quotes {
		copied := *q
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeQuoteRepo) SetPayment(_ context.Context, id uuid.UUID, reference, status string) error {
	quote, ok := f.quotes[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "quote", ID: id.String()}
	}
	f.setPaymentCalls++
	quote.PaymentReference = &reference
	quote.PaymentStatus = &status
	return nil
}

type fakeIdempotencyRepo struct {
	keys map[string]*domain.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*domain.IdempotencyKey)}
}

func (f *fakeIdempotencyRepo) Create(_ context.Context, key *domain.IdempotencyKey) error {
	stored := *key
	f.keys[key.UserID.String()+"/"+key.Key] = &stored
	return nil
}

func (f *fakeIdempotencyRepo) GetByKey(_ context.Context, userID uuid.UUID, key string) (*domain.IdempotencyKey, error) {
	stored, ok := f.keys[userID.String()+"/"+key]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "idempotency key", ID: key}
	}
	copied := *stored
	return &copied, nil
}

func testPricingTable() *pricing.Table {
	return &pricing.Table{
		Terms: []pricing.SubscriptionTerm{
			{ID: "yearly", Name: "Yearly", Months: 12},
		},
		Tiers: []pricing.CameraTier{
			{Name: "1-20 cameras", MaxCameras: 20, Core: 40, AllScenarios: 50},
			{Name: "21+ cameras", MaxCameras: 0, Core: 30, AllScenarios: 40},
		},
		Base:           pricing.BasePackage{Name: "Starter Package", OneTimeCost: 5000},
		InfraPerCamera: 10,
		MaxDiscount:    30,
		BaseCurrency:   "USD",
	}
}

// quoteRouter wires the real idempotency middleware in front of the quote
// handlers, with authentication stubbed to the given user.
func quoteRouter(repos *repository.Repositories, gateway *payments.Gateway, user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("authenticated_user", user)
		c.Next()
	})
	r.Use(middleware.IdempotencyMiddleware(repos, logger))
	r.POST("/v1/quotes", handlers.HandleCreateQuote(testPricingTable(), repos, nil, logger))
	r.POST("/v1/quotes/:id/checkout", handlers.HandleCheckoutQuote(repos, gateway, logger))
	return r
}

func seedQuote(t *testing.T, repo *fakeQuoteRepo, owner uuid.UUID) *domain.Quote {
	t.Helper()
	quote := &domain.Quote{
		CreatedBy:          owner,
		ClientName:         "Jordan Li",
		ClientCompany:      "Northside Logistics",
		SubscriptionType:   "yearly",
		TotalCameras:       25,
		TotalContractValue: 14000,
	}
	require.NoError(t, repo.Create(context.Background(), quote))
	return quote
}

func TestCheckoutQuoteGatewayNotConfigured(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	owner := uuid.New()
	quote := seedQuote(t, quoteRepo, owner)

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: newFakeIdempotencyRepo()}
	r := quoteRouter(repos, nil, &domain.User{ID: owner, Role: domain.RolePartner})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes/"+quote.ID.String()+"/checkout",
		bytes.NewBufferString(`{"payer_email":"jordan@northside.example"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	rq.Equal(http.StatusServiceUnavailable, w.Code)
	rq.Equal(0, quoteRepo.setPaymentCalls)
}

func TestCheckoutQuoteOwnership(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	owner := uuid.New()
	quote := seedQuote(t, quoteRepo, owner)

	gateway, err := payments.NewGateway("TEST-access-token", zap.NewNop())
	rq.NoError(err)

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: newFakeIdempotencyRepo()}
	other := &domain.User{ID: uuid.New(), Role: domain.RolePartner}
	r := quoteRouter(repos, gateway, other)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes/"+quote.ID.String()+"/checkout",
		bytes.NewBufferString(`{"payer_email":"jordan@northside.example"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	rq.Equal(http.StatusForbidden, w.Code)
	rq.Equal(0, quoteRepo.setPaymentCalls)
}

func TestCheckoutQuoteRequiresPayerEmail(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	owner := uuid.New()
	quote := seedQuote(t, quoteRepo, owner)

	gateway, err := payments.NewGateway("TEST-access-token", zap.NewNop())
	rq.NoError(err)

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: newFakeIdempotencyRepo()}
	r := quoteRouter(repos, gateway, &domain.User{ID: owner, Role: domain.RolePartner})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes/"+quote.ID.String()+"/checkout",
		bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	rq.Equal(http.StatusUnprocessableEntity, w.Code)
	rq.Equal(0, quoteRepo.setPaymentCalls)

	stored, err := quoteRepo.GetByID(context.Background(), quote.ID)
	rq.NoError(err)
	rq.Nil(stored.PaymentReference)
}

func TestCheckoutQuoteReplayReturnsRecordedPayment(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	owner := uuid.New()
	quote := seedQuote(t, quoteRepo, owner)
	rq.NoError(quoteRepo.SetPayment(context.Background(), quote.ID, "pay-12345", "approved"))
	quoteRepo.setPaymentCalls = 0

	body := `{"payer_email":"jordan@northside.example"}`
	path := "/v1/quotes/" + quote.ID.String() + "/checkout"

	idemRepo := newFakeIdempotencyRepo()
	rq.NoError(idemRepo.Create(context.Background(), &domain.IdempotencyKey{
		Key:         "checkout-1",
		UserID:      owner,
		QuoteID:     quote.ID,
		RequestHash: requestHash(http.MethodPost, path, body),
	}))

	gateway, err := payments.NewGateway("TEST-access-token", zap.NewNop())
	rq.NoError(err)

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: idemRepo}
	r := quoteRouter(repos, gateway, &domain.User{ID: owner, Role: domain.RolePartner})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "checkout-1")
	r.ServeHTTP(w, req)

	rq.Equal(http.StatusOK, w.Code)
	var resp map[string]interface{}
	rq.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	rq.Equal("pay-12345", resp["payment_reference"])
	rq.Equal("approved", resp["payment_status"])
	// The provider was never called again.
	rq.Equal(0, quoteRepo.setPaymentCalls)
}

func TestCheckoutQuoteKeyConflict(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	owner := uuid.New()
	quote := seedQuote(t, quoteRepo, owner)

	path := "/v1/quotes/" + quote.ID.String() + "/checkout"

	idemRepo := newFakeIdempotencyRepo()
	rq.NoError(idemRepo.Create(context.Background(), &domain.IdempotencyKey{
		Key:         "checkout-1",
		UserID:      owner,
		QuoteID:     quote.ID,
		RequestHash: requestHash(http.MethodPost, path, `{"payer_email":"jordan@northside.example"}`),
	}))

	gateway, err := payments.NewGateway("TEST-access-token", zap.NewNop())
	rq.NoError(err)

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: idemRepo}
	r := quoteRouter(repos, gateway, &domain.User{ID: owner, Role: domain.RolePartner})

	// Same key, different payload.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"payer_email":"someone-else@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "checkout-1")
	r.ServeHTTP(w, req)

	rq.Equal(http.StatusConflict, w.Code)
	rq.Equal(0, quoteRepo.setPaymentCalls)
}

func TestCreateQuoteReplay(t *testing.T) {
	rq := require.New(t)

	quoteRepo := newFakeQuoteRepo()
	idemRepo := newFakeIdempotencyRepo()
	owner := uuid.New()

	repos := &repository.Repositories{Quote: quoteRepo, IdempotencyKey: idemRepo}
	r := quoteRouter(repos, nil, &domain.User{ID: owner, Role: domain.RolePartner})

	body := `{"client_name":"Jordan Li","client_company":"Northside Logistics","total_cameras":25,"subscription_type":"yearly"}`

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/quotes", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "quote-1")
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	rq.Equal(http.StatusCreated, first.Code)
	rq.Len(quoteRepo.quotes, 1)

	var created map[string]interface{}
	rq.NoError(json.Unmarshal(first.Body.Bytes(), &created))

	// The retry returns the original quote and creates nothing new.
	second := post()
	rq.Equal(http.StatusOK, second.Code)
	rq.Len(quoteRepo.quotes, 1)

	var replayed map[string]interface{}
	rq.NoError(json.Unmarshal(second.Body.Bytes(), &replayed))
	rq.Equal(created["id"], replayed["id"])
}

func requestHash(method, path, body string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write([]byte(body))
	return hex.EncodeToString(h.Sum(nil))
}
