package services

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/dollarblog/utils"
)

// maxPlanQuantity bounds a single line item.
const maxPlanQuantity = 100

// Plan is a purchasable catalog entry. UnitAmount is in minor currency units.
type Plan struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unitAmount"`
}

// ProductName is what the payment page shows.
func (p Plan) ProductName() string {
	return "Subscribe to " + p.Name
}

// Catalog maps plan ids to plans. It is never mutated after construction.
type Catalog map[int]Plan

// DefaultCatalog returns the three annual plans.
func DefaultCatalog() Catalog {
	return Catalog{
		1: {ID: 1, Name: "annual Premium plan", UnitAmount: 1195},
		2: {ID: 2, Name: "annual Business plan", UnitAmount: 1795},
		3: {ID: 3, Name: "annual Partner plan", UnitAmount: 4759},
	}
}

// Plans lists the catalog ordered by id.
func (c Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c))
	for _, p := range c {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LineItem is one requested purchase. Quantity is a float so that
// non-integral input can be rejected rather than truncated.
type LineItem struct {
	PlanID   int     `json:"id"`
	Quantity float64 `json:"quantity"`
}

// CheckoutRequest is what a PaymentGateway needs to open a session.
type CheckoutRequest struct {
	Currency       string
	ProductName    string
	UnitAmount     int64
	Quantity       int64
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// CheckoutSession is the processor's answer.
type CheckoutSession struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	AmountTotal int64  `json:"amountTotal"`
}

// PaymentGateway opens hosted checkout sessions with an external processor.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
}

// CheckoutService turns a catalog line item into a processor session.
type CheckoutService struct {
	gateway    PaymentGateway
	catalog    Catalog
	currency   string
	successURL string
	cancelURL  string
	configured bool
	log        *zap.Logger
}

// NewCheckoutService redirects buyers to serverURL+"/published-posts" on
// success and serverURL+"/" on cancel.
func NewCheckoutService(gateway PaymentGateway, catalog Catalog, currency, serverURL string, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{
		gateway:    gateway,
		catalog:    catalog,
		currency:   currency,
		successURL: serverURL + "/published-posts",
		cancelURL:  serverURL + "/",
		configured: serverURL != "",
		log:        log,
	}
}

// Catalog exposes the plans on offer.
func (s *CheckoutService) Catalog() Catalog {
	return s.catalog
}

// CreateSession validates items and asks the gateway for a session.
func (s *CheckoutService) CreateSession(ctx context.Context, items []LineItem) (CheckoutSession, error) {
	if len(items) != 1 {
		return CheckoutSession{}, utils.NewValidationError("Invalid items data. Only one plan is allowed.")
	}
	item := items[0]
	plan, ok := s.catalog[item.PlanID]
	if !ok {
		return CheckoutSession{}, utils.NewValidationError("Plan not found.")
	}
	if item.Quantity < 1 || item.Quantity > maxPlanQuantity || item.Quantity != math.Trunc(item.Quantity) {
		return CheckoutSession{}, utils.NewValidationError("Invalid quantity. Quantity must be a positive integer.")
	}

	if !s.configured {
		return CheckoutSession{}, utils.NewAppError(utils.ErrPayment, "SERVER_URL is not configured", nil)
	}

	req := CheckoutRequest{
		Currency:       s.currency,
		ProductName:    plan.ProductName(),
		UnitAmount:     plan.UnitAmount,
		Quantity:       int64(item.Quantity),
		SuccessURL:     s.successURL,
		CancelURL:      s.cancelURL,
		IdempotencyKey: uuid.NewString(),
	}
	sess, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.log.Warn("checkout session failed", zap.Int("plan_id", plan.ID), zap.Error(err))
		if utils.IsErrorCode(err, utils.ErrPayment) {
			return CheckoutSession{}, err
		}
		return CheckoutSession{}, utils.NewAppError(utils.ErrPayment, err.Error(), err)
	}
	if sess.AmountTotal == 0 {
		sess.AmountTotal = req.UnitAmount * req.Quantity
	}
	return sess, nil
}
