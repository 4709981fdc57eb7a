package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
	"github.com/kendall-kelly/cleanrush-laundry-api/utils"
)

// Errors returned by the order lifecycle
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidDirection = errors.New("direction must be +1 or -1")
	ErrInvalidForm      = errors.New("invalid order form")
	ErrCodeExhausted    = errors.New("could not generate a unique order code")
)

const (
	codePrefix      = "CR"
	codeSuffixLen   = 4
	codeAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxCodeAttempts = 8
)

// OrderForm is the order entry form after boundary coercion
type OrderForm struct {
	CustomerName            string               `json:"customerName" validate:"max=200"`
	Phone                   string               `json:"phone" validate:"max=50"`
	Address                 string               `json:"address" validate:"max=500"`
	ServiceTier             models.ServiceTier   `json:"serviceTier" validate:"omitempty,oneof=regular express"`
	WeightKg                float64              `json:"weightKg" validate:"gte=0,lte=1000"`
	IroningRequested        bool                 `json:"ironingRequested"`
	StainTreatmentRequested bool                 `json:"stainTreatmentRequested"`
	DeliveryRequested       bool                 `json:"deliveryRequested"`
	ScheduledPickupAt       time.Time            `json:"scheduledPickupAt"`
	PaymentMethod           models.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash transfer"`
	Note                    string               `json:"note" validate:"max=1000"`
}

// PriceInput extracts the priced fields of the form
func (f OrderForm) PriceInput() PriceInput {
	return PriceInput{
		WeightKg:                f.WeightKg,
		ServiceTier:             f.ServiceTier,
		IroningRequested:        f.IroningRequested,
		StainTreatmentRequested: f.StainTreatmentRequested,
		DeliveryRequested:       f.DeliveryRequested,
	}
}

// OrderService creates orders and moves them through the pipeline.
// Every mutation is a whole-collection read, in-memory change and
// whole-collection write against the store; the mutex only serializes
// writers inside this process.
type OrderService struct {
	store    OrderStore
	prices   PriceTable
	feed     *OrderFeed
	location *time.Location
	validate *validator.Validate

	mu     sync.Mutex
	now    func() time.Time
	suffix func() string
}

// OrderServiceOption customizes an OrderService
type OrderServiceOption func(*OrderService)

// WithClock overrides the time source
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

// WithSuffixGenerator overrides the random part of order codes
func WithSuffixGenerator(gen func() string) OrderServiceOption {
	return func(s *OrderService) { s.suffix = gen }
}

// WithLocation sets the zone used for the date segment of order codes
func WithLocation(loc *time.Location) OrderServiceOption {
	return func(s *OrderService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithFeed attaches a feed that receives the collection after each change
func WithFeed(feed *OrderFeed) OrderServiceOption {
	return func(s *OrderService) { s.feed = feed }
}

var orderServiceInstance *OrderService

// NewOrderService builds a service over a store and tariff
func NewOrderService(store OrderStore, prices PriceTable, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store:    store,
		prices:   prices,
		location: time.UTC,
		validate: validator.New(),
		now:      time.Now,
		suffix:   randomSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitOrderService builds the process-wide order service
func InitOrderService(store OrderStore, prices PriceTable, opts ...OrderServiceOption) *OrderService {
	orderServiceInstance = NewOrderService(store, prices, opts...)
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service *OrderService) {
	orderServiceInstance = service
}

// Prices returns the tariff in use
func (s *OrderService) Prices() PriceTable {
	return s.prices
}

// Store returns the backing store
func (s *OrderService) Store() OrderStore {
	return s.store
}

// Feed returns the change feed, which may be nil
func (s *OrderService) Feed() *OrderFeed {
	return s.feed
}

// Location returns the zone used for dates
func (s *OrderService) Location() *time.Location {
	return s.location
}

// Quote prices a form without side effects
func (s *OrderService) Quote(in PriceInput) PriceBreakdown {
	return s.prices.Breakdown(in)
}

// CreateOrder prices the form, assigns a code, seeds the history and
// prepends the new order to the stored collection
func (s *OrderService) CreateOrder(ctx context.Context, form OrderForm) (models.Order, error) {
	form.WeightKg = utils.SanitizeWeight(form.WeightKg)
	if err := s.validate.Struct(form); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	if form.ServiceTier == "" {
		form.ServiceTier = models.ServiceRegular
	}
	if form.PaymentMethod == "" {
		form.PaymentMethod = models.PaymentCash
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.store.Load(ctx)
	if err != nil {
		return models.Order{}, err
	}

	now := s.now()
	code, err := s.newCode(now, orders)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		Code:                    code,
		CreatedAt:               now,
		CustomerName:            form.CustomerName,
		Phone:                   form.Phone,
		Address:                 form.Address,
		ServiceTier:             form.ServiceTier,
		WeightKg:                form.WeightKg,
		IroningRequested:        form.IroningRequested,
		StainTreatmentRequested: form.StainTreatmentRequested,
		DeliveryRequested:       form.DeliveryRequested,
		ScheduledPickupAt:       form.ScheduledPickupAt,
		PaymentMethod:           form.PaymentMethod,
		Note:                    form.Note,
		TotalPrice:              s.prices.CalculatePrice(form.PriceInput()),
		CurrentStageIndex:       0,
		History: []models.HistoryEntry{
			{Timestamp: now, StageName: models.StageName(0), Note: models.NoteCreated},
		},
	}

	orders = append([]models.Order{order}, orders...)
	if err := s.store.Save(ctx, orders); err != nil {
		return models.Order{}, err
	}
	s.publish(orders)

	appConfig.Logger().Info("Order created",
		zap.String("code", order.Code),
		zap.Int64("total", order.TotalPrice),
	)
	return order.Clone(), nil
}

// AdvanceStage moves an order one stage forward (+1) or back (-1).
// Unknown codes are a silent no-op and return nil. At either end of the
// pipeline nothing changes and nothing is written.
func (s *OrderService) AdvanceStage(ctx context.Context, code string, direction int) (*models.Order, error) {
	if direction != 1 && direction != -1 {
		return nil, ErrInvalidDirection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfCode(orders, code)
	if idx == -1 {
		return nil, nil
	}

	cur := orders[idx]
	next := models.ClampStage(cur.CurrentStageIndex + direction)
	if next == cur.CurrentStageIndex {
		out := cur.Clone()
		return &out, nil
	}

	note := models.NoteAdvanced
	if direction < 0 {
		note = models.NoteReverted
	}
	cur.CurrentStageIndex = next
	cur.History = append([]models.HistoryEntry{
		{Timestamp: s.now(), StageName: models.StageName(next), Note: note},
	}, cur.History...)
	orders[idx] = cur

	if err := s.store.Save(ctx, orders); err != nil {
		return nil, err
	}
	s.publish(orders)

	appConfig.Logger().Info("Order stage changed",
		zap.String("code", cur.Code),
		zap.String("stage", cur.StageName()),
		zap.Int("direction", direction),
	)
	out := cur.Clone()
	return &out, nil
}

// DeleteOrder removes an order; an unknown code is not an error
func (s *OrderService) DeleteOrder(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Code != code {
			kept = append(kept, o)
		}
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return err
	}
	s.publish(kept)

	if len(kept) != len(orders) {
		appConfig.Logger().Info("Order deleted", zap.String("code", code))
	}
	return nil
}

// ResetAll clears the whole collection
func (s *OrderService) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.publish([]models.Order{})

	appConfig.Logger().Warn("All orders cleared")
	return nil
}

// ListOrders returns the collection, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Load(ctx)
}

// FindByCode looks an order up by tracking code, ignoring case and
// surrounding whitespace. The first match wins.
func (s *OrderService) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	query := strings.TrimSpace(code)
	if query == "" {
		return nil, ErrOrderNotFound
	}

	orders, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		if strings.EqualFold(o.Code, query) {
			out := o.Clone()
			return &out, nil
		}
	}
	return nil, ErrOrderNotFound
}

// newCode draws CR{yymmdd}-{XXXX} codes until one is unused
func (s *OrderService) newCode(now time.Time, existing []models.Order) (string, error) {
	date := now.In(s.location).Format("060102")
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := fmt.Sprintf("%s%s-%s", codePrefix, date, s.suffix())
		if indexOfCode(existing, code) == -1 {
			return code, nil
		}
		appConfig.Logger().Debug("Order code collision, retrying", zap.String("code", code))
	}
	return "", ErrCodeExhausted
}

func (s *OrderService) publish(orders []models.Order) {
	if s.feed != nil {
		s.feed.Publish(orders)
	}
}

func indexOfCode(orders []models.Order, code string) int {
	for i, o := range orders {
		if o.Code == code {
			return i
		}
	}
	return -1
}

func randomSuffix() string {
	b := make([]byte, codeSuffixLen)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
