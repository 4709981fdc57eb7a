package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	appConfig "github.com/kendall-kelly/cleanrush-laundry-api/config"
	"github.com/kendall-kelly/cleanrush-laundry-api/models"
)

// ErrStoreUnavailable wraps transport failures of a store backend
var ErrStoreUnavailable = errors.New("order store unavailable")

// OrderStore persists the whole order collection as one serialized value
// under a single key. Every call moves the entire collection; there are
// no partial updates.
type OrderStore interface {
	// Load returns the stored collection, newest first. A missing or
	// unparseable value yields an empty collection, never an error.
	Load(ctx context.Context) ([]models.Order, error)

	// Save overwrites the stored value with orders in a single write
	Save(ctx context.Context, orders []models.Order) error

	// Clear removes the stored value
	Clear(ctx context.Context) error

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and status responses
	Name() string
}

// encodeOrders serializes a collection; nil is written as an empty array
func encodeOrders(orders []models.Order) ([]byte, error) {
	if orders == nil {
		orders = []models.Order{}
	}
	data, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to encode orders: %w", err)
	}
	return data, nil
}

// decodeOrders parses a stored value. Corrupt payloads are logged and
// treated as an empty collection.
func decodeOrders(data []byte, backend string) []models.Order {
	if len(data) == 0 {
		return []models.Order{}
	}

	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		appConfig.Logger().Warn("Discarding unreadable order collection",
			zap.String("store", backend),
			zap.Error(err),
		)
		return []models.Order{}
	}
	if orders == nil {
		return []models.Order{}
	}
	return orders
}

func unavailable(backend, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrStoreUnavailable, backend, op, err)
}
