// Package services holds the order lifecycle and admin auth logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kdiomande/maillots/app/models"
	"github.com/kdiomande/maillots/app/repositories"
	"github.com/kdiomande/maillots/pkg/cache"
	"github.com/kdiomande/maillots/pkg/event"
	"github.com/kdiomande/maillots/pkg/metrics"
	"github.com/kdiomande/maillots/pkg/validate"
)

// OrderCreated is fired with a models.Order payload after each accepted
// submission. The WebSocket feed listens on it.
const OrderCreated = "order.created"

const (
	listCacheKey = "commandes:all"
	listCacheTTL = 30 * time.Second
)

// ErrMissingFields is returned when a required submission field is absent
// entirely; format problems are reported per field instead.
var ErrMissingFields = errors.New("champs manquants")

// SubmitInput is the public order submission payload. The server
// re-validates what the storefront already checked: presence of every
// field plus the 10-digit contact format.
type SubmitInput struct {
	Name     string            `json:"name" validate:"required,max=200"`
	Location string            `json:"location" validate:"required,max=200"`
	Contact  string            `json:"contact" validate:"required,digits=10"`
	Cart     []models.CartLine `json:"cart" validate:"required"`
	Date     string            `json:"date" validate:"required"`
}

// OrderService validates and persists orders, and serves the admin
// read/mutate operations with a short-lived list cache in front of the
// store.
type OrderService struct {
	repo repositories.OrderRepository
}

func NewOrderService(repo repositories.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// Submit validates in and persists a new order with livree=false.
// Violations are collected per field, not fail-fast; a non-empty map means
// nothing was persisted.
func (s *OrderService) Submit(ctx context.Context, in SubmitInput) (string, map[string]string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Contact = strings.TrimSpace(in.Contact)

	if in.Name == "" || in.Location == "" || in.Contact == "" || len(in.Cart) == 0 || strings.TrimSpace(in.Date) == "" {
		return "", nil, ErrMissingFields
	}

	fieldErrs := validate.Struct(in)
	for i, line := range in.Cart {
		for field, msg := range validate.Struct(line) {
			fieldErrs["cart."+strconv.Itoa(i)+"."+field] = msg
		}
		for field, msg := range validate.Struct(line.Jersey) {
			fieldErrs["cart."+strconv.Itoa(i)+".jersey."+field] = msg
		}
	}
	if validate.HasErrors(fieldErrs) {
		return "", fieldErrs, nil
	}

	order := models.Order{
		Name:     in.Name,
		Location: in.Location,
		Contact:  in.Contact,
		Cart:     in.Cart,
		Date:     in.Date,
	}

	id, err := s.repo.Create(ctx, &order)
	if err != nil {
		return "", nil, fmt.Errorf("submit order: %w", err)
	}

	cache.Del(listCacheKey) //nolint:errcheck
	metrics.OrdersCreated.Inc()
	event.Fire(OrderCreated, order)

	return id.Hex(), nil, nil
}

// List returns all orders sorted by submission date descending. The Redis
// cache absorbs dashboard refreshes; every mutation invalidates it, so a
// warm cache is never more than listCacheTTL stale and never wrong after a
// write from this process.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	var cached []models.Order
	if cache.Get(listCacheKey, &cached) {
		return cached, nil
	}

	orders, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	cache.Set(listCacheKey, orders, listCacheTTL) //nolint:errcheck
	return orders, nil
}

// SetDelivered updates the livree flag. Toggling is idempotent: setting the
// same value twice matches the document both times.
func (s *OrderService) SetDelivered(ctx context.Context, id string, delivered bool) error {
	if err := s.repo.SetDelivered(ctx, id, delivered); err != nil {
		return err
	}

	cache.Del(listCacheKey) //nolint:errcheck
	metrics.OrdersDelivered.WithLabelValues(strconv.FormatBool(delivered)).Inc()
	return nil
}

// Delete removes the order permanently.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	cache.Del(listCacheKey) //nolint:errcheck
	metrics.OrdersDeleted.Inc()
	return nil
}
