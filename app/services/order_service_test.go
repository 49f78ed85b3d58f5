package services_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kdiomande/maillots/app/models"
	"github.com/kdiomande/maillots/app/repositories"
	"github.com/kdiomande/maillots/app/services"
)

// memoryOrderRepo is an in-memory OrderRepository with the same contract as
// the Mongo-backed one: date-descending listing, ErrNotFound on unknown or
// malformed ids.
type memoryOrderRepo struct {
	orders []models.Order
}

func (m *memoryOrderRepo) Create(_ context.Context, order *models.Order) (primitive.ObjectID, error) {
	order.ID = primitive.NewObjectID()
	order.Livree = false
	m.orders = append(m.orders, *order)
	return order.ID, nil
}

func (m *memoryOrderRepo) All(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memoryOrderRepo) SetDelivered(_ context.Context, id string, delivered bool) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repositories.ErrNotFound
	}
	for i := range m.orders {
		if m.orders[i].ID.Hex() == id {
			m.orders[i].Livree = delivered
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *memoryOrderRepo) Delete(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repositories.ErrNotFound
	}
	for i := range m.orders {
		if m.orders[i].ID.Hex() == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func validInput() services.SubmitInput {
	return services.SubmitInput{
		Name:     "Koffi",
		Location: "Abidjan",
		Contact:  "0102030405",
		Cart: []models.CartLine{
			{Jersey: models.Jersey{Name: "Maillot Domicile", Price: 5000}, Quantity: 2},
			{Jersey: models.Jersey{Name: "Maillot Extérieur", Price: 5000}, Quantity: 1},
		},
		Date: "2026-08-29T10:00:00.000Z",
	}
}

func TestSubmitPersistsUndelivered(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	id, fieldErrs, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotEmpty(t, id)

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got := orders[0]
	assert.Equal(t, id, got.ID.Hex())
	assert.Equal(t, "Koffi", got.Name)
	assert.Equal(t, "Abidjan", got.Location)
	assert.False(t, got.Livree)
	assert.Equal(t, 15000.0, got.Total())
}

func TestSubmitTrimsWhitespace(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	in := validInput()
	in.Name = "  Koffi  "
	in.Contact = " 0102030405 "

	_, fieldErrs, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	assert.Equal(t, "Koffi", repo.orders[0].Name)
	assert.Equal(t, "0102030405", repo.orders[0].Contact)
}

func TestSubmitMissingFields(t *testing.T) {
	svc := services.NewOrderService(&memoryOrderRepo{})

	cases := map[string]func(*services.SubmitInput){
		"name":     func(in *services.SubmitInput) { in.Name = "" },
		"location": func(in *services.SubmitInput) { in.Location = "   " },
		"contact":  func(in *services.SubmitInput) { in.Contact = "" },
		"cart":     func(in *services.SubmitInput) { in.Cart = nil },
		"date":     func(in *services.SubmitInput) { in.Date = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)

			_, _, err := svc.Submit(context.Background(), in)
			assert.ErrorIs(t, err, services.ErrMissingFields)
		})
	}
}

func TestSubmitRejectsBadContact(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	in := validInput()
	in.Contact = "12345"

	_, fieldErrs, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "contact")
	assert.Empty(t, repo.orders, "invalid submission must not persist")
}

func TestSubmitRejectsBadCartLine(t *testing.T) {
	svc := services.NewOrderService(&memoryOrderRepo{})

	in := validInput()
	in.Cart[1].Quantity = 0
	in.Cart[0].Jersey.Price = -100

	_, fieldErrs, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "cart.1.quantity")
	assert.Contains(t, fieldErrs, "cart.0.jersey.price")
}

func TestListSortsByDateDescending(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	older := validInput()
	older.Name = "Aya"
	older.Date = "2026-08-28T08:00:00.000Z"
	newer := validInput()
	newer.Date = "2026-08-29T09:30:00.000Z"

	_, _, err := svc.Submit(context.Background(), older)
	require.NoError(t, err)
	_, _, err = svc.Submit(context.Background(), newer)
	require.NoError(t, err)

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Koffi", orders[0].Name)
	assert.Equal(t, "Aya", orders[1].Name)
}

func TestSetDeliveredRoundTrip(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	id, _, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.SetDelivered(context.Background(), id, true))
	assert.True(t, repo.orders[0].Livree)

	require.NoError(t, svc.SetDelivered(context.Background(), id, false))
	assert.False(t, repo.orders[0].Livree)
}

func TestSetDeliveredUnknownID(t *testing.T) {
	svc := services.NewOrderService(&memoryOrderRepo{})

	err := svc.SetDelivered(context.Background(), primitive.NewObjectID().Hex(), true)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	err = svc.SetDelivered(context.Background(), "not-a-hex-id", true)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteTwice(t *testing.T) {
	repo := &memoryOrderRepo{}
	svc := services.NewOrderService(repo)

	id, _, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Empty(t, repo.orders)

	err = svc.Delete(context.Background(), id)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
