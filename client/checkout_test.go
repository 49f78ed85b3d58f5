package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend returns a test server that counts POST /commandes hits and
// answers with the given status.
func countingBackend(status int) (*httptest.Server, *atomic.Int64) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		if status == http.StatusCreated {
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		} else {
			json.NewEncoder(w).Encode(map[string]string{"error": "Erreur serveur"})
		}
	}))
	return srv, &calls
}

func filledCart(t *testing.T) *Cart {
	t.Helper()
	cart := NewCart(NewMemStorage())
	require.NoError(t, cart.Add(domicile, 2))
	return cart
}

func validForm() CheckoutForm {
	return CheckoutForm{Name: "Koffi", Location: "Abidjan", Contact: "0102030405"}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cart := NewCart(NewMemStorage()) // empty on purpose
	co := NewCheckout(cart, NewAPI("http://unused", NewMemStorage()))

	ok := co.Validate(CheckoutForm{Contact: "12ab"})
	assert.False(t, ok)
	assert.Equal(t, StateIdle, co.State())

	errs := co.FieldErrors()
	assert.Equal(t, "Veuillez renseigner un nom.", errs["name"])
	assert.Equal(t, "Veuillez renseigner un lieu de livraison.", errs["location"])
	assert.Equal(t, "Le numéro doit contenir exactement 10 chiffres.", errs["contact"])
	assert.Equal(t, "Votre panier est vide.", errs["cart"])
}

func TestValidateEmptyContactMessage(t *testing.T) {
	co := NewCheckout(filledCart(t), NewAPI("http://unused", NewMemStorage()))

	co.Validate(CheckoutForm{Name: "Koffi", Location: "Abidjan", Contact: "   "})
	assert.Equal(t, "Veuillez renseigner un contact.", co.FieldErrors()["contact"])
}

func TestBlockedSubmitNeverReachesNetwork(t *testing.T) {
	srv, calls := countingBackend(http.StatusCreated)
	defer srv.Close()

	co := NewCheckout(filledCart(t), NewAPI(srv.URL, NewMemStorage()))

	form := validForm()
	form.Contact = "12345"

	require.NoError(t, co.Submit(context.Background(), form))
	assert.Equal(t, int64(0), calls.Load(), "invalid form must not hit the API")
	assert.NotEmpty(t, co.FieldErrors())
}

func TestSubmitSuccessClearsCart(t *testing.T) {
	srv, calls := countingBackend(http.StatusCreated)
	defer srv.Close()

	cart := filledCart(t)
	co := NewCheckout(cart, NewAPI(srv.URL, NewMemStorage()))

	require.NoError(t, co.Submit(context.Background(), validForm()))
	assert.Equal(t, int64(1), calls.Load())
	assert.True(t, cart.Empty())
	assert.Equal(t, StateIdle, co.State())

	notice := co.Notice()
	require.NotNil(t, notice)
	assert.Equal(t, "Commande envoyée avec succès !", notice.Message)
	assert.False(t, notice.Error)
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	srv, _ := countingBackend(http.StatusInternalServerError)
	defer srv.Close()

	cart := filledCart(t)
	co := NewCheckout(cart, NewAPI(srv.URL, NewMemStorage()))

	err := co.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.False(t, cart.Empty(), "cart is kept for retry")
	assert.Equal(t, StateFailed, co.State())

	notice := co.Notice()
	require.NotNil(t, notice)
	assert.True(t, notice.Error)

	co.Acknowledge()
	assert.Equal(t, StateIdle, co.State())
	assert.Nil(t, co.Notice())
}

func TestSubmitSendsCartSnapshot(t *testing.T) {
	var got OrderSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	co := NewCheckout(filledCart(t), NewAPI(srv.URL, NewMemStorage()))
	require.NoError(t, co.Submit(context.Background(), validForm()))

	assert.Equal(t, "Koffi", got.Name)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, "Maillot Domicile", got.Cart[0].Jersey.Name)
	assert.Equal(t, 2, got.Cart[0].Quantity)

	_, err := time.Parse(time.RFC3339, got.Date)
	assert.NoError(t, err, "date is RFC 3339")
}

// clearFailingStorage fails Clear only, so the cart can be filled normally.
type clearFailingStorage struct {
	*MemStorage
}

func (s *clearFailingStorage) Clear(string) error {
	return errors.New("disque plein")
}

func TestSubmitStorageFailureReturnsToIdle(t *testing.T) {
	srv, calls := countingBackend(http.StatusCreated)
	defer srv.Close()

	cart := NewCart(&clearFailingStorage{MemStorage: NewMemStorage()})
	require.NoError(t, cart.Add(domicile, 2))
	co := NewCheckout(cart, NewAPI(srv.URL, NewMemStorage()))

	err := co.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load(), "the order itself was accepted")
	assert.Equal(t, StateIdle, co.State(), "a local storage failure must not wedge the flow")
}

func TestNoticeAutoDismisses(t *testing.T) {
	srv, _ := countingBackend(http.StatusCreated)
	defer srv.Close()

	co := NewCheckout(filledCart(t), NewAPI(srv.URL, NewMemStorage()))

	current := time.Now()
	co.now = func() time.Time { return current }

	require.NoError(t, co.Submit(context.Background(), validForm()))
	require.NotNil(t, co.Notice())

	current = current.Add(NoticeDuration + time.Millisecond)
	assert.Nil(t, co.Notice())
}
