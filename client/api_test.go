package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Identifiants invalides"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	storage := NewMemStorage()
	api := NewAPI(srv.URL, storage)

	err := api.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, ok := storage.Get(TokenKey)
	assert.False(t, ok)

	require.NoError(t, api.Login(context.Background(), "admin", "s3cret"))
	token, ok := storage.Get(TokenKey)
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)
}

func TestLogoutForgetsToken(t *testing.T) {
	storage := NewMemStorage()
	require.NoError(t, storage.Set(TokenKey, "some-token"))

	api := NewAPI("http://unused", storage)
	require.NoError(t, api.Logout())

	_, ok := storage.Get(TokenKey)
	assert.False(t, ok)
}

func TestAuthedCallsSendBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer srv.Close()

	storage := NewMemStorage()
	require.NoError(t, storage.Set(TokenKey, "stored-token"))

	api := NewAPI(srv.URL, storage)
	_, err := api.Orders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer stored-token", gotAuth)
}

func TestOrdersSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Token invalide"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, NewMemStorage())
	_, err := api.Orders(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestSetDeliveredPicksPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, NewMemStorage())

	require.NoError(t, api.SetDelivered(context.Background(), "abc123", true))
	assert.Equal(t, "/commandes/abc123/livrer", gotPath)

	require.NoError(t, api.SetDelivered(context.Background(), "abc123", false))
	assert.Equal(t, "/commandes/abc123/nonlivrer", gotPath)
}

func TestDeleteOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Commande non trouvée"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, NewMemStorage())
	err := api.DeleteOrder(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitOrderSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Champs manquants"})
	}))
	defer srv.Close()

	api := NewAPI(srv.URL, NewMemStorage())
	err := api.SubmitOrder(context.Background(), OrderSubmission{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Champs manquants")
}
