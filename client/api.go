package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kdiomande/maillots/app/models"
)

// ErrSessionExpired is returned when the API answers 401 on a protected
// call: the stored token is absent, expired or rejected.
var ErrSessionExpired = errors.New("session expirée")

// ErrNotFound is returned when a mutation targets an order that no longer
// exists. It is a soft failure, not fatal to the session.
var ErrNotFound = errors.New("commande non trouvée")

// ErrInvalidCredentials is returned by Login on a credential mismatch.
var ErrInvalidCredentials = errors.New("identifiants invalides")

// API is the HTTP client for the commandes backend. The session token is
// read from and written to the injected Storage under TokenKey.
type API struct {
	BaseURL string
	Storage Storage
	HTTP    *http.Client
}

func NewAPI(baseURL string, storage Storage) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Storage: storage,
		// Every call has a bounded failure path; nothing blocks forever.
		HTTP: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges the credential pair for a session token and stores it.
func (a *API) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})

	resp, err := a.do(ctx, http.MethodPost, "/admin/login", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: statut inattendu %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("login: décodage: %w", err)
	}
	return a.Storage.Set(TokenKey, out.Token)
}

// Logout forgets the stored token. Purely local; tokens stay valid
// server-side until they expire.
func (a *API) Logout() error {
	return a.Storage.Clear(TokenKey)
}

// SubmitOrder posts a validated order snapshot. Public: no token needed.
func (a *API) SubmitOrder(ctx context.Context, in OrderSubmission) error {
	body, _ := json.Marshal(in)

	resp, err := a.do(ctx, http.MethodPost, "/commandes", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("commande refusée: %s", apiError(resp.Body, resp.StatusCode))
	}
	return nil
}

// Orders fetches all orders, newest submission first.
func (a *API) Orders(ctx context.Context) ([]models.Order, error) {
	resp, err := a.do(ctx, http.MethodGet, "/commandes", nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commandes: %s", apiError(resp.Body, resp.StatusCode))
	}

	var orders []models.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("commandes: décodage: %w", err)
	}
	return orders, nil
}

// SetDelivered flips the livree flag on one order.
func (a *API) SetDelivered(ctx context.Context, id string, delivered bool) error {
	path := "/commandes/" + id + "/livrer"
	if !delivered {
		path = "/commandes/" + id + "/nonlivrer"
	}

	resp, err := a.do(ctx, http.MethodPatch, path, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return mutationStatus(resp)
}

// DeleteOrder removes one order permanently.
func (a *API) DeleteOrder(ctx context.Context, id string) error {
	resp, err := a.do(ctx, http.MethodDelete, "/commandes/"+id, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return mutationStatus(resp)
}

// OrderSubmission is the POST /commandes payload.
type OrderSubmission struct {
	Name     string            `json:"name"`
	Location string            `json:"location"`
	Contact  string            `json:"contact"`
	Cart     []models.CartLine `json:"cart"`
	Date     string            `json:"date"`
}

func (a *API) do(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, ok := a.Storage.Get(TokenKey)
		if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return a.HTTP.Do(req)
}

func mutationStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrSessionExpired
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("statut inattendu %d", resp.StatusCode)
	}
}

// apiError extracts the server's `{"error":...}` message, falling back to
// the status code.
func apiError(body io.Reader, status int) string {
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&out); err == nil && out.Error != "" {
		return out.Error
	}
	return fmt.Sprintf("statut %d", status)
}
