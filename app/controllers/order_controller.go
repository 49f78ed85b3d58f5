package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kdiomande/maillots/app/repositories"
	"github.com/kdiomande/maillots/app/services"
	"github.com/kdiomande/maillots/pkg/bind"
	"github.com/kdiomande/maillots/pkg/logger"
	"github.com/kdiomande/maillots/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Submit handles POST /commandes, the only public write.
func (c *OrderController) Submit(w http.ResponseWriter, r *http.Request) {
	var body services.SubmitInput
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Champs manquants")
		return
	}

	log := logger.WithCtx(r.Context())

	id, fieldErrs, err := c.service.Submit(r.Context(), body)
	if errors.Is(err, services.ErrMissingFields) {
		response.Error(w, http.StatusBadRequest, "Champs manquants")
		return
	}
	if err != nil {
		log.Error("submit order failed", "error", err)
		response.ServerError(w)
		return
	}
	if len(fieldErrs) > 0 {
		response.FieldErrors(w, "Commande invalide", fieldErrs)
		return
	}

	log.Info("commande enregistrée", "order_id", id)
	response.Created(w)
}

// List handles GET /commandes (admin only).
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list orders failed", "error", err)
		response.ServerError(w)
		return
	}

	response.JSON(w, http.StatusOK, orders)
}

// Deliver handles PATCH /commandes/{id}/livrer.
func (c *OrderController) Deliver(w http.ResponseWriter, r *http.Request) {
	c.setDelivered(w, r, true)
}

// Undeliver handles PATCH /commandes/{id}/nonlivrer.
func (c *OrderController) Undeliver(w http.ResponseWriter, r *http.Request) {
	c.setDelivered(w, r, false)
}

func (c *OrderController) setDelivered(w http.ResponseWriter, r *http.Request, delivered bool) {
	id := chi.URLParam(r, "id")

	err := c.service.SetDelivered(r.Context(), id, delivered)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("update livree failed", "order_id", id, "error", err)
		response.ServerError(w)
		return
	}

	response.Success(w)
}

// Delete handles DELETE /commandes/{id}.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := c.service.Delete(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "Commande non trouvée")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete order failed", "order_id", id, "error", err)
		response.ServerError(w)
		return
	}

	logger.WithCtx(r.Context()).Info("commande supprimée", "order_id", id)
	response.Success(w)
}

// Health handles GET /, the plain-text liveness check.
func (c *OrderController) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("API commandes OK (MongoDB)")) //nolint:errcheck
}
