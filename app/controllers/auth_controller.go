// Package controllers maps the HTTP surface onto the services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/kdiomande/maillots/app/services"
	"github.com/kdiomande/maillots/pkg/bind"
	"github.com/kdiomande/maillots/pkg/logger"
	"github.com/kdiomande/maillots/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusUnauthorized, "Identifiants invalides")
		return
	}

	token, err := c.service.Login(body.Username, body.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		response.Error(w, http.StatusUnauthorized, "Identifiants invalides")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("login: token generation failed", "error", err)
		response.ServerError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}
