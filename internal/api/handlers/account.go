package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/account"
	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
)

// RegisterRequest represents the registration form
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Phone string `json:"phone"`
}

func accountService(deps *Deps, p *profileScope, logger *zap.Logger) *account.Service {
	return account.NewService(deps.API, p.identity, logger)
}

// HandleRegister handles POST /v1/account/register
func HandleRegister(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rec := notify.NewRecorder()
		user, err := accountService(deps, p, logger).Register(c.Request.Context(), domain.RegisterInput{
			FName:       req.FirstName,
			LName:       req.LastName,
			PhoneNumber: req.Phone,
			Email:       req.Email,
		}, rec)
		if err != nil {
			respondError(c, err, rec, logger)
			return
		}
		respond(c, http.StatusCreated, user, rec)
	}
}

// HandleLogin handles POST /v1/account/login
func HandleLogin(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rec := notify.NewRecorder()
		user, err := accountService(deps, p, logger).Login(c.Request.Context(), req.Phone, rec)
		if err != nil {
			respondError(c, err, rec, logger)
			return
		}
		respond(c, http.StatusOK, user, rec)
	}
}

// HandleLogout handles POST /v1/account/logout
func HandleLogout(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rec := notify.NewRecorder()
		checkoutCfg := deps.Config.Checkout
		if err := accountService(deps, p, logger).Logout(c.Request.Context(), rec, checkoutCfg.LoginPath, checkoutCfg.RedirectDelay); err != nil {
			respondError(c, err, rec, logger)
			return
		}
		respond(c, http.StatusOK, nil, rec)
	}
}

// HandleGetAccount handles GET /v1/account
func HandleGetAccount(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		user, err := accountService(deps, p, logger).Current(c.Request.Context())
		if err != nil {
			respondError(c, err, nil, logger)
			return
		}
		respond(c, http.StatusOK, user, nil)
	}
}

// HandleGetOrders handles GET /v1/account/orders
func HandleGetOrders(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		orders, err := accountService(deps, p, logger).RecentOrders(c.Request.Context())
		if err != nil {
			respondError(c, err, nil, logger)
			return
		}
		respond(c, http.StatusOK, orders, nil)
	}
}
