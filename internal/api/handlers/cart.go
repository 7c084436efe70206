package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/cart"
	"github.com/wempy/storefront/internal/domain"
)

// CartResponse is the cart with its derived indicators
type CartResponse struct {
	Items   domain.Cart  `json:"items"`
	Summary cart.Summary `json:"summary"`
}

// SetQuantityRequest represents a quantity change of one row
type SetQuantityRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

func newCartResponse(rows domain.Cart, p *profileScope) CartResponse {
	if rows == nil {
		rows = domain.Cart{}
	}
	return CartResponse{Items: rows, Summary: cart.Summarize(rows, p.session.DeliveryFee())}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rows, err := p.cart.Read(c.Request.Context())
		if err != nil {
			respondError(c, err, nil, logger)
			return
		}
		respond(c, http.StatusOK, newCartResponse(rows, p), nil)
	}
}

// HandleIncrementItem handles POST /v1/cart/items/:index/increment
func HandleIncrementItem(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return cartRowHandler(deps, logger, func(c *gin.Context, store *cart.Store, index int) (domain.Cart, error) {
		return store.Increment(c.Request.Context(), index)
	})
}

// HandleDecrementItem handles POST /v1/cart/items/:index/decrement
func HandleDecrementItem(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return cartRowHandler(deps, logger, func(c *gin.Context, store *cart.Store, index int) (domain.Cart, error) {
		return store.Decrement(c.Request.Context(), index)
	})
}

// HandleSetQuantity handles PUT /v1/cart/items/:index
func HandleSetQuantity(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cartRowHandler(deps, logger, func(c *gin.Context, store *cart.Store, index int) (domain.Cart, error) {
			return store.SetQuantity(c.Request.Context(), index, *req.Qty)
		})(c)
	}
}

// HandleRemoveItem handles DELETE /v1/cart/items/:index
func HandleRemoveItem(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return cartRowHandler(deps, logger, func(c *gin.Context, store *cart.Store, index int) (domain.Cart, error) {
		return store.Remove(c.Request.Context(), index)
	})
}

type rowOp func(c *gin.Context, store *cart.Store, index int) (domain.Cart, error)

func cartRowHandler(deps *Deps, logger *zap.Logger, op rowOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := indexParam(c)
		if !ok {
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rows, err := op(c, p.cart, index)
		if err != nil {
			respondError(c, err, nil, logger)
			return
		}
		respond(c, http.StatusOK, newCartResponse(rows, p), nil)
	}
}
