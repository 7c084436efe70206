package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/menu"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/pkg/errors"
)

// AddItemRequest adds a catalog product, or a local item, to the cart
type AddItemRequest struct {
	ProductID int    `json:"product_id" binding:"required_without=LocalID"`
	VariantID int64  `json:"variant_id"`
	LocalID   string `json:"local_id"`
	Choice    string `json:"choice"`
	Qty       int    `json:"qty"`
}

// HandleGetMenu handles GET /v1/menu
func HandleGetMenu(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := menu.Load(c.Request.Context(), deps.API, deps.Config.API.BaseURL, logger)
		m.Local = deps.LocalItems
		respond(c, http.StatusOK, m, nil)
	}
}

// HandleAddMenuItem handles POST /v1/menu/items
func HandleAddMenuItem(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		rec := notify.NewRecorder()
		if req.Qty <= 0 {
			notify.Warning(rec, msgSelectQuantity)
			respondError(c, &errors.ErrValidation{Reason: errors.ReasonInvalidQuantity, Message: "quantity must be at least 1"}, rec, logger)
			return
		}

		item, err := resolveItem(c, deps, req, logger)
		if err != nil {
			notify.Warning(rec, msgItemUnavailable)
			respondError(c, err, rec, logger)
			return
		}

		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		rows, err := p.cart.AddOrIncrement(c.Request.Context(), item, req.Qty)
		if err != nil {
			respondError(c, err, rec, logger)
			return
		}

		notify.Success(rec, addedToCart(req.Qty, item.Name))
		respond(c, http.StatusOK, newCartResponse(rows, p), rec)
	}
}

func resolveItem(c *gin.Context, deps *Deps, req AddItemRequest, logger *zap.Logger) (domain.LineItem, error) {
	if req.LocalID != "" {
		for _, local := range deps.LocalItems {
			if local.ID == req.LocalID {
				item, err := local.LineItem(req.Choice)
				if err != nil {
					return domain.LineItem{}, &errors.ErrValidation{Reason: errors.ReasonUnorderableItem, Message: err.Error()}
				}
				return item, nil
			}
		}
		return domain.LineItem{}, &errors.ErrNotFound{Resource: "local item", ID: req.LocalID}
	}

	m := menu.Load(c.Request.Context(), deps.API, deps.Config.API.BaseURL, logger)
	entry, section, ok := m.Find(req.ProductID)
	if !ok {
		return domain.LineItem{}, &errors.ErrNotFound{Resource: "product", ID: strconv.Itoa(req.ProductID)}
	}

	variant, err := menu.SelectedVariant(entry.Options, req.VariantID)
	if err != nil {
		return domain.LineItem{}, &errors.ErrValidation{Reason: errors.ReasonUnorderableItem, Message: err.Error()}
	}
	return menu.LineItemFor(entry.Product, variant, entry.ImageURL, section.ID), nil
}
