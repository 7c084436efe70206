package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/cart"
	"github.com/wempy/storefront/internal/checkout"
	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/pkg/errors"
)

// CheckoutResponse is the state of the cart page
type CheckoutResponse struct {
	Zones          []domain.Zone          `json:"zones,omitempty"`
	PaymentMethods []domain.PaymentMethod `json:"payment_methods,omitempty"`
	Session        *checkout.Session      `json:"session"`
	Summary        cart.Summary           `json:"summary"`
}

type SelectZoneRequest struct {
	ZoneID int `json:"zone_id" binding:"min=0"`
}

type SelectPaymentRequest struct {
	PaymentID int `json:"payment_id" binding:"min=0"`
}

// EditAddressRequest changes one address form field
type EditAddressRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type NotesRequest struct {
	OrderNotes    string `json:"order_notes"`
	ExternalNotes string `json:"external_notes"`
}

// SubmitResponse carries the created order
type SubmitResponse struct {
	Order *domain.OrderResult `json:"order"`
}

// HandleGetCheckout handles GET /v1/checkout. The selected zone is
// refreshed from the current zone list so a changed fee shows up.
func HandleGetCheckout(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		svc := checkout.NewService(deps.API, logger)
		opts := svc.Options(c.Request.Context())
		if err := p.refreshZone(c.Request.Context(), opts.Zones); err != nil {
			respondError(c, err, nil, logger)
			return
		}

		summary, err := p.cart.Summary(c.Request.Context())
		if err != nil {
			respondError(c, err, nil, logger)
			return
		}

		respond(c, http.StatusOK, CheckoutResponse{
			Zones:          opts.Zones,
			PaymentMethods: opts.PaymentMethods,
			Session:        p.session,
			Summary:        summary,
		}, nil)
	}
}

// HandleSelectZone handles PUT /v1/checkout/zone. A zero id clears the zone.
func HandleSelectZone(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectZoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		// resolve the zone before taking the session lock
		var zone *domain.Zone
		if req.ZoneID != 0 {
			var err error
			zone, err = checkout.NewService(deps.API, logger).Zone(c.Request.Context(), req.ZoneID)
			if err != nil {
				respondError(c, err, nil, logger)
				return
			}
		}

		applySession(c, p, nil, logger, func(s *checkout.Session) error {
			s.SelectZone(zone)
			return nil
		})
	}
}

// HandleSelectPayment handles PUT /v1/checkout/payment
func HandleSelectPayment(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		applySession(c, p, nil, logger, func(s *checkout.Session) error {
			s.SelectPayment(req.PaymentID)
			return nil
		})
	}
}

// HandleEditAddress handles PATCH /v1/checkout/address
func HandleEditAddress(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EditAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		applySession(c, p, nil, logger, func(s *checkout.Session) error {
			return s.EditField(req.Field, req.Value)
		})
	}
}

// HandleSetNotes handles PUT /v1/checkout/notes
func HandleSetNotes(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NotesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		applySession(c, p, nil, logger, func(s *checkout.Session) error {
			s.SetNotes(req.OrderNotes, req.ExternalNotes)
			return nil
		})
	}
}

// HandleListAddresses handles GET /v1/checkout/addresses
func HandleListAddresses(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}
		userID, ok := currentUser(c, p, logger)
		if !ok {
			return
		}

		saved, _ := checkout.NewService(deps.API, logger).SavedAddresses(c.Request.Context(), userID)
		respond(c, http.StatusOK, saved, nil)
	}
}

// HandleSelectAddress handles POST /v1/checkout/addresses/:id/select
func HandleSelectAddress(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		addressID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			badRequest(c, err)
			return
		}
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}
		userID, ok := currentUser(c, p, logger)
		if !ok {
			return
		}

		rec := notify.NewRecorder()
		svc := checkout.NewService(deps.API, logger)
		addr, zones, err := svc.FindSavedAddress(c.Request.Context(), userID, addressID, rec)
		if err != nil {
			respondError(c, err, rec, logger)
			return
		}

		applySession(c, p, rec, logger, func(s *checkout.Session) error {
			s.SelectSavedAddress(addr, zones)
			return nil
		})
	}
}

// HandleSubmitOrder handles POST /v1/checkout/submit
func HandleSubmitOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := openProfile(c, deps, logger)
		if !ok {
			return
		}

		if zones, err := deps.API.Zones(c.Request.Context()); err != nil {
			logger.Warn("Submitting with the stored zone snapshot", zap.String("profile_id", p.id), zap.Error(err))
		} else if err := p.refreshZone(c.Request.Context(), zones); err != nil {
			respondError(c, err, nil, logger)
			return
		}

		rec := notify.NewRecorder()
		result, err := deps.Orchestrator.Submit(c.Request.Context(), checkout.Attempt{
			ProfileID: p.id,
			Cart:      p.cart,
			Session:   p.session,
			Identity:  p.identity,
			Feedback:  rec,
		})
		if err != nil {
			respondError(c, err, rec, logger)
			return
		}

		respond(c, http.StatusCreated, SubmitResponse{Order: result}, rec)
	}
}

// applySession runs fn through the locked session cycle and answers with
// the new session and cart summary. An unknown address field is a bad request.
func applySession(c *gin.Context, p *profileScope, rec *notify.Recorder, logger *zap.Logger, fn func(*checkout.Session) error) {
	if err := p.updateSession(c.Request.Context(), fn); err != nil {
		var notFound *errors.ErrNotFound
		if stderrors.As(err, &notFound) {
			badRequest(c, err)
			return
		}
		respondError(c, err, rec, logger)
		return
	}

	summary, err := p.cart.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, rec, logger)
		return
	}
	respond(c, http.StatusOK, CheckoutResponse{Session: p.session, Summary: summary}, rec)
}

func currentUser(c *gin.Context, p *profileScope, logger *zap.Logger) (domain.ID, bool) {
	userID, ok, err := p.identity.Current(c.Request.Context())
	if err != nil {
		respondError(c, err, nil, logger)
		return "", false
	}
	if !ok {
		rec := notify.NewRecorder()
		notify.Warning(rec, msgLoginToSeeSaved)
		respondError(c, &errors.ErrNotAuthenticated{}, rec, logger)
		return "", false
	}
	return userID, true
}
