package handlers

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/account"
	"github.com/wempy/storefront/internal/api/middleware"
	"github.com/wempy/storefront/internal/cart"
	"github.com/wempy/storefront/internal/checkout"
	"github.com/wempy/storefront/internal/config"
	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/menu"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/pkg/errors"
)

// API is the remote storefront API as the handlers use it
type API interface {
	menu.Catalog
	checkout.LookupAPI
	checkout.OrderAPI
	account.Users
}

// Deps are the long lived dependencies shared by every request
type Deps struct {
	Config       *config.Config
	API          API
	Stores       storage.Stores
	Locks        *cart.Locks
	Orchestrator *checkout.Orchestrator
	LocalItems   []menu.LocalItem
}

// Envelope is the body of every /v1 response
type Envelope struct {
	Data          interface{}           `json:"data,omitempty"`
	Error         string                `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
	Redirect      *notify.Redirect      `json:"redirect,omitempty"`
}

// profileScope holds the per profile stores of one request
type profileScope struct {
	id       string
	sessions *checkout.SessionStore
	session  *checkout.Session
	cart     *cart.Store
	identity *account.Identity
}

// openProfile builds the stores of the request's profile and loads its
// checkout session. It writes the error response itself when it fails.
func openProfile(c *gin.Context, deps *Deps, logger *zap.Logger) (*profileScope, bool) {
	profileID, ok := middleware.GetProfileFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, Envelope{Error: "missing profile", Notifications: []notify.Notification{}})
		return nil, false
	}

	stores := deps.Stores.Namespaced(profileID)
	p := &profileScope{
		id: profileID,
		sessions: checkout.NewSessionStore(stores.Session, deps.Config.Keys.Checkout, logger,
			checkout.WithSessionLock(deps.Locks.For(sessionLockPrefix+profileID)),
		),
		identity: account.NewIdentity(stores.Profile, deps.Config.Keys.User),
	}

	session, err := p.sessions.Load(c.Request.Context())
	if err != nil {
		logger.Error("Failed to load checkout session", zap.String("profile_id", profileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Envelope{Error: "internal error", Notifications: []notify.Notification{}})
		return nil, false
	}
	p.session = session

	p.cart = cart.NewStore(stores.Profile, deps.Config.Keys.Cart, logger,
		cart.WithLock(deps.Locks.For(profileID)),
		cart.WithDeliveryFee(func() *decimal.Decimal { return p.session.DeliveryFee() }),
	)
	return p, true
}

// sessionLockPrefix keeps the session lock of a profile apart from its cart lock
const sessionLockPrefix = "session:"

// updateSession applies fn to the freshest persisted session under the
// profile's session lock and keeps the result as the request's session
func (p *profileScope) updateSession(ctx context.Context, fn func(*checkout.Session) error) error {
	session, err := p.sessions.Update(ctx, fn)
	if err != nil {
		return err
	}
	p.session = session
	return nil
}

// refreshZone brings the selected zone snapshot in line with zones. An
// empty list is treated as unavailable and leaves the snapshot alone.
func (p *profileScope) refreshZone(ctx context.Context, zones []domain.Zone) error {
	if len(zones) == 0 {
		return nil
	}
	if current := *p.session; !current.RefreshZone(zones) {
		return nil
	}
	return p.updateSession(ctx, func(s *checkout.Session) error {
		s.RefreshZone(zones)
		return nil
	})
}

func respond(c *gin.Context, status int, data interface{}, rec *notify.Recorder) {
	env := Envelope{Data: data, Notifications: []notify.Notification{}}
	if rec != nil {
		env.Notifications = rec.Notifications()
		env.Redirect = rec.RedirectTo()
	}
	c.JSON(status, env)
}

// respondError maps err to a status. Notifications already recorded for
// the user are returned alongside the error.
func respondError(c *gin.Context, err error, rec *notify.Recorder, logger *zap.Logger) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	env := Envelope{Error: err.Error(), Notifications: []notify.Notification{}}
	if status == http.StatusInternalServerError {
		env.Error = "internal error"
	}
	if rec != nil {
		env.Notifications = rec.Notifications()
		env.Redirect = rec.RedirectTo()
	}
	c.JSON(status, env)
}

func statusFor(err error) int {
	var (
		validationErr *errors.ErrValidation
		authErr       *errors.ErrNotAuthenticated
		busyErr       *errors.ErrSubmissionInProgress
		notFoundErr   *errors.ErrNotFound
		shiftErr      *errors.ErrNoActiveShift
		addressErr    *errors.ErrAddressPersist
		orderErr      *errors.ErrOrderCreate
		networkErr    *errors.ErrNetwork
		apiErr        *errors.ErrAPI
		decodeErr     *errors.ErrDecode
	)

	switch {
	case stderrors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case stderrors.As(err, &authErr):
		return http.StatusUnauthorized
	case stderrors.As(err, &busyErr):
		return http.StatusConflict
	case stderrors.As(err, &notFoundErr):
		return http.StatusNotFound
	case stderrors.As(err, &shiftErr):
		if shiftErr.Err == nil {
			return http.StatusConflict
		}
		return http.StatusBadGateway
	case stderrors.As(err, &addressErr), stderrors.As(err, &orderErr):
		return http.StatusBadGateway
	case stderrors.As(err, &networkErr):
		return http.StatusGatewayTimeout
	case stderrors.As(err, &apiErr), stderrors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, Envelope{Error: "invalid item index", Notifications: []notify.Notification{}})
		return 0, false
	}
	return index, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Envelope{
		Error:         "validation failed: " + err.Error(),
		Notifications: []notify.Notification{},
	})
}
