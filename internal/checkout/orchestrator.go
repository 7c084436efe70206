package checkout

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/cart"
	"github.com/wempy/storefront/internal/config"
	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/pkg/errors"
)

// OrderAPI is the part of the remote API an order submission talks to
type OrderAPI interface {
	CreateAddress(ctx context.Context, userID domain.ID, input domain.AddressInput) (*domain.Address, error)
	Shifts(ctx context.Context) ([]domain.Shift, error)
	CreateOrder(ctx context.Context, order domain.Order) (*domain.OrderResult, error)
}

// Identity yields the signed in user of a profile
type Identity interface {
	Current(ctx context.Context) (domain.ID, bool, error)
}

// Attempt is everything one submission reads from
type Attempt struct {
	ProfileID string
	Cart      *cart.Store
	Session   *Session
	Identity  Identity
	Feedback  notify.Feedback
}

// Orchestrator turns a cart and a checkout session into one submitted order.
// At most one submission runs per profile at a time.
type Orchestrator struct {
	api      OrderAPI
	cfg      config.CheckoutConfig
	logger   *zap.Logger
	inFlight sync.Map
}

// NewOrchestrator creates a new checkout orchestrator
func NewOrchestrator(api OrderAPI, cfg config.CheckoutConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		api:    api,
		cfg:    cfg,
		logger: logger,
	}
}

// attempt tracks the stage of one running submission
type attempt struct {
	Attempt
	stage  domain.CheckoutStage
	userID domain.ID
	items  []domain.OrderItem
	logger *zap.Logger
}

func (a *attempt) advance(next domain.CheckoutStage) error {
	if !a.stage.CanTransitionTo(next) {
		return &errors.ErrInvalidStateTransition{From: a.stage, To: next}
	}
	a.logger.Debug("Checkout stage", zap.String("from", string(a.stage)), zap.String("to", string(next)))
	a.stage = next
	return nil
}

// Submit runs validate, authenticate, resolve address, resolve shift,
// submit order and finalize in order. The first failure is reported
// through the attempt's feedback and ends the attempt.
func (o *Orchestrator) Submit(ctx context.Context, in Attempt) (*domain.OrderResult, error) {
	if _, busy := o.inFlight.LoadOrStore(in.ProfileID, struct{}{}); busy {
		notify.Warning(in.Feedback, msgSubmitInProgress)
		return nil, &errors.ErrSubmissionInProgress{}
	}
	defer o.inFlight.Delete(in.ProfileID)

	a := &attempt{
		Attempt: in,
		stage:   domain.StageValidate,
		logger:  o.logger.With(zap.String("profile_id", in.ProfileID)),
	}

	result, err := o.run(ctx, a)
	if err != nil {
		if a.stage.CanTransitionTo(domain.StageFailed) {
			failedAt := a.stage
			a.stage = domain.StageFailed
			a.logger.Warn("Checkout failed", zap.String("stage", string(failedAt)), zap.Error(err))
		}
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, a *attempt) (*domain.OrderResult, error) {
	if err := o.validate(ctx, a); err != nil {
		return nil, err
	}

	if err := a.advance(domain.StageAuthenticate); err != nil {
		return nil, err
	}
	if err := o.authenticate(ctx, a); err != nil {
		return nil, err
	}

	if err := a.advance(domain.StageResolveAddress); err != nil {
		return nil, err
	}
	addressID, err := o.resolveAddress(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := a.advance(domain.StageResolveShift); err != nil {
		return nil, err
	}
	shiftID, err := o.resolveShift(ctx, a)
	if err != nil {
		return nil, err
	}

	if err := a.advance(domain.StageSubmitOrder); err != nil {
		return nil, err
	}
	order := domain.Order{
		UserID:        a.userID,
		AddressID:     addressID,
		PaymentID:     a.Session.PaymentID,
		ShiftID:       shiftID,
		OrderNotes:    a.Session.Form.Notes,
		ExternalNotes: a.Session.ExternalNotes,
		Items:         a.items,
	}
	result, err := o.submitOrder(ctx, a, order)
	if err != nil {
		return nil, err
	}

	if err := a.advance(domain.StageFinalize); err != nil {
		return nil, err
	}
	o.finalize(ctx, a, result)

	if err := a.advance(domain.StageCompleted); err != nil {
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) validate(ctx context.Context, a *attempt) error {
	c, err := a.Cart.Read(ctx)
	if err != nil {
		notify.Error(a.Feedback, msgSubmitFailedPrefix+msgOrderCreate)
		return err
	}

	if len(c) == 0 {
		notify.Warning(a.Feedback, msgEmptyCart)
		return &errors.ErrValidation{Reason: errors.ReasonEmptyCart, Message: "cart is empty"}
	}
	if a.Session == nil || a.Session.Zone == nil {
		notify.Warning(a.Feedback, msgMissingZone)
		return &errors.ErrValidation{Reason: errors.ReasonMissingZone, Message: "no delivery zone selected"}
	}
	if a.Session.PaymentID == 0 {
		notify.Warning(a.Feedback, msgMissingPayment)
		return &errors.ErrValidation{Reason: errors.ReasonMissingPaymentMethod, Message: "no payment method selected"}
	}

	items := make([]domain.OrderItem, 0, len(c))
	for _, item := range c {
		if item.VariantID == 0 {
			notify.Warning(a.Feedback, msgUnorderableItem)
			return &errors.ErrValidation{
				Reason:  errors.ReasonUnorderableItem,
				Message: fmt.Sprintf("item %q has no catalog variant", item.Name),
			}
		}
		items = append(items, domain.OrderItem{VariantID: item.VariantID, Quantity: item.Qty})
	}
	a.items = items
	return nil
}

func (o *Orchestrator) authenticate(ctx context.Context, a *attempt) error {
	userID, ok, err := a.Identity.Current(ctx)
	if err != nil {
		notify.Error(a.Feedback, msgSubmitFailedPrefix+msgLoginRequired)
		return err
	}
	if !ok {
		notify.Error(a.Feedback, msgLoginRequired)
		a.Feedback.Redirect(o.cfg.LoginPath, o.cfg.RedirectDelay)
		return &errors.ErrNotAuthenticated{}
	}
	a.userID = userID
	return nil
}

func (o *Orchestrator) resolveAddress(ctx context.Context, a *attempt) (int, error) {
	if a.Session.SavedAddressID != 0 {
		a.logger.Debug("Using saved address", zap.Int("address_id", a.Session.SavedAddressID))
		return a.Session.SavedAddressID, nil
	}

	addr, err := o.api.CreateAddress(ctx, a.userID, a.Session.AddressInput(o.cfg.DefaultCity))
	if err != nil {
		detail := errors.Detail(err)
		notify.Error(a.Feedback, msgSubmitFailedPrefix+failureText(err, detail, msgAddressPersist))
		return 0, &errors.ErrAddressPersist{Detail: detail, Err: err}
	}

	a.logger.Info("Address created", zap.Int("address_id", addr.AddressID))
	return addr.AddressID, nil
}

func (o *Orchestrator) resolveShift(ctx context.Context, a *attempt) (int, error) {
	shifts, err := o.api.Shifts(ctx)
	if err != nil {
		detail := errors.Detail(err)
		notify.Error(a.Feedback, msgSubmitFailedPrefix+failureText(err, detail, msgShiftsUnavailable))
		return 0, &errors.ErrNoActiveShift{Detail: detail, Err: err}
	}

	for _, shift := range shifts {
		if shift.IsActive {
			return shift.ShiftID, nil
		}
	}

	notify.Error(a.Feedback, msgSubmitFailedPrefix+msgNoActiveShift)
	return 0, &errors.ErrNoActiveShift{Detail: msgNoActiveShift}
}

func (o *Orchestrator) submitOrder(ctx context.Context, a *attempt, order domain.Order) (*domain.OrderResult, error) {
	result, err := o.api.CreateOrder(ctx, order)
	if err != nil {
		detail := errors.Detail(err)
		notify.Error(a.Feedback, msgSubmitFailedPrefix+failureText(err, detail, msgOrderCreate))
		return nil, &errors.ErrOrderCreate{Detail: detail, Err: err}
	}
	return result, nil
}

// finalize takes the ordered items out of the cart and confirms. Rows added
// while the order was in flight stay in the cart. The order is already
// placed, so a failure to update the cart is logged and not reported.
func (o *Orchestrator) finalize(ctx context.Context, a *attempt, result *domain.OrderResult) {
	if _, err := a.Cart.Subtract(ctx, a.items); err != nil {
		a.logger.Error("Failed to update cart after order", zap.String("order_number", result.OrderNumber.String()), zap.Error(err))
	}

	a.logger.Info("Order created",
		zap.String("order_number", result.OrderNumber.String()),
		zap.String("user_id", a.userID.String()),
		zap.String("total", result.TotalPrice.String()),
	)
	a.Feedback.Notify(domain.SeveritySuccess,
		orderConfirmation(result.OrderNumber.String(), result.TotalPrice.StringFixed(2)),
		successToastMs*time.Millisecond,
	)
	a.Feedback.Redirect(o.cfg.DonePath, o.cfg.RedirectDelay)
}

// failureText prefers the server detail over the step's generic message
func failureText(err error, detail, generic string) string {
	if detail != "" {
		return detail
	}
	var netErr *errors.ErrNetwork
	if stderrors.As(err, &netErr) {
		return msgNetwork
	}
	return generic
}
