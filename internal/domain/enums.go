package domain

// Severity is the level a notification is shown with
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValid checks if the severity is known
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Scope is the lifetime of a persisted key
type Scope string

const (
	// ScopeSession lives as long as the browser tab session
	ScopeSession Scope = "session"
	// ScopeProfile lives as long as the browser profile
	ScopeProfile Scope = "profile"
)

// IsValid checks if the scope is known
func (s Scope) IsValid() bool {
	return s == ScopeSession || s == ScopeProfile
}

// CheckoutStage is the position of a checkout attempt in its sequence
type CheckoutStage string

const (
	StageValidate       CheckoutStage = "VALIDATE"
	StageAuthenticate   CheckoutStage = "AUTHENTICATE"
	StageResolveAddress CheckoutStage = "RESOLVE_ADDRESS"
	StageResolveShift   CheckoutStage = "RESOLVE_SHIFT"
	StageSubmitOrder    CheckoutStage = "SUBMIT_ORDER"
	StageFinalize       CheckoutStage = "FINALIZE"
	StageCompleted      CheckoutStage = "COMPLETED"
	StageFailed         CheckoutStage = "FAILED"
)

// IsTerminal reports whether no further transition is possible
func (s CheckoutStage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanTransitionTo checks if a stage transition is valid.
// Stages run strictly in order; any running stage may fail.
func (s CheckoutStage) CanTransitionTo(next CheckoutStage) bool {
	if next == StageFailed {
		return !s.IsTerminal()
	}
	switch s {
	case StageValidate:
		return next == StageAuthenticate
	case StageAuthenticate:
		return next == StageResolveAddress
	case StageResolveAddress:
		return next == StageResolveShift
	case StageResolveShift:
		return next == StageSubmitOrder
	case StageSubmitOrder:
		return next == StageFinalize
	case StageFinalize:
		return next == StageCompleted
	case StageCompleted, StageFailed:
		return false // Terminal states
	default:
		return false
	}
}
