package checkout

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/pkg/errors"
)

// LookupAPI is the read only part of the remote API the cart page uses
type LookupAPI interface {
	Zones(ctx context.Context) ([]domain.Zone, error)
	PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	UserAddresses(ctx context.Context, userID domain.ID) ([]domain.Address, error)
}

// Options are the choices offered on the cart page
type Options struct {
	Zones          []domain.Zone          `json:"zones"`
	PaymentMethods []domain.PaymentMethod `json:"payment_methods"`
}

// SavedAddress is a saved address with its zone name resolved
type SavedAddress struct {
	domain.Address
	ZoneName string `json:"ZoneName"`
}

type Service struct {
	api    LookupAPI
	logger *zap.Logger
}

// NewService creates a new checkout lookup service
func NewService(api LookupAPI, logger *zap.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Options loads zones and active payment methods. Either list degrades to
// empty when it cannot be loaded.
func (s *Service) Options(ctx context.Context) Options {
	opts := Options{Zones: []domain.Zone{}, PaymentMethods: []domain.PaymentMethod{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zones, err := s.api.Zones(gctx)
		if err != nil {
			s.logger.Warn("Could not load delivery zones", zap.Error(err))
			return nil
		}
		opts.Zones = zones
		return nil
	})
	g.Go(func() error {
		methods, err := s.api.PaymentMethods(gctx)
		if err != nil {
			s.logger.Warn("Could not load payment methods", zap.Error(err))
			return nil
		}
		active := make([]domain.PaymentMethod, 0, len(methods))
		for _, m := range methods {
			if m.IsActive {
				active = append(active, m)
			}
		}
		opts.PaymentMethods = active
		return nil
	})
	_ = g.Wait()

	return opts
}

// Zone finds a zone by id among the offered zones
func (s *Service) Zone(ctx context.Context, zoneID int) (*domain.Zone, error) {
	zones, err := s.api.Zones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if zones[i].ZoneID == zoneID {
			return &zones[i], nil
		}
	}
	return nil, &errors.ErrNotFound{Resource: "zone", ID: strconv.Itoa(zoneID)}
}

// SavedAddresses lists the user's saved addresses. Lookup failures degrade
// to an empty list.
func (s *Service) SavedAddresses(ctx context.Context, userID domain.ID) ([]SavedAddress, []domain.Zone) {
	out := []SavedAddress{}
	var (
		addresses []domain.Address
		zones     []domain.Zone
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if addresses, err = s.api.UserAddresses(gctx, userID); err != nil {
			s.logger.Warn("Could not load saved addresses", zap.String("user_id", userID.String()), zap.Error(err))
			addresses = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if zones, err = s.api.Zones(gctx); err != nil {
			s.logger.Warn("Could not load delivery zones", zap.Error(err))
			zones = nil
		}
		return nil
	})
	_ = g.Wait()

	names := make(map[int]string, len(zones))
	for _, z := range zones {
		names[z.ZoneID] = z.ZoneName
	}
	for _, addr := range addresses {
		out = append(out, SavedAddress{Address: addr, ZoneName: names[addr.ZoneID]})
	}
	return out, zones
}

// FindSavedAddress looks up the saved address addressID of userID together
// with the zone list, ready for Session.SelectSavedAddress
func (s *Service) FindSavedAddress(ctx context.Context, userID domain.ID, addressID int, feedback notify.Feedback) (domain.Address, []domain.Zone, error) {
	saved, zones := s.SavedAddresses(ctx, userID)
	for _, addr := range saved {
		if addr.AddressID == addressID {
			return addr.Address, zones, nil
		}
	}
	notify.Warning(feedback, msgSavedAddressMissing)
	return domain.Address{}, nil, &errors.ErrNotFound{Resource: "address", ID: strconv.Itoa(addressID)}
}
