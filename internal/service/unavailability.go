package service

import (
	"context"
	"time"

	"github.com/iliyamo/coworking-space/internal/model"
)

// UnavailabilityService manages blackout windows (indisponibilites).
type UnavailabilityService struct {
	spaces SpaceStore
	store  UnavailabilityStore
}

func NewUnavailabilityService(st Stores) *UnavailabilityService {
	return &UnavailabilityService{spaces: st.Spaces, store: st.Unavailabilities}
}

type UnavailabilityInput struct {
	SpaceID *uint64
	Start   *time.Time
	End     *time.Time
	Reason  *string
}

func (in UnavailabilityInput) merge(u *model.Unavailability) {
	if in.SpaceID != nil {
		u.SpaceID = *in.SpaceID
	}
	if in.Start != nil {
		u.Start = in.Start.UTC()
	}
	if in.End != nil {
		u.End = in.End.UTC()
	}
	if in.Reason != nil {
		u.Reason = *in.Reason
	}
}

func (s *UnavailabilityService) validate(ctx context.Context, u model.Unavailability) error {
	if u.SpaceID == 0 {
		return badRequest("Space ID is required")
	}
	if u.Start.IsZero() || u.End.IsZero() {
		return badRequest("Start and end dates are required")
	}
	if !u.End.After(u.Start) {
		return badRequest("End date must be after start date")
	}
	if _, err := s.spaces.GetByID(ctx, u.SpaceID); err != nil {
		return lookup(err, "Espace not found")
	}
	return nil
}

func (s *UnavailabilityService) Create(ctx context.Context, in UnavailabilityInput) (model.Unavailability, error) {
	var u model.Unavailability
	in.merge(&u)
	if err := s.validate(ctx, u); err != nil {
		return model.Unavailability{}, err
	}
	if err := s.store.Create(ctx, &u); err != nil {
		return model.Unavailability{}, err
	}
	return s.store.GetByID(ctx, u.ID)
}

func (s *UnavailabilityService) Get(ctx context.Context, id uint64) (model.Unavailability, error) {
	u, err := s.store.GetByID(ctx, id)
	return u, lookup(err, "Indisponibilite not found")
}

func (s *UnavailabilityService) List(ctx context.Context) ([]model.Unavailability, error) {
	return s.store.List(ctx)
}

func (s *UnavailabilityService) Update(ctx context.Context, id uint64, in UnavailabilityInput) (model.Unavailability, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.Unavailability{}, err
	}
	in.merge(&u)
	if err := s.validate(ctx, u); err != nil {
		return model.Unavailability{}, err
	}
	if err := s.store.Update(ctx, u); err != nil {
		return model.Unavailability{}, lookup(err, "Indisponibilite not found")
	}
	return s.store.GetByID(ctx, id)
}

func (s *UnavailabilityService) Delete(ctx context.Context, id uint64) error {
	return lookup(s.store.Delete(ctx, id), "Indisponibilite not found")
}
