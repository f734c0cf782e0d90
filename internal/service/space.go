package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/coworking-space/internal/model"
)

// SpaceService manages the catalogue of open and private spaces.
type SpaceService struct {
	tx      Transactor
	spaces  SpaceStore
	cascade Cascader
}

func NewSpaceService(st Stores) *SpaceService {
	return &SpaceService{tx: st.Tx, spaces: st.Spaces, cascade: st.Cascade}
}

// SpaceInput carries create and update fields. Nil means unchanged on
// update. PricePerDay and Amenities only apply to private spaces.
type SpaceInput struct {
	Name           *string
	Description    *string
	Capacity       *int
	PhotoPrincipal *string
	Gallery        []string
	Active         *bool
	PricePerDay    *decimal.Decimal
	Amenities      []string
}

func (in SpaceInput) merge(s *model.Space) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Capacity != nil {
		s.Capacity = *in.Capacity
	}
	if in.PhotoPrincipal != nil {
		s.PhotoPrincipal = *in.PhotoPrincipal
	}
	if in.Gallery != nil {
		s.Gallery = in.Gallery
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	if !s.IsPrivate() {
		s.Private = nil
		return
	}
	if s.Private == nil {
		s.Private = &model.PrivateDetails{}
	}
	if in.PricePerDay != nil {
		s.Private.PricePerDay = *in.PricePerDay
	}
	if in.Amenities != nil {
		s.Private.Amenities = in.Amenities
	}
}

func validateSpace(s model.Space) error {
	if s.Name == "" {
		return badRequest("Name is required")
	}
	if s.Capacity < 0 {
		return badRequest("Capacity must be positive or zero")
	}
	if s.Private != nil && s.Private.PricePerDay.IsNegative() {
		return badRequest("Price per day must be positive or zero")
	}
	return nil
}

// notFoundMessage names the variant the caller asked for.
func notFoundMessage(typ *model.SpaceType) string {
	if typ == nil {
		return "Espace not found"
	}
	if *typ == model.SpaceOpen {
		return "EspaceOuvert not found"
	}
	return "EspacePrive not found"
}

// Create stores a space of the given type. New spaces are active.
func (s *SpaceService) Create(ctx context.Context, typ model.SpaceType, in SpaceInput) (model.Space, error) {
	space := model.Space{Type: typ, Active: true}
	in.merge(&space)
	if err := validateSpace(space); err != nil {
		return model.Space{}, err
	}
	if err := s.spaces.Create(ctx, &space); err != nil {
		return model.Space{}, err
	}
	return s.spaces.GetByID(ctx, space.ID)
}

// Get returns a space. A non-nil typ restricts the lookup to that variant.
func (s *SpaceService) Get(ctx context.Context, id uint64, typ *model.SpaceType) (model.Space, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return model.Space{}, lookup(err, "%s", notFoundMessage(typ))
	}
	if typ != nil && space.Type != *typ {
		return model.Space{}, notFound("%s", notFoundMessage(typ))
	}
	return space, nil
}

func (s *SpaceService) List(ctx context.Context, typ *model.SpaceType) ([]model.Space, error) {
	return s.spaces.List(ctx, typ)
}

func (s *SpaceService) Update(ctx context.Context, id uint64, typ *model.SpaceType, in SpaceInput) (model.Space, error) {
	space, err := s.Get(ctx, id, typ)
	if err != nil {
		return model.Space{}, err
	}
	in.merge(&space)
	if err := validateSpace(space); err != nil {
		return model.Space{}, err
	}
	if err := s.spaces.Update(ctx, space); err != nil {
		return model.Space{}, lookup(err, "%s", notFoundMessage(typ))
	}
	return s.spaces.GetByID(ctx, id)
}

// Delete removes the space with its reservations, subscriptions, events,
// unavailabilities, reviews and the payments and invoices tied to them.
func (s *SpaceService) Delete(ctx context.Context, id uint64, typ *model.SpaceType) error {
	if _, err := s.Get(ctx, id, typ); err != nil {
		return err
	}
	return s.tx.InTx(ctx, func(tx *sql.Tx) error {
		return lookup(s.cascade.DeleteSpaceTx(ctx, tx, id), "%s", notFoundMessage(typ))
	})
}
