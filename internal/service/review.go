package service

import (
	"context"

	"github.com/iliyamo/coworking-space/internal/model"
)

// ReviewService stores users' ratings of spaces (avis).
type ReviewService struct {
	users   UserStore
	spaces  SpaceStore
	reviews ReviewStore
	now     clock
}

func NewReviewService(st Stores) *ReviewService {
	return &ReviewService{users: st.Users, spaces: st.Spaces, reviews: st.Reviews, now: utcNow}
}

type ReviewInput struct {
	UserID  uint64
	SpaceID uint64
	Rating  int
	Comment string
}

// Create stores a review dated today.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (model.Review, error) {
	if in.UserID == 0 || in.SpaceID == 0 {
		return model.Review{}, badRequest("User ID and Space ID are required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, badRequest("Rating must be between 1 and 5")
	}
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		return model.Review{}, lookup(err, "User not found")
	}
	if _, err := s.spaces.GetByID(ctx, in.SpaceID); err != nil {
		return model.Review{}, lookup(err, "Espace not found")
	}
	r := model.Review{
		UserID:  in.UserID,
		SpaceID: in.SpaceID,
		Rating:  in.Rating,
		Comment: in.Comment,
		Date:    model.NewDate(s.now()),
	}
	if err := s.reviews.Create(ctx, &r); err != nil {
		return model.Review{}, err
	}
	return s.reviews.GetByID(ctx, r.ID)
}

func (s *ReviewService) Get(ctx context.Context, id uint64) (model.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	return r, lookup(err, "Avis not found")
}

// List returns reviews newest first, optionally for one space.
func (s *ReviewService) List(ctx context.Context, spaceID *uint64) ([]model.Review, error) {
	return s.reviews.List(ctx, spaceID)
}

func (s *ReviewService) Delete(ctx context.Context, id uint64) error {
	return lookup(s.reviews.Delete(ctx, id), "Avis not found")
}
