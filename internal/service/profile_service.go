package service

import (
	"context"
	"strings"

	"murmur/internal/models"
	"murmur/internal/policy"
	"murmur/internal/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
}

type UpdateProfileInput struct {
	ActorID      uint
	TargetUserID uint
	Bio          *string
	Picture      *string
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	followRepo repository.FollowRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		followRepo:  followRepo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

// UpdateProfile applies a partial update to the actor's own profile.
// Editing someone else's profile is unauthorized, not not-found: the
// target is visible, just not editable.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	if !policy.CanEditProfile(in.ActorID, in.TargetUserID) {
		return nil, models.NewUnauthorizedError("You can only edit your own profile")
	}

	profile, err := s.profileRepo.GetByUserID(ctx, in.TargetUserID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Picture != nil {
		profile.Picture = *in.Picture
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, in.TargetUserID)
}

// Follow creates a follow edge from the actor to the target user.
// Following yourself is rejected; following someone you already follow
// succeeds without change. A missing target is not-found.
func (s *ProfileService) Follow(ctx context.Context, actorUserID, targetUserID uint) (*models.Profile, error) {
	if !policy.CanFollow(actorUserID, targetUserID) {
		return nil, models.NewSelfFollowError()
	}

	actor, err := s.profileRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Follow(ctx, actor.ID, target.ID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, targetUserID)
}

// Unfollow removes the edge. Unfollowing someone you never followed
// succeeds without change, self included: no self-edge can exist, so
// removing one is a plain no-op.
func (s *ProfileService) Unfollow(ctx context.Context, actorUserID, targetUserID uint) (*models.Profile, error) {
	actor, err := s.profileRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	target, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := s.followRepo.Unfollow(ctx, actor.ID, target.ID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, targetUserID)
}

func (s *ProfileService) IsFollowing(ctx context.Context, actorUserID, targetUserID uint) (bool, error) {
	actor, err := s.profileRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		return false, err
	}
	target, err := s.profileRepo.GetByUserID(ctx, targetUserID)
	if err != nil {
		return false, err
	}
	return s.followRepo.IsFollowing(ctx, actor.ID, target.ID)
}

func (s *ProfileService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, profile.ID, limit, offset)
}

func (s *ProfileService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, profile.ID, limit, offset)
}

// SearchProfiles matches profiles by username. An empty or whitespace
// query is a successful empty result, not an error.
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.Profile{}, nil
	}
	return s.profileRepo.Search(ctx, query, limit, offset)
}
