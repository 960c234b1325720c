package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/sse"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

type ProfileServiceImpl struct {
	profile.ProfileRepository
	resolver timetable.Resolver
	hub      *sse.Hub
}

// GetMe implements profile.ProfileService.
func (s *ProfileServiceImpl) GetMe(ctx context.Context, userID string) (profile.ProfileResponse, error) {
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile.NewProfileResponse(p), nil
}

// UpdateSettings implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateSettings(ctx context.Context, userID string, req profile.UpdateSettingsRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	if !validator.IsInSlice(req.Division, s.resolver.Divisions()) {
		return profile.ProfileResponse{}, profile.ErrInvalidDivision
	}
	if !s.resolver.IsConfigured(req.Division, req.Batch) {
		return profile.ProfileResponse{}, profile.ErrInvalidBatch
	}

	if err := s.ProfileRepository.UpdateSettings(ctx, userID, req.Division, req.Batch, time.Now().UTC()); err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}

	slog.Info("profile settings updated", "user_id", userID, "division", req.Division, "batch", req.Batch)
	return s.publish(ctx, userID)
}

// UpdateName implements profile.ProfileService.
func (s *ProfileServiceImpl) UpdateName(ctx context.Context, userID string, req profile.UpdateNameRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	if err := s.ProfileRepository.UpdateName(ctx, userID, req.Name, time.Now().UTC()); err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to update name: %w", err)
	}
	return s.publish(ctx, userID)
}

// publish reloads the profile and pushes it to live subscribers.
func (s *ProfileServiceImpl) publish(ctx context.Context, userID string) (profile.ProfileResponse, error) {
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return profile.ProfileResponse{}, fmt.Errorf("failed to reload profile: %w", err)
	}

	s.hub.Publish(userID, sse.Event{
		UserID: userID,
		Event:  profile.EventProfileUpdated,
		Data:   p,
	})
	return profile.NewProfileResponse(p), nil
}

func NewProfileService(profileRepo profile.ProfileRepository, resolver timetable.Resolver, hub *sse.Hub) profile.ProfileService {
	return &ProfileServiceImpl{
		ProfileRepository: profileRepo,
		resolver:          resolver,
		hub:               hub,
	}
}
