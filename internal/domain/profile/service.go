package profile

import "context"

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (ProfileResponse, error)

	// UpdateSettings validates the division/batch pair against the timetable
	UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (ProfileResponse, error)

	UpdateName(ctx context.Context, userID string, req UpdateNameRequest) (ProfileResponse, error)
}
