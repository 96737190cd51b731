package economy

import (
	"context"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/repositories"
)

// SubscriptionManager answers VIP checks from the users table.
type SubscriptionManager struct {
	users repositories.UserRepository
}

func NewSubscriptionManager(users repositories.UserRepository) *SubscriptionManager {
	return &SubscriptionManager{users: users}
}

// IsActiveSubscriber reports whether the user holds an unexpired VIP
// subscription. Unknown users are not subscribers.
func (s *SubscriptionManager) IsActiveSubscriber(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.ByTelegramID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return user.HasActiveVIP(time.Now()), nil
}

// GrantVIP activates a subscription for the given duration.
func (s *SubscriptionManager) GrantVIP(ctx context.Context, userID int64, duration time.Duration) error {
	return s.users.SetVIP(ctx, userID, time.Now().Add(duration))
}
