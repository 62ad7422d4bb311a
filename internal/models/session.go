package models

import "time"

// RefreshSession is the persisted record backing one refresh token.
// A refresh token that verifies cryptographically but has no live record
// (consumed, deleted at logout, or never issued) must be rejected.
type RefreshSession struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	TokenValue string     `json:"token_value"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s *RefreshSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *RefreshSession) Consumed() bool {
	return s.ConsumedAt != nil
}

// TokenPair bundles a freshly minted access token and its refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	Identity     Identity
}
