package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int64     `bun:"id,pk,autoincrement"`
	TelegramID int64     `bun:"telegram_id,notnull,unique"`
	Username   string    `bun:"username"`
	FirstName  string    `bun:"first_name"`
	Besitos    int64     `bun:"besitos,notnull,default:0"`
	VIP        bool      `bun:"vip,notnull,default:false"`
	VIPExpires time.Time `bun:"vip_expires"`
	IsAdmin    bool      `bun:"is_admin,notnull,default:false"`
	Joined     time.Time `bun:"joined,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// HasActiveVIP reports whether the user's subscription is active and
// unexpired at the given instant.
func (u *User) HasActiveVIP(now time.Time) bool {
	return u.VIP && u.VIPExpires.After(now)
}
