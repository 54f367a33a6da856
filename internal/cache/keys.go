package cache

import (
	"fmt"
	"time"
)

const (
	GiftViewTTL = 5 * time.Minute
	UserTTL     = 10 * time.Minute
)

// GiftViewKey caches the public metadata of a gift.
func GiftViewKey(id string) string {
	return fmt.Sprintf("gift:view:%s", id)
}

// UserKey caches a user row by id.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}
