package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous identity representing one browser or device.
// It is created once per device and owns exactly one cart.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
