package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	orderPrefix       = "DF"
	reservationPrefix = "RES"

	// maxNumberAttempts bounds regeneration when a number collides with an
	// existing row.
	maxNumberAttempts = 5
)

// newNumber keeps the human-readable prefix and the last 8 digits of the
// millisecond timestamp, then appends 4 random hex characters so that two
// requests in the same millisecond do not collide.
func newNumber(prefix string, now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:4])
	return prefix + ms + suffix
}

func NewOrderNumber(now time.Time) string {
	return newNumber(orderPrefix, now)
}

func NewReservationNumber(now time.Time) string {
	return newNumber(reservationPrefix, now)
}
