package booking

import (
	"fmt"
	"time"

	"salonsmart-backend/models"
	"salonsmart-backend/utils"
)

const (
	firstSlot    = 9 * 60
	lastSlot     = 17*60 + 30
	slotInterval = 30
)

// Slots is the fixed half-hour grid offered during booking, 09:00 to 17:30.
var Slots = buildSlots()

func buildSlots() []string {
	var out []string
	for m := firstSlot; m <= lastSlot; m += slotInterval {
		out = append(out, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return out
}

func IsSlot(s string) bool {
	for _, slot := range Slots {
		if slot == s {
			return true
		}
	}
	return false
}

// ValidDate reports whether date (yyyy-MM-dd) can be booked relative to now:
// not before today in now's location and not a Sunday.
func ValidDate(date string, now time.Time) error {
	d, err := time.ParseInLocation(models.DateFormat, date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %q is not a yyyy-MM-dd date", ErrInvalidDate, date)
	}
	if d.Before(utils.BeginningOfDay(now)) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date)
	}
	if d.Weekday() == time.Sunday {
		return fmt.Errorf("%w: %s is a Sunday", ErrInvalidDate, date)
	}
	return nil
}
