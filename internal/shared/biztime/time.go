// Package biztime centralises time handling. Storage and transport use UTC;
// the business timezone (Asia/Almaty) is only used for display boundaries.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const DefaultTimezone = "Asia/Almaty"

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init loads the business timezone once. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: load default timezone: %v", err))
		}
	}
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// Days returns n whole days as a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// Clock supplies the current instant. Use cases take a Clock so tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return NowUTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T.UTC() }
