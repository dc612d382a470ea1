// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

const (
	DateLayout = "2006-01-02"

	// diisi middleware, lihat middlewares.SchoolLocation
	LocSchoolLoc = "school_loc"
)

// Clock dipakai service supaya "hari ini" bisa di-mock di test.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now() }

// GetSchoolLocation: ambil *time.Location dari locals, fallback Asia/Jakarta lalu UTC.
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if loc, ok := c.Locals(LocSchoolLoc).(*time.Location); ok && loc != nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

// Today returns midnight of now's calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}

// ParseDate parses "YYYY-MM-DD" as a calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// IsAfterDay: true kalau tanggal d (kalender) jatuh setelah hari ini di loc.
func IsAfterDay(d time.Time, now time.Time, loc *time.Location) bool {
	today := Today(now, loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return day.After(today)
}

// ToDate converts t to a datatypes.Date (tanggal saja).
func ToDate(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

// Period formats the billing period (YYYY-MM) of now in loc.
func Period(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format("2006-01")
}
