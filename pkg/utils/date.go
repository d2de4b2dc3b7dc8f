package utils

import (
	"math"
	"time"
)

var istLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}()

// TimeNowIST returns the current time in India Standard Time.
func TimeNowIST() time.Time {
	return time.Now().In(istLocation)
}

// DaysUntil returns the number of whole days from now until t, rounded up. Past dates yield a negative or zero value.
func DaysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// PrettyDate formats t in IST, e.g. "01 Oct 2025 10:00 IST".
func PrettyDate(t time.Time) string {
	return t.In(istLocation).Format("02 Jan 2006 15:04") + " IST"
}
