package mailer

import "time"

// Date and time layouts match the en-US short forms users see elsewhere
// in the product ("7/4/2026", "6:30:00 PM").
const (
	dateLayout = "1/2/2006"
	timeLayout = "3:04:05 PM"
)

func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}
