package types

import "time"

// CapturedAtLayout is the text layout of the Timestamp column. Lexicographic order of
// values in this layout matches chronological order.
const CapturedAtLayout = "2006-01-02 15:04:05.000000"

func FormatCapturedAt(t time.Time) string {
	return t.Format(CapturedAtLayout)
}

func ParseCapturedAt(s string) (time.Time, error) {
	return time.ParseInLocation(CapturedAtLayout, s, time.Local)
}
