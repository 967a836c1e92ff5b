package filter

type LatestReadings struct {
	RegNo *string
}
