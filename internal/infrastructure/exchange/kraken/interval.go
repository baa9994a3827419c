package kraken

// timeframeIntervals maps timeframe labels to Kraken interval minutes.
var timeframeIntervals = map[string]int{
	"1m":  1,
	"5m":  5,
	"15m": 15,
	"30m": 30,
	"1h":  60,
	"4h":  240,
	"1d":  1440,
	"1w":  10080,
	"1M":  21600,
}

// IntervalForTimeframe converts a timeframe label to the Kraken
// interval in minutes. Unknown labels default to 60.
func IntervalForTimeframe(timeframe string) int {
	if interval, ok := timeframeIntervals[timeframe]; ok {
		return interval
	}
	return 60
}
