package mockfeed

// Default feed configuration.
const (
	DefaultCount  = 200
	DefaultMonths = 18
	DefaultAddr   = ":9090"
	FeedPath      = "/responses"
)

// Probability constants (percent) for deliberately incomplete records.
const (
	absentTextPercent   = 30
	absentRatingPercent = 20
	nestedRatingPercent = 25
	legacyIDPercent     = 10
	numericIDPercent    = 5
	epochDatePercent    = 15
	invalidDatePercent  = 2
	missingNamePercent  = 3
	maxRating           = 5
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)
