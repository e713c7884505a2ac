package simulate

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultParticipants = 200
	DefaultWorkers      = 8
	DefaultTimeout      = 10 * time.Second
	DefaultTokenTTL     = time.Hour
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	adminUserID          = "simulator-admin"
)
