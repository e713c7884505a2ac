package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrReadPredictions = errors.New("read predictions failed")
	ErrReadResult      = errors.New("read result failed")
)
