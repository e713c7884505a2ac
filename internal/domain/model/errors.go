package model

import "errors"

// ErrPredictionsLocked is returned when predictions are closed because the
// result has been recorded.
var ErrPredictionsLocked = errors.New("predictions are locked once the result is recorded")
