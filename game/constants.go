package game

// Defaults used when the integrating system leaves a tuning value unset.
const (
	DefaultFixedDt = 1.0 / 20.0

	DefaultCatchUpTickBudget     = 10
	DefaultSmoothingFactor       = 0.35
	DefaultClampSpeedTolerance   = 1.0
	DefaultClampFallbackMaxDelta = 0.5
	DefaultEpsilon               = 1e-4

	DefaultForcedPriority    = 100
	DefaultAnimationPriority = 50

	// SmoothingSettledWeight is the remaining weight below which a smoothed transition is
	// considered settled.
	SmoothingSettledWeight = 0.01
)
