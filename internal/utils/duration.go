package utils

// MaxDurationOption is the episode-length filter exposed to clients.
type MaxDurationOption string

const (
	MaxDurationFive      MaxDurationOption = "5"
	MaxDurationTen       MaxDurationOption = "10"
	MaxDurationUnlimited MaxDurationOption = "unlimited"
)

// NormalizeMaxDuration maps any client-supplied value onto a supported
// option, defaulting to unlimited.
func NormalizeMaxDuration(value string) MaxDurationOption {
	switch MaxDurationOption(value) {
	case MaxDurationFive, MaxDurationTen, MaxDurationUnlimited:
		return MaxDurationOption(value)
	}
	return MaxDurationUnlimited
}

// Seconds returns the filter value in seconds, 0 meaning no limit.
func (o MaxDurationOption) Seconds() int {
	switch o {
	case MaxDurationFive:
		return 5 * 60
	case MaxDurationTen:
		return 10 * 60
	}
	return 0
}
