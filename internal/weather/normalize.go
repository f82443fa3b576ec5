package weather

import "github.com/i474232898/walkd/internal/common"

// IconForCode maps a provider condition code to an icon.
// Thresholds are checked in order; the first match wins.
func IconForCode(code int) Icon {
	switch {
	case code < 300:
		return IconThunderstorm
	case code < 600:
		return IconRain
	case code < 700:
		return IconSnow
	case code < 800:
		return IconMist
	case code == 800:
		return IconClear
	default:
		return IconClouds
	}
}

// Normalize converts a provider reading into a Snapshot.
func Normalize(r ProviderReading) Snapshot {
	return Snapshot{
		Temperature: common.RoundTo(r.TemperatureC, 1),
		Condition:   r.Description,
		Icon:        IconForCode(r.Code),
	}
}
