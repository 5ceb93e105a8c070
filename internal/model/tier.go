package model

// VolumeTier labels a row's export volume bucket. Labels keep the original
// dataset's Portuguese values.
type VolumeTier string

const (
	TierNone    VolumeTier = "Sem Volume"
	TierVeryLow VolumeTier = "Muito Baixo"
	TierLow     VolumeTier = "Baixo"
	TierMedium  VolumeTier = "Médio"
	TierHigh    VolumeTier = "Alto"
)

// PositiveTiers are the ascending tier labels for rows with positive volume.
var PositiveTiers = [4]VolumeTier{TierVeryLow, TierLow, TierMedium, TierHigh}

// Rank returns the tier's position in ascending volume order, with TierNone
// below all positive tiers. Unknown labels rank lowest.
func (t VolumeTier) Rank() int {
	switch t {
	case TierNone:
		return 0
	case TierVeryLow:
		return 1
	case TierLow:
		return 2
	case TierMedium:
		return 3
	case TierHigh:
		return 4
	default:
		return -1
	}
}
