package schema

// Default aggregator weights. Values need not sum to 1.0; no normalization
// is applied anywhere.
const (
	DefaultVelocityMerges    = 0.4
	DefaultVelocityClosedIss = 0.2
	DefaultVelocityClosedPR  = 0.4

	DefaultUIGForks = 0.4
	DefaultUIGStars = 0.6

	DefaultMACMainWeight = 0.8
	DefaultMACSubWeight  = 0.2

	DefaultSEIVelocity = 0.3
	DefaultSEIUIG      = 0.2
	DefaultSEIMAC      = 0.5
)

// WeightConfig holds the ten aggregator weights. It is constructed once at
// startup from defaults plus any overrides and passed by value into every
// aggregation call.
type WeightConfig struct {
	VelocityMerges    float64
	VelocityClosedIss float64
	VelocityClosedPR  float64

	UIGForks float64
	UIGStars float64

	MACMainWeight float64
	MACSubWeight  float64

	SEIVelocity float64
	SEIUIG      float64
	SEIMAC      float64
}

// DefaultWeightConfig returns the documented default weights.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		VelocityMerges:    DefaultVelocityMerges,
		VelocityClosedIss: DefaultVelocityClosedIss,
		VelocityClosedPR:  DefaultVelocityClosedPR,
		UIGForks:          DefaultUIGForks,
		UIGStars:          DefaultUIGStars,
		MACMainWeight:     DefaultMACMainWeight,
		MACSubWeight:      DefaultMACSubWeight,
		SEIVelocity:       DefaultSEIVelocity,
		SEIUIG:            DefaultSEIUIG,
		SEIMAC:            DefaultSEIMAC,
	}
}

// WeightKeys maps the recognized override key names to a setter on the
// config. The names match the original config.ini [aggregator] section.
var WeightKeys = []string{
	"velocity_merges",
	"velocity_closedIss",
	"velocity_closedPR",
	"uig_forks",
	"uig_stars",
	"mac_mainWeight",
	"mac_subWeight",
	"sei_velocity",
	"sei_uig",
	"sei_mac",
}

// Set assigns a weight by its override key name. Unknown keys are ignored
// so that unrelated ini entries do not fail config loading.
func (w *WeightConfig) Set(key string, value float64) {
	switch key {
	case "velocity_merges":
		w.VelocityMerges = value
	case "velocity_closedIss":
		w.VelocityClosedIss = value
	case "velocity_closedPR":
		w.VelocityClosedPR = value
	case "uig_forks":
		w.UIGForks = value
	case "uig_stars":
		w.UIGStars = value
	case "mac_mainWeight":
		w.MACMainWeight = value
	case "mac_subWeight":
		w.MACSubWeight = value
	case "sei_velocity":
		w.SEIVelocity = value
	case "sei_uig":
		w.SEIUIG = value
	case "sei_mac":
		w.SEIMAC = value
	}
}

// Get returns a weight by its override key name.
func (w WeightConfig) Get(key string) float64 {
	switch key {
	case "velocity_merges":
		return w.VelocityMerges
	case "velocity_closedIss":
		return w.VelocityClosedIss
	case "velocity_closedPR":
		return w.VelocityClosedPR
	case "uig_forks":
		return w.UIGForks
	case "uig_stars":
		return w.UIGStars
	case "mac_mainWeight":
		return w.MACMainWeight
	case "mac_subWeight":
		return w.MACSubWeight
	case "sei_velocity":
		return w.SEIVelocity
	case "sei_uig":
		return w.SEIUIG
	case "sei_mac":
		return w.SEIMAC
	default:
		return 0
	}
}
