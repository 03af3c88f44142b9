package octave

import "github.com/tphakala/go-octave-analyzer/internal/mathutil"

// SilenceFloorDB is the level reported for a band with zero energy.
const SilenceFloorDB = mathutil.SilenceFloorDB

// NumBands is the number of bands in the standard table.
const NumBands = 21

// Band layout parameters
const (
	// bandwidthBase is G in factor = G^exponent.
	bandwidthBase = 2.0

	// defaultBandwidthExponent puts each edge a sixth of an octave from center.
	defaultBandwidthExponent = 1.0 / 6.0

	// Bands centered below orderSplitHz get lowOrder, the rest highOrder.
	orderSplitHz = 100.0
	lowOrder     = 2
	highOrder    = 4
)

// standardCenters are the nominal band centers in Hz, ascending.
var standardCenters = [NumBands]float64{
	50, 63, 80, 100, 125, 160, 200, 250, 315, 400, 500,
	630, 800, 1000, 1250, 1600, 2000, 2500, 3150, 4000, 5000,
}

// StandardCenters returns a copy of the nominal band centers in Hz.
func StandardCenters() []float64 {
	out := make([]float64, NumBands)
	copy(out, standardCenters[:])
	return out
}
