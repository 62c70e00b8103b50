// Package timeseries provides time-indexed profile data for driving network
// values across simulation steps.
package timeseries

// DataSource hands out the value of one or more named profiles at a given
// time step, scaled by scale. ok is false when the source has no data for
// that step (the absent marker); consumers then leave the network untouched.
type DataSource interface {
	TimeStepValue(step int, profiles []string, scale float64) (values []float64, ok bool)
}
