package entity

// AnnualIncidence is one year of pre-aggregated skin-cancer incidence.
type AnnualIncidence struct {
	Year  int   `json:"year"`
	Cases int64 `json:"cases"`
}

// ForecastPoint is one externally pre-computed forecast sample
// (ARIMA or ETS); nothing is modeled in-process.
type ForecastPoint struct {
	Year  int     `json:"year"`
	Model string  `json:"model"`
	Point float64 `json:"point"`
	Lo95  float64 `json:"lo95"`
	Hi95  float64 `json:"hi95"`
}

// CorrelationRow pairs yearly incidence with the mean UV index for the
// correlation chart. MeanUV is nil for years without UV coverage.
type CorrelationRow struct {
	Year   int      `json:"year"`
	Cases  int64    `json:"cases"`
	MeanUV *float64 `json:"mean_uv"`
}
