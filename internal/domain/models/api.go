package models

// SignalsRequest filters the latest-verdict listing. Unknown profile
// names resolve to the default rather than failing validation.
type SignalsRequest struct {
	Pair    string `query:"pair"`
	Profile string `query:"profile"`
}

// TimeseriesRequest selects a window of stored observations for one pair.
type TimeseriesRequest struct {
	Pair  string `query:"pair" validate:"required"`
	From  string `query:"from"`
	Limit int    `query:"limit" default:"500" validate:"gt=0,lte=5000"`
}
