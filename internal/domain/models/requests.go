package models

// Request shapes bound from query parameters and validated with
// go-playground/validator; defaults applied via creasty/defaults.
// The "ticker" rule is registered in pkg/http.

type OverviewRequest struct {
	Symbol string `query:"symbol" validate:"required,ticker"`
	Range  string `query:"range" default:"6M" validate:"omitempty,oneof=1D 5D 1M 3M 6M 1Y 2Y 5Y"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" validate:"required,ticker"`
	Range  string `query:"range" default:"1Y" validate:"omitempty,oneof=1D 5D 1M 3M 6M 1Y 2Y 5Y"`
}

type NewsRequest struct {
	Symbol       string `query:"symbol" validate:"required,ticker"`
	Limit        int    `query:"limit" default:"5" validate:"omitempty,min=1,max=25"`
	LookbackDays int    `query:"lookbackDays" default:"7" validate:"omitempty,min=1,max=30"`
}

type EarningsRequest struct {
	Symbol string `query:"symbol" validate:"required,ticker"`
}

type IndexQuoteRequest struct {
	Symbol string `query:"symbol" default:"^GSPC" validate:"omitempty,oneof=^GSPC ^IXIC ^DJI ^RUT"`
}

type TilesRequest struct {
	// Comma-separated list; empty falls back to the configured tile set.
	Symbols string `query:"symbols" validate:"omitempty,max=200"`
}
