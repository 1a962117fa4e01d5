package repository

import "strings"

// IndexInfo describes a market index and the ETF used as a stand-in
// when the provider cannot quote the index symbol directly.
type IndexInfo struct {
	Name string
	ETF  string
}

var indexTable = map[string]IndexInfo{
	"^GSPC": {Name: "S&P 500", ETF: "SPY"},
	"^IXIC": {Name: "Nasdaq Composite", ETF: "QQQ"},
	"^DJI":  {Name: "Dow Jones Industrial Average", ETF: "DIA"},
	"^RUT":  {Name: "Russell 2000", ETF: "IWM"},
}

// IsIndex reports whether symbol looks like a market index.
func IsIndex(symbol string) bool {
	return strings.HasPrefix(symbol, "^")
}

// IndexName returns the display name of a known index, or the symbol.
func IndexName(symbol string) string {
	if info, ok := indexTable[symbol]; ok {
		return info.Name
	}
	return symbol
}

// ETFProxy returns the ETF stand-in for a known index symbol.
func ETFProxy(symbol string) (string, bool) {
	info, ok := indexTable[symbol]
	if !ok || info.ETF == "" {
		return "", false
	}
	return info.ETF, true
}
