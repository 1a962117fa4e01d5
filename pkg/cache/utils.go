package cache

import (
	"fmt"
	"strings"
)

// Key builds a cache key from a data kind, symbol and extra parameters,
// e.g. Key("history", "AAPL", "1Y") -> "history|AAPL|1Y".
func Key(kind, symbol string, params ...interface{}) string {
	parts := make([]string, 0, 2+len(params))
	parts = append(parts, kind, symbol)
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return strings.Join(parts, "|")
}
