package models

import "github.com/shopspring/decimal"

// Prices leave the API as JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
