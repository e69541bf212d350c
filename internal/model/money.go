package model

import "github.com/shopspring/decimal"

// Amounts travel as JSON numbers ("cantidad": 50.25). Quoted amounts are
// still accepted on input.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
