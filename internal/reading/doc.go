// Package reading defines the blood-pressure reading record shared by the
// store, the view builders and the report exporter.
//
// This package contains types and pure helpers only. Every other internal
// package imports reading; reading imports nothing internal.
//
// Key conventions:
//   - Dates are calendar days in YYYY-MM-DD form with no time zone
//   - CreatedAt is epoch milliseconds and is the only recency key
//   - Missing optional values are nil, never zero
//   - All JSON tags use snake_case
package reading
