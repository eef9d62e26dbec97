// Package logkey holds the slog attribute keys shared across packages.
package logkey

const (
	ERROR   = "error"
	Table   = "table"
	Key     = "key"
	ID      = "id"
	LineID  = "line_id"
	Product = "product_id"
	Driver  = "driver"
	Version = "schema_version"
)
