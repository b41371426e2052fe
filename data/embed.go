// Package data bundles sample tide tables in the published format, shipped
// with the binary.
package data

import "embed"

// Tables holds one <port>/<year>.csv table per port and year.
//
//go:embed */*.csv
var Tables embed.FS
