// Package web holds the dashboard document compiled into the binaries.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
