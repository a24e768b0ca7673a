package params

import (
	"compress/gzip"
	"os"
	"path/filepath"
)

// Conventional column names for delimited trajectory files.
// Callers override per file; these are only defaults.
const (
	DefaultIDColumn   = "id"
	DefaultGeomColumn = "geom"
	DefaultXColumn    = "x"
	DefaultYColumn    = "y"
	DefaultTimeColumn = "timestamp"
)

// DefaultDelimiter separates fields in delimited trajectory files.
var DefaultDelimiter byte = ','

var DefaultGZipCompressionLevel = gzip.BestCompression

var DefaultBatchSize = 10_000

var DatadirRoot = func() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trajio")
}()
