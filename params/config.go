package params

import "path/filepath"

// CSVConfig configures the whole-row delimited readers.
// Time names the optional timestamp-list column; leave it empty for
// the plain (non-temporal) variant.
type CSVConfig struct {
	Delimiter byte
	ID        string
	Geom      string
	Time      string
}

func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Delimiter: DefaultDelimiter,
		ID:        DefaultIDColumn,
		Geom:      DefaultGeomColumn,
		Time:      DefaultTimeColumn,
	}
}

// PointConfig configures the point-stream assembler.
// Time is optional; when the column is missing the assembler runs in
// its no-timestamp mode.
type PointConfig struct {
	Delimiter byte
	ID        string
	X         string
	Y         string
	Time      string
}

func DefaultPointConfig() *PointConfig {
	return &PointConfig{
		Delimiter: DefaultDelimiter,
		ID:        DefaultIDColumn,
		X:         DefaultXColumn,
		Y:         DefaultYColumn,
		Time:      DefaultTimeColumn,
	}
}

// StoreConfig configures the bbolt trajectory store.
type StoreConfig struct {
	DBPath    string
	CacheSize int
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		DBPath:    filepath.Join(DatadirRoot, "trajectories.db"),
		CacheSize: 1024,
	}
}
