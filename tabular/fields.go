// Package tabular holds the delimited-text primitives shared by the
// text-backed trajectory readers: field splitting and header schema
// resolution.
package tabular

// Split cuts a line into its fields on a single-byte delimiter.
// No trimming, no quote or escape handling; adjacent delimiters and
// trailing delimiters yield empty fields. A line never has zero
// fields: the empty line is one empty field.
func Split(line string, delim byte) []string {
	fields := make([]string, 0, 8)
	start := 0
	for i := 0; i < len(line); i++ {
		if line[i] == delim {
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	return append(fields, line[start:])
}
