package dataset

// Option applies a configuration option to the loader.
type Option func(*loader)

// WithComma sets the field delimiter; ',' by default.
func WithComma(r rune) Option {
	return func(l *loader) {
		if r != 0 {
			l.comma = r
		}
	}
}

// WithDroppedColumns replaces the set of non-feature columns that are
// ignored on load. Unknown columns are ignored regardless.
func WithDroppedColumns(cols ...string) Option {
	return func(l *loader) {
		l.dropped = append([]string(nil), cols...)
	}
}
