package dedupe

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets how many IDs are remembered. The oldest ID is evicted
// first; maxSize <= 0 remembers every ID.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
