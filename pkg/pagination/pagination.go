package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 25
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Normalize returns a copy with both knobs clamped.
func (p Params) Normalize() Params {
	return Params{
		Page:     NormalizePage(p.Page),
		PageSize: NormalizePageSize(p.PageSize),
	}
}

// Offset converts the normalized page number into a row offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Slice pages an in-memory list, used by the compute-then-filter strategy.
func Slice[T any](rows []T, p Params) []T {
	n := p.Normalize()
	start := n.Offset()
	if start >= len(rows) {
		return []T{}
	}
	end := start + n.PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
