package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any single page can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta mirrors the pagination block of a backend list response. Total and
// TotalPages are authoritative only immediately after a full fetch.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage floors the page number at 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Normalize applies both bounds to the params.
func Normalize(p Params) Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// TotalPages derives the page count for a total row count and limit.
func TotalPages(total, limit int) int {
	limit = NormalizeLimit(limit)
	if total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
