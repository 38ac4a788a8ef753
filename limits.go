package docpager

import "math"

const (
	// NoLimit is the effective limit of an unlimited page: every remaining
	// match from the computed offset onward is returned.
	NoLimit      = 0
	DefaultLimit = 10
	DefaultPage  = 1
)

// NormalizePage coerces any page below 1 to the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return DefaultPage
	}

	return page
}

// NormalizeLimit coerces any limit below 1 to NoLimit. Positive limits are
// used as-is.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return NoLimit
	}

	return limit
}

// IsNormalizedLimit reports the normalized limit and whether the input was
// already in normal form.
func IsNormalizedLimit(limit int) (int, bool) {
	normalized := NormalizeLimit(limit)
	return normalized, normalized == limit
}

// MaxPage returns the last page whose records can be addressed with an int64
// offset for the given limit.
func MaxPage(limit int) int {
	limit = NormalizeLimit(limit)
	if limit == NoLimit {
		return math.MaxInt
	}

	return int(min(int64(math.MaxInt), math.MaxInt64/int64(limit)))
}

// ClampPage normalizes page and caps it at MaxPage(limit).
func ClampPage(page, limit int) int {
	return min(NormalizePage(page), MaxPage(limit))
}

// Skip returns the offset of the first record on the page.
func Skip(page, limit int) int64 {
	return int64(ClampPage(page, limit)-1) * int64(NormalizeLimit(limit))
}
