package service

const maxPageSize = 100

// clampPage normalizes skip/limit query values: negative skip becomes 0, a
// non-positive limit falls back to def, and limit is capped at maxPageSize.
func clampPage(skip, limit, def int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return skip, limit
}
