package api

import (
	"net/http"
	"strconv"
)

const maxLimit = 200

// parseLimit reads the optional limit query parameter. Zero means no limit.
// Non-numeric or non-positive values are ignored; large ones are capped at
// maxLimit.
func parseLimit(r *http.Request) int {
	l := r.URL.Query().Get("limit")
	if l == "" {
		return 0
	}
	n, err := strconv.Atoi(l)
	if err != nil || n <= 0 {
		return 0
	}
	return min(n, maxLimit)
}
