package http

import (
	"net/http"
	"strconv"

	"agendo/pkg/config"
	apperrors "agendo/pkg/errors"
)

// ExtractPageSize reads the optional page/size query parameters. Page is
// zero-based; both values are normalized against the configured bounds.
func ExtractPageSize(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 0
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	size := config.DefaultPageSize
	if s := query.Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return 0, 0, apperrors.InvalidInput("invalid size parameter: " + s)
		}
		size = v
	}

	return page, config.NormalizePageSize(size), nil
}
