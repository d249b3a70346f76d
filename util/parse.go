package util

import (
	"strconv"
	"strings"
)

func ParseId(val string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		httpErr := MalformedIdHTTPErr
		return 0, &httpErr
	}
	return id, nil
}

// ParseOptionalId treats blank as absent, for optional select fields.
func ParseOptionalId(val string) (*int64, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
