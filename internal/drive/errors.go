package drive

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
)

// IsNotFound reports whether err is a Drive 404.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsPermissionError reports whether err is a Drive 401 or 403 that is not a
// rate-limit response. These usually mean the folder was not shared with the
// service account.
func IsPermissionError(err error) bool {
	code := statusCode(err)
	if code == http.StatusForbidden && IsRateLimited(err) {
		return false
	}
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsRateLimited reports whether err is a Drive quota response: a 429, or a
// 403 carrying a rateLimitExceeded or userRateLimitExceeded reason.
func IsRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// RetryAfter returns the delay requested by the Retry-After header of a Drive
// error, or fallback when there is none.
func RetryAfter(err error, fallback time.Duration) time.Duration {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Header == nil {
		return fallback
	}
	secs, convErr := strconv.Atoi(apiErr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func statusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
