package cache

import (
	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/httputil"
)

// backendError marks a failed backend call as a retryable network error.
func backendError(err error, op, key string) error {
	if err == nil {
		return nil
	}
	return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "cache %s %s", op, key))
}

// IsBackendError reports whether err came from an unreachable backend.
// Callers treat such errors as misses rather than failing the render.
func IsBackendError(err error) bool {
	return httputil.IsRetryable(err) && errors.Is(err, errors.ErrCodeNetwork)
}
