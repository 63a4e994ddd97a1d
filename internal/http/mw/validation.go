package mw

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

var badRequestOnce sync.Once

type badRequestKey struct{}

// ValidationAsBadRequest makes api report request validation failures
// (missing or out-of-range parameters) as 400 rather than 422, which is what
// the device front end expects for any rejected parameter. Only operations
// registered on api after this call are affected; other APIs keep Huma's
// default status.
func ValidationAsBadRequest(api huma.API) {
	badRequestOnce.Do(func() {
		next := huma.NewErrorWithContext
		huma.NewErrorWithContext = func(ctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity && ctx != nil && ctx.Context().Value(badRequestKey{}) != nil {
				status = http.StatusBadRequest
			}
			return next(ctx, status, msg, errs...)
		}
	})
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithValue(ctx, badRequestKey{}, true))
	})
}
