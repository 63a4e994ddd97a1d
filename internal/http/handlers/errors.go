package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	kerrors "github.com/jmylchreest/sunrised/internal/errors"
)

// toHTTPError maps engine errors onto HTTP status codes. Invalid input is a
// 400; a stopped or busy engine is a 503; anything else is a 500.
func toHTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case kerrors.IsInvalidParameter(err):
		return huma.Error400BadRequest(err.Error())
	case kerrors.IsUnavailable(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}
