package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-spotadmin/components/commands"
	"github.com/goliatone/go-spotadmin/components/listing"
	"github.com/goliatone/go-spotadmin/components/permissions"
	"github.com/goliatone/go-spotadmin/components/refunds"
	"github.com/goliatone/go-spotadmin/components/wizard"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	var modErr *commands.ModerationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &modErr):
		switch modErr.Kind {
		case listing.KindNotFound:
			return http.StatusNotFound
		case listing.KindConflict:
			return http.StatusConflict
		case listing.KindInvalid:
			return http.StatusUnprocessableEntity
		default:
			return http.StatusBadGateway
		}
	case errors.Is(err, listing.ErrSessionNotFound),
		errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, permissions.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrClosed),
		errors.Is(err, refunds.ErrWrongStage):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrFieldKind),
		errors.Is(err, wizard.ErrInvalidPath),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, wizard.ErrStepNotNavigable),
		errors.Is(err, wizard.ErrStepIncomplete),
		errors.Is(err, listing.ErrInvalidListing),
		errors.Is(err, permissions.ErrReadOnly),
		errors.Is(err, refunds.ErrInvalidRefund),
		errors.Is(err, commands.ErrUnknownAction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, refunds.ErrDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrNotConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
