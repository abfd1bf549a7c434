package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/dashboard"
	"github.com/osisproject0-hub/smaktal/core/user"
)

// adminMiddleware lets through the requests dashboard.Authorize allows on the admin page.
func adminMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if dashboard.Authorize(claims.Principal(), &usr, dashboard.PageAdmin).Outcome != dashboard.Allow {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// staffMiddleware restricts grading endpoints to teachers and admins.
func staffMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx, svc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			if !usr.IsStaff() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
