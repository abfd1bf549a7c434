package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type authApi struct {
	srv *Server
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := authApi{srv: srv}

	ag := g.Group("/auth")
	ag.POST("/google", api.googleSignIn)
	ag.POST("/sign-out", api.signOut)
	ag.POST("/token-refresh", api.refreshToken, jwt)

	g.GET("/me", api.me, jwt)
}

type (
	GoogleSignInRequest struct {
		IDToken string `json:"idToken"`
	}

	LoginResponse struct {
		Token   string    `json:"token"`
		User    user.User `json:"user"`
		Created bool      `json:"created,omitempty"`
	}

	MeResponse struct {
		User    user.User    `json:"user"`
		Profile user.Profile `json:"profile"`
	}
)

// googleSignIn exchanges a Google ID token for a session, creating the user on first sign-in.
func (api *authApi) googleSignIn(ctx echo.Context) error {
	var data GoogleSignInRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GoogleSignInRequest")
	}
	data.IDToken = core.CleanString(data.IDToken)
	if data.IDToken == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "idToken", Error: "this field is required"})
	}

	reqCtx := ctx.Request().Context()
	p, err := api.srv.deps.Verifier.Verify(reqCtx, data.IDToken)
	if err != nil {
		if errors.Cause(err) == core.ErrInvalidIDToken {
			return errInvalidIDToken
		}
		return errors.Wrap(err, "verifying ID token")
	}

	usr, created, err := api.srv.deps.UserSvc.EnsureUser(reqCtx, p)
	if err != nil {
		return errors.Wrap(err, "ensuring user")
	}
	token, err := api.srv.GenerateToken(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	api.srv.setSessionCookie(ctx, token)

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, LoginResponse{Token: token, User: usr, Created: created})
}

func (api *authApi) signOut(ctx echo.Context) error {
	api.srv.clearSessionCookie(ctx)
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Anda telah keluar."})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	usr, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	token, err := api.srv.tokens.refresh(claims, usr)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	api.srv.setSessionCookie(ctx, token)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	prof, err := api.srv.deps.UserSvc.GetProfile(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, MeResponse{User: usr, Profile: prof})
}
