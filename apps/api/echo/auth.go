package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

const (
	sessionCookie   = "session"
	contextTokenKey = "userToken"
	contextUserKey  = "user"
	audience        = "campus"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Picture      string `json:"picture,omitempty"`
	Role         string `json:"role,omitempty"` // informative only, access checks read the user document
}

func (c *Claims) Principal() *core.Principal {
	return &core.Principal{UID: c.Subject, Email: c.Email, DisplayName: c.Name, PhotoURL: c.Picture}
}

type tokenIssuer struct {
	issuer       string
	key          []byte
	expDelta     time.Duration
	refreshDelta time.Duration
}

func newTokenIssuer(conf *core.Config) *tokenIssuer {
	return &tokenIssuer{
		issuer:       conf.AppName,
		key:          []byte(conf.SecretKey),
		expDelta:     conf.Server.JWTExpirationDelta,
		refreshDelta: conf.Server.JWTRefreshExpirationDelta,
	}
}

func (ti *tokenIssuer) claims(usr user.User, origIat ...int64) *Claims {
	now := time.Now()
	oriat := now.Unix()
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.issuer,
			Subject:   usr.ID,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.expDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OrigIssuedAt: oriat,
		Email:        usr.Email,
		Name:         usr.DisplayName,
		Picture:      usr.PhotoURL,
		Role:         usr.Role,
	}
}

// sign generates a signed JWT token string representing the user Claims.
func (ti *tokenIssuer) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(ti.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (ti *tokenIssuer) parse(tokenString string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (interface{}, error) { return ti.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// refresh issues a new token for usr, keeping the original sign-in time of claims.
func (ti *tokenIssuer) refresh(claims *Claims, usr user.User) (string, error) {
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(ti.refreshDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}
	return ti.sign(ti.claims(usr, claims.OrigIssuedAt))
}

// tokenFromRequest reads the bearer token, falling back to the session cookie.
func tokenFromRequest(ctx echo.Context) string {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if auth != "" {
		const prefix = "Bearer "
		if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
			return auth[len(prefix):]
		}
		return ""
	}
	if cookie, err := ctx.Cookie(sessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// jwtMiddleware authenticates the request and stores its Claims in the context.
func (s *Server) jwtMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := tokenFromRequest(ctx)
			if token == "" {
				return errMissingToken
			}
			claims, err := s.tokens.parse(token)
			if err != nil {
				return errInvalidToken.WithInternal(err)
			}
			ctx.Set(contextTokenKey, claims)
			return next(ctx)
		}
	}
}

func (s *Server) setSessionCookie(ctx echo.Context, token string) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.tokens.expDelta),
		HttpOnly: true,
		Secure:   !s.deps.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.deps.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

func getContextClaims(ctx echo.Context) (*Claims, error) {
	if claims, ok := ctx.Get(contextTokenKey).(*Claims); ok {
		return claims, nil
	}
	return nil, errUnauthorized
}

// getContextUser loads the user document of the authenticated principal, once per request.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
