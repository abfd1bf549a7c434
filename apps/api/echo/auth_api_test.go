package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

func Test_authApi_googleSignIn(t *testing.T) {
	srv, env := setup(t)
	p := core.Principal{UID: "uid-budi", Email: "budi@test.id", DisplayName: "Budi Santoso", PhotoURL: "https://img.test/budi.png"}
	env.Verifier.Register("good-token", p)

	runHTTPTests(t, srv, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/v1/auth/google",
			body:     []byte(`{"idToken": "  "}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"idToken": "this field is required"}`),
		},
		{
			name:     "invalid token",
			method:   http.MethodPost,
			path:     "/v1/auth/google",
			body:     []byte(`{"idToken": "forged"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid Google ID token"}),
		},
		{
			name:     "malformed body",
			method:   http.MethodPost,
			path:     "/v1/auth/google",
			body:     []byte(`{"idToken": 42`),
			wantCode: http.StatusBadRequest,
		},
	})

	signIn := func() (LoginResponse, int, *http.Cookie) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/google", []byte(`{"idToken": "good-token"}`))
		srv.ServeHTTP(rec, req)
		var res LoginResponse
		unmarshalBody(t, rec, &res)
		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookie {
				session = c
			}
		}
		return res, rec.Code, session
	}

	// first sign-in creates the user and profile
	res, code, cookie := signIn()
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, res.Created)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.User{
		ID:          p.UID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Role:        user.RoleStudent,
	}, res.User)
	if assert.NotNil(t, cookie) {
		assert.Equal(t, res.Token, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	}

	prof, err := env.UserSvc.GetProfile(context.Background(), p.UID)
	require.NoError(t, err)
	assert.Equal(t, p.UID, prof.ID)
	assert.Empty(t, prof.UnlockedSkills)

	// then it only signs in
	res, code, _ = signIn()
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, res.Created)

	users, err := env.UserSvc.QueryAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func Test_authApi_me(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)
	ghost := getToken(t, srv, user.User{ID: "uid-ghost", Role: user.RoleAdmin})

	prof, err := env.UserSvc.GetProfile(context.Background(), usr.ID)
	require.NoError(t, err)

	runHTTPTests(t, srv, []httpTest{
		{name: "no token", method: http.MethodGet, path: "/v1/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingTokenBody)},
		{
			name:     "bad token",
			method:   http.MethodGet,
			path:     "/v1/me",
			token:    "lol",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name:     "user does not exist",
			method:   http.MethodGet,
			path:     "/v1/me",
			token:    ghost,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{
			name:     "ok",
			method:   http.MethodGet,
			path:     "/v1/me",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, MeResponse{User: usr, Profile: prof}),
		},
	})

	t.Run("session cookie", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/me")
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := srv.tokens.claims(usr)
		claims.ExpiresAt.Time = time.Now().Add(-time.Minute)
		expired, err := srv.tokens.sign(claims)
		require.NoError(t, err)

		req, rec := newAuthRequest(http.MethodGet, "/v1/me", expired)
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")

	stale, err := srv.tokens.sign(srv.tokens.claims(usr, time.Now().Add(-48*time.Hour).Unix()))
	require.NoError(t, err)

	runHTTPTests(t, srv, []httpTest{
		{name: "no token", method: http.MethodPost, path: "/v1/auth/token-refresh", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingTokenBody)},
		{
			name:     "refresh window passed",
			method:   http.MethodPost,
			path:     "/v1/auth/token-refresh",
			token:    stale,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
	})

	// a refreshed token keeps the original sign-in time
	oriat := time.Now().Add(-time.Hour).Unix()
	token, err := srv.tokens.sign(srv.tokens.claims(usr, oriat))
	require.NoError(t, err)

	req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", token)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res LoginResponse
	unmarshalBody(t, rec, &res)
	claims, err := srv.tokens.parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, oriat, claims.OrigIssuedAt)
	assert.Equal(t, usr.ID, claims.Subject)
}

func Test_authApi_signOut(t *testing.T) {
	srv, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/v1/auth/sign-out")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, sessionCookie, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	}
}
