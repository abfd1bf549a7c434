package echoapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/tests"
)

// readEvents decodes the data lines of a server-sent event stream.
func readEvents(t *testing.T, body io.Reader) <-chan []map[string]interface{} {
	events := make(chan []map[string]interface{})
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var docs []map[string]interface{}
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &docs); err != nil {
				t.Errorf("readEvents() failed: %v", err)
				return
			}
			events <- docs
		}
	}()
	return events
}

func nextEvent(t *testing.T, events <-chan []map[string]interface{}) []map[string]interface{} {
	select {
	case docs, ok := <-events:
		require.True(t, ok, "stream closed")
		return docs
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func openStream(t *testing.T, ctx context.Context, url, token string) *http.Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func Test_streamApi(t *testing.T) {
	srv, env := setup(t)
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	token := getToken(t, srv, usr)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	runHTTPTests(t, srv, []httpTest{
		{name: "no session", method: http.MethodGet, path: "/v1/stream/houses", wantCode: http.StatusUnauthorized},
		{
			name:     "unknown topic",
			method:   http.MethodGet,
			path:     "/v1/stream/grades",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "unknown topic"}),
		},
	})

	t.Run("houses", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res := openStream(t, ctx, ts.URL+"/v1/stream/houses", token)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))
		events := readEvents(t, res.Body)

		assert.Empty(t, nextEvent(t, events))

		h, err := env.HouseSvc.Create(context.Background(), house.NewHouse{Name: "Garuda", TotalPoints: 10})
		require.NoError(t, err)

		docs := nextEvent(t, events)
		if assert.Len(t, docs, 1) {
			assert.Equal(t, h.ID, docs[0]["id"])
			assert.Equal(t, "Garuda", docs[0]["name"])
		}
	})

	t.Run("me", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res := openStream(t, ctx, ts.URL+"/v1/stream/me", token)
		require.Equal(t, http.StatusOK, res.StatusCode)
		events := readEvents(t, res.Body)

		docs := nextEvent(t, events)
		if assert.Len(t, docs, 1) {
			assert.Equal(t, usr.ID, docs[0]["id"])
			assert.EqualValues(t, 0, docs[0]["points"])
		}

		testutil.SetPoints(t, env, usr.ID, 30)
		docs = nextEvent(t, events)
		if assert.Len(t, docs, 1) {
			assert.EqualValues(t, 30, docs[0]["points"])
		}
	})
}

func Test_streamApi_leaderboard(t *testing.T) {
	srv, env := setup(t)
	env.Conf.LeaderboardSize = 0
	usr := testutil.CreateUser(t, env, "uid-budi", "Budi Santoso", "")
	for _, uid := range []string{"uid-a", "uid-b", "uid-c", "uid-d", "uid-e"} {
		testutil.CreateUser(t, env, uid, uid, "")
	}
	testutil.SetPoints(t, env, usr.ID, 40)

	ts := httptest.NewServer(srv)
	defer ts.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := openStream(t, ctx, ts.URL+"/v1/stream/leaderboard", getToken(t, srv, usr))
	require.Equal(t, http.StatusOK, res.StatusCode)

	// an unset size falls back to the same default as the ranking service
	docs := nextEvent(t, readEvents(t, res.Body))
	if assert.Len(t, docs, user.DefaultLeaderboardSize) {
		assert.Equal(t, usr.ID, docs[0]["id"])
	}
}
