package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type streamApi struct {
	srv *Server
}

func registerStreamAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := streamApi{srv: srv}
	g.GET("/stream/:topic", api.stream, jwt)
}

// subscribe opens the live subscription behind topic for the caller uid.
func (api *streamApi) subscribe(ctx context.Context, topic, uid string) (<-chan core.Snapshot, error) {
	store := api.srv.deps.Store

	switch topic {
	case "houses":
		return core.SubscribeQuery(ctx, store, core.Query{
			Collection: "houses",
			OrderBy:    []core.Ordering{{Field: "totalPoints"}},
		})
	case "announcements":
		return core.SubscribeQuery(ctx, store, core.Query{
			Collection: "announcements",
			OrderBy:    []core.Ordering{{Field: "createdAt"}},
		})
	case "resources":
		return core.SubscribeQuery(ctx, store, core.Query{
			Collection: "resources",
			OrderBy:    []core.Ordering{{Field: "title", Ascending: true}},
		})
	case "leaderboard":
		return core.SubscribeQuery(ctx, store, core.Query{
			Collection: "users",
			OrderBy:    []core.Ordering{{Field: "points"}},
			Limit:      user.LeaderboardSize(api.srv.deps.Conf),
		})
	case "me":
		return core.SubscribeDocument(ctx, store, "users", uid)
	}
	return nil, errUnknownTopic
}

// stream pushes every snapshot of a topic as a server-sent event until the client goes away.
func (api *streamApi) stream(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if _, ok := ctx.Response().Writer.(http.Flusher); !ok {
		return errStreamingUnsupported
	}

	reqCtx, cancel := context.WithCancel(ctx.Request().Context())
	defer cancel()

	snapshots, err := api.subscribe(reqCtx, ctx.Param("topic"), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "subscribing")
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for snap := range snapshots {
		if snap.Err != nil {
			api.srv.deps.Logger.Error("stream snapshot", snap.Err, claims.Principal())
			fmt.Fprint(res, "event: error\ndata: {\"error\":\"snapshot failed\"}\n\n")
			res.Flush()
			return nil
		}
		payload, err := encodeSnapshot(snap.Docs)
		if err != nil {
			return errors.Wrap(err, "encoding snapshot")
		}
		if _, err = fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return nil // client went away
		}
		res.Flush()
	}
	return nil
}

func encodeSnapshot(docs []core.Document) ([]byte, error) {
	items := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		var m map[string]interface{}
		if err := doc.DataTo(&m); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return json.Marshal(items)
}
