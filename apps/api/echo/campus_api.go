package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/user"
)

type campusApi struct {
	srv *Server
}

func registerCampusAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := campusApi{srv: srv}

	ag := g.Group("", jwt)
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/leaderboard", api.leaderboard)
	ag.GET("/houses", api.houses)
	ag.GET("/announcements", api.announcements)
	ag.GET("/resources", api.resources)
	ag.POST("/users/:id/points", api.awardPoints, staffMiddleware(srv.deps.UserSvc))
}

type LeaderboardResponse struct {
	Leaderboard []user.User `json:"leaderboard"`
	// UserRank is the caller's 1-based rank, null outside the top.
	UserRank *int `json:"userRank"`
}

func (api *campusApi) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	ov, err := api.srv.deps.DashboardSvc.Overview(ctx.Request().Context(), claims.Principal())
	if err != nil {
		return errors.Wrap(err, "loading overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *campusApi) leaderboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	top, err := api.srv.deps.UserSvc.Leaderboard(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading leaderboard")
	}

	res := LeaderboardResponse{Leaderboard: top}
	if rank, ok := user.Rank(top, claims.Subject); ok {
		res.UserRank = &rank
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *campusApi) houses(ctx echo.Context) error {
	houses, err := api.srv.deps.HouseSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying houses")
	}
	return ctx.JSON(http.StatusOK, houses)
}

func (api *campusApi) announcements(ctx echo.Context) error {
	announcements, err := api.srv.deps.AnnouncementSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, announcements)
}

func (api *campusApi) resources(ctx echo.Context) error {
	resources, err := api.srv.deps.ResourceSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}

func (api *campusApi) awardPoints(ctx echo.Context) error {
	var data user.AwardPoints
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AwardPoints")
	}
	actor, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	usr, err := api.srv.deps.UserSvc.AwardPoints(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "awarding points")
	}
	return ctx.JSON(http.StatusOK, usr)
}
