package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/announcement"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type adminApi struct {
	srv *Server
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := adminApi{srv: srv}

	ag := g.Group("/admin", jwt, adminMiddleware(srv.deps.UserSvc))
	ag.GET("/users", api.queryUsers)
	ag.PUT("/users/:id/role", api.changeRole)
	ag.PUT("/users/:id/profile", api.updateProfile)

	ag.POST("/houses", api.createHouse)
	ag.PUT("/houses/:id", api.updateHouse)
	ag.DELETE("/houses/:id", api.deleteHouse)

	ag.POST("/announcements", api.createAnnouncement)
	ag.PUT("/announcements/:id", api.updateAnnouncement)
	ag.DELETE("/announcements/:id", api.deleteAnnouncement)

	ag.POST("/resources", api.createResource)
	ag.PUT("/resources/:id", api.updateResource)
	ag.DELETE("/resources/:id", api.deleteResource)
}

func (api *adminApi) queryUsers(ctx echo.Context) error {
	users, err := api.srv.deps.UserSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) changeRole(ctx echo.Context) error {
	var data user.ChangeRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeRole")
	}
	actor, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	usr, err := api.srv.deps.UserSvc.ChangeRole(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "changing role")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) updateProfile(ctx echo.Context) error {
	var data user.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	actor, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prof, err := api.srv.deps.UserSvc.UpdateProfile(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

// houses

func (api *adminApi) createHouse(ctx echo.Context) error {
	var data house.NewHouse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHouse")
	}
	h, err := api.srv.deps.HouseSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating house")
	}
	return ctx.JSON(http.StatusCreated, h)
}

func (api *adminApi) updateHouse(ctx echo.Context) error {
	var data house.UpdateHouse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHouse")
	}
	h, err := api.srv.deps.HouseSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating house")
	}
	return ctx.JSON(http.StatusOK, h)
}

func (api *adminApi) deleteHouse(ctx echo.Context) error {
	if err := api.srv.deps.HouseSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting house")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// announcements

func (api *adminApi) createAnnouncement(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	usr, err := getContextUser(ctx, api.srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	a, err := api.srv.deps.AnnouncementSvc.Create(ctx.Request().Context(), usr.DisplayName, data)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *adminApi) updateAnnouncement(ctx echo.Context) error {
	var data announcement.UpdateAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	a, err := api.srv.deps.AnnouncementSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating announcement")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *adminApi) deleteAnnouncement(ctx echo.Context) error {
	if err := api.srv.deps.AnnouncementSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// resources

func (api *adminApi) createResource(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	r, err := api.srv.deps.ResourceSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *adminApi) updateResource(ctx echo.Context) error {
	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}
	r, err := api.srv.deps.ResourceSvc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating resource")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *adminApi) deleteResource(ctx echo.Context) error {
	if err := api.srv.deps.ResourceSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}
