package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/user"
)

type skillTreeApi struct {
	svc     *skilltree.Service
	userSvc *user.Service
}

func registerSkillTreeAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := skillTreeApi{svc: srv.deps.SkillTreeSvc, userSvc: srv.deps.UserSvc}

	ag := g.Group("", jwt)
	ag.GET("/skill-tree", api.progress)
	ag.POST("/users/:id/skills", api.unlock, staffMiddleware(srv.deps.UserSvc))
}

// progress returns the caller's skill tree, or the tree of ?major= for staff browsing other majors.
func (api *skillTreeApi) progress(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	reqCtx := ctx.Request().Context()

	if major := ctx.QueryParam("major"); major != "" && usr.IsStaff() {
		t, err := api.svc.Tree(reqCtx, major)
		if err != nil {
			return errors.Wrap(err, "getting skill tree")
		}
		return ctx.JSON(http.StatusOK, skilltree.ComputeProgress(t, nil))
	}

	prof, err := api.userSvc.GetProfile(reqCtx, usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	progress, err := api.svc.Progress(reqCtx, prof)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, progress)
}

func (api *skillTreeApi) unlock(ctx echo.Context) error {
	var data skilltree.UnlockSkill
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UnlockSkill")
	}
	actor, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	prof, err := api.svc.Unlock(ctx.Request().Context(), actor, ctx.Param("id"), data.SkillID)
	if err != nil {
		return errors.Wrap(err, "unlocking skill")
	}
	return ctx.JSON(http.StatusOK, prof)
}
