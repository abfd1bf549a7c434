package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/core/wellbeing"
)

type wellbeingApi struct {
	svc         *wellbeing.Service
	userSvc     *user.Service
	resourceSvc *resource.Service
}

func registerWellbeingAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := wellbeingApi{
		svc:         srv.deps.WellbeingSvc,
		userSvc:     srv.deps.UserSvc,
		resourceSvc: srv.deps.ResourceSvc,
	}

	wg := g.Group("/well-being", jwt)
	wg.GET("/check-ins", api.checkIns)
	wg.POST("/check-ins", api.checkIn)
	wg.POST("/appointments", api.requestAppointment)
	wg.GET("/resources", api.resources)
}

type CheckInResponse struct {
	CheckIn wellbeing.CheckIn `json:"checkIn"`
	Message string            `json:"message"`
}

func (api *wellbeingApi) checkIns(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	checkIns, err := api.svc.CheckIns(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying check-ins")
	}
	return ctx.JSON(http.StatusOK, checkIns)
}

func (api *wellbeingApi) checkIn(ctx echo.Context) error {
	var data wellbeing.NewCheckIn
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheckIn")
	}
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, msg, err := api.svc.CheckIn(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "checking in")
	}
	return ctx.JSON(http.StatusCreated, CheckInResponse{CheckIn: c, Message: msg})
}

func (api *wellbeingApi) requestAppointment(ctx echo.Context) error {
	var data wellbeing.NewCounselingRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCounselingRequest")
	}
	usr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if _, err = api.svc.RequestAppointment(ctx.Request().Context(), usr, data); err != nil {
		return errors.Wrap(err, "requesting appointment")
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: wellbeing.AppointmentConfirmation})
}

func (api *wellbeingApi) resources(ctx echo.Context) error {
	resources, err := api.resourceSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	return ctx.JSON(http.StatusOK, resources)
}
