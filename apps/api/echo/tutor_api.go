package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core/tutor"
)

type tutorApi struct {
	svc *tutor.Service
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := tutorApi{svc: srv.deps.TutorSvc}

	ag := g.Group("", jwt)
	ag.GET("/learning-topics", api.topics)
	ag.POST("/tutor/learning-plan", api.learningPlan)
}

func (api *tutorApi) topics(ctx echo.Context) error {
	topics, err := api.svc.Topics(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying learning topics")
	}
	return ctx.JSON(http.StatusOK, topics)
}

// learningPlan asks the AI tutor for recommendations on a topic for the signed-in student.
func (api *tutorApi) learningPlan(ctx echo.Context) error {
	var data tutor.LearningPlanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LearningPlanRequest")
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	plan, err := api.svc.RequestLearningPlan(ctx.Request().Context(), claims.Subject, data.TopicID)
	if err != nil {
		return errors.Wrap(err, "requesting learning plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}
