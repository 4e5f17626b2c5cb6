package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

type planBody struct {
	Goal     *string `json:"goal"`
	MaxSteps *int    `json:"max_steps"`
}

func (b *planBody) toRequest() (contractx.PlanRequest, error) {
	if b == nil || b.Goal == nil {
		return contractx.PlanRequest{}, fmt.Errorf("%w: goal is required", contractx.ErrValidation)
	}
	req := contractx.PlanRequest{Goal: *b.Goal, MaxSteps: contractx.DefaultSteps}
	if b.MaxSteps != nil {
		req.MaxSteps = *b.MaxSteps
	}
	return req, req.Validate()
}

type executeBody struct {
	PlanRequest *planBody `json:"plan_request"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "app": s.cfg.AppName})
}

func (s *Server) listTools(c echo.Context) error {
	names := []contractx.ToolName{}
	if s.tools != nil {
		names = append(names, s.tools.Names()...)
	}
	return c.JSON(http.StatusOK, map[string]any{"tools": names})
}

func (s *Server) plan(c echo.Context) error {
	var body planBody
	if err := decodeStrict(c, &body); err != nil {
		return err
	}
	req, err := body.toRequest()
	if err != nil {
		return err
	}

	plan, err := s.agent.Plan(c.Request().Context(), req.Goal, req.MaxSteps)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

func (s *Server) execute(c echo.Context) error {
	var body executeBody
	if err := decodeStrict(c, &body); err != nil {
		return err
	}
	if body.PlanRequest == nil {
		return fmt.Errorf("%w: plan_request is required", contractx.ErrValidation)
	}
	req, err := body.PlanRequest.toRequest()
	if err != nil {
		return err
	}

	report, err := s.agent.Execute(c.Request().Context(), req.Goal, req.MaxSteps)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", contractx.ErrValidation, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must hold a single JSON object", contractx.ErrValidation)
	}
	return nil
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body any = map[string]string{"error": "internal_server_error", "message": err.Error()}

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		body = map[string]any{"error": he.Message}
	case errors.Is(err, contractx.ErrValidation):
		code = http.StatusUnprocessableEntity
		body = map[string]string{"error": err.Error()}
	}

	logger := log.Ctx(c.Request().Context())
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", code).Msg("request rejected")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
