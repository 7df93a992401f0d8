package server

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/mollifier"
	"github.com/uyouii/mollifier/render"
	"github.com/uyouii/mollifier/utils"
	"github.com/uyouii/mollifier/view"
)

var roughFuncs = map[string]mollifier.RoughFunc{
	"noisy_box": mollifier.NoisyBox{},
	"step":      mollifier.UnitStep{},
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrorSessionNotFound), errors.Is(err, common.ErrorUnknownView):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrorUnknownAction), errors.Is(err, common.ErrorInvalidValue),
		errors.Is(err, common.ErrorInvalidEpsilon):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	code := statusOf(err)
	logger := utils.GetLogger(c.UserContext())
	if code >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("path", c.Path()), zap.Int("status", code), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) handleListViews(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"views":    view.Names(s.cfg.Views),
		"presets":  s.cfg.Views,
		"formulas": view.StoryFormulas(),
	})
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	sess, err := s.store.Create(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if err := s.store.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) lookupView(c *fiber.Ctx, name string) (view.View, error) {
	sess, err := s.store.Get(c.Params("id"))
	if err != nil {
		return nil, err
	}
	return sess.View(name)
}

// handleScene returns the scene as JSON, or one panel as SVG or PNG when
// the view name carries that suffix.
func (s *Server) handleScene(c *fiber.Ctx) error {
	name := c.Params("view")
	format := "json"
	if base, ok := strings.CutSuffix(name, ".svg"); ok {
		name, format = base, "svg"
	} else if base, ok := strings.CutSuffix(name, ".png"); ok {
		name, format = base, "png"
	}

	v, err := s.lookupView(c, name)
	if err != nil {
		return fail(c, err)
	}
	scene, err := v.Scene(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	if format == "json" {
		return c.JSON(scene)
	}

	panel, err := pickPanel(scene, c.QueryInt("panel", 0))
	if err != nil {
		return fail(c, err)
	}
	var buf bytes.Buffer
	if format == "svg" {
		err = render.WriteSVG(panel, &buf)
	} else {
		err = render.WritePNG(panel, &buf)
	}
	if err != nil {
		return fail(c, err)
	}
	c.Type(format)
	return c.Send(buf.Bytes())
}

func pickPanel(scene *model.Scene, index int) (model.Panel, error) {
	if index < 0 || index >= len(scene.Panels) {
		return model.Panel{}, fmt.Errorf("panel %d of %d: %w", index, len(scene.Panels), common.ErrorInvalidValue)
	}
	return scene.Panels[index], nil
}

func (s *Server) handleAction(c *fiber.Ctx) error {
	v, err := s.lookupView(c, c.Params("view"))
	if err != nil {
		return fail(c, err)
	}

	var action view.Action
	if err := c.BodyParser(&action); err != nil {
		return fail(c, fmt.Errorf("decode action: %v: %w", err, common.ErrorInvalidValue))
	}
	ctx := c.UserContext()
	if err := v.Apply(ctx, action); err != nil {
		return fail(c, err)
	}
	scene, err := v.Scene(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(scene)
}

// handleConvergence reports |J_eps * f - f| near x for a list of eps.
// Query: x (required), eps (comma separated, each >= MinConvergenceEpsilon),
// f (noisy_box or step), window.
func (s *Server) handleConvergence(c *fiber.Ctx) error {
	x, err := strconv.ParseFloat(c.Query("x"), 64)
	if err != nil {
		return fail(c, fmt.Errorf("x=%q: %w", c.Query("x"), common.ErrorInvalidValue))
	}
	f, ok := roughFuncs[c.Query("f", "noisy_box")]
	if !ok {
		return fail(c, fmt.Errorf("function %q: %w", c.Query("f"), common.ErrorInvalidValue))
	}
	epsilons, err := parseFloats(c.Query("eps"))
	if err != nil {
		return fail(c, err)
	}
	for _, eps := range epsilons {
		if err := mollifier.CheckConvergenceEpsilon(eps); err != nil {
			return fail(c, err)
		}
	}
	window := c.QueryFloat("window", 0)
	if math.IsNaN(window) || math.IsInf(window, 0) {
		return fail(c, fmt.Errorf("window=%q: %w", c.Query("window"), common.ErrorInvalidValue))
	}

	report, err := mollifier.CalculateConvergence(c.UserContext(), f, x, epsilons, window)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

func parseFloats(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	res := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, common.ErrorInvalidValue)
		}
		res = append(res, v)
	}
	return res, nil
}
