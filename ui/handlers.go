package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"chocobox/adapters/excel"
	"chocobox/app"
	"chocobox/domain/derangement"
	"chocobox/internal/errors"
)

// seriesResponse carries a run together with the field set its rows use
type seriesResponse struct {
	*app.Run
	Columns []string `json:"columns"`
}

// indexPage is the data handed to templates/index.html
type indexPage struct {
	Intro         template.HTML
	Chocolates    int
	Iterations    int
	MaxChocolates int
	MaxIterations int
	Initial       template.JS
	Startup       *app.Run
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleIndex renders the page with a startup run already plotted
func (s *Server) handleIndex(c *gin.Context) {
	run, err := s.compute(c, app.SeriesRequest{
		Chocolates: s.sim.StartupChocolates,
		Iterations: s.sim.StartupIterations,
		Seed:       s.sim.Seed,
	})
	if err != nil {
		s.logger.Error("startup run failed: %v", err)
		c.String(errors.HTTPStatus(err), "simulation unavailable")
		return
	}

	initial, err := json.Marshal(seriesResponse{Run: run, Columns: derangement.Columns()})
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to encode series")
		return
	}

	s.renderTemplate(c, "index.html", indexPage{
		Intro:         s.intro,
		Chocolates:    s.sim.DefaultChocolates,
		Iterations:    s.sim.DefaultIterations,
		MaxChocolates: s.sim.MaxChocolates,
		MaxIterations: s.sim.MaxIterations,
		Initial:       template.JS(initial),
		Startup:       run,
	})
}

// handleSeries recomputes the whole curve for the current slider values
func (s *Server) handleSeries(c *gin.Context) {
	req, err := s.seriesRequest(c)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	run, err := s.compute(c, req)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, seriesResponse{Run: run, Columns: derangement.Columns()})
}

// handleExport serves the series as an xlsx or csv download
func (s *Server) handleExport(c *gin.Context) {
	format, err := excel.ParseFormat(c.Query("format"))
	if err != nil {
		err = errors.InvalidArgument(err.Error())
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	req, err := s.seriesRequest(c)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	run, err := s.compute(c, req)
	if err != nil {
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	writer := excel.NewSeriesWriter(format)
	var buf bytes.Buffer
	if err := writer.Write(&buf, run); err != nil {
		s.logger.Error("export run %s failed: %v", run.RunID, err)
		err = errors.ExternalServiceError("export", err)
		c.JSON(errors.HTTPStatus(err), errorBody(err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", writer.FileName(run)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (s *Server) seriesRequest(c *gin.Context) (app.SeriesRequest, error) {
	chocolates, err := clampedCount(c, "chocolates", s.sim.DefaultChocolates, s.sim.MaxChocolates)
	if err != nil {
		return app.SeriesRequest{}, err
	}
	iterations, err := clampedCount(c, "iterations", s.sim.DefaultIterations, s.sim.MaxIterations)
	if err != nil {
		return app.SeriesRequest{}, err
	}
	seed, err := seedParam(c, s.sim.Seed)
	if err != nil {
		return app.SeriesRequest{}, err
	}
	return app.SeriesRequest{Chocolates: chocolates, Iterations: iterations, Seed: seed}, nil
}

// compute runs one simulation once a concurrency slot is free
func (s *Server) compute(c *gin.Context, req app.SeriesRequest) (*app.Run, error) {
	ctx := c.Request.Context()
	if err := s.limiter.Acquire(ctx, 1); err != nil {
		return nil, errors.Unavailable("no simulation capacity", err)
	}
	defer s.limiter.Release(1)

	return s.service.ComputeConvergenceSeries(ctx, req)
}

// Template helpers
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("Template error: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
