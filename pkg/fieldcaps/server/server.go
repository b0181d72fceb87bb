// SPDX-License-Identifier: Apache-2.0

// Package server exposes the field-capabilities resolution over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	jsonlib "github.com/coraldb/fieldcaps/internal/json"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps"
	loglib "github.com/coraldb/fieldcaps/pkg/log"
)

type Server struct {
	server   *echo.Echo
	logger   loglib.Logger
	resolver fieldcaps.Resolver
	address  string
}

type Option func(*Server)

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func New(cfg *Config, resolver fieldcaps.Resolver, opts ...Option) *Server {
	s := &Server{
		address:  cfg.address(),
		resolver: resolver,
		logger:   loglib.NewNoopLogger(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.readTimeout()
	e.Server.WriteTimeout = cfg.writeTimeout()

	e.Use(middleware.Recover())

	e.GET("/_field_caps", s.fieldCaps)
	e.GET("/:indexPattern/_field_caps", s.fieldCaps)

	s.server = e

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Server) {
		s.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "fieldcaps_server",
		})
	}
}

// Start will start the field capabilities server. This call is blocking.
func (s *Server) Start() error {
	s.logger.Info(fmt.Sprintf("field capabilities server listening on: %s...", s.address))
	return s.server.Start(s.address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) fieldCaps(c echo.Context) error {
	req := &fieldcaps.Request{
		// no path pattern means all indices
		IndexPattern: "*",
	}
	if pattern := c.Param("indexPattern"); pattern != "" {
		req.IndexPattern = pattern
	}
	if fields := c.QueryParam("fields"); fields != "" {
		req.FieldPatterns = splitFieldPatterns(fields)
	}
	if meta := c.QueryParam("include_metadata"); meta != "" {
		includeMetadata, err := strconv.ParseBool(meta)
		if err != nil {
			return s.errorJSON(c, http.StatusBadRequest, fmt.Errorf("invalid include_metadata value: %w", err))
		}
		req.IncludeMetadata = includeMetadata
	}

	s.logger.Trace("request received on _field_caps endpoint", loglib.Fields{
		loglib.IndexPatternField: req.IndexPattern,
		loglib.FieldPatternField: req.FieldPatterns,
	})

	result, err := s.resolver.Resolve(c.Request().Context(), req)
	if err != nil {
		var notFound fieldcaps.ErrIndexNotFound
		switch {
		case errors.As(err, &notFound):
			return s.errorJSON(c, http.StatusNotFound, err)
		case errors.Is(err, fieldcaps.ErrEmptyIndexPattern):
			return s.errorJSON(c, http.StatusBadRequest, err)
		default:
			return s.errorJSON(c, http.StatusInternalServerError, err)
		}
	}

	// marshal outside of echo to guarantee deterministic key ordering
	body, err := jsonlib.Marshal(result)
	if err != nil {
		return s.errorJSON(c, http.StatusInternalServerError, err)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (s *Server) errorJSON(c echo.Context, status int, err error) error {
	if status >= http.StatusInternalServerError {
		s.logger.Error(err, "field capabilities request failed")
	}
	return c.JSON(status, errorResponse{
		Error:  err.Error(),
		Status: status,
	})
}

func splitFieldPatterns(fields string) []string {
	patterns := []string{}
	for _, pattern := range strings.Split(fields, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}
