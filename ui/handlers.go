package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"zebu/adapters/report"
	"zebu/app"
	"zebu/domain/association"
	"zebu/domain/core"
	apperrors "zebu/internal/errors"
	"zebu/ports"

	"github.com/gin-gonic/gin"
)

// significanceRequest is the optional body of the significance routes
type significanceRequest struct {
	Permutations int    `json:"permutations"`
	Seed         *int64 `json:"seed"`
	PAdjust      string `json:"p_adjust"`
}

// respondError maps domain errors to a status and a JSON body
func (s *Server) respondError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}

// view drops the encoded dataset from responses
func view(result *association.Result) *association.Result {
	out := *result
	out.Data = nil
	return &out
}

func (s *Server) loadResult(c *gin.Context) (*association.Result, bool) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	result, err := s.service.Load(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return result, true
}

func (s *Server) handleList(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(c, core.NewParameterError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}
	summaries, err := s.service.List(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if summaries == nil {
		summaries = []ports.ResultSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"results": summaries})
}

func (s *Server) handleEstimate(c *gin.Context) {
	var req app.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, core.NewParameterError("body", err.Error()))
		return
	}
	result, err := s.service.Estimate(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view(result))
}

func (s *Server) handleGetResult(c *gin.Context) {
	result, ok := s.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view(result))
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.service.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePermutation(c *gin.Context) {
	s.handleSignificance(c, s.service.SignificancePermutation)
}

func (s *Server) handleAnalytic(c *gin.Context) {
	s.handleSignificance(c, s.service.SignificanceAnalytic)
}

type significanceFunc func(ctx context.Context, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error)

func (s *Server) handleSignificance(c *gin.Context, run significanceFunc) {
	var req significanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(c, core.NewParameterError("body", err.Error()))
		return
	}
	result, ok := s.loadResult(c)
	if !ok {
		return
	}
	opts := ports.SignificanceOptions{Permutations: req.Permutations, PAdjust: req.PAdjust}
	if req.Seed != nil {
		opts.Seed, opts.SeedSet = *req.Seed, true
	}
	assessed, err := run(c.Request.Context(), result, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view(assessed))
}

func (s *Server) handleGetField(c *gin.Context) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	value, err := s.service.Get(c.Request.Context(), id, c.Param("field"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": c.Param("field"), "value": value})
}

var contentTypes = map[report.Format]string{
	report.FormatText:     "text/plain; charset=utf-8",
	report.FormatCSV:      "text/csv; charset=utf-8",
	report.FormatMarkdown: "text/markdown; charset=utf-8",
	report.FormatHTML:     "text/html; charset=utf-8",
}

func (s *Server) handleReport(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatHTML)))
	if err != nil {
		s.respondError(c, err)
		return
	}
	result, ok := s.loadResult(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, result, format); err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypes[format], buf.Bytes())
}
