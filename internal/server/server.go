package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/ecco/internal/core"
	"github.com/agenthands/ecco/internal/core/compare"
	"github.com/agenthands/ecco/internal/core/loader"
	"github.com/agenthands/ecco/internal/core/report"
)

type Server struct {
	Ecco   *core.Ecco
	Logger *slog.Logger
}

func NewServer(e *core.Ecco) *Server {
	return &Server{Ecco: e, Logger: e.Logger}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.Health)
	r.POST("/diff", s.Diff)
	r.POST("/compare", s.Compare)
	r.GET("/runs", s.Runs)
	r.GET("/metrics", gin.WrapH(s.Ecco.Metrics.Handler()))

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type DiffRequest struct {
	// Older and Newer are ontology documents.
	Older  string `json:"older" binding:"required"`
	Newer  string `json:"newer" binding:"required"`
	Naming string `json:"naming"`
	Format string `json:"format"`
}

func (s *Server) Diff(c *gin.Context) {
	var req DiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	older, err := loader.ParseOntology([]byte(req.Older), "older")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newer, err := loader.ParseOntology([]byte(req.Newer), "newer")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.Ecco.Diff(c.Request.Context(), older, newer)
	if err != nil {
		s.Logger.Error("diff failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute diff"})
		return
	}

	rep, err := s.Ecco.Report(res, req.Naming, older, newer)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Format {
	case "", "json":
		c.JSON(http.StatusOK, gin.H{"empty": res.ChangeSet.IsEmpty(), "report": rep})
	case "xml":
		s.writeXML(c, rep)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or xml"})
	}
}

func (s *Server) writeXML(c *gin.Context, rep *report.Report) {
	var buf bytes.Buffer
	if err := rep.WriteXML(&buf); err != nil {
		s.Logger.Error("failed to render report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", buf.Bytes())
}

type CompareRequest struct {
	Operation string `json:"operation" binding:"required"`
	Ontology  string `json:"ontology"`
	Sources   []struct {
		ID   string `json:"id" binding:"required"`
		Path string `json:"path" binding:"required"`
	} `json:"sources" binding:"required,min=1,dive"`
}

func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	inputs := make([]compare.Input, len(req.Sources))
	for i, src := range req.Sources {
		inputs[i] = compare.Input{ID: src.ID, Path: src.Path}
	}

	res, err := s.Ecco.Compare(c.Request.Context(), core.CompareRequest{
		Operation: req.Operation,
		Ontology:  req.Ontology,
		Inputs:    inputs,
	})
	if err != nil {
		if errors.Is(err, compare.ErrUnknownOperation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.Logger.Error("compare failed", "operation", req.Operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare sources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run":      res.Run,
		"clusters": res.Result.Clusters,
		"majority": res.Result.MajorityCluster(),
		"row":      res.Row.Record(),
	})
}

func (s *Server) Runs(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := s.Ecco.Runs(c.Request.Context(), c.Query("ontology"), limit)
	if err != nil {
		if errors.Is(err, core.ErrNoStore) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		s.Logger.Error("failed to list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
