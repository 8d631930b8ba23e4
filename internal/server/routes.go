package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/danmuck/dxftags/internal/codec"
	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tagio"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "0.1.0"

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.appeared).String(),
			"service": s.cfg.Server.Node,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.GET("/types", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"types": s.registry.Types()})
	})
	v1.POST("/convert", s.handleConvert)
	v1.POST("/inspect", s.handleInspect)
}

// requestOptions resolves the revision and error policy from the query,
// falling back to the server config.
func (s *Server) requestOptions(c *gin.Context) (revision.Revision, codec.Options, error) {
	rev := s.cfg.Revision()
	if raw := c.Query("revision"); raw != "" {
		r, err := revision.Parse(raw)
		if err != nil {
			return 0, codec.Options{}, err
		}
		rev = r
	}
	policy := s.cfg.Policy()
	if raw := c.Query("on_invalid"); raw != "" {
		p, err := codec.ParsePolicy(raw)
		if err != nil {
			return 0, codec.Options{}, err
		}
		policy = p
	}
	return rev, codec.Options{Registry: s.registry, Workers: s.cfg.Workers, OnInvalid: policy}, nil
}

func (s *Server) body(c *gin.Context) io.Reader {
	return http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxBodyBytes)
}

func (s *Server) handleConvert(c *gin.Context) {
	rev, opts, err := s.requestOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var out bytes.Buffer
	res, err := codec.Convert(c.Request.Context(), s.body(c), &out, rev, opts)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Header("X-Dxftags-Revision", res.Revision)
	c.Header("X-Dxftags-Records", strconv.Itoa(res.Records))
	c.Header("X-Dxftags-Written", strconv.Itoa(res.Written))
	c.Header("X-Dxftags-Skipped", strconv.Itoa(res.Skipped))
	c.Data(http.StatusOK, "application/dxf", out.Bytes())
}

type recordView struct {
	Type       string            `json:"type"`
	Table      string            `json:"table,omitempty"`
	Attributes map[string]string `json:"attributes"`
	Unclaimed  int               `json:"unclaimed"`
	XData      int               `json:"xdata"`
	Issues     []string          `json:"issues,omitempty"`
}

func viewOf(e entity.Entity, tableName string) recordView {
	ns := e.DXF()
	v := recordView{
		Type:       e.DXFType(),
		Table:      tableName,
		Attributes: make(map[string]string),
		Unclaimed:  len(ns.Unclaimed()),
		XData:      len(ns.XData()),
	}
	for _, sub := range e.Schema().Subclasses {
		for _, attr := range sub.Attributes {
			if val, ok := ns.Get(attr.Name); ok {
				v.Attributes[attr.Name] = val.String()
			}
		}
	}
	for _, issue := range ns.Issues() {
		v.Issues = append(v.Issues, issue.Error())
	}
	return v
}

func (s *Server) handleInspect(c *gin.Context) {
	_, opts, err := s.requestOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raw, err := tagio.Decode(s.body(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	doc, err := codec.Decode(c.Request.Context(), raw, opts)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	records := make([]recordView, 0, len(doc.Items))
	for _, t := range doc.Tables() {
		for _, e := range t.Entries {
			records = append(records, viewOf(e, t.Name()))
		}
	}
	for _, e := range doc.Entities() {
		records = append(records, viewOf(e, ""))
	}
	c.JSON(http.StatusOK, gin.H{"stats": doc.Stats, "records": records})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	var recErr codec.RecordError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, tagio.ErrSyntax):
		return http.StatusBadRequest
	case errors.As(err, &recErr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
