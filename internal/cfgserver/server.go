// Package cfgserver exposes a database's resolved configuration over a
// small debug HTTP surface: dump the whole resolved mapping, look up a
// single setting, or push a runtime override.
package cfgserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowcfg/flowcfg/internal/logx"
	"github.com/flowcfg/flowcfg/internal/requestid"
	"github.com/flowcfg/flowcfg/pkg/cfgdb"
	"github.com/flowcfg/flowcfg/pkg/cfgerr"
)

// Server wraps a cfgdb.DB with a gin router.
type Server struct {
	db     *cfgdb.DB
	log    *logx.Logger
	Engine *gin.Engine
}

// New builds a Server over db. Routes are registered immediately.
func New(db *cfgdb.DB) *Server {
	s := &Server{db: db, log: logx.New("cfgserver"), Engine: gin.New()}
	s.Engine.Use(s.requestIDMiddleware(), s.loggingMiddleware(), gin.Recovery())
	s.routes()
	return s
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = requestid.New()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.Printf("%s %s -> %d [%s]", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.GetString("request_id"))
	}
}

func (s *Server) routes() {
	s.Engine.GET("/config", s.handleDump)
	s.Engine.GET("/config/:key", s.handleGet)
	s.Engine.POST("/config/runtime/:key", s.handleSetRuntime)
}

func (s *Server) handleDump(c *gin.Context) {
	dump, err := s.db.DumpJSON()
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(dump))
}

func (s *Server) handleGet(c *gin.Context) {
	key := c.Param("key")
	v, err := s.db.GetSetting(key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": v})
}

func (s *Server) handleSetRuntime(c *gin.Context) {
	key := c.Param("key")
	var body struct {
		Value any `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.db.SetSetting(key, body.Value)
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if cfgerr.Is(err, cfgerr.KindMissingKey) {
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
