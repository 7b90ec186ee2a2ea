package debugserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/observability"
	"github.com/kbukum/recordkit/validation"
	"github.com/kbukum/recordkit/version"
)

func (s *Server) registerRoutes() {
	s.engine.GET("/records", s.listRecords)
	s.engine.GET("/records/:name", s.getRecord)
	s.engine.GET("/leases", s.listLeases)
	s.engine.GET("/leases/:id", s.getLease)
	s.engine.GET("/health", s.health)
	s.engine.GET("/version", versionInfo)
}

func (s *Server) listRecords(c *gin.Context) {
	RespondList(c, s.records.Snapshot())
}

func (s *Server) getRecord(c *gin.Context) {
	name := c.Param("name")
	if !validation.IsRecordName(name, s.records.Config().MaxNameLength) {
		RespondWithError(c, errors.Validation(fmt.Sprintf("%q is not a valid record name", name)))
		return
	}
	info, ok := s.records.Lookup(name)
	if !ok {
		RespondWithError(c, errors.NotFound("record", name))
		return
	}
	RespondOK(c, info)
}

func (s *Server) listLeases(c *gin.Context) {
	RespondList(c, s.records.Leases())
}

func (s *Server) getLease(c *gin.Context) {
	id, err := validation.ValidateUUID("id", c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	info, ok := s.records.LookupLease(id.String())
	if !ok {
		RespondWithError(c, errors.NotFound("lease", id.String()))
		return
	}
	RespondOK(c, info)
}

func (s *Server) health(c *gin.Context) {
	var components []observability.Health
	if s.checker != nil {
		components = s.checker(c.Request.Context())
	}
	sh := observability.NewServiceHealth(s.service, version.Short(), components...)

	status := http.StatusOK
	if sh.Status == observability.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, sh)
}

func versionInfo(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
