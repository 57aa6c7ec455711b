package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipcast/types"
)

// registerJobRoutes registers the publish-job endpoints.
func (s *Server) registerJobRoutes(r *gin.Engine) {
	r.POST("/api/jobs", s.handleStartJob)
	r.GET("/api/jobs/:uuid/status", s.handleJobStatus)
}

// handleStartJob accepts a PublishJob and runs it asynchronously. The
// response carries the job UUID for status polling.
func (s *Server) handleStartJob(c *gin.Context) {
	var job types.PublishJob
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if job.FilePath == "" || job.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path and platform are required"})
		return
	}
	if job.UUID == "" {
		job.UUID = uuid.New().String()
	}

	// Register before spawning so an immediate status poll finds the job.
	s.processor.Register(job.UUID)

	go func(job types.PublishJob) {
		if err := s.processor.ProcessJob(context.Background(), job); err != nil {
			log.Printf("job %s failed: %v", job.UUID, err)
		}
	}(job)

	c.JSON(http.StatusAccepted, gin.H{"uuid": job.UUID})
}

// handleJobStatus returns the state snapshot for a job.
func (s *Server) handleJobStatus(c *gin.Context) {
	status, ok := s.processor.Status(c.Param("uuid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// registerHealthRoutes registers health check endpoints.
func registerHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
