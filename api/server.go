package api

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"clipcast/processor"
)

// Server exposes the publish pipeline over HTTP and optionally sweeps the
// input directory on a cron schedule.
type Server struct {
	processor *processor.Processor
	cron      *cron.Cron
}

// NewServer creates the API server around a processor.
func NewServer(proc *processor.Processor) *Server {
	return &Server{
		processor: proc,
		cron:      cron.New(),
	}
}

// Router constructs a gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	s.registerJobRoutes(r)
	registerHealthRoutes(r)
	return r
}

// ScheduleBatch registers a cron entry that sweeps inputDir for job files.
// Spec uses the standard 5-field cron format.
func (s *Server) ScheduleBatch(spec, inputDir string) error {
	_, err := s.cron.AddFunc(spec, func() {
		log.Printf("scheduled sweep of %s", inputDir)
		if err := s.processor.ProcessFromDirectory(context.Background(), inputDir); err != nil {
			log.Printf("scheduled sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("batch schedule registered: %s", spec)
	return nil
}

// StopSchedule stops the cron scheduler, waiting for a running sweep.
func (s *Server) StopSchedule() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
