package main

import (
	"fmt"
	"net"
	"strconv"

	villageshttp "github.com/fwojciec/villages/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = newDiscardLogger()
	}

	s := villageshttp.NewServer()
	s.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	s.Logger = logger
	s.AllowedOrigins = c.Origins
	s.RecordService = deps.Records
	s.Merger = deps.Merger
	s.Submitter = deps.Submitter
	s.Pinger = deps.Pinger
	if c.Rate > 0 {
		s.Limiter = villageshttp.NewClientLimiter(c.Rate, c.Burst)
	}

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: Set PORT to use a different port\n")
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	fmt.Fprintf(deps.Stdout, "Server running at http://localhost:%d/\n", s.Port())

	<-deps.Ctx.Done()

	logger.Info("shutting down")
	return s.Close()
}
