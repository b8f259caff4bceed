package navigate

import "mcp-agent/internal/application/port/output"

// scope tracks resources this package created so they are closed exactly once,
// newest first.
type scope struct {
	closers []namedCloser
	logger  output.LoggerPort
}

type namedCloser struct {
	name  string
	close func() error
}

func (s *scope) own(name string, close func() error) {
	s.closers = append(s.closers, namedCloser{name: name, close: close})
}

func (s *scope) release() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.close(); err != nil {
			s.logger.Warn("Failed to close browser resource", "resource", c.name, "error", err)
		}
	}
	s.closers = nil
}
