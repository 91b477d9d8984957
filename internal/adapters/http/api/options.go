package api

import "github.com/okian/salarypredict/pkg/logger"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLegacyStatus answers validation and prediction failures with 200 OK,
// as the first deployment of this API did. Bodies are unchanged.
func WithLegacyStatus(enabled bool) Option {
	return func(s *Server) {
		s.legacyStatus = enabled
	}
}

// WithMaxBodyBytes caps the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger handlers report through.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
