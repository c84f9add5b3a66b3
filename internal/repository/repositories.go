package repository

import (
	"github.com/deppfellow/conference-central/internal/server"
)

// NewRepositories builds the Store over the server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return newRepositories(s.DB.Pool, s.DB.Pool)
}
