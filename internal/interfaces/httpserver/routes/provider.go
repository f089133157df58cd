package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pulsr-ai/lingua/internal/interfaces/httpserver/handlers"
	v1 "github.com/pulsr-ai/lingua/internal/interfaces/httpserver/routes/v1"
)

// Provider registers all versioned route groups.
type Provider struct {
	v1 *v1.Routes
}

// NewProvider builds the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		v1: v1.NewRoutes(handlerProvider),
	}
}

// Register attaches every route group to the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.v1.Register(engine)
}
