package router

import "github.com/gin-gonic/gin"

// Registry collects modules and mounts them: API modules under /api, page modules at the root.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
	pages       []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	api := engine.Group("/api")
	return &Registry{Engine: engine, API: api}
}

// Use adds middleware to the /api group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) AddPages(mod Module) {
	r.pages = append(r.pages, mod)
}

// RegisterAll mounts every module and returns their names in mount order.
func (r *Registry) RegisterAll() []string {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	names := make([]string, 0, len(r.modules)+len(r.pages))
	for _, m := range r.modules {
		m.Register(r.API)
		names = append(names, "api/"+m.Name())
	}
	for _, m := range r.pages {
		m.Register(&r.Engine.RouterGroup)
		names = append(names, m.Name())
	}
	return names
}
