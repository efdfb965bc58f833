package router

import "github.com/gin-gonic/gin"

// Module owns one feature's routes. Name is used in startup logs.
type Module interface {
	Name() string
	Register(rg *gin.RouterGroup)
}
