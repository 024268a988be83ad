package manager

import (
	"github.com/gin-gonic/gin"
)

// RouteGuards 各路由组的前置中间件。
type RouteGuards struct {
	Auth  gin.HandlerFunc
	Admin gin.HandlerFunc
	Inner gin.HandlerFunc
}

// RegisterAllRoutes 注册所有路由。
// /api 下的接口需要登录，/api/admin 额外要求管理员角色，/internal 供内部服务调用，运维接口挂在根路径。
func RegisterAllRoutes(router *gin.Engine, guards RouteGuards) {
	openApiGroup := router.Group("/api", guards.Auth)
	adminApiGroup := openApiGroup.Group("/admin", guards.Admin)
	innerApiGroup := router.Group("/internal", guards.Inner)
	opsApiGroup := router.Group("/")

	MustInitControllers(openApiGroup, adminApiGroup, innerApiGroup, opsApiGroup)
}
