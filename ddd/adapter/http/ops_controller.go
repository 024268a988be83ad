package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"messaging-service/internal/resource"
	"messaging-service/pkg/manager"
)

const serviceName = "messaging-service"

var (
	opsControllerOnce sync.Once
	singletonOpsCtrl  manager.Controller
)

func init() {
	manager.RegisterControllerPlugin(&OpsControllerPlugin{})
}

// OpsControllerPlugin 注册健康检查与指标接口。
type OpsControllerPlugin struct{}

func (p *OpsControllerPlugin) Name() string {
	return "opsController"
}

func (p *OpsControllerPlugin) MustCreateController() manager.Controller {
	opsControllerOnce.Do(func() {
		singletonOpsCtrl = NewOpsController(resource.HealthChecks)
	})
	return singletonOpsCtrl
}

// Check is one dependency entry of the health reply.
type Check struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Service   string           `json:"service"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

type opsControllerImpl struct {
	checks func() []resource.NamedHealthCheck
}

func NewOpsController(checks func() []resource.NamedHealthCheck) manager.Controller {
	return &opsControllerImpl{checks: checks}
}

func (c *opsControllerImpl) RegisterOpenApi(group *gin.RouterGroup)  {}
func (c *opsControllerImpl) RegisterAdminApi(group *gin.RouterGroup) {}
func (c *opsControllerImpl) RegisterInnerApi(group *gin.RouterGroup) {}

func (c *opsControllerImpl) RegisterOpsApi(group *gin.RouterGroup) {
	group.GET("/health", c.Health)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Health pings every registered dependency; any failure degrades the reply to 503.
func (c *opsControllerImpl) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	healthy := true
	for _, hc := range c.checks() {
		start := time.Now()
		if err := hc.Check(reqCtx); err != nil {
			checks[hc.Name] = Check{Status: "fail", Message: "connection failed"}
			healthy = false
			continue
		}
		checks[hc.Name] = Check{Status: "pass", Latency: time.Since(start).String()}
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	ctx.JSON(code, HealthResponse{
		Status:    status,
		Service:   serviceName,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
