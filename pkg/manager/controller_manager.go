package manager

import (
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"

	"messaging-service/pkg/logger"
)

type (
	ControllerPlugin interface {
		Name() string
		MustCreateController() Controller
	}

	Controller interface {
		// RegisterOpenApi attaches routes open to any authenticated user.
		RegisterOpenApi(group *gin.RouterGroup)
		// RegisterAdminApi attaches routes restricted to admins.
		RegisterAdminApi(group *gin.RouterGroup)
		// RegisterInnerApi attaches service-to-service routes.
		RegisterInnerApi(group *gin.RouterGroup)
		// RegisterOpsApi attaches unauthenticated operational routes.
		RegisterOpsApi(group *gin.RouterGroup)
	}
)

var (
	controllerPlugins = map[string]ControllerPlugin{}
)

// RegisterControllerPlugin registers a controller plugin.
func RegisterControllerPlugin(p ControllerPlugin) {
	if p.Name() == "" {
		panic(fmt.Errorf("%T: empty name", p))
	}
	if existedPlugin, existed := controllerPlugins[p.Name()]; existed {
		panic(fmt.Errorf("%T and %T got same name: %s", p, existedPlugin, p.Name()))
	}
	controllerPlugins[p.Name()] = p
}

// MustInitControllers initialises all registered controllers and attaches routes.
func MustInitControllers(openApiGroup, adminApiGroup, innerApiGroup, opsApiGroup *gin.RouterGroup) {
	names := make([]string, 0, len(controllerPlugins))
	for n := range controllerPlugins {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		controller := controllerPlugins[n].MustCreateController()
		if openApiGroup != nil {
			controller.RegisterOpenApi(openApiGroup)
		}
		if adminApiGroup != nil {
			controller.RegisterAdminApi(adminApiGroup)
		}
		if innerApiGroup != nil {
			controller.RegisterInnerApi(innerApiGroup)
		}
		if opsApiGroup != nil {
			controller.RegisterOpsApi(opsApiGroup)
		}
		logger.Infof("Register controller: plugin=%s", n)
	}
}
