package core

import (
	"embed"

	"github.com/wingtrack/wingtrack/modules/core/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/core/presentation/controllers"
	"github.com/wingtrack/wingtrack/modules/core/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/spotlight"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	cadets := persistence.NewCadetRepository()
	search := spotlight.New(spotlight.DefaultLimit)
	search.Register(&cadetDataSource{repo: cadets})

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewTenantService(persistence.NewTenantRepository(), app.EventPublisher()),
		services.NewCadetService(cadets, app.EventPublisher()),
		search,
	)
	app.RegisterControllers(
		controllers.NewCadetAPIController(app),
		controllers.NewSearchAPIController(app),
		controllers.NewHealthController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
