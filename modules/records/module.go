package records

import (
	"embed"

	"github.com/wingtrack/wingtrack/modules/records/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/records/presentation/controllers"
	"github.com/wingtrack/wingtrack/modules/records/services"
	"github.com/wingtrack/wingtrack/pkg/application"
)

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewServiceHoursService(persistence.NewServiceHoursRepository(), app.EventPublisher()),
		services.NewPTTestService(persistence.NewPTTestRepository(), app.EventPublisher()),
		services.NewInspectionService(persistence.NewInspectionRepository(), app.EventPublisher()),
	)
	app.RegisterControllers(
		controllers.NewRecordsAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "records"
}
