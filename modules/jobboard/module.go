package jobboard

import (
	"embed"

	"github.com/wingtrack/wingtrack/modules/jobboard/chart"
	"github.com/wingtrack/wingtrack/modules/jobboard/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/jobboard/presentation/controllers"
	"github.com/wingtrack/wingtrack/modules/jobboard/services"
	"github.com/wingtrack/wingtrack/pkg/application"
	"github.com/wingtrack/wingtrack/pkg/configuration"
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
	conf := configuration.Use()
	assignments := persistence.NewAssignmentRepository()
	positions := persistence.NewPositionRepository()
	engine := chart.NewLayoutEngine(chart.MustKeywordClassifier())

	search := app.Service(spotlight.Spotlight{}).(*spotlight.Spotlight)
	search.Register(&roleDataSource{repo: assignments})

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewAssignmentService(assignments, app.EventPublisher()),
		services.NewChartService(assignments, positions, engine, conf.Chart.MaxCollisionIterations),
	)
	app.RegisterControllers(
		controllers.NewJobBoardAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "jobboard"
}
