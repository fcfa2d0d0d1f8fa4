package calendar

import (
	"embed"
	"time"

	corepersistence "github.com/wingtrack/wingtrack/modules/core/infrastructure/persistence"

	"github.com/wingtrack/wingtrack/modules/calendar/infrastructure/persistence"
	"github.com/wingtrack/wingtrack/modules/calendar/presentation/controllers"
	"github.com/wingtrack/wingtrack/modules/calendar/recurrence"
	"github.com/wingtrack/wingtrack/modules/calendar/services"
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
	limits := recurrence.Limits{
		MaxInstances: conf.Calendar.MaxInstances,
		Horizon:      time.Duration(conf.Calendar.HorizonDays) * 24 * time.Hour,
	}
	events := persistence.NewEventRepository()
	search := app.Service(spotlight.Spotlight{}).(*spotlight.Spotlight)
	search.Register(&eventDataSource{repo: events})

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewEventService(
			events,
			corepersistence.NewTenantRepository(),
			app.EventPublisher(),
			limits,
		),
	)
	app.RegisterControllers(
		controllers.NewCalendarAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "calendar"
}
