package modules

import (
	"github.com/wingtrack/wingtrack/modules/calendar"
	"github.com/wingtrack/wingtrack/modules/core"
	"github.com/wingtrack/wingtrack/modules/jobboard"
	"github.com/wingtrack/wingtrack/modules/records"
	"github.com/wingtrack/wingtrack/pkg/application"
)

// BuiltInModules is the full module set, in registration order. Core goes
// first so every other schema can reference tenants and cadets.
var BuiltInModules = []application.Module{
	core.NewModule(),
	calendar.NewModule(),
	jobboard.NewModule(),
	records.NewModule(),
}

func Load(app application.Application) error {
	return application.Load(app, BuiltInModules...)
}
