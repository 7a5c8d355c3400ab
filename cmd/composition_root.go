package cmd

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/ws"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
)

// CompositionRoot wires adapters into application use cases.
type CompositionRoot struct {
	gormDB        *gorm.DB
	uowFactory    postgres.GormUnitOfWorkFactory
	notifier      ports.DispatchNotifier
	locationCache ports.DriverLocationCache
	hub           *ws.Hub
	logger        *slog.Logger
}

// NewCompositionRoot builds the object graph. The notifier is typically a
// composite of the websocket hub notifier and the RabbitMQ publisher; the
// location cache may be nil when Redis is not configured.
func NewCompositionRoot(
	gormDB *gorm.DB,
	notifier ports.DispatchNotifier,
	locationCache ports.DriverLocationCache,
	hub *ws.Hub,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		notifier:      notifier,
		locationCache: locationCache,
		hub:           hub,
		logger:        logger,
	}
}

func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return &c.uowFactory
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	var f commands.JobUoWFactory = FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateJobCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateAssignJobCommandHandler() commands.AssignJobCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignJobCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateUpdateJobStatusCommandHandler() commands.UpdateJobStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	var df commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateJobStatusCommandHandler(f, df, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDriverLocationCommandHandler(f, c.locationCache, c.logger)
}

func (c *CompositionRoot) CreateAssignPendingJobCommandHandler() commands.AssignPendingJobCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignPendingJobCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateMarkStaleDriversOfflineCommandHandler(
	stalenessWindow time.Duration,
) commands.MarkStaleDriversOfflineCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkStaleDriversOfflineCommandHandler(f, stalenessWindow)
}

func (c *CompositionRoot) CreateGetActiveJobsQueryHandler() queries.GetActiveJobsQueryHandler {
	return queries.NewGetActiveJobsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllDriversQueryHandler() queries.GetAllDriversQueryHandler {
	return queries.NewGetAllDriversQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST and websocket surface.
func (c *CompositionRoot) CreateHTTPServer(tokenManager *httpadapter.TokenManager) *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateJobCommandHandler(),
		c.CreateAssignJobCommandHandler(),
		c.CreateUpdateJobStatusCommandHandler(),
		c.CreateUpdateDriverLocationCommandHandler(),
		c.CreateGetActiveJobsQueryHandler(),
		c.CreateGetAllDriversQueryHandler(),
		c.hub,
		c.UnitOfWorkFactory(),
		tokenManager,
		c.logger,
	)
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
