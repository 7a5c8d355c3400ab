// Package http exposes the dispatch REST API and the websocket event feed.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dispatch/internal/adapters/out/ws"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/job"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createJobHandler            commands.CreateJobCommandHandler
	assignJobHandler            commands.AssignJobCommandHandler
	updateJobStatusHandler      commands.UpdateJobStatusCommandHandler
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler

	getActiveJobsHandler queries.GetActiveJobsQueryHandler
	getAllDriversHandler queries.GetAllDriversQueryHandler

	hub          *ws.Hub
	uowFactory   ports.UnitOfWorkFactory
	tokenManager *TokenManager
	logger       *slog.Logger
	upgrader     websocket.Upgrader
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createJobHandler commands.CreateJobCommandHandler,
	assignJobHandler commands.AssignJobCommandHandler,
	updateJobStatusHandler commands.UpdateJobStatusCommandHandler,
	updateDriverLocationHandler commands.UpdateDriverLocationCommandHandler,
	getActiveJobsHandler queries.GetActiveJobsQueryHandler,
	getAllDriversHandler queries.GetAllDriversQueryHandler,
	hub *ws.Hub,
	uowFactory ports.UnitOfWorkFactory,
	tokenManager *TokenManager,
	logger *slog.Logger,
) *Server {
	return &Server{
		createJobHandler:            createJobHandler,
		assignJobHandler:            assignJobHandler,
		updateJobStatusHandler:      updateJobStatusHandler,
		updateDriverLocationHandler: updateDriverLocationHandler,
		getActiveJobsHandler:        getActiveJobsHandler,
		getAllDriversHandler:        getAllDriversHandler,
		hub:                         hub,
		uowFactory:                  uowFactory,
		tokenManager:                tokenManager,
		logger:                      logger.With("component", "http_server"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1", AuthMiddleware(s.tokenManager))
	api.POST("/jobs", s.CreateJob)
	api.GET("/jobs", s.GetJobs)
	api.PATCH("/jobs/:id/assign", s.AssignJob)
	api.PATCH("/jobs/:id/status", s.UpdateJobStatus)
	api.GET("/drivers", s.GetDrivers)
	api.PATCH("/drivers/:id/location", s.UpdateDriverLocation)

	e.GET("/ws/dispatch", s.DispatchWS, AuthMiddleware(s.tokenManager))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// CreateJob handles POST /api/v1/jobs - registers a new transport job.
// Operators and admins only.
func (s *Server) CreateJob(ctx echo.Context) error {
	if err := s.requireDispatcherRole(ctx); err != nil {
		return err
	}

	var body createJobRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, err := kernel.UUIDFromString(body.CustomerID)
	if err != nil {
		return badRequest(ctx, "customer_id must be a valid UUID")
	}

	var pickup *kernel.GeoPoint
	if body.Pickup != nil {
		point, err := kernel.NewGeoPoint(body.Pickup.Latitude, body.Pickup.Longitude)
		if err != nil {
			return respondError(ctx, err)
		}
		pickup = &point
	}

	command, err := commands.NewCreateJobCommand(kernel.NewUUID(), customerID,
		body.PickupAddress, body.DropoffAddress, pickup, body.ScheduledFor)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createJobHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toJobResponse(created))
}

// GetJobs handles GET /api/v1/jobs - lists jobs that are not yet completed.
func (s *Server) GetJobs(ctx echo.Context) error {
	query := queries.NewGetActiveJobsQuery()

	jobs, err := s.getActiveJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("failed to retrieve jobs", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "failed to retrieve jobs",
		})
	}

	response := make([]jobResponse, len(jobs))
	for i, item := range jobs {
		response[i] = jobResponse{
			ID:             item.ID.String(),
			CustomerID:     item.CustomerID.String(),
			PickupAddress:  item.PickupAddress,
			DropoffAddress: item.DropoffAddress,
			Status:         item.Status,
		}
		if item.Pickup != nil {
			response[i].Pickup = &geoPointBody{
				Latitude:  item.Pickup.Latitude(),
				Longitude: item.Pickup.Longitude(),
			}
		}
		if item.AssignedDriverID != nil {
			id := item.AssignedDriverID.String()
			response[i].AssignedDriverID = &id
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// AssignJob handles PATCH /api/v1/jobs/:id/assign - binds a driver to a job,
// either an explicit one or the nearest available. Operators and admins only.
func (s *Server) AssignJob(ctx echo.Context) error {
	if err := s.requireDispatcherRole(ctx); err != nil {
		return err
	}

	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "job id must be a valid UUID")
	}

	var body assignJobRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	var driverID *kernel.UUID
	if body.DriverID != nil {
		id, err := kernel.UUIDFromString(*body.DriverID)
		if err != nil {
			return badRequest(ctx, "driver_id must be a valid UUID")
		}
		driverID = &id
	}

	command, err := commands.NewAssignJobCommand(jobID, driverID)
	if err != nil {
		return respondError(ctx, err)
	}

	assigned, err := s.assignJobHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toJobResponse(assigned))
}

// UpdateJobStatus handles PATCH /api/v1/jobs/:id/status - advances the job
// lifecycle. Drivers may only advance jobs assigned to them.
func (s *Server) UpdateJobStatus(ctx echo.Context) error {
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "job id must be a valid UUID")
	}

	var body updateJobStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	nextStatus, err := job.StatusFromString(body.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	command, err := commands.NewUpdateJobStatusCommand(jobID, nextStatus, requester)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateJobStatusHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toJobResponse(updated))
}

// GetDrivers handles GET /api/v1/drivers - lists all drivers with their
// last known position.
func (s *Server) GetDrivers(ctx echo.Context) error {
	query := queries.NewGetAllDriversQuery()

	drivers, err := s.getAllDriversHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Error("failed to retrieve drivers", "error", err)
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "failed to retrieve drivers",
		})
	}

	response := make([]driverResponse, len(drivers))
	for i, item := range drivers {
		response[i] = driverResponse{
			ID:        item.ID.String(),
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Phone:     item.Phone,
			Status:    item.Status,
			LastGPSAt: item.LastGPSAt,
		}
		if item.Location != nil {
			response[i].Location = &geoPointBody{
				Latitude:  item.Location.Latitude(),
				Longitude: item.Location.Longitude(),
			}
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateDriverLocation handles PATCH /api/v1/drivers/:id/location - records
// a GPS report. Drivers may only report for their own record.
func (s *Server) UpdateDriverLocation(ctx echo.Context) error {
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	driverID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "driver id must be a valid UUID")
	}

	var body updateDriverLocationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	location, err := kernel.NewGeoPoint(body.Latitude, body.Longitude)
	if err != nil {
		return respondError(ctx, err)
	}

	command, err := commands.NewUpdateDriverLocationCommand(driverID, location, requester)
	if err != nil {
		return respondError(ctx, err)
	}

	updated, err := s.updateDriverLocationHandler.Handle(ctx.Request().Context(), command)
	if err != nil {
		return respondError(ctx, err)
	}

	response := driverResponse{
		ID:        updated.ID().String(),
		FirstName: updated.FirstName(),
		LastName:  updated.LastName(),
		Phone:     updated.Phone(),
		Status:    updated.Status().String(),
		LastGPSAt: updated.LastGPSAt(),
	}
	if loc := updated.Location(); loc != nil {
		response.Location = &geoPointBody{Latitude: loc.Latitude(), Longitude: loc.Longitude()}
	}
	return ctx.JSON(http.StatusOK, response)
}

// DispatchWS handles GET /ws/dispatch - upgrades the connection and
// subscribes the caller to dispatch events. Drivers only receive events
// addressed to them.
func (s *Server) DispatchWS(ctx echo.Context) error {
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return unauthorized(ctx)
	}

	driverID := ""
	if requester.IsDriver() {
		uow := s.uowFactory.Create()
		record, err := uow.DriverRepository().GetByAccount(ctx.Request().Context(), requester.AccountID())
		if err != nil {
			return ctx.JSON(http.StatusForbidden, errorResponse{
				Code:    http.StatusForbidden,
				Message: "no driver record for this account",
			})
		}
		driverID = record.ID().String()
	}

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	client := ws.NewClient(kernel.NewUUID().String(), driverID, conn, s.logger)
	s.hub.Register(client)

	go client.WritePump()
	go func() {
		client.ReadPump()
		s.hub.Unregister(client.ID())
	}()
	return nil
}

func (s *Server) requireDispatcherRole(ctx echo.Context) error {
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return unauthorized(ctx)
	}
	if requester.IsDriver() {
		return ctx.JSON(http.StatusForbidden, errorResponse{
			Code:    http.StatusForbidden,
			Message: "operator or admin role required",
		})
	}
	return nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, errorResponse{
		Code:    http.StatusUnauthorized,
		Message: "authentication required",
	})
}

func toJobResponse(aggregate *job.Job) jobResponse {
	response := jobResponse{
		ID:             aggregate.ID().String(),
		CustomerID:     aggregate.CustomerID().String(),
		PickupAddress:  aggregate.PickupAddress(),
		DropoffAddress: aggregate.DropoffAddress(),
		Status:         aggregate.Status().String(),
		ScheduledFor:   aggregate.ScheduledFor(),
	}
	if pickup := aggregate.Pickup(); pickup != nil {
		response.Pickup = &geoPointBody{
			Latitude:  pickup.Latitude(),
			Longitude: pickup.Longitude(),
		}
	}
	if driverID := aggregate.AssignedDriver(); driverID != nil {
		id := driverID.String()
		response.AssignedDriverID = &id
	}
	return response
}
