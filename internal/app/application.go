package app

import (
	"github.com/verdeviva/plantcare/internal/app/services/auth"
	caresvc "github.com/verdeviva/plantcare/internal/app/services/cares"
	"github.com/verdeviva/plantcare/internal/app/services/dashboard"
	"github.com/verdeviva/plantcare/internal/app/services/notifications"
	plantsvc "github.com/verdeviva/plantcare/internal/app/services/plants"
	"github.com/verdeviva/plantcare/internal/app/storage"
	"github.com/verdeviva/plantcare/internal/app/storage/memory"
	"github.com/verdeviva/plantcare/internal/config"
	"github.com/verdeviva/plantcare/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to a
// shared in-memory implementation.
type Stores struct {
	Plants storage.PlantStore
	Cares  storage.CareStore
	Users  storage.UserStore
}

// Application ties the domain services together.
type Application struct {
	log *logger.Logger

	Auth          *auth.Service
	Plants        *plantsvc.Service
	Cares         *caresvc.Service
	Notifications *notifications.Service
	Dashboard     *dashboard.Service
}

// New builds a fully initialised application with the provided stores.
func New(cfg *config.Config, stores Stores, log *logger.Logger) *Application {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Plants == nil {
		stores.Plants = mem
	}
	if stores.Cares == nil {
		stores.Cares = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}

	authSvc := auth.New(stores.Users, log)
	plantSvc := plantsvc.New(stores.Plants, log)
	careSvc := caresvc.New(stores.Plants, stores.Cares, log,
		caresvc.WithHorizon(cfg.Care.HorizonDays),
		caresvc.WithDetailHorizon(cfg.Care.DetailHorizonDays),
	)
	notificationSvc := notifications.New(plantSvc, careSvc, log)
	dashboardSvc := dashboard.New(plantSvc, careSvc, notificationSvc, log)

	return &Application{
		log:           log,
		Auth:          authSvc,
		Plants:        plantSvc,
		Cares:         careSvc,
		Notifications: notificationSvc,
		Dashboard:     dashboardSvc,
	}
}
