package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stowage-backend/api/controllers"
	"github.com/angelmondragon/stowage-backend/api/middleware"
	"github.com/angelmondragon/stowage-backend/internal/customers"
	"github.com/angelmondragon/stowage-backend/internal/inventory"
	"github.com/angelmondragon/stowage-backend/internal/rooms"
	"github.com/angelmondragon/stowage-backend/internal/warehouses"
	"github.com/angelmondragon/stowage-backend/pkg/config"
	"github.com/angelmondragon/stowage-backend/pkg/logger"
	"github.com/angelmondragon/stowage-backend/pkg/metrics"
)

type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   controllers.Pinger
	Metrics *metrics.HTTPMetrics

	Registry *prometheus.Registry

	Customers  customers.Service
	Warehouses warehouses.Service
	Rooms      rooms.Service
	Inventory  inventory.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Post("/", controllers.CustomerCreate(deps.Customers, deps.Logger))
		r.Get("/", controllers.CustomerList(deps.Customers, deps.Logger))
		r.Get("/email/{email}", controllers.CustomerGetByEmail(deps.Customers, deps.Logger))
		r.Route("/{customerId}", func(r chi.Router) {
			r.Get("/", controllers.CustomerGet(deps.Customers, deps.Logger))
			r.Patch("/", controllers.CustomerUpdate(deps.Customers, deps.Logger))
			r.Delete("/", controllers.CustomerDelete(deps.Customers, deps.Logger))
			r.Post("/verify", controllers.CustomerVerify(deps.Customers, deps.Logger))
		})
	})

	r.Route("/api/v1/warehouses", func(r chi.Router) {
		r.Post("/", controllers.WarehouseCreate(deps.Warehouses, deps.Logger))
		r.Get("/", controllers.WarehouseList(deps.Warehouses, deps.Logger))
		r.Route("/{warehouseId}", func(r chi.Router) {
			r.Get("/", controllers.WarehouseGet(deps.Warehouses, deps.Logger))
			r.Patch("/", controllers.WarehouseUpdate(deps.Warehouses, deps.Logger))
			r.Delete("/", controllers.WarehouseDelete(deps.Warehouses, deps.Logger))
			r.Get("/utilization", controllers.WarehouseUtilization(deps.Warehouses, deps.Logger))

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", controllers.RoomCreate(deps.Rooms, deps.Logger))
				r.Get("/", controllers.RoomList(deps.Rooms, deps.Logger))
				r.Route("/{roomId}", func(r chi.Router) {
					r.Get("/", controllers.RoomGet(deps.Rooms, deps.Logger))
					r.Patch("/", controllers.RoomUpdate(deps.Rooms, deps.Logger))
					r.Delete("/", controllers.RoomDelete(deps.Rooms, deps.Logger))
					r.Put("/status", controllers.RoomUpdateStatus(deps.Rooms, deps.Logger))
					r.Get("/conditions", controllers.RoomConditions(deps.Rooms, deps.Logger))
					r.Get("/availability", controllers.RoomAvailability(deps.Rooms, deps.Logger))
				})
			})

			r.Post("/inventory", controllers.InventoryAdd(deps.Inventory, deps.Logger))
		})
	})

	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/search", controllers.InventorySearch(deps.Inventory, deps.Logger))
		r.Route("/{itemId}", func(r chi.Router) {
			r.Get("/", controllers.InventoryGet(deps.Inventory, deps.Logger))
			r.Patch("/", controllers.InventoryUpdate(deps.Inventory, deps.Logger))
			r.Delete("/", controllers.InventoryDelete(deps.Inventory, deps.Logger))
			r.Post("/transfer", controllers.InventoryTransfer(deps.Inventory, deps.Logger))
			r.Get("/history", controllers.InventoryHistory(deps.Inventory, deps.Logger))
		})
	})

	return r
}
