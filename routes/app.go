package routes

import (
	"time"

	"salonsmart-backend/booking"
	"salonsmart-backend/config"
	"salonsmart-backend/controllers"
	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired services of one running backend.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *repository.Store
	DB       *gorm.DB
	Tokens   *utils.TokenManager
	Metrics  *config.Metrics
	Sessions *booking.Sessions

	Auth         *services.AuthService
	Catalog      *services.CatalogService
	Staff        *services.StaffService
	Appointments *services.AppointmentService
	Booking      *services.BookingService
	Billing      *services.BillingService
	Expenses     *services.ExpenseService
	Dashboard    *services.DashboardService
	Reports      *services.ReportService
	Reminders    *services.ReminderService
}

// AppOptions override process-wide defaults, mostly for tests.
type AppOptions struct {
	// Registerer receives the metrics; nil disables them.
	Registerer prometheus.Registerer
	Sender     services.Sender
	Now        func() time.Time
}

func NewApp(cfg *config.Config, logger *zap.Logger, store *repository.Store, db *gorm.DB, opts AppOptions) (*App, error) {
	tokens, err := utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.TokenExpiry())
	if err != nil {
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		DB:       db,
		Tokens:   tokens,
		Sessions: booking.NewSessions(now),
	}

	var recorder services.Recorder
	if cfg.Metrics.Enabled && opts.Registerer != nil {
		a.Metrics = config.NewMetrics(cfg.Metrics.ServiceName, opts.Registerer)
		recorder = a.Metrics
	}

	sender := opts.Sender
	if sender == nil {
		twilioCfg := services.TwilioConfig{
			AccountSID:     cfg.Reminders.TwilioAccountSID,
			AuthToken:      cfg.Reminders.TwilioAuthToken,
			PhoneNumber:    cfg.Reminders.TwilioPhoneNumber,
			WhatsAppNumber: cfg.Reminders.TwilioWhatsAppNumber,
		}
		if twilioCfg.Enabled() {
			sender = services.NewTwilioSender(twilioCfg)
		} else {
			logger.Info("twilio not configured, reminders will only be logged")
			sender = services.NewLogSender(logger)
		}
	}

	validate := utils.NewValidator()
	a.Auth = services.NewAuthService(store.Users, tokens, validate, logger, services.AuthConfig{
		DemoMode:   cfg.Auth.DemoMode,
		DemoRole:   models.Role(cfg.Auth.DemoRole),
		BcryptCost: cfg.Auth.BcryptCost,
		Now:        now,
	})
	a.Catalog = services.NewCatalogService(store.Services, validate, logger)
	a.Staff = services.NewStaffService(store.Stylists, validate, logger)
	a.Appointments = services.NewAppointmentService(store, validate, logger, recorder, services.AppointmentServiceConfig{
		PreventDoubleBooking: cfg.Booking.PreventDoubleBooking,
		Now:                  now,
	})
	a.Booking = services.NewBookingService(a.Sessions, a.Catalog, a.Staff, a.Appointments, logger)
	a.Billing = services.NewBillingService(store, validate, logger, services.BillingConfig{
		DefaultTax:       cfg.Billing.DefaultTax,
		OverdueAfterDays: cfg.Billing.OverdueAfterDays,
		Now:              now,
	})
	a.Expenses = services.NewExpenseService(store, validate, logger, now)
	a.Dashboard = services.NewDashboardService(store, a.Appointments, logger, now)
	a.Reports = services.NewReportService(store.Reports, logger, now)
	a.Reminders = services.NewReminderService(store, sender, validate, logger, recorder, now)
	return a, nil
}

// Scheduler builds the cron jobs for this app.
func (a *App) Scheduler() (*services.Scheduler, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return nil, err
	}
	return services.NewScheduler(services.SchedulerConfig{
		ReminderSpec: a.Config.Reminders.Spec,
		OverdueSpec:  a.Config.Billing.OverdueSpec,
		SweepSpec:    a.Config.Booking.SweepSpec,
		SessionIdle:  a.Config.SessionIdle(),
		Location:     loc,
	}, a.Reminders, a.Billing, a.Sessions, a.Logger)
}

// Router builds the HTTP handlers over the app's services.
func (a *App) Router(gatherer prometheus.Gatherer) *gin.Engine {
	log := a.Logger
	return SetupRouter(Deps{
		Config:   a.Config,
		Logger:   log,
		Tokens:   a.Tokens,
		Metrics:  a.Metrics,
		Gatherer: gatherer,
		DB:       a.DB,

		Auth:         controllers.NewAuthController(a.Auth, log),
		Services:     controllers.NewServiceController(a.Catalog, log),
		Stylists:     controllers.NewStylistController(a.Staff, log),
		Appointments: controllers.NewAppointmentController(a.Appointments, log),
		Booking:      controllers.NewBookingController(a.Booking, log),
		Invoices:     controllers.NewInvoiceController(a.Billing, log),
		Expenses:     controllers.NewExpenseController(a.Expenses, log),
		Dashboard:    controllers.NewDashboardController(a.Dashboard, log),
		Reports:      controllers.NewReportController(a.Reports, log),
		Reminders:    controllers.NewReminderController(a.Reminders, log),
	})
}
