package routes

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"salonsmart-backend/config"
	"salonsmart-backend/controllers"
	"salonsmart-backend/models"
	"salonsmart-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the router needs. Metrics and DB may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Tokens   *utils.TokenManager
	Metrics  *config.Metrics
	Gatherer prometheus.Gatherer
	DB       *gorm.DB

	Auth         *controllers.AuthController
	Services     *controllers.ServiceController
	Stylists     *controllers.StylistController
	Appointments *controllers.AppointmentController
	Booking      *controllers.BookingController
	Invoices     *controllers.InvoiceController
	Expenses     *controllers.ExpenseController
	Dashboard    *controllers.DashboardController
	Reports      *controllers.ReportController
	Reminders    *controllers.ReminderController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	slow := time.Duration(d.Config.Server.SlowRequestMs) * time.Millisecond
	r.Use(config.PerformanceLogger(d.Logger, slow))

	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		gatherer := d.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		r.GET(d.Config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/healthz", controllers.Healthz(d.DB))

	authMW := utils.AuthMiddleware(d.Tokens)
	operator := utils.RequireRole(models.RoleAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)

		auth.Use(authMW)
		auth.GET("/me", d.Auth.Me)
		auth.POST("/role", d.Auth.SwitchRole)
	}

	api := r.Group("/api")
	api.Use(authMW)
	{
		// Service routes
		services := api.Group("/services")
		{
			services.POST("", d.Services.CreateService)
			services.GET("", d.Services.GetServices)
			services.GET("/:id", d.Services.GetService)
			services.PUT("/:id", d.Services.UpdateService)
			services.DELETE("/:id", d.Services.DeleteService)
		}

		stylists := api.Group("/stylists")
		{
			stylists.POST("", d.Stylists.CreateStylist)
			stylists.GET("", d.Stylists.GetStylists)
			stylists.GET("/:id", d.Stylists.GetStylist)
			stylists.PUT("/:id", d.Stylists.UpdateStylist)
			stylists.DELETE("/:id", d.Stylists.DeleteStylist)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", d.Appointments.CreateAppointment)
			appointments.GET("", d.Appointments.GetAppointments)
			appointments.GET("/today", d.Appointments.GetTodayAppointments)
			appointments.GET("/:id", d.Appointments.GetAppointment)
			appointments.PUT("/:id", d.Appointments.UpdateAppointment)
			appointments.DELETE("/:id", d.Appointments.DeleteAppointment)
		}
		api.GET("/my/appointments", d.Appointments.GetMyAppointments)

		// Booking wizard
		bookingGroup := api.Group("/booking")
		{
			bookingGroup.GET("/slots", d.Booking.GetSlots)
			bookingGroup.POST("/sessions", d.Booking.OpenSession)
			bookingGroup.GET("/sessions/:id", d.Booking.GetSession)
			bookingGroup.PUT("/sessions/:id/service", d.Booking.SelectService)
			bookingGroup.PUT("/sessions/:id/stylist", d.Booking.SelectStylist)
			bookingGroup.PUT("/sessions/:id/datetime", d.Booking.SelectDateTime)
			bookingGroup.PUT("/sessions/:id/notes", d.Booking.SetNotes)
			bookingGroup.POST("/sessions/:id/next", d.Booking.Next)
			bookingGroup.POST("/sessions/:id/back", d.Booking.Back)
			bookingGroup.POST("/sessions/:id/submit", d.Booking.Submit)
			bookingGroup.DELETE("/sessions/:id", d.Booking.CloseSession)
		}

		// Invoice routes
		invoices := api.Group("/invoices", operator)
		{
			invoices.POST("", d.Invoices.CreateInvoice)
			invoices.GET("", d.Invoices.GetInvoices)
			invoices.GET("/summary", d.Invoices.GetInvoiceSummary)
			invoices.POST("/from-appointment/:appointmentId", d.Invoices.CreateFromAppointment)
			invoices.GET("/:id", d.Invoices.GetInvoice)
			invoices.PUT("/:id", d.Invoices.UpdateInvoice)
			invoices.DELETE("/:id", d.Invoices.DeleteInvoice)
		}

		expenses := api.Group("/expenses", operator)
		{
			expenses.POST("", d.Expenses.CreateExpense)
			expenses.GET("", d.Expenses.GetExpenses)
			expenses.GET("/breakdown", d.Expenses.GetBreakdown)
			expenses.GET("/:id", d.Expenses.GetExpense)
			expenses.PUT("/:id", d.Expenses.UpdateExpense)
			expenses.DELETE("/:id", d.Expenses.DeleteExpense)
		}

		//Reports routes
		api.GET("/reports", operator, d.Reports.GetReportAnalytics)
		api.GET("/reports/export", operator, d.Reports.ExportReport)

		// Dashboard routes
		api.GET("/dashboard", operator, d.Dashboard.GetDashboardOverview)

		reminders := api.Group("/reminders", operator)
		{
			reminders.GET("/templates", d.Reminders.GetReminderTemplates)
			reminders.POST("/templates", d.Reminders.CreateReminderTemplate)
			reminders.GET("/templates/:id", d.Reminders.GetReminderTemplate)
			reminders.PUT("/templates/:id", d.Reminders.UpdateReminderTemplate)
			reminders.DELETE("/templates/:id", d.Reminders.DeleteReminderTemplate)
			reminders.GET("/logs", d.Reminders.GetReminderLogs)
			reminders.POST("/run", d.Reminders.RunReminders)
			reminders.POST("/confirm/:appointmentId", d.Reminders.SendConfirmation)
		}
	}

	return r
}

// PrintRoutes lists the registered routes, one per line.
func PrintRoutes(w io.Writer, r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Fprintf(w, "%-6s %s\n", route.Method, route.Path)
	}
}

// Addr is the listen address for the configured port.
func Addr(cfg *config.Config) string {
	return ":" + strconv.Itoa(cfg.Server.Port)
}
