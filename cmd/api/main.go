package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-helpdesk/internal/common/api"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/database"
	"go-helpdesk/internal/features/automation"
	"go-helpdesk/internal/features/email"
	"go-helpdesk/internal/features/notification"
	"go-helpdesk/internal/features/settings"
	"go-helpdesk/internal/features/system"
	"go-helpdesk/internal/features/ticket"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/internal/logger"
	"go-helpdesk/internal/middleware"
	"go-helpdesk/internal/scheduler"
	"go-helpdesk/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			ticket.NewTicketRepository,
			ticket.NewTicketCommentRepository,
			user.NewUserRepository,
			settings.NewSettingsRepository,
			notification.NewNotificationRepository,
			email.NewEmailRepository,
			automation.NewAutomationRepository,
			automation.NewExecutionLogRepository,

			// Initialize Service
			settings.NewSettingsService,
			notification.NewNotificationService,
			email.NewEmailService,
			automation.NewActionExecutor,
			automation.NewAutomationService,
			automation.NewEngine,
			ticket.NewTicketService,
			ticket.NewEscalationService,
			scheduler.NewScheduler,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r ticket.TicketRepository) automation.TicketStore { return r },
			func(r ticket.TicketCommentRepository) automation.CommentStore { return r },
			func(r user.UserRepository) automation.UserDirectory { return r },
			func(s email.EmailService) automation.EmailSender { return s },
			func(r automation.AutomationRepository) automation.RuleSource { return r },
			func(r automation.ExecutionLogRepository) automation.ExecutionLogStore { return r },
			func(e *automation.Engine) ticket.AutomationTrigger { return e },

			// Initialize Controller
			automation.NewAutomationController,
			ticket.NewTicketController,
			notification.NewNotificationController,
			settings.NewSettingsController,

			// Initialize API Routes
			AsRoute(automation.NewAutomationApi),
			AsRoute(ticket.NewTicketApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(settings.NewSettingsApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, s *scheduler.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: s.Start,
					OnStop:  s.Stop,
				})
			},
		),
	)

	app.Run()
}
