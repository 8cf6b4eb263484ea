package routes

import (
	"log/slog"

	"github.com/riserschool/enrollment-portal-api/api/handlers"
	"github.com/riserschool/enrollment-portal-api/api/middleware"
	"github.com/riserschool/enrollment-portal-api/pkg/circuitbreaker"
	"github.com/riserschool/enrollment-portal-api/pkg/core"
	"github.com/riserschool/enrollment-portal-api/pkg/draft"
	"github.com/riserschool/enrollment-portal-api/pkg/enrollment"
	"github.com/riserschool/enrollment-portal-api/pkg/identity"
	"github.com/riserschool/enrollment-portal-api/pkg/paystack"
	"github.com/riserschool/enrollment-portal-api/pkg/sheetdb"
	"github.com/riserschool/enrollment-portal-api/pkg/states"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(app fiber.Router, cfg *core.Config, rdb *redis.Client, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend running!")
	})

	api := app.Group("/api")

	paySvc := paystack.New(&cfg.Paystack, paystack.Options{
		Logger: logger,
	})
	checkout := paystack.NewCheckout(paySvc, cfg.Enrollment.VerifyInterval, logger)

	sheetSvc := sheetdb.New(&cfg.SheetDB, sheetdb.Options{
		Logger: logger,
	})

	idSvc := identity.New(&cfg.Identity, identity.Options{
		Logger: logger,
	})

	statesSvc := states.New(&cfg.States, states.Options{
		Logger: logger,
		Redis:  rdb,
	})

	drafts := draft.NewRedisStore(rdb, cfg.Enrollment.DraftTTL)

	wf := enrollment.NewWorkflow(
		cfg.Paystack.PublicKey,
		&paystackCheckout{checkout: checkout},
		&sheetRecordStore{svc: sheetSvc},
		drafts,
		enrollment.Options{
			Logger:   logger,
			Failsafe: cfg.Enrollment.CheckoutFailsafe,
		},
	)

	withCB := middleware.WithCircuitBreaker(func(name string) circuitbreaker.Breaker {
		return circuitbreaker.NewRedisBreaker(
			rdb,
			name,
			circuitbreaker.DefaultOptions(),
			logger,
		)
	})

	api.Post("/enrollments", withCB(handlers.SubmitEnrollment(wf, logger)))

	api.Get("/drafts/:id", handlers.GetDraft(wf))
	api.Put("/drafts/:id", handlers.SaveDraft(wf))
	api.Delete("/drafts/:id", handlers.DeleteDraft(wf))
	api.Post("/drafts/:id/rehydrate", handlers.RehydrateDraft(wf))

	api.Get("/options", handlers.GetOptions())

	api.Get("/states", withCB(handlers.ListStates(statesSvc, logger)))
	api.Get("/states/:state/lgas", withCB(handlers.ListLGAs(statesSvc, logger)))

	api.Post("/auth/signin", withCB(handlers.SignIn(idSvc, logger)))
	api.Post("/auth/signup", withCB(handlers.SignUp(idSvc, logger)))

	admin := api.Group("/admin")
	if !cfg.SkipAuth {
		verifier, err := middleware.NewIdentityVerifier(middleware.IdentityTokenConfig{
			ProjectID: cfg.Identity.ProjectID,
			JWKSURL:   cfg.Identity.JWKSURL,
		})
		if err != nil {
			return err
		}
		admin.Use(verifier.FiberMiddleware())
	}

	admin.Get("/enrollments/:reference", withCB(handlers.LookupEnrollment(sheetSvc, logger)))
	admin.Patch("/enrollments/:reference/payment-status", withCB(handlers.UpdatePaymentStatus(sheetSvc, logger)))

	return nil
}
