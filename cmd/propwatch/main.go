package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"propwatch/internal/config"
	"propwatch/internal/http/handlers"
	applog "propwatch/internal/log"
	"propwatch/internal/notify"
	"propwatch/internal/repos"
	"propwatch/internal/services"
	"propwatch/internal/source"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	settingsRepo := repos.NewSettingsRepo(db, cfg.SMTPHost, cfg.SMTPPort)
	listingRepo := repos.NewListingRepo(db)
	profileRepo := repos.NewProfileRepo(db)

	scanSvc := &services.ScanService{
		Listings:    listingRepo,
		Profiles:    profileRepo,
		Settings:    settingsRepo,
		Source:      source.NewImmoweb(cfg),
		Notifier:    services.NewNotifyService(listingRepo, settingsRepo, notify.SMTPSender{}),
		ScanTimeout: time.Duration(cfg.ScanTimeoutSec) * time.Second,
		ScanDelay:   time.Duration(cfg.ScanDelayMs) * time.Millisecond,
	}

	sched := services.NewScheduler(scanSvc.RunCycle)
	intervalMin, err := settingsRepo.CheckIntervalMinutes()
	if err != nil {
		log.Fatal(err)
	}
	if err := sched.Start(time.Duration(intervalMin) * time.Minute); err != nil {
		log.Fatal(err)
	}
	defer sched.Stop()

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Er ging iets mis. Probeer opnieuw.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Er ging iets mis. Probeer opnieuw.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Warn(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Beveiligingscontrole mislukt. Herlaad de pagina."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, settingsRepo, sched)

	app.Get("/", deps.DashboardHandler.Home)
	app.Get("/searches", deps.ProfileHandler.List)
	app.Post("/add-search", deps.ProfileHandler.Create)
	app.Post("/delete-search/:id", deps.ProfileHandler.Delete)
	app.Post("/toggle-search/:id", deps.ProfileHandler.Toggle)
	app.Get("/settings", deps.SettingsHandler.Page)
	app.Post("/save-settings", deps.SettingsHandler.Save)
	app.Get("/run-check", deps.ScanHandler.RunCheck)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Pagina niet gevonden"})
	})

	log.Printf("propwatch gestart, check interval: %d minuten", intervalMin)
	log.Fatal(app.Listen(":" + cfg.Port))
}
