package handlers

import (
	applog "propwatch/internal/log"
	"propwatch/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Listings *repos.ListingRepo
	Profiles *repos.ProfileRepo
	Settings *repos.SettingsRepo
}

// GET /
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	total, err := h.Listings.CountAll()
	if err != nil {
		applog.Error(c, "dashboard.counts.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Dashboard kon niet geladen worden"})
	}
	unnotified, err := h.Listings.CountUnnotified()
	if err != nil {
		applog.Error(c, "dashboard.counts.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Dashboard kon niet geladen worden"})
	}
	activeProfiles, err := h.Profiles.CountActive()
	if err != nil {
		applog.Error(c, "dashboard.counts.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Dashboard kon niet geladen worden"})
	}
	recent, err := h.Listings.Recent(20)
	if err != nil {
		applog.Error(c, "dashboard.recent.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Dashboard kon niet geladen worden"})
	}
	lastCheck, _ := h.Settings.LastCheck()

	return render(c, "dashboard", fiber.Map{
		"Total":      total,
		"Unnotified": unnotified,
		"Active":     activeProfiles,
		"LastCheck":  lastCheck,
		"Listings":   recent,
		"ScanBusy":   c.Query("scan") == "busy",
	})
}
