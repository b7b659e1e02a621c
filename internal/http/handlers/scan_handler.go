package handlers

import (
	"errors"

	applog "propwatch/internal/log"
	"propwatch/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ScanHandler struct {
	Sched *services.Scheduler
}

// GET /run-check
//
// Runs a cycle synchronously and returns to the dashboard. If a cycle is
// already in flight the request is coalesced into a notice instead of
// queueing a second concurrent cycle.
func (h *ScanHandler) RunCheck(c *fiber.Ctx) error {
	stats, err := h.Sched.TriggerNow()
	if err != nil {
		if errors.Is(err, services.ErrScanRunning) {
			applog.Info(c, "scan.trigger.busy", nil)
			return c.Redirect("/?scan=busy")
		}
		applog.Error(c, "scan.trigger.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Check is mislukt. Probeer later opnieuw."})
	}

	applog.Audit(c, "scan.trigger", map[string]any{"new": stats.New, "notified": stats.Notified})
	return c.Redirect("/")
}
