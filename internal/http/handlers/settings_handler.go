package handlers

import (
	"strconv"
	"time"

	applog "propwatch/internal/log"
	"propwatch/internal/repos"
	"propwatch/internal/services"
	"propwatch/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	Settings *repos.SettingsRepo
	Sched    *services.Scheduler
}

func (h *SettingsHandler) view(c *fiber.Ctx, message, errMsg string) error {
	enabled, _ := h.Settings.Get("email_enabled")
	from, _ := h.Settings.Get("email_from")
	password, _ := h.Settings.Get("email_password")
	to, _ := h.Settings.Get("email_to")
	interval, err := h.Settings.CheckIntervalMinutes()
	if err != nil {
		applog.Error(c, "settings.load.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Instellingen konden niet geladen worden"})
	}

	return render(c, "settings", fiber.Map{
		"EmailEnabled":  enabled == "1",
		"EmailFrom":     from,
		"EmailPassword": password,
		"EmailTo":       to,
		"Interval":      interval,
		"Message":       message,
		"Err":           errMsg,
	})
}

// GET /settings
func (h *SettingsHandler) Page(c *fiber.Ctx) error {
	return h.view(c, "", "")
}

// POST /save-settings
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	interval, okInterval := validate.IntervalMinutes(c.FormValue("check_interval"))
	if !okInterval {
		applog.Warn(c, "settings.save.invalid", map[string]any{"check_interval": c.FormValue("check_interval")})
		c.Status(400)
		return h.view(c, "", "Check interval moet tussen 5 en 1440 minuten liggen")
	}

	from := c.FormValue("email_from")
	if from != "" {
		if _, ok := validate.Email(from); !ok {
			c.Status(400)
			return h.view(c, "", "Ongeldig afzender-adres")
		}
	}
	to := c.FormValue("email_to")
	if to != "" {
		if _, ok := validate.Email(to); !ok {
			c.Status(400)
			return h.view(c, "", "Ongeldig ontvanger-adres")
		}
	}

	enabled := "0"
	if c.FormValue("email_enabled") != "" {
		enabled = "1"
	}

	for k, v := range map[string]string{
		"email_enabled":  enabled,
		"email_from":     from,
		"email_password": c.FormValue("email_password"),
		"email_to":       to,
		"check_interval": strconv.Itoa(interval),
	} {
		if err := h.Settings.Set(k, v); err != nil {
			applog.Error(c, "settings.save.fail", err, map[string]any{"key": k})
			return c.Status(500).Render("notfound", fiber.Map{"Message": "Instellingen konden niet opgeslagen worden"})
		}
	}

	// Takes effect from the next tick; a running cycle is not interrupted.
	if err := h.Sched.Reconfigure(time.Duration(interval) * time.Minute); err != nil {
		applog.Error(c, "settings.reconfigure.fail", err, map[string]any{"interval": interval})
		return h.view(c, "", "Interval kon niet toegepast worden")
	}

	applog.Audit(c, "settings.save", map[string]any{"interval": interval, "email_enabled": enabled})
	return h.view(c, "Instellingen succesvol opgeslagen!", "")
}
