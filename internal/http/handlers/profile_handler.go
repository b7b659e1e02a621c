package handlers

import (
	"propwatch/internal/domain"
	applog "propwatch/internal/log"
	"propwatch/internal/repos"
	"propwatch/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	Profiles *repos.ProfileRepo
}

// GET /searches
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	profiles, err := h.Profiles.ListAll()
	if err != nil {
		applog.Error(c, "profiles.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Zoekopdrachten konden niet geladen worden"})
	}
	return render(c, "searches", fiber.Map{"Profiles": profiles})
}

// POST /add-search
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	name, okName := validate.Name(c.FormValue("name"))
	province, okProv := validate.Province(c.FormValue("province"))
	propType, okType := validate.PropertyType(c.FormValue("property_type"))
	seller, okSeller := validate.SellerFilter(c.FormValue("seller_type"))
	minPrice := validate.Price(c.FormValue("min_price"), 0)
	maxPrice := validate.Price(c.FormValue("max_price"), 999999999)

	if !okName || !okProv || !okType || !okSeller || !validate.PriceRange(minPrice, maxPrice) {
		applog.Warn(c, "profiles.create.invalid", map[string]any{"name": c.FormValue("name")})
		return c.Status(400).SendString("ongeldige zoekopdracht")
	}

	p := domain.SearchProfile{
		ID:           uuid.NewString(),
		Name:         name,
		Province:     province,
		PropertyType: propType,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		SellerType:   seller,
		Active:       true,
	}
	if err := h.Profiles.Create(p); err != nil {
		applog.Error(c, "profiles.create.fail", err, map[string]any{"name": name})
		return c.Status(400).SendString("zoekopdracht kon niet opgeslagen worden")
	}
	applog.Audit(c, "profiles.create", map[string]any{"profile_id": p.ID, "name": name})
	return c.Redirect("/searches")
}

// POST /delete-search/:id
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("ongeldig id")
	}
	if err := h.Profiles.Delete(id); err != nil {
		applog.Error(c, "profiles.delete.fail", err, map[string]any{"profile_id": id})
		return c.Status(400).SendString("zoekopdracht kon niet verwijderd worden")
	}
	applog.Audit(c, "profiles.delete", map[string]any{"profile_id": id})
	return c.Redirect("/searches")
}

// POST /toggle-search/:id
func (h *ProfileHandler) Toggle(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("ongeldig id")
	}
	active := c.FormValue("active") == "1"
	if err := h.Profiles.SetActive(id, active); err != nil {
		applog.Error(c, "profiles.toggle.fail", err, map[string]any{"profile_id": id})
		return c.Status(400).SendString("zoekopdracht kon niet aangepast worden")
	}
	applog.Audit(c, "profiles.toggle", map[string]any{"profile_id": id, "active": active})
	return c.Redirect("/searches")
}
