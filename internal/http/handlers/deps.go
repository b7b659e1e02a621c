package handlers

import (
	"propwatch/internal/repos"
	"propwatch/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	DashboardHandler *DashboardHandler
	ProfileHandler   *ProfileHandler
	SettingsHandler  *SettingsHandler
	ScanHandler      *ScanHandler
}

func NewDeps(db *sqlx.DB, settings *repos.SettingsRepo, sched *services.Scheduler) *Deps {
	listingRepo := repos.NewListingRepo(db)
	profileRepo := repos.NewProfileRepo(db)

	return &Deps{
		DashboardHandler: &DashboardHandler{Listings: listingRepo, Profiles: profileRepo, Settings: settings},
		ProfileHandler:   &ProfileHandler{Profiles: profileRepo},
		SettingsHandler:  &SettingsHandler{Settings: settings, Sched: sched},
		ScanHandler:      &ScanHandler{Sched: sched},
	}
}
