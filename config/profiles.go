package config

import (
	"fmt"

	"github.com/kilianp07/chargetime/core/model"
)

// ProfileConfig overrides one catalog entry. Current is an amperage such as
// 16 or "16A", or "Max".
type ProfileConfig struct {
	Name              string  `json:"name"`
	Current           string  `json:"current"`
	PowerKW           float64 `json:"power_kw"`
	FullChargeTimeHrs float64 `json:"full_charge_time_hrs"`
}

// Catalog builds the configured catalog, or the default one when no profile
// is configured.
func (c Config) Catalog() (*model.Catalog, error) {
	if len(c.Profiles) == 0 {
		return model.DefaultCatalog(), nil
	}
	profiles := make([]model.ChargingProfile, 0, len(c.Profiles))
	for i, p := range c.Profiles {
		cur, err := model.ParseCurrent(p.Current)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
		profiles = append(profiles, model.ChargingProfile{
			Name:              p.Name,
			Current:           cur,
			PowerKW:           p.PowerKW,
			FullChargeTimeHrs: p.FullChargeTimeHrs,
		})
	}
	return model.NewCatalog(profiles)
}
