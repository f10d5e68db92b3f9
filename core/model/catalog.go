package model

import (
	"fmt"
	"strings"
)

// Catalog is the ordered, immutable set of profiles available at runtime.
type Catalog struct {
	profiles []ChargingProfile
}

// NewCatalog validates the profiles and returns a catalog holding a copy.
func NewCatalog(profiles []ChargingProfile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("catalog requires at least one profile")
	}
	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate profile %s", p.Name)
		}
		seen[key] = struct{}{}
	}
	cp := make([]ChargingProfile, len(profiles))
	copy(cp, profiles)
	return &Catalog{profiles: cp}, nil
}

// DefaultProfiles returns the BYD wallbox settings. Full charge times are
// BatteryCapacityKWh divided by the setting's power.
func DefaultProfiles() []ChargingProfile {
	return []ChargingProfile{
		{Name: "Slow Trickle", Current: Amps(6), PowerKW: 1.10, FullChargeTimeHrs: 51.49},
		{Name: "Low Current", Current: Amps(8), PowerKW: 1.65, FullChargeTimeHrs: 34.33},
		{Name: "Medium Current", Current: Amps(10), PowerKW: 1.90, FullChargeTimeHrs: 29.81},
		{Name: "High Current", Current: Amps(16), PowerKW: 3.30, FullChargeTimeHrs: 17.16},
		{Name: "Maximum", Current: MaxCurrent, PowerKW: 6.80, FullChargeTimeHrs: 8.33},
	}
}

// DefaultCatalog returns the catalog built from DefaultProfiles.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultProfiles())
	if err != nil {
		panic(err)
	}
	return c
}

// Profiles returns a copy of the profiles in catalog order.
func (c *Catalog) Profiles() []ChargingProfile {
	out := make([]ChargingProfile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Len returns the number of profiles.
func (c *Catalog) Len() int { return len(c.profiles) }

// Find matches q case-insensitively against the profile name, its log label
// or its current setting ("16A", "16", "max").
func (c *Catalog) Find(q string) (ChargingProfile, error) {
	q = strings.TrimSpace(q)
	for _, p := range c.profiles {
		if strings.EqualFold(p.Name, q) || strings.EqualFold(p.Label(), q) || strings.EqualFold(p.Current.String(), q) {
			return p, nil
		}
	}
	if cur, err := ParseCurrent(q); err == nil {
		for _, p := range c.profiles {
			if p.Current == cur {
				return p, nil
			}
		}
	}
	return ChargingProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, q)
}
