package expiry

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// The two special publication tables ship with the binary as versioned YAML
// assets. They are the only quasi file-format concern in the engine: finite,
// hand-curated (month -> date) pairs maintained out of band and re-embedded
// on release.
//
//go:embed data/*.yaml
var tableAssets embed.FS

// Curated publication tables consulted by the irregular rules in the
// product table.
var (
	DairyReportDates    = mustLoadTable("data/dairy_reports.yaml")
	ShipmentNoticeDates = mustLoadTable("data/shipment_notices.yaml")
)

type tableAsset struct {
	Name     string `yaml:"name"`
	Fallback struct {
		Months int `yaml:"months"`
		Day    int `yaml:"day"`
	} `yaml:"fallback"`
	Dates map[string]time.Time `yaml:"dates"`
}

// LoadPublicationTable parses one embedded YAML table asset.
func LoadPublicationTable(path string) (*PublicationTable, error) {
	raw, err := tableAssets.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("expiry: reading table asset %s: %w", path, err)
	}

	var asset tableAsset
	if err := yaml.Unmarshal(raw, &asset); err != nil {
		return nil, fmt.Errorf("expiry: parsing table asset %s: %w", path, err)
	}

	entries := make(map[DeliveryMonth]time.Time, len(asset.Dates))
	for key, date := range asset.Dates {
		m, err := ParseDeliveryMonth(key)
		if err != nil {
			return nil, fmt.Errorf("expiry: table asset %s: %w", path, err)
		}
		entries[m] = date
	}

	return NewPublicationTable(asset.Name, asset.Fallback.Months, asset.Fallback.Day, entries)
}

// mustLoadTable panics on a corrupt embedded asset. Assets are validated by
// tests and versioned with the source, so a failure here is a build defect.
func mustLoadTable(path string) *PublicationTable {
	t, err := LoadPublicationTable(path)
	if err != nil {
		panic(err)
	}
	return t
}
