package costmodel

import (
	"github.com/wattai/wattai/internal/catalog"
	"github.com/wattai/wattai/internal/model"
)

// Model performs deterministic cost arithmetic over a GPU catalog. Every
// method is a pure function of its arguments and the catalog, which is never
// mutated after startup.
type Model struct {
	catalog *catalog.Catalog
}

// New creates a cost model backed by the given catalog.
func New(c *catalog.Catalog) *Model {
	return &Model{catalog: c}
}

// Validate rejects negative electricity prices and durations.
func Validate(electricityUSD, hours float64) error {
	if electricityUSD < 0 {
		return &InvalidInputError{Field: "electricity_cost_usd", Value: electricityUSD}
	}
	if hours < 0 {
		return &InvalidInputError{Field: "hours", Value: hours}
	}
	return nil
}

// lookup resolves gpuID and sanity-checks the record so a corrupt catalog
// entry surfaces as a skippable error instead of a nonsense price.
func (m *Model) lookup(gpuID string) (catalog.GPU, error) {
	g, ok := m.catalog.Get(gpuID)
	if !ok {
		return catalog.GPU{}, &GPUNotFoundError{ID: gpuID, Valid: m.catalog.IDs()}
	}
	if g.Watts <= 0 {
		return catalog.GPU{}, &InvalidInputError{Field: "watts", Value: g.Watts}
	}
	if g.HourlyCostUSD < 0 {
		return catalog.GPU{}, &InvalidInputError{Field: "hourly_cost_usd", Value: g.HourlyCostUSD}
	}
	return g, nil
}

// CloudCost itemizes the cost of renting gpuID for hours at the given
// electricity price: energy cost plus the provider's hourly rental fee.
// No rounding is applied.
func (m *Model) CloudCost(electricityUSD float64, gpuID string, hours float64) (model.Breakdown, error) {
	if err := Validate(electricityUSD, hours); err != nil {
		return model.Breakdown{}, err
	}
	g, err := m.lookup(gpuID)
	if err != nil {
		return model.Breakdown{}, err
	}

	energyKWh := g.Watts * hours / 1000
	energyCost := energyKWh * electricityUSD
	computeCost := g.HourlyCostUSD * hours

	return model.Breakdown{
		EnergyKWh:      energyKWh,
		EnergyCostUSD:  energyCost,
		ComputeCostUSD: computeCost,
		TotalCostUSD:   energyCost + computeCost,
	}, nil
}

// LocalCost itemizes the cost of running gpuID on owned hardware:
// electricity only.
func (m *Model) LocalCost(electricityUSD float64, gpuID string, hours float64) (model.Breakdown, error) {
	if err := Validate(electricityUSD, hours); err != nil {
		return model.Breakdown{}, err
	}
	g, err := m.lookup(gpuID)
	if err != nil {
		return model.Breakdown{}, err
	}

	energyKWh := g.Watts * hours / 1000
	energyCost := energyKWh * electricityUSD

	return model.Breakdown{
		EnergyKWh:     energyKWh,
		EnergyCostUSD: energyCost,
		TotalCostUSD:  energyCost,
	}, nil
}

// Option is a labeled (mode, GPU) price from a cheapest-option scan.
type Option struct {
	Label        string
	TotalCostUSD float64
}

// Cheapest scans every GPU in catalog order, cloud before local per GPU, and
// returns the option with the lowest total cost. Comparisons are strict, so
// on an exact tie the first option encountered wins. Entries that fail to
// price are passed to report (if non-nil) and skipped; one bad entry never
// aborts the scan. ok is false when no entry could be priced.
func (m *Model) Cheapest(electricityUSD, hours float64, report func(gpuID string, err error)) (Option, bool) {
	var best Option
	found := false

	for _, id := range m.catalog.IDs() {
		cloud, err := m.CloudCost(electricityUSD, id, hours)
		if err != nil {
			if report != nil {
				report(id, err)
			}
			continue
		}
		local, err := m.LocalCost(electricityUSD, id, hours)
		if err != nil {
			if report != nil {
				report(id, err)
			}
			continue
		}

		if !found || cloud.TotalCostUSD < best.TotalCostUSD {
			best = Option{Label: "Cloud - " + id, TotalCostUSD: cloud.TotalCostUSD}
			found = true
		}
		if local.TotalCostUSD < best.TotalCostUSD {
			best = Option{Label: "Local - " + id, TotalCostUSD: local.TotalCostUSD}
		}
	}

	return best, found
}
