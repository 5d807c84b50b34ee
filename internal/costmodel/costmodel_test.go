package costmodel

import (
	"errors"
	"math"
	"testing"

	"github.com/wattai/wattai/internal/catalog"
)

const tolerance = 1e-10

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

func singleGPUCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	if err := c.Add("RTX 3090", catalog.GPU{Watts: 350, HourlyCostUSD: 1.80}); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCloudCost_RTX3090_TenHours(t *testing.T) {
	m := New(singleGPUCatalog(t))

	b, err := m.CloudCost(0.10, "RTX 3090", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 350 W * 10 h / 1000 = 3.5 kWh
	// 3.5 kWh * $0.10 = $0.35 energy
	// $1.80/h * 10 h = $18.00 compute
	if !approxEqual(b.EnergyKWh, 3.5) {
		t.Errorf("expected 3.5 kWh, got %v", b.EnergyKWh)
	}
	if !approxEqual(b.EnergyCostUSD, 0.35) {
		t.Errorf("expected energy cost 0.35, got %v", b.EnergyCostUSD)
	}
	if !approxEqual(b.ComputeCostUSD, 18.0) {
		t.Errorf("expected compute cost 18.0, got %v", b.ComputeCostUSD)
	}
	if !approxEqual(b.TotalCostUSD, 18.35) {
		t.Errorf("expected total 18.35, got %v", b.TotalCostUSD)
	}
}

func TestCloudCost_OneHourBenchmark(t *testing.T) {
	m := New(singleGPUCatalog(t))

	b, err := m.CloudCost(0.10, "RTX 3090", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(b.EnergyKWh, 0.35) {
		t.Errorf("expected 0.35 kWh, got %v", b.EnergyKWh)
	}
	if !approxEqual(b.EnergyCostUSD, 0.035) {
		t.Errorf("expected energy cost 0.035, got %v", b.EnergyCostUSD)
	}
	if !approxEqual(b.ComputeCostUSD, 1.80) {
		t.Errorf("expected compute cost 1.80, got %v", b.ComputeCostUSD)
	}
	if !approxEqual(b.TotalCostUSD, 1.835) {
		t.Errorf("expected total 1.835, got %v", b.TotalCostUSD)
	}
}

func TestLocalCost_RTX3090_TenHours(t *testing.T) {
	m := New(singleGPUCatalog(t))

	b, err := m.LocalCost(0.10, "RTX 3090", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(b.EnergyKWh, 3.5) {
		t.Errorf("expected 3.5 kWh, got %v", b.EnergyKWh)
	}
	if !approxEqual(b.EnergyCostUSD, 0.35) {
		t.Errorf("expected energy cost 0.35, got %v", b.EnergyCostUSD)
	}
	if b.ComputeCostUSD != 0 {
		t.Errorf("expected zero compute cost, got %v", b.ComputeCostUSD)
	}
	if !approxEqual(b.TotalCostUSD, 0.35) {
		t.Errorf("expected total 0.35, got %v", b.TotalCostUSD)
	}
}

func TestCloudCost_AdditiveDecomposition(t *testing.T) {
	m := New(catalog.Builtin())

	for _, id := range catalog.Builtin().IDs() {
		for _, hours := range []float64{0, 0.5, 1, 10, 1000} {
			b, err := m.CloudCost(0.25, id, hours)
			if err != nil {
				t.Fatalf("%s/%v: unexpected error: %v", id, hours, err)
			}
			if !approxEqual(b.TotalCostUSD, b.EnergyCostUSD+b.ComputeCostUSD) {
				t.Errorf("%s/%v: total %v != energy %v + compute %v",
					id, hours, b.TotalCostUSD, b.EnergyCostUSD, b.ComputeCostUSD)
			}
		}
	}
}

func TestLocalCost_TotalEqualsEnergyCost(t *testing.T) {
	m := New(catalog.Builtin())

	for _, id := range catalog.Builtin().IDs() {
		b, err := m.LocalCost(0.15, id, 7)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", id, err)
		}
		if b.TotalCostUSD != b.EnergyCostUSD {
			t.Errorf("%s: total %v != energy cost %v", id, b.TotalCostUSD, b.EnergyCostUSD)
		}
	}
}

func TestCloudCost_NeverCheaperThanLocal(t *testing.T) {
	m := New(catalog.Builtin())

	for _, id := range catalog.Builtin().IDs() {
		for _, hours := range []float64{0, 1, 24, 720} {
			cloud, err := m.CloudCost(0.10, id, hours)
			if err != nil {
				t.Fatal(err)
			}
			local, err := m.LocalCost(0.10, id, hours)
			if err != nil {
				t.Fatal(err)
			}
			if cloud.TotalCostUSD < local.TotalCostUSD {
				t.Errorf("%s/%v: cloud %v cheaper than local %v",
					id, hours, cloud.TotalCostUSD, local.TotalCostUSD)
			}
		}
	}
}

func TestCloudCost_EnergyLinearInHours(t *testing.T) {
	m := New(singleGPUCatalog(t))

	unit, err := m.CloudCost(0.10, "RTX 3090", 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, hours := range []float64{0, 2, 5, 100} {
		b, err := m.CloudCost(0.10, "RTX 3090", hours)
		if err != nil {
			t.Fatal(err)
		}
		if !approxEqual(b.EnergyKWh, unit.EnergyKWh*hours) {
			t.Errorf("hours=%v: expected %v kWh, got %v", hours, unit.EnergyKWh*hours, b.EnergyKWh)
		}
	}
}

func TestZeroHours_ZeroTotal(t *testing.T) {
	m := New(catalog.Builtin())

	for _, id := range catalog.Builtin().IDs() {
		cloud, err := m.CloudCost(0.50, id, 0)
		if err != nil {
			t.Fatal(err)
		}
		if cloud.TotalCostUSD != 0 {
			t.Errorf("%s: expected zero cloud total, got %v", id, cloud.TotalCostUSD)
		}
		local, err := m.LocalCost(0.50, id, 0)
		if err != nil {
			t.Fatal(err)
		}
		if local.TotalCostUSD != 0 {
			t.Errorf("%s: expected zero local total, got %v", id, local.TotalCostUSD)
		}
	}
}

func TestCloudCost_UnknownGPU(t *testing.T) {
	m := New(singleGPUCatalog(t))

	_, err := m.CloudCost(0.10, "nonexistent-gpu", 5)
	if err == nil {
		t.Fatal("expected error for unknown gpu")
	}

	var notFound *GPUNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected GPUNotFoundError, got %T: %v", err, err)
	}
	if notFound.ID != "nonexistent-gpu" {
		t.Errorf("expected offending id 'nonexistent-gpu', got %q", notFound.ID)
	}
	if len(notFound.Valid) != 1 || notFound.Valid[0] != "RTX 3090" {
		t.Errorf("expected valid ids [RTX 3090], got %v", notFound.Valid)
	}
}

func TestLocalCost_NegativeElectricity(t *testing.T) {
	m := New(singleGPUCatalog(t))

	_, err := m.LocalCost(-0.01, "RTX 3090", 5)
	if err == nil {
		t.Fatal("expected error for negative electricity cost")
	}

	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
	}
	if invalid.Field != "electricity_cost_usd" {
		t.Errorf("expected field electricity_cost_usd, got %q", invalid.Field)
	}
	if invalid.Value != -0.01 {
		t.Errorf("expected offending value -0.01, got %v", invalid.Value)
	}
}

func TestCloudCost_NegativeHours(t *testing.T) {
	m := New(singleGPUCatalog(t))

	_, err := m.CloudCost(0.10, "RTX 3090", -1)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
	}
	if invalid.Field != "hours" {
		t.Errorf("expected field hours, got %q", invalid.Field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		electricity float64
		hours       float64
		wantErr     bool
	}{
		{"both zero", 0, 0, false},
		{"valid", 0.10, 10, false},
		{"negative electricity", -0.01, 10, true},
		{"negative hours", 0.10, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.electricity, tt.hours)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v, %v) error = %v, wantErr %v", tt.electricity, tt.hours, err, tt.wantErr)
			}
		})
	}
}

func TestCheapest_EmptyCatalog(t *testing.T) {
	m := New(catalog.New())

	_, found := m.Cheapest(0.10, 1, nil)
	if found {
		t.Error("expected no result for empty catalog")
	}
}

func TestCheapest_SingleGPULocalWins(t *testing.T) {
	m := New(singleGPUCatalog(t))

	opt, found := m.Cheapest(0.10, 10, nil)
	if !found {
		t.Fatal("expected a result")
	}
	if opt.Label != "Local - RTX 3090" {
		t.Errorf("expected label 'Local - RTX 3090', got %q", opt.Label)
	}

	local, err := m.LocalCost(0.10, "RTX 3090", 10)
	if err != nil {
		t.Fatal(err)
	}
	if opt.TotalCostUSD != local.TotalCostUSD {
		t.Errorf("expected price exactly %v, got %v", local.TotalCostUSD, opt.TotalCostUSD)
	}
}

func TestCheapest_BenchmarkRanking(t *testing.T) {
	m := New(catalog.Builtin())

	opt, found := m.Cheapest(0.10, 1, nil)
	if !found {
		t.Fatal("expected a result")
	}
	// At $0.10/kWh for one hour the RTX 3090 running locally is the
	// cheapest option in the builtin table: 0.35 kWh * 0.10 = $0.035.
	if opt.Label != "Local - RTX 3090" {
		t.Errorf("expected label 'Local - RTX 3090', got %q", opt.Label)
	}
	if !approxEqual(opt.TotalCostUSD, 0.035) {
		t.Errorf("expected price 0.035, got %v", opt.TotalCostUSD)
	}
}

func TestCheapest_TieCloudBeforeLocal(t *testing.T) {
	c := catalog.New()
	if err := c.Add("FreeRental", catalog.GPU{Watts: 200, HourlyCostUSD: 0}); err != nil {
		t.Fatal(err)
	}
	m := New(c)

	// With a zero rental fee cloud and local totals are identical, and the
	// cloud option is checked first.
	opt, found := m.Cheapest(0.10, 5, nil)
	if !found {
		t.Fatal("expected a result")
	}
	if opt.Label != "Cloud - FreeRental" {
		t.Errorf("expected tie to resolve to 'Cloud - FreeRental', got %q", opt.Label)
	}
}

func TestCheapest_TieFirstGPUWins(t *testing.T) {
	c := catalog.New()
	if err := c.Add("first", catalog.GPU{Watts: 300, HourlyCostUSD: 2.00}); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("second", catalog.GPU{Watts: 300, HourlyCostUSD: 2.00}); err != nil {
		t.Fatal(err)
	}
	m := New(c)

	opt, found := m.Cheapest(0.10, 10, nil)
	if !found {
		t.Fatal("expected a result")
	}
	if opt.Label != "Local - first" {
		t.Errorf("expected first-inserted gpu to win the tie, got %q", opt.Label)
	}
}

func TestCheapest_SkipsBadEntry(t *testing.T) {
	c := catalog.New()
	if err := c.Add("broken", catalog.GPU{Watts: -50, HourlyCostUSD: 1.00}); err != nil {
		t.Fatal(err)
	}
	if err := c.Add("RTX 3090", catalog.GPU{Watts: 350, HourlyCostUSD: 1.80}); err != nil {
		t.Fatal(err)
	}
	m := New(c)

	var skipped []string
	opt, found := m.Cheapest(0.10, 10, func(gpuID string, err error) {
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("expected InvalidInputError for %s, got %T: %v", gpuID, err, err)
		}
		skipped = append(skipped, gpuID)
	})

	if !found {
		t.Fatal("expected a result despite the broken entry")
	}
	if opt.Label != "Local - RTX 3090" {
		t.Errorf("expected 'Local - RTX 3090', got %q", opt.Label)
	}
	if len(skipped) != 1 || skipped[0] != "broken" {
		t.Errorf("expected exactly [broken] to be skipped, got %v", skipped)
	}
}

func TestCheapest_NilReporterDoesNotPanic(t *testing.T) {
	c := catalog.New()
	if err := c.Add("broken", catalog.GPU{Watts: 0, HourlyCostUSD: 1.00}); err != nil {
		t.Fatal(err)
	}
	m := New(c)

	if _, found := m.Cheapest(0.10, 10, nil); found {
		t.Error("expected no result when the only entry is broken")
	}
}
