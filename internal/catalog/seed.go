package catalog

import (
	"fmt"

	"github.com/gravitrone/picker/internal/api"
)

type seedRow struct {
	name    string
	country string
	kind    string
	price   float64
	code    string
	desc    string
}

var demoProducts = []seedRow{
	{"Aurora 50kW Diesel Generator", "Germany", api.RecordTypeGenerator, 18500, "GEN-AUR-50", "Prime-rated diesel set for industrial backup."},
	{"Aurora 120kW Diesel Generator", "Germany", api.RecordTypeGenerator, 36200, "GEN-AUR-120", "Containerised diesel set with remote monitoring."},
	{"Helios Solar Hybrid 30kW", "Spain", api.RecordTypeGenerator, 24900, "GEN-HEL-30", "Solar-battery hybrid unit for off-grid sites."},
	{"Kaze Gas Turbine 2MW", "Japan", api.RecordTypeGenerator, 910000, "GEN-KAZ-2000", "Natural gas turbine for continuous duty."},
	{"Kaze Micro Turbine 65kW", "Japan", api.RecordTypeGenerator, 72000, "GEN-KAZ-65", "Low-emission micro turbine."},
	{"Prairie Wind 10kW", "United States", api.RecordTypeGenerator, 15800, "GEN-PRA-10", "Small wind generator with tilt-up tower."},
	{"Prairie Wind 100kW", "United States", api.RecordTypeGenerator, 198000, "GEN-PRA-100", "Community-scale wind turbine."},
	{"Alternator Rotor Assembly", "Germany", api.RecordTypePart, 2450, "PRT-ROT-01", "Replacement rotor for Aurora series."},
	{"Voltage Regulator AVR-7", "Germany", api.RecordTypePart, 310, "PRT-AVR-07", "Automatic voltage regulator."},
	{"Fuel Injector Set", "Spain", api.RecordTypePart, 820, "PRT-FIN-04", "Four-pack injector kit."},
	{"Inverter Board IB-3", "Spain", api.RecordTypePart, 1290, "PRT-INV-03", "Hybrid inverter control board."},
	{"Turbine Blade Segment", "Japan", api.RecordTypePart, 5600, "PRT-BLD-11", "Single-crystal blade segment."},
	{"Combustor Liner", "Japan", api.RecordTypePart, 7300, "PRT-CMB-02", "Ceramic-coated combustor liner."},
	{"Yaw Bearing 2.4m", "United States", api.RecordTypePart, 11200, "PRT-YAW-24", "Slewing bearing for yaw systems."},
	{"Pitch Motor PM-15", "United States", api.RecordTypePart, 2150, "PRT-PIT-15", "Blade pitch drive motor."},
	{"Control Panel CP-9", "France", api.RecordTypePart, 980, "PRT-CTL-09", "Touchscreen genset controller."},
	{"Bretagne Tidal 250kW", "France", api.RecordTypeGenerator, 415000, "GEN-BRE-250", "Tidal stream generator."},
	{"Cooling Fan Kit", "France", api.RecordTypePart, 0, "PRT-FAN-02", "Radiator fan and shroud. Price on request."},
}

// DemoProducts returns the products Seed inserts. Rows with no list price
// carry a nil Price.
func DemoProducts() []Product {
	out := make([]Product, len(demoProducts))
	for i, row := range demoProducts {
		var price *float64
		if row.price > 0 {
			p := row.price
			price = &p
		}
		out[i] = Product{
			ID:          fmt.Sprintf("prd-%03d", i+1),
			Name:        row.name,
			Country:     row.country,
			RecordType:  row.kind,
			Price:       price,
			Description: row.desc,
			ProductCode: row.code,
			Active:      true,
		}
	}
	return out
}

// Seed inserts the demo catalog into an empty product table.
func (s *Store) Seed() error {
	var count int64
	if err := s.db.Model(&Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := s.Upsert(DemoProducts()...); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
