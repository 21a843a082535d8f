// Package product defines the BESS product model and the built-in
// FFDPOWER catalog used when the company pricing service is unreachable.
package product

// Product is a battery energy storage system component offered in quotes.
// Power and energy ratings of zero mean the product does not provide that
// dimension (e.g. a battery rack has no power conversion).
type Product struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	UnitPrice         float64 `json:"unitPrice"`
	PowerRating       float64 `json:"powerRating"`
	EnergyCapacity    float64 `json:"energyCapacity"`
	Category          string  `json:"category"`
	Voltage           string  `json:"voltage"`
	Efficiency        float64 `json:"efficiency"`
	CycleLife         int     `json:"cycleLife"`
	CertificationPath string  `json:"certificationPath"`
	SchematicPath     string  `json:"schematicPath"`
	Datasheet         string  `json:"datasheet"`
}

var fallbackCatalog = []Product{
	{
		Code:              "GALAXY-233L-AIO-2H",
		Name:              "Galaxy 233L All-in-One 2H",
		Description:       "Sistema BESS containerizzato con inverter ibrido integrato per applicazioni commerciali e industriali",
		UnitPrice:         185000,
		PowerRating:       233,
		EnergyCapacity:    465,
		Category:          "Container BESS",
		Voltage:           "400V/690V",
		Efficiency:        92.5,
		CycleLife:         6000,
		CertificationPath: "/certs/galaxy233l-aio-2h.pdf",
		SchematicPath:     "/schematics/galaxy233l-aio-2h.ppt",
		Datasheet:         "/datasheets/galaxy233l-aio-2h.pdf",
	},
	{
		Code:              "PCS-ENJOY-105",
		Name:              "PCS Enjoy 105kW",
		Description:       "Power Conversion System bidirezionale per sistemi BESS, efficienza elevata",
		UnitPrice:         45000,
		PowerRating:       105,
		EnergyCapacity:    0,
		Category:          "Power Conversion System",
		Voltage:           "400V/800V",
		Efficiency:        97.2,
		CycleLife:         0,
		CertificationPath: "/certs/pcs-enjoy-105.pdf",
		SchematicPath:     "/schematics/pcs-enjoy-105.ppt",
		Datasheet:         "/datasheets/pcs-enjoy-105.pdf",
	},
	{
		Code:              "POWER-STACK-500",
		Name:              "PowerStack 500kW/1MWh",
		Description:       "Sistema BESS modulare ad alta densità energetica per applicazioni utility scale",
		UnitPrice:         420000,
		PowerRating:       500,
		EnergyCapacity:    1000,
		Category:          "Utility Scale BESS",
		Voltage:           "1500V DC",
		Efficiency:        94.2,
		CycleLife:         8000,
		CertificationPath: "/certs/powerstack-500.pdf",
		SchematicPath:     "/schematics/powerstack-500.ppt",
		Datasheet:         "/datasheets/powerstack-500.pdf",
	},
	{
		Code:              "ENERGY-CUBE-1MW",
		Name:              "EnergyCube 1MW/2MWh",
		Description:       "Sistema BESS containerizzato per grandi applicazioni industriali e servizi di rete",
		UnitPrice:         750000,
		PowerRating:       1000,
		EnergyCapacity:    2000,
		Category:          "Industrial BESS",
		Voltage:           "1500V DC",
		Efficiency:        95.1,
		CycleLife:         10000,
		CertificationPath: "/certs/energycube-1mw.pdf",
		SchematicPath:     "/schematics/energycube-1mw.ppt",
		Datasheet:         "/datasheets/energycube-1mw.pdf",
	},
	{
		Code:              "GRID-MASTER-2MW",
		Name:              "GridMaster 2MW/4MWh",
		Description:       "Sistema BESS per servizi di rete e stabilizzazione della grid, certificato per TSO/DSO",
		UnitPrice:         1350000,
		PowerRating:       2000,
		EnergyCapacity:    4000,
		Category:          "Grid Services BESS",
		Voltage:           "1500V DC",
		Efficiency:        95.8,
		CycleLife:         12000,
		CertificationPath: "/certs/gridmaster-2mw.pdf",
		SchematicPath:     "/schematics/gridmaster-2mw.ppt",
		Datasheet:         "/datasheets/gridmaster-2mw.pdf",
	},
	{
		Code:              "COMPACT-ESS-100",
		Name:              "CompactESS 100kW/200kWh",
		Description:       "Sistema BESS compatto per applicazioni commerciali e peak shaving",
		UnitPrice:         95000,
		PowerRating:       100,
		EnergyCapacity:    200,
		Category:          "Commercial BESS",
		Voltage:           "400V",
		Efficiency:        91.8,
		CycleLife:         5000,
		CertificationPath: "/certs/compact-ess-100.pdf",
		SchematicPath:     "/schematics/compact-ess-100.ppt",
		Datasheet:         "/datasheets/compact-ess-100.pdf",
	},
	{
		Code:              "BATTERY-RACK-215",
		Name:              "Battery Rack 215kWh",
		Description:       "Rack batterie LiFePO4 modulare per sistemi BESS personalizzati",
		UnitPrice:         85000,
		PowerRating:       0,
		EnergyCapacity:    215,
		Category:          "Battery Storage",
		Voltage:           "1500V DC",
		Efficiency:        98.5,
		CycleLife:         8000,
		CertificationPath: "/certs/battery-rack-215.pdf",
		SchematicPath:     "/schematics/battery-rack-215.ppt",
		Datasheet:         "/datasheets/battery-rack-215.pdf",
	},
	{
		Code:              "EMS-CONTROLLER-PRO",
		Name:              "EMS Controller Pro",
		Description:       "Sistema di controllo e monitoraggio avanzato per BESS, con algoritmi AI",
		UnitPrice:         25000,
		PowerRating:       0,
		EnergyCapacity:    0,
		Category:          "Energy Management System",
		Voltage:           "24V DC",
		Efficiency:        99.9,
		CycleLife:         0,
		CertificationPath: "/certs/ems-controller-pro.pdf",
		SchematicPath:     "/schematics/ems-controller-pro.ppt",
		Datasheet:         "/datasheets/ems-controller-pro.pdf",
	},
}

// Fallback returns a copy of the built-in catalog. Callers may mutate the
// returned slice freely.
func Fallback() []Product {
	out := make([]Product, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out
}

// FallbackByCode looks up a product in the built-in catalog.
func FallbackByCode(code string) (Product, bool) {
	for _, p := range fallbackCatalog {
		if p.Code == code {
			return p, true
		}
	}
	return Product{}, false
}
