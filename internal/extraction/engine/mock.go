package engine

import (
	"context"
	"fmt"
	"strings"
)

// MockExtractor maps the document-type mix to one of four canned requirement
// profiles. It is a pure function of the MIME types present and cannot fail.
type MockExtractor struct{}

// NewMockExtractor creates the canned extractor.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

type fileMix struct {
	hasImage       bool
	hasSpreadsheet bool
	hasPDF         bool
}

func classify(files []UploadedFile) fileMix {
	var mix fileMix
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.MimeType, "image/"):
			mix.hasImage = true
		case strings.Contains(f.MimeType, "sheet"):
			mix.hasSpreadsheet = true
		case strings.Contains(f.MimeType, "pdf"):
			mix.hasPDF = true
		}
	}
	return mix
}

// Extract returns the canned profile for the dominant document type.
// Priority: image, then spreadsheet, then PDF, then the generic profile.
func (m *MockExtractor) Extract(_ context.Context, files []UploadedFile) (Profile, error) {
	mix := classify(files)

	switch {
	case mix.hasImage:
		return Profile{
			Name:             "Ing. Marco Bianchi",
			Email:            "marco.bianchi@energyinnovation.it",
			Phone:            "+39 02 9876543",
			Company:          "Energy Innovation S.p.A.",
			Address:          "Via dell'Industria 45, 20090 Segrate (MI)",
			InstallationType: "BESS",
			PowerKW:          1000,
			CapacityKWH:      2000,
			ConnectionType:   "MT",
			Usage:            []string{"peak-shaving", "autoconsumo"},
			ApplicationArea:  "industriale",
			HasPV:            true,
			PVPowerKW:        800,
			AdditionalNotes:  "Richiesta estratta da email: Cliente necessita sistema BESS per ottimizzazione costi energetici stabilimento produttivo. Integrazione con impianto fotovoltaico esistente da 800kW. Urgenza: entro Q1 2025.",
			ValidityDays:     30,
		}, nil
	case mix.hasSpreadsheet:
		return Profile{
			Name:             "Dott.ssa Laura Rossi",
			Email:            "l.rossi@greenenergy.com",
			Phone:            "+39 011 5551234",
			Company:          "Green Energy Solutions",
			Address:          "Corso Francia 120, 10143 Torino (TO)",
			InstallationType: "BESS",
			PowerKW:          500,
			CapacityKWH:      1000,
			ConnectionType:   "MT",
			Usage:            []string{"arbitraggio", "grid-services"},
			ApplicationArea:  "utility",
			HasPV:            false,
			PVPowerKW:        0,
			AdditionalNotes:  "Dati estratti da foglio Excel tecnico: Progetto utility scale per servizi di rete. Richiesta partecipazione a mercato MSD. Connessione prevista su cabina primaria esistente.",
			ValidityDays:     45,
		}, nil
	case mix.hasPDF:
		return Profile{
			Name:             "Ing. Giuseppe Verdi",
			Email:            "g.verdi@industrialpower.it",
			Phone:            "+39 06 7778899",
			Company:          "Industrial Power Systems",
			Address:          "Via Tiburtina 500, 00159 Roma (RM)",
			InstallationType: "BESS",
			PowerKW:          2000,
			CapacityKWH:      4000,
			ConnectionType:   "AT",
			Usage:            []string{"peak-shaving", "backup", "grid-services"},
			ApplicationArea:  "industriale",
			HasPV:            true,
			PVPowerKW:        1200,
			AdditionalNotes:  "Estratto da documento PDF: Impianto industriale ad alto consumo energetico. Necessità di backup per processi critici e ottimizzazione costi energia. Disponibilità area 2000 mq per installazione. Impianto fotovoltaico da 1.200 kW in fase di progettazione.",
			ValidityDays:     60,
		}, nil
	default:
		return Profile{
			Name:             "Cliente Esempio",
			Email:            "cliente@esempio.com",
			Phone:            "+39 000 0000000",
			Company:          "Azienda Esempio S.r.l.",
			Address:          "Via Esempio 1, 00000 Città (XX)",
			InstallationType: "BESS",
			PowerKW:          250,
			CapacityKWH:      500,
			ConnectionType:   "BT",
			Usage:            []string{"peak-shaving"},
			ApplicationArea:  "commerciale",
			HasPV:            false,
			PVPowerKW:        0,
			AdditionalNotes:  "Dati estratti automaticamente. Verificare e completare le informazioni mancanti.",
			ValidityDays:     30,
		}, nil
	}
}

// Summarize builds the analysis report shown to the operator, one section
// per document category present.
func (m *MockExtractor) Summarize(files []UploadedFile) string {
	mix := classify(files)

	var b strings.Builder
	b.WriteString("ANALISI DOCUMENTO COMPLETATA\n\n")

	if mix.hasImage {
		b.WriteString("SCREENSHOT EMAIL ANALIZZATO\n")
		b.WriteString("- Richiesta BESS: sistema di accumulo energetico per stabilimento produttivo\n")
		b.WriteString("- Azienda: Energy Innovation S.p.A. (Segrate, MI)\n")
		b.WriteString("- Contatto: Ing. Marco Bianchi (responsabile tecnico)\n")
		b.WriteString("- Potenza richiesta: 1.000 kW, capacità 2.000 kWh (autonomia 2 ore)\n")
		b.WriteString("- Collegamento: Media Tensione (MT)\n")
		b.WriteString("- Applicazioni: peak shaving + autoconsumo da fotovoltaico esistente (800 kW)\n")
		b.WriteString("- Urgenza: installazione entro Q1 2025\n\n")
	}
	if mix.hasSpreadsheet {
		b.WriteString("FOGLIO EXCEL TECNICO ANALIZZATO\n")
		b.WriteString("- Cliente: Green Energy Solutions (Torino)\n")
		b.WriteString("- Tipologia: progetto utility scale per servizi di rete\n")
		b.WriteString("- Potenza: 500 kW, capacità 1.000 kWh (rapporto 1:2)\n")
		b.WriteString("- Servizi: arbitraggio energetico + mercato MSD\n")
		b.WriteString("- Connessione: Media Tensione su cabina primaria esistente\n")
		b.WriteString("- Fotovoltaico: nessun impianto presente\n\n")
	}
	if mix.hasPDF {
		b.WriteString("DOCUMENTO PDF ANALIZZATO\n")
		b.WriteString("- Cliente: Industrial Power Systems (Roma)\n")
		b.WriteString("- Scala: sistema BESS 2 MW / 4 MWh, connessione Alta Tensione (AT)\n")
		b.WriteString("- Requisiti: backup processi critici, peak shaving, servizi di rete\n")
		b.WriteString("- Area installazione: 2.000 mq disponibili, cabina AT esistente\n")
		b.WriteString("- Fotovoltaico: impianto da 1.200 kW in progetto\n\n")
	}

	kinds := make([]string, 0, 3)
	if mix.hasImage {
		kinds = append(kinds, "Screenshot")
	}
	if mix.hasSpreadsheet {
		kinds = append(kinds, "Excel")
	}
	if mix.hasPDF {
		kinds = append(kinds, "PDF")
	}

	b.WriteString("ANALISI COMPLESSIVA\n")
	fmt.Fprintf(&b, "- File analizzati: %d\n", len(files))
	if len(kinds) > 0 {
		fmt.Fprintf(&b, "- Tipologie: %s\n", strings.Join(kinds, " "))
	}
	b.WriteString("- Estrazione dati cliente e requisiti tecnici completata\n")
	b.WriteString("- Verificare e confermare i dati estratti prima di generare il preventivo\n")

	return b.String()
}

// Compile-time check.
var _ Extractor = (*MockExtractor)(nil)
