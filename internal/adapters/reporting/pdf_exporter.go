// Package reporting builds an end-of-run PDF summary of a GhostWalk
// session: device population breakdown, SSID store contents, frame
// counts by type, mesh relay status, and governor interventions. It is
// a pure function of an in-memory Snapshot — it never reads synthesized
// frame payloads, matching the payload-interpretation non-goal.
package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// DeviceBreakdown counts active devices by generation/platform bucket.
type DeviceBreakdown struct {
	Generation string
	Platform   string
	Count      int
}

// Snapshot is everything the PDF exporter needs, gathered by the caller
// from the scheduler/pools/store/relay/governor at report time.
type Snapshot struct {
	GeneratedAt time.Time

	ActivePoolSize  int
	DormantPoolSize int
	Breakdown       []DeviceBreakdown

	SSIDCount int
	SSIDs     []string

	ProbeRequests       int64
	AssociationRequests int64
	Authentications     int64
	EncryptedFrames     int64
	Beacons             int64
	NoiseProbes         int64

	MeshDetected     bool
	MeshCacheEntries int
	MeshRebroadcasts int64

	GovernorLowMemory    bool
	GovernorInterventions int
}

// Exporter builds session report PDFs.
type Exporter struct{}

// New creates a PDF exporter.
func New() *Exporter {
	return &Exporter{}
}

// Export renders a Snapshot into a PDF document's raw bytes.
func (e *Exporter) Export(s Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, s)
	e.addPoolSummary(pdf, s)
	e.addSSIDSummary(pdf, s)
	e.addFrameCounts(pdf, s)
	e.addMeshAndGovernor(pdf, s)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) addHeader(pdf *gofpdf.Fpdf, s Snapshot) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "GhostWalk Session Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", s.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *Exporter) addPoolSummary(pdf *gofpdf.Fpdf, s Snapshot) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Device Population", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Active pool: %d", s.ActivePoolSize), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Dormant pool: %d", s.DormantPoolSize), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(s.Breakdown) > 0 {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(70, 8, "Generation", "1", 0, "L", true, 0, "")
		pdf.CellFormat(70, 8, "Platform", "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 8, "Count", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, b := range s.Breakdown {
			pdf.CellFormat(70, 7, b.Generation, "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 7, b.Platform, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, fmt.Sprintf("%d", b.Count), "1", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(8)
}

func (e *Exporter) addSSIDSummary(pdf *gofpdf.Fpdf, s Snapshot) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "SSID Store", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total SSIDs: %d", s.SSIDCount), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(100, 100, 100)
	max := len(s.SSIDs)
	if max > 20 {
		max = 20
	}
	for _, name := range s.SSIDs[:max] {
		pdf.CellFormat(0, 5, "- "+name, "", 1, "L", false, 0, "")
	}
	if len(s.SSIDs) > max {
		pdf.CellFormat(0, 5, fmt.Sprintf("... and %d more", len(s.SSIDs)-max), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *Exporter) addFrameCounts(pdf *gofpdf.Fpdf, s Snapshot) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Frames Synthesized", "", 1, "L", false, 0, "")

	rows := []struct {
		label string
		value int64
	}{
		{"Probe Requests", s.ProbeRequests},
		{"Association Requests", s.AssociationRequests},
		{"Authentications", s.Authentications},
		{"Encrypted Data", s.EncryptedFrames},
		{"Beacons", s.Beacons},
		{"Noise Probes", s.NoiseProbes},
	}

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	for _, r := range rows {
		pdf.CellFormat(60, 7, r.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%d", r.value), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *Exporter) addMeshAndGovernor(pdf *gofpdf.Fpdf, s Snapshot) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Mesh Relay & Governor", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 7, fmt.Sprintf("Mesh detected: %t", s.MeshDetected), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Mesh cache entries: %d", s.MeshCacheEntries), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Mesh rebroadcasts: %d", s.MeshRebroadcasts), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.CellFormat(0, 7, fmt.Sprintf("Governor low-memory mode: %t", s.GovernorLowMemory), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Governor interventions: %d", s.GovernorInterventions), "", 1, "L", false, 0, "")
}
