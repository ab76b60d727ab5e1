package app

import (
    "strings"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/mdaextract/internal/mda"
)

// writeSectionPDF renders an extracted record as a minimal PDF: the
// provenance header in bold, then the section text as one wrapped paragraph
// per "item" heading.
func writeSectionPDF(rec mda.Record, outPath string) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetFont("Helvetica", "B", 10)
    pdf.AddPage()

    for _, line := range rec.Header.Lines() {
        pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
    }
    pdf.Ln(6)

    pdf.SetFont("Helvetica", "", 11)
    for _, para := range splitOnItems(rec.Section) {
        pdf.MultiCell(0, 5, para, "", "L", false)
        pdf.Ln(3)
    }
    return pdf.OutputFileAndClose(outPath)
}

// splitOnItems breaks flattened section text before each "item " heading so
// sub-items start on their own paragraph.
func splitOnItems(text string) []string {
    var out []string
    for {
        i := strings.Index(text[min(1, len(text)):], "item ")
        if i < 0 {
            break
        }
        i++
        if p := strings.TrimSpace(text[:i]); p != "" {
            out = append(out, p)
        }
        text = text[i:]
    }
    if p := strings.TrimSpace(text); p != "" {
        out = append(out, p)
    }
    return out
}
