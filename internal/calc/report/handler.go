package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"

	"Separator/internal/calc/plot"
	"Separator/internal/calc/separator"
)

type Input struct {
	Project string           `json:"project"`
	Author  string           `json:"author"`
	Title   string           `json:"title"`
	Notes   string           `json:"notes"`
	Config  separator.Config `json:"config"`
}

type Handler struct{}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := separator.Calculate(input.Config)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, input, res, time.Now()); err != nil {
		log.Printf("report: %v", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"separator-report.pdf\"")
	w.Write(buf.Bytes())
}

// Write lays out a one page A4 report with the inputs, the result and the cross-section.
func Write(out io.Writer, input Input, res separator.Response, date time.Time) error {
	if input.Title == "" {
		input.Title = "Separation Zone Report"
	}

	var img bytes.Buffer
	if err := plot.PNG(&img, res.Directive); err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Input")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	c := res.Config
	rows := [][2]string{
		{"Light phase weir radius r1", fmt.Sprintf("%.3f m", c.R1Meters)},
		{"Heavy phase weir radius r2", fmt.Sprintf("%.3f m", c.R2Meters)},
		{"Rising channel radius", fmt.Sprintf("%.3f m", c.ChannelMeters)},
		{"Light phase density rho1", fmt.Sprintf("%.1f kg/m3", c.Rho1KGM3)},
		{"Heavy phase density rho2", fmt.Sprintf("%.1f kg/m3", c.Rho2KGM3)},
		{"Bowl inner radius", fmt.Sprintf("%.3f m", c.BowlRadiusM)},
	}
	for _, row := range rows {
		pdf.CellFormat(90, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Result")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if res.Result.Valid {
		pdf.Cell(0, 6, fmt.Sprintf("Interface Radius (R): %s", res.Display))
	} else {
		pdf.SetTextColor(176, 0, 0)
		pdf.MultiCell(0, 6, res.Warning, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(8)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("cross-section", opts, &img)
	pdf.ImageOptions("cross-section", 10, pdf.GetY(), 190, 0, true, opts, 0, "")

	if input.Notes != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}
	return pdf.Output(out)
}
