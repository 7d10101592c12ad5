package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/antigolpes/backend/internal/domain/quizattempt"
)

// maxBars caps the chart to the most recent runs so bars stay readable.
const maxBars = 15

// Data is everything drawn on a progress report.
type Data struct {
	Name        string
	Email       string
	Stats       quizattempt.Stats
	Attempts    []quizattempt.Attempt // most recent first
	Series      []quizattempt.Point   // oldest first
	GeneratedAt time.Time
}

// Render writes an A4 PDF with the stat cards, a score chart and the attempt
// history table.
func Render(w io.Writer, d Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accents in pt-BR text survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Relatório de progresso", true)
	pdf.SetAuthor("Simulador Anti-Golpes", true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("Relatório de progresso"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s <%s>", d.Name, d.Email)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr("Gerado em "+d.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	drawStatCards(pdf, tr, d.Stats)
	pdf.Ln(6)

	if len(d.Series) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 7, tr("Nenhuma partida registrada ainda. Jogue o quiz para acompanhar sua evolução."), "", "L", false)
		return output(pdf, w)
	}

	drawChart(pdf, tr, d.Series)
	pdf.Ln(8)
	drawHistory(pdf, tr, d.Attempts)

	return output(pdf, w)
}

func output(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: render pdf: %w", err)
	}
	return nil
}

func drawStatCards(pdf *gofpdf.Fpdf, tr func(string) string, s quizattempt.Stats) {
	last := "-"
	if s.LastAttempt != nil {
		last = fmt.Sprintf("%d/%d", s.LastAttempt.Score, s.LastAttempt.TotalQuestions)
	}

	cards := []struct {
		label string
		value string
	}{
		{"Partidas", fmt.Sprintf("%d", s.TotalAttempts)},
		{"Média", fmt.Sprintf("%.1f", s.AverageScore)},
		{"Melhor", fmt.Sprintf("%d", s.BestScore)},
		{"Última", last},
	}

	const gap = 4.0
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	cardW := (pageW - left - right - gap*float64(len(cards)-1)) / float64(len(cards))
	x, y := pdf.GetXY()

	for i, c := range cards {
		cx := x + float64(i)*(cardW+gap)
		pdf.SetFillColor(235, 242, 250)
		pdf.Rect(cx, y, cardW, 20, "F")

		pdf.SetXY(cx, y+2)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(cardW, 5, tr(c.label), "", 0, "C", false, 0, "")

		pdf.SetXY(cx, y+8)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(cardW, 9, tr(c.value), "", 0, "C", false, 0, "")
	}
	pdf.SetXY(x, y+20)
}

func drawChart(pdf *gofpdf.Fpdf, tr func(string) string, series []quizattempt.Point) {
	if len(series) > maxBars {
		series = series[len(series)-maxBars:]
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Aproveitamento por partida (%)"), "", 1, "L", false, 0, "")

	const chartH = 60.0
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	chartW := pageW - left - right
	x0, y0 := pdf.GetXY()
	base := y0 + chartH

	// Gridlines at 0, 50 and 100%.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Helvetica", "", 7)
	for _, pct := range []float64{0, 50, 100} {
		gy := base - chartH*pct/100
		pdf.Line(x0+8, gy, x0+chartW, gy)
		pdf.Text(x0, gy+1, fmt.Sprintf("%.0f", pct))
	}

	slotW := (chartW - 8) / float64(len(series))
	barW := slotW * 0.6
	pdf.SetFillColor(52, 120, 198)
	for i, p := range series {
		h := chartH * float64(p.Percentage) / 100
		bx := x0 + 8 + float64(i)*slotW + (slotW-barW)/2
		if h > 0 {
			pdf.Rect(bx, base-h, barW, h, "F")
		}

		pdf.SetXY(bx-2, base-h-5)
		pdf.CellFormat(barW+4, 4, fmt.Sprintf("%d", p.Score), "", 0, "C", false, 0, "")
		pdf.SetXY(bx-2, base+1)
		pdf.CellFormat(barW+4, 4, p.Date, "", 0, "C", false, 0, "")
	}

	pdf.SetXY(x0, base+7)
}

func drawHistory(pdf *gofpdf.Fpdf, tr func(string) string, attempts []quizattempt.Attempt) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Histórico"), "", 1, "L", false, 0, "")

	widths := []float64{50, 40, 40, 50}
	header := []string{"Data", "Acertos", "Perguntas", "Aproveitamento"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 242, 250)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, a := range attempts {
		row := []string{
			a.CompletedAt.Local().Format("02/01/2006 15:04"),
			fmt.Sprintf("%d", a.Score),
			fmt.Sprintf("%d", a.TotalQuestions),
			fmt.Sprintf("%d%%", a.Percentage),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
