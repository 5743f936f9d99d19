// Package render draws processed scouting reports as PDF documents.
package render

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/riskibarqy/scouting-report/internal/domain/chartdata"
	"github.com/riskibarqy/scouting-report/internal/domain/scouting"
	"github.com/riskibarqy/scouting-report/internal/platform/coerce"
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const (
	fontFamily   = "Helvetica"
	pageWidth    = 190.0
	lineHeight   = 5.0
	rowHeight    = 6.0
	barWidth     = 90.0
	labelWidth   = 60.0
	notAvailable = "N/A"
)

type rgb struct{ r, g, b int }

var (
	colorAccent   = rgb{30, 64, 120}
	colorHeader   = rgb{230, 234, 242}
	colorStrength = rgb{46, 139, 87}
	colorWeakness = rgb{200, 70, 60}
	colorBar      = rgb{70, 110, 180}
	colorTrack    = rgb{235, 235, 235}
)

// PDFRenderer renders an A4 portrait report.
type PDFRenderer struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewPDFRenderer(logger *logging.Logger) *PDFRenderer {
	if logger == nil {
		logger = logging.Default()
	}
	return &PDFRenderer{logger: logger, now: time.Now}
}

func (r *PDFRenderer) Render(ctx context.Context, report scouting.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.SetTitle("Player Report - "+report.Profile.Name, true)
	pdf.SetCreator("scouting-report", true)

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	generated := r.now().UTC().Format("02 Jan 2006 15:04 MST")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		d.font("I", 7)
		pdf.CellFormat(0, 4, d.tr(fmt.Sprintf("Generated %s - page %d", generated, pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	d.header(report.Profile)
	d.careerTotals(report.Statistics)
	d.positions(report.Positions)
	d.leagueAppearances(report.LeagueAppearances)
	d.transfers(report.Transfers)
	d.injuries(report.Injuries)
	d.assessments(report.Strengths, report.Weaknesses)
	if !report.ChartData.Empty() {
		d.charts(report.ChartData)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := pdf.Output(buf); err != nil {
		r.logger.ErrorContext(ctx, "pdf output failed", "player", report.Profile.Name, "error", err)
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	r.logger.DebugContext(ctx, "pdf rendered", "player", report.Profile.Name, "bytes", len(out))
	return out, nil
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont(fontFamily, style, size)
}

func (d *document) fill(c rgb) { d.pdf.SetFillColor(c.r, c.g, c.b) }

func (d *document) section(title string) {
	d.pdf.Ln(4)
	d.font("B", 11)
	d.pdf.SetTextColor(colorAccent.r, colorAccent.g, colorAccent.b)
	d.pdf.CellFormat(0, 7, d.tr(title), "B", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(1)
}

func (d *document) empty() {
	d.font("I", 9)
	d.pdf.CellFormat(0, lineHeight, "No data available", "", 1, "L", false, 0, "")
}

func (d *document) header(p scouting.ProfileSummary) {
	d.font("B", 18)
	d.pdf.CellFormat(0, 10, d.tr(orNA(p.Name)), "", 1, "L", false, 0, "")

	team := notAvailable
	if p.CurrentTeam != nil && p.CurrentTeam.Name != "" {
		team = p.CurrentTeam.Name
	}
	d.font("", 11)
	d.pdf.CellFormat(0, 6, d.tr(team), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)

	foot := notAvailable
	if p.PreferredFoot != nil && *p.PreferredFoot != "" {
		foot = *p.PreferredFoot
	}
	age := notAvailable
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}

	facts := [][2]string{
		{"Age", age},
		{"Date of birth", orNA(p.DateOfBirth)},
		{"Height", orNA(p.Height)},
		{"Weight", orNA(p.Weight)},
		{"Nationality", orNA(p.Nationality)},
		{"Preferred foot", foot},
	}
	half := pageWidth / 2
	for i, fact := range facts {
		d.font("B", 9)
		d.pdf.CellFormat(30, lineHeight, d.tr(fact[0]+":"), "", 0, "L", false, 0, "")
		d.font("", 9)
		ln := 0
		if i%2 == 1 {
			ln = 1
		}
		d.pdf.CellFormat(half-30, lineHeight, d.tr(fact[1]), "", ln, "L", false, 0, "")
	}
}

func (d *document) careerTotals(t scouting.CareerTotals) {
	d.section("Career Statistics")
	d.table(
		[]string{"Games", "Goals", "Assists", "Yellow", "Red", "Minutes", "Avg rating"},
		nil,
		[][]string{{
			number(t.TotalGames), number(t.TotalGoals), number(t.TotalAssists),
			number(t.TotalYellowCards), number(t.TotalRedCards), number(t.TotalMinutes),
			strconv.FormatFloat(t.AverageRating, 'f', 1, 64),
		}},
	)
}

func (d *document) positions(rows []scouting.PositionSummary) {
	d.section("Positions Played")
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{row.Position, number(row.Appearances), number(row.Goals), number(row.Assists)})
	}
	d.table([]string{"Position", "Appearances", "Goals", "Assists"}, []float64{70, 40, 40, 40}, body)
}

func (d *document) leagueAppearances(rows []scouting.LeagueAppearance) {
	d.section("League Appearances")
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{
			row.Season, row.Competition, number(row.Games), number(row.Goals), number(row.Assists),
			number(row.YellowCards), number(row.SecondYellow), number(row.RedCards), number(row.Minutes),
		})
	}
	d.table(
		[]string{"Season", "Competition", "Games", "Goals", "Assists", "YC", "2YC", "RC", "Minutes"},
		[]float64{22, 58, 15, 15, 15, 13, 13, 13, 26},
		body,
	)
}

func (d *document) transfers(rows []scouting.Transfer) {
	d.section("Transfer History")
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{row.Date, row.Type, row.From, row.To})
	}
	d.table([]string{"Date", "Type", "From", "To"}, []float64{30, 40, 60, 60}, body)
}

func (d *document) injuries(rows []scouting.Injury) {
	d.section("Injury Record")
	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, []string{row.Season, row.Injury, row.From, row.Until, number(row.Days), number(row.GamesMissed)})
	}
	d.table([]string{"Season", "Injury", "From", "Until", "Days", "Games missed"}, []float64{22, 58, 26, 26, 24, 34}, body)
}

func (d *document) assessments(strengths, weaknesses []scouting.Assessment) {
	d.section("Strengths")
	if len(strengths) == 0 {
		d.empty()
	}
	for _, a := range strengths {
		d.bar(a.Category, float64(a.Percentile), 100, strconv.Itoa(a.Percentile)+"%", colorStrength)
	}

	d.section("Areas for Improvement")
	if len(weaknesses) == 0 {
		d.empty()
	}
	for _, a := range weaknesses {
		d.bar(a.Category, float64(a.Percentile), 100, strconv.Itoa(a.Percentile)+"%", colorWeakness)
	}
}

func (d *document) charts(s *chartdata.Segments) {
	d.segmentBars("Radar Metrics", s.RadarChartMetrics)
	d.segmentBars("Positional Traits", s.PositionalTraits)
	d.segmentBars("Rating Trend", s.TFGRatingTrend)

	if len(s.AdvancedStats) == 0 {
		return
	}
	d.section("Advanced Stats")
	for _, key := range sortedKeys(s.AdvancedStats) {
		d.font("B", 9)
		d.pdf.CellFormat(labelWidth, lineHeight, d.tr(key), "", 0, "L", false, 0, "")
		d.font("", 9)
		d.pdf.CellFormat(0, lineHeight, d.tr(coerce.ToString(s.AdvancedStats[key], "-")), "", 1, "L", false, 0, "")
	}
}

// segmentBars draws numeric entries as bars scaled to the largest value
// (or 100 when every value fits a percentage). Text entries are listed.
func (d *document) segmentBars(title string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	d.section(title)

	scale := 100.0
	for _, v := range values {
		if coerce.IsNumber(v) {
			scale = math.Max(scale, coerce.ToNumber(v))
		}
	}

	for _, key := range sortedKeys(values) {
		v := values[key]
		if coerce.IsNumber(v) {
			n := coerce.ToNumber(v)
			d.bar(key, n, scale, number(n), colorBar)
			continue
		}
		d.font("B", 9)
		d.pdf.CellFormat(labelWidth, lineHeight, d.tr(key), "", 0, "L", false, 0, "")
		d.font("", 9)
		d.pdf.CellFormat(0, lineHeight, d.tr(coerce.ToString(v, "-")), "", 1, "L", false, 0, "")
	}
}

func (d *document) bar(label string, value, scale float64, caption string, c rgb) {
	d.font("", 9)
	d.pdf.CellFormat(labelWidth, rowHeight, d.tr(label), "", 0, "L", false, 0, "")

	x, y := d.pdf.GetX(), d.pdf.GetY()+1.5
	d.fill(colorTrack)
	d.pdf.Rect(x, y, barWidth, 3, "F")
	if scale > 0 && value > 0 {
		d.fill(c)
		d.pdf.Rect(x, y, barWidth*math.Min(value/scale, 1), 3, "F")
	}

	d.pdf.SetX(x + barWidth + 3)
	d.pdf.CellFormat(0, rowHeight, d.tr(caption), "", 1, "L", false, 0, "")
}

// table draws a header row and body rows. widths default to equal columns.
func (d *document) table(head []string, widths []float64, body [][]string) {
	if len(body) == 0 {
		d.empty()
		return
	}
	if len(widths) != len(head) {
		widths = make([]float64, len(head))
		for i := range widths {
			widths[i] = pageWidth / float64(len(head))
		}
	}

	d.font("B", 8)
	d.fill(colorHeader)
	for i, h := range head {
		d.pdf.CellFormat(widths[i], rowHeight, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.font("", 8)
	for _, row := range body {
		for i := range head {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "C"
			if !isNumeric(cell) {
				align = "L"
			}
			d.pdf.CellFormat(widths[i], rowHeight, d.tr(fit(d.pdf, cell, widths[i]-2)), "1", 0, align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

// fit shortens s with an ellipsis until it fits width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		if candidate := string(runes) + "..."; pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return s
}

func number(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
