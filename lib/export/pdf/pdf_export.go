package pdfexport

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	applicationapimodels "permit-workflow-backend/models/api/application"
	permitapimodels "permit-workflow-backend/models/api/permit"
)

const (
	fontFamily = "Times"
	dateLayout = "02/01/2006"
	// rows printed in the borehole table even when fewer boreholes exist
	minBoreholeRows = 5
)

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 12, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 10)
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GeneratePermit renders Form GW7B.
func GeneratePermit(view permitapimodels.PermitView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GeneratePermit panic recover: %v", r)
		}
	}()
	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(width, 5, "Form GW7B", "", 1, "R", false, 0, "")

	pdf.SetFont(fontFamily, "B", 12)
	pdf.MultiCell(width, 6, "TEMPORARY/PROVISIONAL* SPECIFIC GROUNDWATER ABSTRACTION PERMIT", "", "C", false)
	pdf.SetFont(fontFamily, "I", 9)
	pdf.CellFormat(width, 5, "(Section 15 (3) (a) of Water (Permits) Regulations, 2001)", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(width, 5, tr(fmt.Sprintf("The %s Catchment Council hereby grants a *Temporary/Provisional General Abstraction Permit to:",
		view.Catchment)), "", "C", false)
	pdf.Ln(2)

	field := func(label, value string, w float64, ln int) {
		pdf.SetFont(fontFamily, "", 10)
		labelW := pdf.GetStringWidth(label) + 2
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(w-labelW, 6, tr(value), "", ln, "L", false, 0, "")
	}
	field("Catchment:", view.Catchment, width/2, 0)
	field("Sub-Catchment:", view.SubCatchment, width/2, 1)
	field("1. Name of Applicant:", view.ApplicantName, width, 1)
	postal := view.PostalAddress
	if postal == "" {
		postal = "N/A"
	}
	field("2. Physical address:", view.PhysicalAddress, width/2, 0)
	field("3. Postal address:", postal, width/2, 1)
	field("4. Number of drilled boreholes:", fmt.Sprintf("%d", view.NumberOfBoreholes), width/2, 0)
	field("5. Size of land or property:", fmt.Sprintf("%.2f ha", view.LandSize), width/2, 1)
	field("Permit type:", view.PermitType, width/2, 0)
	field("Total allocated abstraction (ML/annum):", formatAmount(view.TotalAllocation), width/2, 1)
	pdf.Ln(3)

	writeBoreholeTable(pdf, tr, view.Boreholes, width)

	pdf.SetFont(fontFamily, "I", 8)
	pdf.MultiCell(width, 4, "Intended use: irrigation, livestock farming, industrial, mining, urban, national parks, other (specify)", "", "L", false)
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(width, 5, "This Temporary/Provisional* Specific Abstraction Permit has been recorded in the register as:", "", "L", false)
	field("Permit No:", view.PermitNumber, width/2, 0)
	validUntil := ""
	if !view.ValidUntil.IsZero() {
		validUntil = view.ValidUntil.Format(dateLayout)
	}
	field("Valid until:", validUntil, width/2, 1)
	if !view.IssueDate.IsZero() {
		field("Date of issue:", view.IssueDate.Format(dateLayout), width/2, 1)
	}
	pdf.Ln(3)

	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(width, 6, "CONDITIONS", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	for _, condition := range view.Conditions {
		pdf.MultiCell(width, 4.5, tr(condition), "", "J", false)
		pdf.Ln(1.5)
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(width, 6, "ADDITIONAL CONDITIONS", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	for idx, term := range view.AdditionalTerms {
		pdf.MultiCell(width, 4.5, tr(fmt.Sprintf("%d. %s", idx+1, term)), "", "L", false)
	}
	pdf.Ln(8)

	writeSignatureBlock(pdf, tr, view.SignatoryName, width)
	return output(pdf)
}

func writeBoreholeTable(pdf *fpdf.Fpdf, tr func(string) string, rows []permitapimodels.BoreholeView, width float64) {
	headers := []string{"#", "BH-No.", "Allocated", "GPS X", "GPS Y", "Intended use", "Max abstraction (ML/annum)", "Sample analysis every"}
	ratios := []float64{0.05, 0.1, 0.12, 0.12, 0.12, 0.19, 0.15, 0.15}
	pdf.SetFont(fontFamily, "B", 8)
	for idx, header := range headers {
		pdf.CellFormat(width*ratios[idx], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 8)
	total := len(rows)
	if total < minBoreholeRows {
		total = minBoreholeRows
	}
	for n := 0; n < total; n++ {
		values := make([]string, len(headers))
		values[0] = fmt.Sprintf("%d", n+1)
		if n < len(rows) {
			row := rows[n]
			values[1] = row.Number
			values[2] = formatAmount(row.Allocation)
			values[3] = row.GpsX
			values[4] = row.GpsY
			values[5] = truncate(row.IntendedUse, 28)
			values[6] = formatAmount(row.Allocation)
			values[7] = row.SampleFrequency
		}
		for idx, value := range values {
			pdf.CellFormat(width*ratios[idx], 6, tr(value), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func writeSignatureBlock(pdf *fpdf.Fpdf, tr func(string) string, signatory string, width float64) {
	colW := width / 3
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(colW-5, 6, tr(signatory), "B", 0, "C", false, 0, "")
	pdf.CellFormat(5, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(colW-5, 6, "", "B", 0, "C", false, 0, "")
	pdf.CellFormat(5, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(colW-5, 6, "", "B", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(colW, 5, "Name (print)", "", 0, "C", false, 0, "")
	pdf.CellFormat(colW, 5, "Signature", "", 0, "C", false, 0, "")
	pdf.CellFormat(colW, 5, "Official Date Stamp", "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.CellFormat(width, 5, "(Catchment Council Chairperson)", "", 1, "C", false, 0, "")
}

// GenerateComments renders the workflow comments of an application.
func GenerateComments(app applicationapimodels.ApplicationView, comments []applicationapimodels.CommentView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateComments panic recover: %v", r)
		}
	}()
	pdf := newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(width, 7, "Workflow Comments Report", "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(width, 5, tr(fmt.Sprintf("Application %s: %s", app.ApplicationNumber, app.ApplicantName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(width, 5, tr(fmt.Sprintf("Status: %s, stage %d (%s)", app.StatusHuman, app.CurrentStage, app.StageName)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(comments) == 0 {
		pdf.SetFont(fontFamily, "I", 10)
		pdf.CellFormat(width, 6, "No comments recorded.", "", 1, "L", false, 0, "")
		return output(pdf)
	}
	for _, comment := range comments {
		pdf.SetFont(fontFamily, "B", 10)
		header := fmt.Sprintf("%s (%s), stage %d, %s", comment.UserName, comment.UserTypeHuman, comment.Stage,
			comment.CreatedAt.Format("02/01/2006 15:04"))
		pdf.CellFormat(width, 6, tr(header), "", 1, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		if comment.IsRejectionReason {
			pdf.SetFillColor(252, 228, 228)
			pdf.SetTextColor(160, 0, 0)
			pdf.SetFont(fontFamily, "B", 10)
			pdf.MultiCell(width, 5, tr("REJECTION REASON: "+comment.Comment), "1", "L", true)
			pdf.SetTextColor(0, 0, 0)
		} else {
			pdf.MultiCell(width, 5, tr(comment.Comment), "", "L", false)
		}
		pdf.Ln(3)
	}
	return output(pdf)
}

func formatAmount(value float64) string {
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d", int64(value))
	}
	return fmt.Sprintf("%.2f", value)
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
