// Package invoice renders a self-contained printable invoice document for
// one project and its client. Nothing is persisted: the invoice number is
// drawn fresh on every render.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"math/rand"
	"strings"
	"time"

	"gigtrack/models"
)

const dueInDays = 15

type invoiceData struct {
	Number      int
	IssueDate   string
	DueDate     string
	CompanyName string
	Client      models.Client
	Project     models.Project
	Amount      string
}

// Render produces the printable HTML document. The invoice number is random
// in [100000, 999999]; regenerating the same invoice may show a different one.
func Render(project models.Project, client models.Client, companyName string) (string, error) {
	return renderAt(project, client, companyName, time.Now())
}

func renderAt(project models.Project, client models.Client, companyName string, now time.Time) (string, error) {
	data := invoiceData{
		Number:      100000 + rand.Intn(900000),
		IssueDate:   now.Format("January 2, 2006"),
		DueDate:     now.AddDate(0, 0, dueInDays).Format("January 2, 2006"),
		CompanyName: companyName,
		Client:      client,
		Project:     project,
		Amount:      formatAmount(project.Budget),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering invoice: %w", err)
	}
	return buf.String(), nil
}

// formatAmount renders a dollar amount with two decimals and thousands
// separators, e.g. 2500 -> "2,500.00".
func formatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String() + frac
}

var tmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Invoice #{{.Number}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; margin: 0; padding: 0; background-color: #f3f4f6; color: #374151; -webkit-print-color-adjust: exact; print-color-adjust: exact; }
        .invoice-wrapper { max-width: 800px; margin: 2rem auto; padding: 3rem; background-color: #ffffff; box-shadow: 0 10px 15px -3px rgba(0,0,0,0.1); border-radius: 0.5rem; }
        .header { display: flex; justify-content: space-between; align-items: flex-start; padding-bottom: 1.5rem; border-bottom: 1px solid #e5e7eb; }
        .company-info .logo { font-size: 1.5rem; font-weight: bold; color: #111827; margin-bottom: 0.5rem; }
        .company-info p { margin: 0; font-size: 0.875rem; color: #6b7280; }
        .invoice-details { text-align: right; }
        .invoice-details h1 { font-size: 2.5rem; font-weight: 700; color: #3b82f6; margin: 0 0 0.5rem 0; }
        .invoice-details p { margin: 2px 0; font-size: 0.875rem; }
        .billing-section { display: flex; justify-content: space-between; margin: 2rem 0; }
        .billing-section h3 { font-size: 0.75rem; text-transform: uppercase; color: #6b7280; margin: 0 0 0.5rem 0; }
        .billing-section p { margin: 0; font-size: 0.9rem; }
        .invoice-table { width: 100%; border-collapse: collapse; margin-bottom: 2rem; }
        .invoice-table thead { background-color: #3b82f6; color: #ffffff; }
        .invoice-table th { padding: 0.75rem 1rem; text-align: left; font-size: 0.8rem; text-transform: uppercase; }
        .invoice-table td { padding: 1rem; border-bottom: 1px solid #e5e7eb; }
        .invoice-table .item-description { font-size: 0.875rem; color: #6b7280; max-width: 400px; }
        .align-right { text-align: right; }
        .summary-section { display: flex; justify-content: flex-end; }
        .summary-table { width: 100%; max-width: 300px; }
        .summary-table td { padding: 0.75rem 0; font-size: 0.9rem; }
        .summary-table .label { color: #6b7280; }
        .summary-table .grand-total { border-top: 2px solid #111827; }
        .summary-table .grand-total td { font-size: 1.25rem; font-weight: bold; color: #111827; }
        .footer { margin-top: 3rem; padding-top: 1.5rem; border-top: 1px solid #e5e7eb; text-align: center; font-size: 0.8rem; color: #6b7280; }
        .footer p { margin: 0.25rem 0; }
        @media print { body { background-color: #ffffff; } .invoice-wrapper { margin: 0; padding: 0; box-shadow: none; } }
    </style>
</head>
<body>
    <div class="invoice-wrapper">
        <header class="header">
            <div class="company-info">
                <div class="logo">{{.CompanyName}}</div>
                <p>123 Creative Lane, Design City, DC 54321</p>
            </div>
            <div class="invoice-details">
                <h1>INVOICE</h1>
                <p><strong>Invoice #:</strong> {{.Number}}</p>
                <p><strong>Date of Issue:</strong> {{.IssueDate}}</p>
            </div>
        </header>
        <section class="billing-section">
            <div class="billed-to">
                <h3>Billed To</h3>
                <p><strong>{{.Client.Name}}</strong></p>
                <p>{{.Client.Contact}}</p>
            </div>
            <div style="text-align: right;">
                 <h3>Payment Details</h3>
                 <p><strong>Due Date:</strong> {{.DueDate}}</p>
                 <p><strong>Status:</strong> <span style="color: #ef4444; font-weight: bold;">Unpaid</span></p>
            </div>
        </section>
        <table class="invoice-table">
            <thead>
                <tr><th>Service</th><th class="align-right">Rate</th><th class="align-right">Amount</th></tr>
            </thead>
            <tbody>
                <tr>
                    <td><strong>{{.Project.Name}}</strong><p class="item-description">{{.Project.Description}}</p></td>
                    <td class="align-right">${{.Amount}}</td>
                    <td class="align-right">${{.Amount}}</td>
                </tr>
            </tbody>
        </table>
        <section class="summary-section">
            <table class="summary-table">
                <tr><td class="label">Subtotal</td><td class="align-right">${{.Amount}}</td></tr>
                <tr><td class="label">Tax (0%)</td><td class="align-right">$0.00</td></tr>
                <tr class="grand-total"><td class="label">Total Due</td><td class="align-right">${{.Amount}}</td></tr>
            </table>
        </section>
        <footer class="footer">
            <p><strong>Thank you for your business!</strong></p>
            <p>Payment is appreciated within {{/* keep in sync with dueInDays */}}15 days. Please contact me for payment details.</p>
        </footer>
    </div>
</body>
</html>
`))
