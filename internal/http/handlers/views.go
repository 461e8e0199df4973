package handlers

import (
	"embed"
	"html/template"
	"time"

	"github.com/cdforge/forge-site/internal/content"
	"github.com/cdforge/forge-site/internal/receipt"
)

// ReceiptView is a receipt plus the strings the dashboard displays.
type ReceiptView struct {
	receipt.Model
	FormattedDate string `json:"formattedDate" example:"09/07/2025 15:05"`
	BudgetDisplay string `json:"budgetDisplay" example:"R$ 5.000"`
	StatusLabel   string `json:"statusLabel" example:"Pendente"`
	CategoryLabel string `json:"categoryLabel" example:"E-commerce"`
}

func newReceiptView(m receipt.Model, loc *time.Location) ReceiptView {
	return ReceiptView{
		Model:         m,
		FormattedDate: receipt.FormattedDate(m, loc),
		BudgetDisplay: receipt.BudgetDisplay(m),
		StatusLabel:   receipt.StatusDisplay(m),
		CategoryLabel: content.CategoryLabel(m.Service.Category),
	}
}

func receiptViews(ms []receipt.Model, loc *time.Location) []ReceiptView {
	out := make([]ReceiptView, 0, len(ms))
	for _, m := range ms {
		out = append(out, newReceiptView(m, loc))
	}
	return out
}

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the server-rendered pages. The router installs the
// result with SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"contactLabel": contactLabel,
	}).ParseFS(templateFS, "templates/*.html"))
}

func contactLabel(c receipt.ContactMethod) string {
	if c == receipt.ContactWhatsApp {
		return "WhatsApp"
	}
	return "E-mail"
}
