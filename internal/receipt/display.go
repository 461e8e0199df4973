package receipt

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholders shown when a value is missing.
const (
	DateUnavailable = "Data não disponível"
	BudgetMissing   = "Não informado"
)

// DateLayout renders dd/MM/yyyy HH:mm.
const DateLayout = "02/01/2006 15:04"

var statusLabels = map[Status]string{
	StatusPending:    "Pendente",
	StatusApproved:   "Aprovado",
	StatusInProgress: "Em Progresso",
	StatusCompleted:  "Concluído",
	StatusCancelled:  "Cancelado",
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormattedDate renders CreatedAt in loc (UTC when nil).
func FormattedDate(m Model, loc *time.Location) string {
	if m.CreatedAt == nil {
		return DateUnavailable
	}
	if loc == nil {
		loc = time.UTC
	}
	return m.CreatedAt.In(loc).Format(DateLayout)
}

// BudgetDisplay renders the budget in reais with pt-BR digit grouping.
func BudgetDisplay(m Model) string {
	b := m.Project.Budget
	if b == nil || *b == 0 {
		return BudgetMissing
	}
	return "R$ " + ptBR.Sprintf("%v", number.Decimal(*b))
}

// StatusDisplay returns the label of m.Status. Unknown values pass through.
func StatusDisplay(m Model) string {
	if l, ok := statusLabels[m.Status]; ok {
		return l
	}
	return string(m.Status)
}
