// Package receipt builds the canonical receipt view of an order record.
//
// Stored orders come in several historical shapes (flat client/project/price
// documents, nested customer/service/project documents, and the summary-based
// documents written by the intake form). Build maps any of them onto a single
// Model using the ordered alias table in alias.go and documented defaults.
//
// Build is total: it never returns an error and never panics, whatever the
// input. The Model is a transient view and is never written back to a store.
package receipt

import "time"

// Raw is a loosely-typed order record as read from a store or a request body.
type Raw map[string]any

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Complexity is the coarse size of the requested project.
type Complexity string

const (
	ComplexityBasic        Complexity = "basic"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Timeline is the urgency of the requested project.
type Timeline string

const (
	TimelineUrgent   Timeline = "urgent"
	TimelineNormal   Timeline = "normal"
	TimelineFlexible Timeline = "flexible"
)

// ContactMethod is how the customer prefers to be reached.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "email"
	ContactWhatsApp ContactMethod = "whatsapp"
)

// Defaults applied when no alias resolves.
const (
	DefaultOrderID     = "ID não disponível"
	DefaultName        = "Não informado"
	DefaultEmail       = "Não informado"
	DefaultTitle       = "Serviço não especificado"
	DefaultDescription = "Sem descrição"
	DefaultCategory    = "Não categorizado"
)

// Customer identifies who placed the order. Phone is empty when unknown.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Service describes what was requested. Platform is empty when unknown.
type Service struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Platform    string `json:"platform,omitempty"`
}

// Project holds the specification of the requested work.
type Project struct {
	Complexity Complexity `json:"complexity"`
	Timeline   Timeline   `json:"timeline"`
	Budget     *float64   `json:"budget,omitempty"`
	Deadline   string     `json:"deadline,omitempty"`
}

// Model is the canonical receipt record.
type Model struct {
	OrderID       string        `json:"orderId"`
	CreatedAt     *time.Time    `json:"createdAt"`
	Status        Status        `json:"status"`
	Customer      Customer      `json:"customer"`
	Service       Service       `json:"service"`
	Project       Project       `json:"project"`
	Requirements  []string      `json:"requirements"`
	ContactMethod ContactMethod `json:"contactMethod"`
	Shape         Shape         `json:"shape"`
	RawPayload    Raw           `json:"rawPayload"`
}

// Build normalizes raw into a Model. A nil raw is treated as empty.
func Build(raw Raw) Model {
	if raw == nil {
		raw = Raw{}
	}

	m := Model{
		OrderID:   stringOr(raw, FieldOrderID, DefaultOrderID),
		CreatedAt: coerceTime(raw[FieldCreatedAt]),
		Status:    statusOf(raw),
		Customer: Customer{
			Name:  stringOr(raw, FieldCustomerName, DefaultName),
			Email: stringOr(raw, FieldCustomerEmail, DefaultEmail),
			Phone: stringOr(raw, FieldCustomerPhone, ""),
		},
		Service: Service{
			Title:       stringOr(raw, FieldServiceTitle, DefaultTitle),
			Description: stringOr(raw, FieldServiceDescription, DefaultDescription),
			Category:    stringOr(raw, FieldServiceCategory, DefaultCategory),
			Platform:    stringOr(raw, FieldServicePlatform, ""),
		},
		Project: Project{
			Complexity: complexityOf(raw),
			Timeline:   timelineOf(raw),
			Budget:     resolveNumber(raw, FieldProjectBudget),
			Deadline:   stringOr(raw, FieldProjectDeadline, ""),
		},
		Requirements:  resolveList(raw, FieldRequirements),
		ContactMethod: contactOf(raw),
		Shape:         DetectShape(raw),
		RawPayload:    raw,
	}
	return m
}

// IsValid reports whether v looks like a canonical receipt: a non-nil Model,
// or a map carrying a string orderId and object-valued customer, service and
// project entries. It never panics.
func IsValid(v any) bool {
	switch t := v.(type) {
	case Model:
		return true
	case *Model:
		return t != nil
	case Raw:
		return validMap(t)
	case map[string]any:
		return validMap(t)
	default:
		return false
	}
}

func validMap(m map[string]any) bool {
	if m == nil {
		return false
	}
	if _, ok := m[FieldOrderID].(string); !ok {
		return false
	}
	for _, k := range []string{"customer", "service", "project"} {
		if _, ok := asMap(m[k]); !ok {
			return false
		}
	}
	return true
}

// ToRaw renders m back into a record keyed by the canonical field names.
// Feeding the result to Build yields the same canonical values.
func ToRaw(m Model) Raw {
	customer := map[string]any{"name": m.Customer.Name, "email": m.Customer.Email}
	if m.Customer.Phone != "" {
		customer["phone"] = m.Customer.Phone
	}
	service := map[string]any{
		"title":       m.Service.Title,
		"description": m.Service.Description,
		"category":    m.Service.Category,
	}
	if m.Service.Platform != "" {
		service["platform"] = m.Service.Platform
	}
	project := map[string]any{
		"complexity": string(m.Project.Complexity),
		"timeline":   string(m.Project.Timeline),
	}
	if m.Project.Budget != nil {
		project["budget"] = *m.Project.Budget
	}
	if m.Project.Deadline != "" {
		project["deadline"] = m.Project.Deadline
	}
	reqs := make([]any, 0, len(m.Requirements))
	for _, r := range m.Requirements {
		reqs = append(reqs, r)
	}

	out := Raw{
		FieldOrderID:       m.OrderID,
		FieldStatus:        string(m.Status),
		"customer":         customer,
		"service":          service,
		"project":          project,
		FieldRequirements:  reqs,
		FieldContactMethod: string(m.ContactMethod),
	}
	if m.CreatedAt != nil {
		out[FieldCreatedAt] = *m.CreatedAt
	}
	return out
}

func statusOf(raw Raw) Status {
	s, _ := resolveString(raw, FieldStatus)
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusInProgress, StatusCompleted, StatusCancelled:
		return st
	}
	return StatusPending
}

func complexityOf(raw Raw) Complexity {
	s, _ := resolveString(raw, FieldProjectComplexity)
	switch c := Complexity(s); c {
	case ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced:
		return c
	}
	return ComplexityBasic
}

func timelineOf(raw Raw) Timeline {
	s, _ := resolveString(raw, FieldProjectTimeline)
	switch t := Timeline(s); t {
	case TimelineUrgent, TimelineNormal, TimelineFlexible:
		return t
	}
	return TimelineNormal
}

func contactOf(raw Raw) ContactMethod {
	s, _ := resolveString(raw, FieldContactMethod)
	if ContactMethod(s) == ContactWhatsApp {
		return ContactWhatsApp
	}
	return ContactEmail
}

func stringOr(raw Raw, field, def string) string {
	if s, ok := resolveString(raw, field); ok {
		return s
	}
	return def
}
