// Package content holds the static copy served by the informational pages
// and the service category catalogue used by the intake form.
package content

// Value is one of the company values shown on the about page.
type Value struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Member is a founder profile.
type Member struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
}

// About is the about page payload.
type About struct {
	Team    string   `json:"team"`
	Tagline string   `json:"tagline"`
	Members []Member `json:"members"`
	Values  []Value  `json:"values"`
}

// Category is a selectable service category.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var about = About{
	Team:    "Quarteto Forge",
	Tagline: "Somos especialistas focados em administrar seu negócio, fazer você alavancar e resolver problemas com soluções digitais inovadoras.",
	Members: []Member{
		{
			Name:   "Melke",
			Role:   "Sócio & Desenvolvedor Full-Stack",
			Bio:    "Sócio e principal responsável pelo desenvolvimento de curto prazo. Especialista em criar soluções técnicas rápidas e eficientes para projetos imediatos.",
			Skills: []string{"Desenvolvimento Ágil", "Soluções Técnicas", "Curto Prazo"},
		},
		{
			Name:   "Zanesco",
			Role:   "Sócio & Líder Financeiro",
			Bio:    "Sócio e principal membro para questões financeiras. Líder em performance de projetos, responsável pela excelência técnica e resultados financeiros.",
			Skills: []string{"Gestão Financeira", "Performance Técnica", "Liderança Técnica"},
		},
		{
			Name:   "Pedro",
			Role:   "Agente Oficial",
			Bio:    "Especialista em assistência de bots, negociações e vendas. Garante que cada cliente tenha a melhor experiência e solução personalizada.",
			Skills: []string{"Assistência", "Negociações", "Vendas"},
		},
		{
			Name:   "GM",
			Role:   "Dev Full Stack & Sócio",
			Bio:    "Desenvolvedor Full Stack e sócio principal. Responsável pelas negociações estratégicas e pela arquitetura técnica dos projetos mais complexos.",
			Skills: []string{"Full Stack", "Sócio", "Negociações"},
		},
	},
	Values: []Value{
		{"Foco no Cliente", "Cada projeto é único e merece atenção especial"},
		{"Inovação Constante", "Sempre buscando as melhores tecnologias"},
		{"Qualidade Garantida", "Compromisso com excelência em tudo que fazemos"},
		{"Crescimento Sustentável", "Ajudamos seu negócio a crescer de forma inteligente"},
	},
}

var categories = []Category{
	{"bots", "Bots (Discord, Telegram, etc)"},
	{"websites", "Websites e Landing Pages"},
	{"ecommerce", "E-commerce"},
	{"mobile", "Aplicativos Mobile"},
	{"api", "APIs e Integrações"},
	{"consulting", "Consultoria Técnica"},
	{"other", "Outro"},
}

// GetAbout returns a copy of the about page content.
func GetAbout() About {
	out := about
	out.Members = make([]Member, len(about.Members))
	for i, m := range about.Members {
		m.Skills = append([]string(nil), m.Skills...)
		out.Members[i] = m
	}
	out.Values = append([]Value(nil), about.Values...)
	return out
}

// Categories returns the service categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// IsCategory reports whether v is a known category value.
func IsCategory(v string) bool {
	for _, c := range categories {
		if c.Value == v {
			return true
		}
	}
	return false
}

// CategoryLabel returns the label for v, or v itself when unknown.
func CategoryLabel(v string) string {
	for _, c := range categories {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}
