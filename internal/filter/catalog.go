package filter

import (
	"fmt"
	"strings"
)

// Domain is a search context with its own schema and persisted keys.
type Domain string

const (
	DomainCompany      Domain = "empresa"
	DomainProfessional Domain = "profissional"
	DomainService      Domain = "servico"
	DomainPromotion    Domain = "promocao"
)

var domainAliases = map[string]Domain{
	"empresa":       DomainCompany,
	"empresas":      DomainCompany,
	"company":       DomainCompany,
	"companies":     DomainCompany,
	"profissional":  DomainProfessional,
	"profissionais": DomainProfessional,
	"professional":  DomainProfessional,
	"professionals": DomainProfessional,
	"servico":       DomainService,
	"servicos":      DomainService,
	"service":       DomainService,
	"services":      DomainService,
	"promocao":      DomainPromotion,
	"promocoes":     DomainPromotion,
	"promotion":     DomainPromotion,
	"promotions":    DomainPromotion,
}

// ParseDomain resolves a domain key or one of its English/plural aliases.
func ParseDomain(raw string) (Domain, error) {
	d, ok := domainAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, raw)
	}
	return d, nil
}

// Domains lists every search domain in display order.
func Domains() []Domain {
	return []Domain{DomainCompany, DomainProfessional, DomainService, DomainPromotion}
}

var serviceCategories = []Option{
	{Value: "eletrica", Label: "Elétrica"},
	{Value: "hidraulica", Label: "Hidráulica"},
	{Value: "limpeza", Label: "Limpeza"},
	{Value: "pintura", Label: "Pintura"},
	{Value: "jardinagem", Label: "Jardinagem"},
	{Value: "reformas", Label: "Reformas"},
	{Value: "montagem", Label: "Montagem de móveis"},
	{Value: "climatizacao", Label: "Climatização"},
}

func bound(f float64) *float64 { return &f }

var catalog = map[Domain]Schema{
	DomainCompany: MustSchema(DomainCompany,
		[]string{"name", "description", "category", "categoryLabel", "tags"},
		"category",
		FieldSpec{ID: "category", Kind: KindSelect, Label: "Categoria", Options: serviceCategories},
		FieldSpec{ID: "city", Kind: KindText, Label: "Cidade"},
		FieldSpec{ID: "rating", Kind: KindRange, Label: "Avaliação", Min: bound(0), Max: bound(5)},
		FieldSpec{ID: "isOpen", Kind: KindBoolean, Label: "Aberto agora"},
		FieldSpec{ID: "isVerified", Kind: KindBoolean, Label: "Verificada"},
	),
	DomainProfessional: MustSchema(DomainProfessional,
		[]string{"name", "bio", "specialty", "specialtyLabel"},
		"specialty",
		FieldSpec{ID: "specialty", Kind: KindSelect, Label: "Especialidade", Options: serviceCategories},
		FieldSpec{ID: "city", Kind: KindText, Label: "Cidade"},
		FieldSpec{ID: "rating", Kind: KindRange, Label: "Avaliação", Min: bound(0), Max: bound(5)},
		FieldSpec{ID: "hourlyRate", Kind: KindRange, Label: "Valor por hora", Min: bound(0)},
		FieldSpec{ID: "isAvailable", Kind: KindBoolean, Label: "Disponível"},
	),
	DomainService: MustSchema(DomainService,
		[]string{"title", "description", "category", "categoryLabel", "providerName"},
		"category",
		FieldSpec{ID: "category", Kind: KindSelect, Label: "Categoria", Options: serviceCategories},
		FieldSpec{ID: "price", Kind: KindRange, Label: "Preço", Min: bound(0)},
		FieldSpec{ID: "rating", Kind: KindRange, Label: "Avaliação", Min: bound(0), Max: bound(5)},
		FieldSpec{ID: "duration", Kind: KindRange, Label: "Duração (min)", Attribute: "durationMinutes", Min: bound(0)},
	),
	DomainPromotion: MustSchema(DomainPromotion,
		[]string{"title", "description", "category", "categoryLabel", "companyName"},
		"category",
		FieldSpec{ID: "category", Kind: KindSelect, Label: "Categoria", Options: serviceCategories},
		FieldSpec{ID: "discount", Kind: KindRange, Label: "Desconto (%)", Attribute: "discountPercent", Min: bound(0), Max: bound(100)},
		FieldSpec{ID: "price", Kind: KindRange, Label: "Preço", Min: bound(0)},
		FieldSpec{ID: "isActive", Kind: KindBoolean, Label: "Ativa"},
	),
}

// Lookup returns the schema of a domain.
func Lookup(d Domain) (Schema, error) {
	s, ok := catalog[d]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	return s, nil
}

// CategoryLabel returns the display label of a category value, or the value
// itself when it is not in the catalog.
func CategoryLabel(value string) string {
	for _, o := range serviceCategories {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
