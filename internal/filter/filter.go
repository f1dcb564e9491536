// Package filter reduces a product list by category, sale type, brand and search term.
// Everything here is pure: no I/O, no errors, input order is preserved.
package filter

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/product-catalog/internal/model"
)

// All is the sentinel that disables the category and brand filters.
const All = "all"

// NoBrand is the group name used for products without a brand.
const NoBrand = "Sin marca"

// SaleType selects which price a listing is based on.
type SaleType string

const (
	// SaleTypeAny disables sale type filtering.
	SaleTypeAny SaleType = ""
	// SaleTypeWholesale keeps products with a unit price in a wholesale category.
	SaleTypeWholesale SaleType = "mayor"
	// SaleTypeRetail keeps products with a per kilogram price.
	SaleTypeRetail SaleType = "menor"
)

// ParseSaleType accepts the catalog values (mayor, menor) and their English aliases.
func ParseSaleType(raw string) (SaleType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", All:
		return SaleTypeAny, nil
	case string(SaleTypeWholesale), "wholesale":
		return SaleTypeWholesale, nil
	case string(SaleTypeRetail), "retail":
		return SaleTypeRetail, nil
	default:
		return SaleTypeAny, fmt.Errorf("unknown sale type %q", raw)
	}
}

// Criteria is the user selected filter state.
type Criteria struct {
	CategoryID string
	Search     string
	SaleType   SaleType
	Brand      string
}

// Rules are the business lists the engine is configured with.
type Rules struct {
	WholesaleCategories []string
	BrandCategory       string
	Brands              []string
}

// DefaultRules returns the rules the catalog ships with.
func DefaultRules() Rules {
	return Rules{
		WholesaleCategories: []string{"Rebozados", "Cajones", "Pescados", "Ofertas"},
		BrandCategory:       "Rebozados",
		Brands:              []string{"GRANGYS", "GTA", "SHADDAI", "VIDAL FOOD", "SOLIMENO"},
	}
}

// IsWholesaleCategory reports whether products of the named category can be sold wholesale.
func (r Rules) IsWholesaleCategory(name string) bool {
	return containsFold(r.WholesaleCategories, name)
}

// BrandAllowed reports whether brand is a value the brand filter accepts. "all" is always allowed.
func (r Rules) BrandAllowed(brand string) bool {
	if isAll(brand) {
		return true
	}
	return containsFold(r.Brands, brand)
}

// Predicate decides whether a product stays in the result.
type Predicate func(model.Product) bool

// Engine applies Criteria to product lists.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine for the given rules.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine configuration.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Apply returns the products matching every active criterion, in input order.
// The result is never nil.
func (e *Engine) Apply(products []model.Product, categories []model.Category, c Criteria) []model.Product {
	return Match(products, e.Predicates(categories, c)...)
}

// Predicates translates criteria into the list of active predicates.
func (e *Engine) Predicates(categories []model.Category, c Criteria) []Predicate {
	names := newCategoryNames(categories)
	preds := make([]Predicate, 0, 4)

	if !isAll(c.CategoryID) {
		preds = append(preds, ByCategory(c.CategoryID))
	}
	switch c.SaleType {
	case SaleTypeWholesale:
		preds = append(preds, wholesale(e.rules, names))
	case SaleTypeRetail:
		preds = append(preds, Retail())
	}
	if e.BrandFilterApplies(categories, c) {
		preds = append(preds, ByBrand(c.Brand))
	}
	if c.Search != "" {
		preds = append(preds, bySearch(c.Search, names))
	}
	return preds
}

// Admin reduces the admin product table: category equality and a search over
// the product or category name. Sale type and brand do not apply there.
func Admin(products []model.Product, categories []model.Category, categoryID, search string) []model.Product {
	names := newCategoryNames(categories)
	preds := make([]Predicate, 0, 2)
	if !isAll(categoryID) {
		preds = append(preds, ByCategory(categoryID))
	}
	if search != "" {
		needle := strings.ToLower(search)
		preds = append(preds, func(p model.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(names.of(p)), needle)
		})
	}
	return Match(products, preds...)
}

// BrandFilterApplies reports whether the brand criterion restricts the result:
// a specific brand is chosen and OffersBrands holds.
func (e *Engine) BrandFilterApplies(categories []model.Category, c Criteria) bool {
	return !isAll(c.Brand) && e.OffersBrands(categories, c)
}

// OffersBrands reports whether a brand choice is available for the criteria.
// Only wholesale listings of the brand category are split by brand.
func (e *Engine) OffersBrands(categories []model.Category, c Criteria) bool {
	if c.SaleType != SaleTypeWholesale || isAll(c.CategoryID) {
		return false
	}
	return e.IsBrandCategory(categories, c.CategoryID)
}

// IsBrandCategory reports whether categoryID names the category that offers the brand filter.
func (e *Engine) IsBrandCategory(categories []model.Category, categoryID string) bool {
	for _, cat := range categories {
		if cat.ID.String() == categoryID {
			return strings.EqualFold(cat.Name, e.rules.BrandCategory)
		}
	}
	return false
}

// Match keeps the products accepted by every predicate.
func Match(products []model.Product, preds ...Predicate) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matchesAll(p, preds) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAll(p model.Product, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// ByCategory matches on the stringified category id.
func ByCategory(categoryID string) Predicate {
	return func(p model.Product) bool {
		return p.CategoryID.String() == categoryID
	}
}

// Wholesale matches products with a unit price whose category is sold wholesale.
func Wholesale(rules Rules) Predicate {
	return wholesale(rules, nil)
}

func wholesale(rules Rules, names categoryNames) Predicate {
	return func(p model.Product) bool {
		return p.HasPrice() && rules.IsWholesaleCategory(names.of(p))
	}
}

// Retail matches products with a per kilogram price.
func Retail() Predicate {
	return func(p model.Product) bool {
		return p.HasPricePerKg()
	}
}

// ByBrand matches the product brand case-insensitively.
func ByBrand(brand string) Predicate {
	return func(p model.Product) bool {
		return p.Brand != nil && strings.EqualFold(*p.Brand, brand)
	}
}

// BySearch matches a case-insensitive substring of the name, category name or brand.
// The term is used as given; only the empty term matches everything.
func BySearch(term string) Predicate {
	return bySearch(term, nil)
}

func bySearch(term string, names categoryNames) Predicate {
	needle := strings.ToLower(term)
	return func(p model.Product) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(names.of(p)), needle) ||
			strings.Contains(strings.ToLower(p.BrandName()), needle)
	}
}

// BrandGroup is a run of products sharing a brand.
type BrandGroup struct {
	Brand    string          `json:"brand"`
	Products []model.Product `json:"products"`
}

// GroupByBrand groups products by brand in first seen order.
// Products without a brand land in the NoBrand group.
func GroupByBrand(products []model.Product) []BrandGroup {
	groups := make([]BrandGroup, 0)
	index := make(map[string]int)
	for _, p := range products {
		brand := strings.TrimSpace(p.BrandName())
		if brand == "" {
			brand = NoBrand
		}
		i, ok := index[brand]
		if !ok {
			i = len(groups)
			index[brand] = i
			groups = append(groups, BrandGroup{Brand: brand})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// CountPriced counts products with a unit price per category.
func CountPriced(products []model.Product) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, p := range products {
		if p.HasPrice() {
			counts[p.CategoryID]++
		}
	}
	return counts
}

// categoryNames resolves a product's category name from the category list,
// falling back to the joined name carried by the product.
type categoryNames map[uuid.UUID]string

func newCategoryNames(categories []model.Category) categoryNames {
	names := make(categoryNames, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func (n categoryNames) of(p model.Product) string {
	if name, ok := n[p.CategoryID]; ok {
		return name
	}
	return p.CategoryName
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
