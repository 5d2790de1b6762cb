package web

import (
	"math"
	"sort"

	"inventory/internal/models"
)

// CategoryGroup son los productos de una categoría en orden de tarjeta
type CategoryGroup struct {
	Name     string
	Products []*models.Product
}

// GroupByCategory agrupa en orden de primera aparición; dentro de cada grupo
// ordena por order con los que no tienen order al final, estable
func GroupByCategory(products []*models.Product) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup

	for _, p := range products {
		name := p.CategoryOrDefault()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	for _, g := range groups {
		sort.SliceStable(g.Products, func(a, b int) bool {
			return orderKey(g.Products[a]) < orderKey(g.Products[b])
		})
	}
	return groups
}

// CategoryNames devuelve los nombres de grupo para los chips de filtro
func CategoryNames(groups []CategoryGroup) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func orderKey(p *models.Product) int {
	if p.Order == nil {
		return math.MaxInt
	}
	return *p.Order
}
