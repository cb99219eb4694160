package market

import (
	"math"
	"sort"
	"strings"
)

// SearchMeals filters by case-insensitive substring match on name and
// description, the way the storefront search box behaves.
func SearchMeals(meals []Meal, term string) []Meal {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return meals
	}
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Description), term) {
			out = append(out, m)
		}
	}
	return out
}

// FilterMealsByCategory keeps meals belonging to one category. An empty or
// "all" id keeps everything.
func FilterMealsByCategory(meals []Meal, categoryID string) []Meal {
	if categoryID == "" || categoryID == "all" {
		return meals
	}
	out := make([]Meal, 0, len(meals))
	for _, m := range meals {
		if m.CategoryID == categoryID {
			out = append(out, m)
		}
	}
	return out
}

// ProviderOrders is one provider's slice of a customer's order history.
type ProviderOrders struct {
	ProviderName string  `json:"providerName"`
	Orders       []Order `json:"orders"`
}

// GroupOrdersByProvider groups a customer's orders by selling provider,
// preserving first-appearance order. Orders without provider detail land in
// an unnamed trailing group.
func GroupOrdersByProvider(orders []Order) []ProviderOrders {
	index := make(map[string]int)
	var groups []ProviderOrders
	for _, o := range orders {
		name := ""
		if o.Meal != nil && o.Meal.Provider != nil {
			name = o.Meal.Provider.User.Name
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, ProviderOrders{ProviderName: name})
		}
		groups[i].Orders = append(groups[i].Orders, o)
	}
	// Unnamed group renders last.
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].ProviderName != "" && groups[b].ProviderName == ""
	})
	return groups
}

// Stats computes the review summary a meal card shows: count and average
// rating rounded to one decimal.
func Stats(reviews []Review) ReviewStats {
	if len(reviews) == 0 {
		return ReviewStats{}
	}
	var sum int
	for _, r := range reviews {
		sum += r.ReviewPoint
	}
	avg := float64(sum) / float64(len(reviews))
	return ReviewStats{
		TotalReviews:  len(reviews),
		AverageRating: math.Round(avg*10) / 10,
	}
}

// TopBrands orders providers by meal count, ties broken by provider name.
func TopBrands(brands []Brand, limit int) []Brand {
	out := make([]Brand, len(brands))
	copy(out, brands)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Profile.Count.Meals != out[b].Profile.Count.Meals {
			return out[a].Profile.Count.Meals > out[b].Profile.Count.Meals
		}
		return out[a].Profile.ProviderName < out[b].Profile.ProviderName
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
