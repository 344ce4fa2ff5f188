package pipeline

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/abhinavparupati/skillrank-hackathon/internal/model"
)

// DefaultCategory is the catchall for descriptions no rule matches.
const DefaultCategory = "General Merchandise"

// categoryRules is the ordered classification table: first match wins,
// case-insensitive substring match on the description.
var categoryRules = []struct {
	keywords []string
	category string
}{
	{[]string{"heart", "love", "valentine", "wedding"}, "Gifts & Romance"},
	{[]string{"christmas", "xmas", "santa", "reindeer"}, "Christmas & Seasonal"},
	{[]string{"bag", "handbag", "purse", "tote"}, "Bags & Accessories"},
	{[]string{"candle", "light", "t-light", "lantern"}, "Lighting & Candles"},
	{[]string{"mug", "cup", "tea", "coffee", "plate"}, "Kitchen & Dining"},
	{[]string{"frame", "picture", "photo"}, "Home Decor"},
	{[]string{"cake", "baking", "kitchen"}, "Baking & Kitchen"},
	{[]string{"toy", "game", "children", "kids"}, "Toys & Games"},
	{[]string{"fabric", "textile", "towel"}, "Textiles & Fabrics"},
	{[]string{"garden", "outdoor", "plant"}, "Garden & Outdoor"},
}

// Categorize classifies a product description using the ordered rule table.
func Categorize(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// stockTiers map cumulative sales volume to a stock range: popular items
// run leaner. Ranges are inclusive.
var stockTiers = []struct {
	minSold  int
	lo, hi   int
}{
	{1001, 10, 50},
	{501, 25, 100},
	{101, 50, 200},
	{0, 100, 500},
}

// EstimateStock draws a stock level for the tier matching totalSold. The
// generator is seeded from the product key alone, so rebuilds against the
// same source reproduce the same stock levels.
func EstimateStock(productKey string, totalSold int) int {
	var lo, hi int
	for _, tier := range stockTiers {
		if totalSold >= tier.minSold {
			lo, hi = tier.lo, tier.hi
			break
		}
	}

	h := fnv.New64a()
	h.Write([]byte(productKey))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return lo + rng.Intn(hi-lo+1)
}

// ExtractProducts groups cleaned records by product key. Name is the most
// frequent description in the group (ties broken by first occurrence), price
// the mean unit price rounded to 2 decimals. Output is sorted by id.
func ExtractProducts(records []CleanRecord) []model.Product {
	type group struct {
		descCounts map[string]int
		descOrder  []string
		priceSum   float64
		priceN     int
		totalSold  int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, r := range records {
		g, ok := groups[r.StockCode]
		if !ok {
			g = &group{descCounts: make(map[string]int)}
			groups[r.StockCode] = g
			order = append(order, r.StockCode)
		}
		if _, seen := g.descCounts[r.Description]; !seen {
			g.descOrder = append(g.descOrder, r.Description)
		}
		g.descCounts[r.Description]++
		g.priceSum += r.UnitPrice
		g.priceN++
		g.totalSold += r.Quantity
	}

	sort.Strings(order)

	products := make([]model.Product, 0, len(order))
	for _, code := range order {
		g := groups[code]
		name := modeDescription(g.descCounts, g.descOrder)
		products = append(products, model.Product{
			ID:       code,
			Name:     name,
			Category: Categorize(name),
			Price:    round2(g.priceSum / float64(g.priceN)),
			Stock:    EstimateStock(code, g.totalSold),
		})
	}
	return products
}

// modeDescription returns the most frequent description; on a tie the one
// seen first in the group wins.
func modeDescription(counts map[string]int, order []string) string {
	best := ""
	bestCount := -1
	for _, desc := range order {
		if counts[desc] > bestCount {
			best = desc
			bestCount = counts[desc]
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
