package services

import (
	"sort"
	"time"

	"budgetron/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	salaryHour         = 9
	billPaymentHour    = 14
	businessHoursStart = 7
	businessHoursEnd   = 22
	dailyPurchaseOdds  = 0.6
	freelanceOdds      = 0.3
)

// amountRanges bounds generated amounts per default category.
var amountRanges = map[string][2]float64{
	"Food":          {6, 45},
	"Groceries":     {15, 180},
	"Transport":     {2.5, 60},
	"Entertainment": {10, 90},
	"Health":        {15, 160},
	"Miscellaneous": {5, 70},
	"Utilities":     {40, 160},
	"Insurance":     {60, 220},
	"Freelance":     {150, 1200},
}

var (
	dailyCategories = []string{"Food", "Food", "Groceries", "Transport", "Transport", "Entertainment", "Health", "Miscellaneous"}
	monthlyBills    = []string{"Utilities", "Insurance"}
	baseSalaries    = []float64{2100, 2600, 3200, 3900, 4500}
	baseRents       = []float64{650, 850, 1100, 1400}
)

// DemoGenerator fabricates a plausible transaction history against the
// default categories for demos and local development.
type DemoGenerator struct {
	faker *gofakeit.Faker
}

// NewDemoGenerator returns a generator. The same non-zero seed always
// produces the same history; zero seeds randomly.
func NewDemoGenerator(seed uint64) *DemoGenerator {
	return &DemoGenerator{faker: gofakeit.New(seed)}
}

// Generate builds months of history for userID ending at until: salary on
// the 1st and 15th, rent and bills once a month, occasional freelance income
// and daily card purchases. Category names that are not in categories are
// skipped. The result is ordered by timestamp.
func (g *DemoGenerator) Generate(userID uuid.UUID, categories []models.Category, months int, until time.Time) []*models.Transaction {
	byName := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	until = until.UTC()
	salary := baseSalaries[g.faker.IntRange(0, len(baseSalaries)-1)]
	rent := baseRents[g.faker.IntRange(0, len(baseRents)-1)]
	employer := g.faker.Company()

	var out []*models.Transaction
	add := func(category string, amount decimal.Decimal, description string, at time.Time) {
		id, ok := byName[category]
		if !ok || at.After(until) {
			return
		}
		out = append(out, &models.Transaction{
			UserID:      userID,
			CategoryID:  id,
			Amount:      amount,
			Description: description,
			Timestamp:   at,
		})
	}

	firstOfUntil := time.Date(until.Year(), until.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := months - 1; i >= 0; i-- {
		start := firstOfUntil.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		for _, day := range []int{1, 15} {
			add("Salary", decimal.NewFromFloat(salary/2).Round(2),
				"Salary payment from "+employer, atHour(start, day, salaryHour))
		}
		add("Rent", decimal.NewFromFloat(rent), "Monthly rent", atHour(start, 1, billPaymentHour))
		for _, bill := range monthlyBills {
			add(bill, g.amount(bill), bill+" bill payment", atHour(start, g.faker.IntRange(3, 25), billPaymentHour))
		}
		if g.faker.Float64Range(0, 1) < freelanceOdds {
			add("Freelance", g.amount("Freelance"), "Invoice paid by "+g.faker.Company(),
				g.timestamp(atHour(start, g.faker.IntRange(5, 25), 0)))
		}

		for day := start; day.Before(end) && !day.After(until); day = day.AddDate(0, 0, 1) {
			if g.faker.Float64Range(0, 1) >= dailyPurchaseOdds {
				continue
			}
			category := dailyCategories[g.faker.IntRange(0, len(dailyCategories)-1)]
			add(category, g.amount(category), "Card purchase at "+g.faker.Company(), g.timestamp(day))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (g *DemoGenerator) amount(category string) decimal.Decimal {
	r, ok := amountRanges[category]
	if !ok {
		r = [2]float64{10, 100}
	}
	return decimal.NewFromFloat(g.faker.Float64Range(r[0], r[1])).Round(2)
}

// timestamp picks a time of day within business hours on day.
func (g *DemoGenerator) timestamp(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		g.faker.IntRange(businessHoursStart, businessHoursEnd-1), g.faker.IntRange(0, 59), g.faker.IntRange(0, 59),
		0, time.UTC)
}

func atHour(month time.Time, day, hour int) time.Time {
	return time.Date(month.Year(), month.Month(), day, hour, 0, 0, 0, time.UTC)
}
