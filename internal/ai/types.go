package ai

import (
	"sort"
	"strings"
)

// FinancialContext is the caller-supplied snapshot of a user's finances.
// Every field is optional; absent numbers are treated as zero.
type FinancialContext struct {
	MonthlyIncome     *float64           `json:"monthlyIncome,omitempty"`
	MonthlyBudget     *float64           `json:"monthlyBudget,omitempty"`
	TotalIncome       *float64           `json:"totalIncome,omitempty"`
	TotalExpenses     *float64           `json:"totalExpenses,omitempty"`
	NetWorth          *float64           `json:"netWorth,omitempty"`
	SavingsRate       *float64           `json:"savingsRate,omitempty"`
	TransactionCount  *int               `json:"transactionCount,omitempty"`
	GoalCount         *int               `json:"goalCount,omitempty"`
	BudgetCategories  *int               `json:"budgetCategories,omitempty"`
	SetupCompleted    *bool              `json:"setupCompleted,omitempty"`
	CategorySpending  map[string]float64 `json:"categorySpending,omitempty"`
	BudgetAllocations map[string]float64 `json:"budgetAllocations,omitempty"`
	GoalProgress      []GoalProgress     `json:"goalProgress,omitempty" validate:"omitempty,dive"`
}

type GoalProgress struct {
	Title     string   `json:"title" validate:"max=200"`
	Progress  *float64 `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	Remaining *float64 `json:"remaining,omitempty"`
}

type AdviceRequest struct {
	Message  string
	Context  FinancialContext
	Provider Provider
}

type Advice struct {
	Provider Provider
	Text     string
}

// ProviderConfig holds the credential and endpoint of one provider.
// It is built once at startup and never mutated.
type ProviderConfig struct {
	APIKey   string
	Endpoint string
	IsFree   bool
}

// Configured сообщает, задан ли ключ API провайдера.
func (c ProviderConfig) Configured() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// profile is a FinancialContext with every default applied.
type profile struct {
	monthlyIncome     float64
	monthlyBudget     float64
	totalIncome       float64
	totalExpenses     float64
	netWorth          float64
	savingsRate       float64
	transactionCount  int
	goalCount         int
	budgetCategories  int
	setupCompleted    bool
	categorySpending  []entry
	budgetAllocations []entry
	goals             []goal
}

type entry struct {
	name   string
	amount float64
}

type goal struct {
	title     string
	progress  float64
	remaining float64
}

// normalize is the only place that decides what an absent field means.
func (c FinancialContext) normalize() profile {
	p := profile{
		monthlyIncome:     floatOrZero(c.MonthlyIncome),
		monthlyBudget:     floatOrZero(c.MonthlyBudget),
		totalIncome:       floatOrZero(c.TotalIncome),
		totalExpenses:     floatOrZero(c.TotalExpenses),
		netWorth:          floatOrZero(c.NetWorth),
		savingsRate:       floatOrZero(c.SavingsRate),
		transactionCount:  intOrZero(c.TransactionCount),
		goalCount:         intOrZero(c.GoalCount),
		budgetCategories:  intOrZero(c.BudgetCategories),
		setupCompleted:    c.SetupCompleted != nil && *c.SetupCompleted,
		categorySpending:  sortedEntries(c.CategorySpending),
		budgetAllocations: sortedEntries(c.BudgetAllocations),
		goals:             make([]goal, 0, len(c.GoalProgress)),
	}

	for _, g := range c.GoalProgress {
		p.goals = append(p.goals, goal{
			title:     strings.TrimSpace(g.Title),
			progress:  floatOrZero(g.Progress),
			remaining: floatOrZero(g.Remaining),
		})
	}

	return p
}

func sortedEntries(values map[string]float64) []entry {
	out := make([]entry, 0, len(values))
	for name, amount := range values {
		out = append(out, entry{name: name, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].name < out[j].name
	})
	return out
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
