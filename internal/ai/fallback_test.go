package ai

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func budgetScenario() FinancialContext {
	return FinancialContext{
		MonthlyIncome:    ptr(5000.0),
		TotalExpenses:    ptr(3000.0),
		TransactionCount: ptr(30),
		SavingsRate:      ptr(10.0),
	}
}

// TestGenerateFallbackBudgetFigures проверяет расчетные суммы в шаблоне бюджета.
func TestGenerateFallbackBudgetFigures(t *testing.T) {
	advice := GenerateFallback("Can you help me with my budget?", budgetScenario())

	require.True(t, strings.HasPrefix(advice, "Here's a budgeting plan"))
	require.Contains(t, advice, "Monthly income: $5,000\n")
	require.Contains(t, advice, "Monthly expenses: $3,000\n")
	require.Contains(t, advice, "Current monthly savings: $2,000\n")
	require.Contains(t, advice, "Recommended monthly savings: $1,000\n")
	require.Contains(t, advice, "Emergency fund target: $18,000\n")
	require.Contains(t, advice, "- Needs (50%): $2,500\n")
	require.Contains(t, advice, "- Wants (30%): $1,500\n")
	require.Contains(t, advice, "already saving at least the recommended amount")
	require.Contains(t, advice, "Your savings rate is 10.0%. Aim for at least 20%")
}

// TestDeriveFigures проверяет формулы расходов, подушки и сбережений.
func TestDeriveFigures(t *testing.T) {
	cases := []struct {
		name      string
		financial FinancialContext
		want      figures
	}{
		{
			name:      "scenario",
			financial: budgetScenario(),
			want:      figures{monthlyExpenses: 3000, emergencyFund: 18000, recommendedSavings: 1000, currentSavings: 2000},
		},
		{
			name:      "no transactions keeps divisor at one",
			financial: FinancialContext{MonthlyIncome: ptr(4000.0), TotalExpenses: ptr(2500.0)},
			want:      figures{monthlyExpenses: 2500, emergencyFund: 15000, recommendedSavings: 800, currentSavings: 1500},
		},
		{
			name:      "three months of transactions",
			financial: FinancialContext{MonthlyIncome: ptr(3000.0), TotalExpenses: ptr(9000.0), TransactionCount: ptr(90)},
			want:      figures{monthlyExpenses: 3000, emergencyFund: 18000, recommendedSavings: 600, currentSavings: 0},
		},
		{
			name:      "negative savings are not clamped",
			financial: FinancialContext{MonthlyIncome: ptr(1000.0), TotalExpenses: ptr(3000.0), TransactionCount: ptr(15)},
			want:      figures{monthlyExpenses: 3000, emergencyFund: 18000, recommendedSavings: 200, currentSavings: -2000},
		},
		{
			name:      "empty context",
			financial: FinancialContext{},
			want:      figures{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, deriveFigures(tc.financial.normalize()))
		})
	}
}

// TestClassifyPrecedence проверяет порядок правил маршрутизации по ключевым словам.
func TestClassifyPrecedence(t *testing.T) {
	cases := map[string]topic{
		"Should I invest or pay off my debt first?": topicInvesting,
		"How do I reduce my debt?":                  topicExpenses,
		"What are my biggest expenses?":             topicExpenses,
		"I want to save money":                      topicExpenses,
		"How big should my emergency fund be?":      topicEmergency,
		"Which fund should I pick for my budget?":   topicEmergency,
		"Tell me about INVESTMENT options":          topicInvesting,
		"Budgeting tips please":                     topicBudget,
		"I have a student loan":                     topicDebt,
		"Hello there":                               topicGeneral,
		"":                                          topicGeneral,
	}

	for message, want := range cases {
		require.Equal(t, want, classify(message), message)
	}
}

// TestGenerateFallbackInvestBeatsDebt проверяет, что инвестиции проверяются раньше долгов.
func TestGenerateFallbackInvestBeatsDebt(t *testing.T) {
	advice := GenerateFallback("Should I invest or pay down debt?", budgetScenario())
	require.True(t, strings.HasPrefix(advice, "Let's talk about investing"), advice)
}

// TestGenerateFallbackThresholds проверяет пороговые ветки шаблонов.
func TestGenerateFallbackThresholds(t *testing.T) {
	withRate := func(rate float64) FinancialContext {
		financial := budgetScenario()
		financial.SavingsRate = ptr(rate)
		return financial
	}

	require.Contains(t, GenerateFallback("hi", withRate(25)), "is excellent")
	require.NotContains(t, GenerateFallback("hi", withRate(20)), "is excellent")

	require.Contains(t, GenerateFallback("investing?", withRate(16)), "in a good position to start investing")
	require.Contains(t, GenerateFallback("investing?", withRate(15)), "focusing on savings before investing")

	covered := budgetScenario()
	covered.NetWorth = ptr(20000.0)
	require.Contains(t, GenerateFallback("emergency?", covered), "already covers this target")

	short := budgetScenario()
	short.NetWorth = ptr(5000.0)
	require.Contains(t, GenerateFallback("emergency?", short), "You are $13,000 away from the target")

	require.Contains(t, GenerateFallback("my loan", budgetScenario()), "Putting half of it, $1,000, toward debt")

	overspent := FinancialContext{MonthlyIncome: ptr(1000.0), TotalExpenses: ptr(3000.0)}
	require.Contains(t, GenerateFallback("my loan", overspent), "currently exceed your income")
}

// TestGenerateFallbackTopCategory проверяет упоминание самой крупной категории расходов.
func TestGenerateFallbackTopCategory(t *testing.T) {
	financial := budgetScenario()
	financial.CategorySpending = map[string]float64{"Dining": 450, "Rent": 1800, "Fun": 90}

	advice := GenerateFallback("How can I reduce spending?", financial)
	require.Contains(t, advice, "Your biggest spending category is Rent at $1,800. Cutting it by 10% would free up $180.")
}

type forbiddenTransport struct {
	t *testing.T
}

func (f forbiddenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.t.Fatalf("unexpected outbound request to %s", req.URL)
	return nil, nil
}

// TestGenerateFallbackPure проверяет детерминированность и отсутствие сетевых вызовов.
func TestGenerateFallbackPure(t *testing.T) {
	original := http.DefaultTransport
	http.DefaultTransport = forbiddenTransport{t: t}
	t.Cleanup(func() { http.DefaultTransport = original })

	messages := []string{"expenses", "emergency", "invest", "budget", "debt", "anything else"}
	contexts := []FinancialContext{{}, budgetScenario()}

	for _, message := range messages {
		for _, financial := range contexts {
			first := GenerateFallback(message, financial)
			require.NotEmpty(t, first)
			require.Equal(t, first, GenerateFallback(message, financial))
		}
	}
}
