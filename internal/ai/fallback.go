package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type topic int

const (
	topicGeneral topic = iota
	topicExpenses
	topicEmergency
	topicInvesting
	topicBudget
	topicDebt
)

// topicRules are checked in order; the first rule with a matching keyword wins.
var topicRules = []struct {
	topic    topic
	keywords []string
}{
	{topicExpenses, []string{"expense", "reduce", "save money"}},
	{topicEmergency, []string{"emergency", "fund"}},
	{topicInvesting, []string{"invest", "investment"}},
	{topicBudget, []string{"budget", "budgeting"}},
	{topicDebt, []string{"debt", "loan"}},
}

// figures are the quantities every fallback template is built from.
type figures struct {
	monthlyExpenses    float64
	emergencyFund      float64
	recommendedSavings float64
	currentSavings     float64
}

const (
	congratulateAbove  = 20.0
	readyToInvestAbove = 15.0
)

var (
	daysPerMonth     = decimal.NewFromInt(30)
	emergencyMonths  = decimal.NewFromInt(6)
	recommendedShare = decimal.RequireFromString("0.20")
	needsShare       = decimal.RequireFromString("0.50")
	wantsShare       = decimal.RequireFromString("0.30")
	cutShare         = decimal.RequireFromString("0.10")
	halfShare        = decimal.RequireFromString("0.50")
)

// GenerateFallback формирует локальный совет без обращения к сети.
func GenerateFallback(userMessage string, financial FinancialContext) string {
	p := financial.normalize()
	f := deriveFigures(p)

	switch classify(userMessage) {
	case topicExpenses:
		return expenseAdvice(p, f)
	case topicEmergency:
		return emergencyAdvice(p, f)
	case topicInvesting:
		return investingAdvice(p, f)
	case topicBudget:
		return budgetAdvice(p, f)
	case topicDebt:
		return debtAdvice(p, f)
	default:
		return snapshotAdvice(p, f)
	}
}

func classify(message string) topic {
	lowered := strings.ToLower(message)
	for _, rule := range topicRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.topic
			}
		}
	}
	return topicGeneral
}

// deriveFigures spreads total expenses over the months implied by the
// transaction count, assuming roughly one transaction per day.
func deriveFigures(p profile) figures {
	income := decimal.NewFromFloat(p.monthlyIncome)

	months := decimal.Max(
		decimal.NewFromInt(int64(p.transactionCount)).Div(daysPerMonth),
		decimal.NewFromInt(1),
	)
	monthlyExpenses := decimal.NewFromFloat(p.totalExpenses).Div(months)

	return figures{
		monthlyExpenses:    cents(monthlyExpenses),
		emergencyFund:      cents(monthlyExpenses.Mul(emergencyMonths)),
		recommendedSavings: cents(income.Mul(recommendedShare)),
		currentSavings:     cents(income.Sub(monthlyExpenses)),
	}
}

func cents(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

func share(amount float64, part decimal.Decimal) string {
	return formatCurrency(cents(decimal.NewFromFloat(amount).Mul(part)))
}

func savingsRateRemark(p profile, f figures) string {
	if p.savingsRate > congratulateAbove {
		return fmt.Sprintf("Your savings rate of %s is excellent, well above the 20%% benchmark. Keep it up!", formatPercent(p.savingsRate))
	}
	return fmt.Sprintf("Your savings rate is %s. Aim for at least 20%%, which means setting aside about %s every month.", formatPercent(p.savingsRate), formatCurrency(f.recommendedSavings))
}

func expenseAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Here's how you can reduce your expenses and save more:\n\n")
	fmt.Fprintf(&b, "Your estimated monthly expenses are %s against a monthly income of %s.\n", formatCurrency(f.monthlyExpenses), formatCurrency(p.monthlyIncome))

	if top, ok := largestEntry(p.categorySpending); ok {
		fmt.Fprintf(&b, "Your biggest spending category is %s at %s. Cutting it by 10%% would free up %s.\n", top.name, formatCurrency(top.amount), share(top.amount, cutShare))
	}

	b.WriteString("\nAction steps:\n")
	b.WriteString("1. Review subscriptions and recurring charges and cancel the ones you don't use.\n")
	b.WriteString("2. Plan meals for the week and cook at home more often.\n")
	b.WriteString("3. Wait 24 hours before any non-essential purchase.\n\n")
	b.WriteString(savingsRateRemark(p, f))

	return b.String()
}

func emergencyAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Let's build your emergency fund:\n\n")
	fmt.Fprintf(&b, "Based on monthly expenses of %s, your emergency fund target is %s (six months of expenses).\n", formatCurrency(f.monthlyExpenses), formatCurrency(f.emergencyFund))

	if p.netWorth >= f.emergencyFund {
		fmt.Fprintf(&b, "Your net worth of %s already covers this target. Make sure the money sits in an easily accessible savings account.\n", formatCurrency(p.netWorth))
	} else {
		gap := f.emergencyFund - p.netWorth
		fmt.Fprintf(&b, "You are %s away from the target. Saving %s a month would close the gap steadily.\n", formatCurrency(gap), formatCurrency(f.recommendedSavings))
	}

	b.WriteString("\nAction steps:\n")
	b.WriteString("1. Open a separate high-yield savings account for emergencies.\n")
	b.WriteString("2. Set up an automatic transfer right after payday.\n")
	b.WriteString("3. Start with a one-month cushion, then grow it to six months.")

	return b.String()
}

func investingAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Let's talk about investing:\n\n")

	if p.savingsRate > readyToInvestAbove {
		fmt.Fprintf(&b, "With a savings rate of %s you are in a good position to start investing.\n", formatPercent(p.savingsRate))
		fmt.Fprintf(&b, "Consider investing part of your %s monthly surplus once your emergency fund of %s is in place.\n", formatCurrency(f.currentSavings), formatCurrency(f.emergencyFund))
		b.WriteString("\nAction steps:\n")
		b.WriteString("1. Max out any employer retirement match first.\n")
		b.WriteString("2. Use low-cost, diversified index funds.\n")
		b.WriteString("3. Invest a fixed amount every month regardless of the market.")
		return b.String()
	}

	fmt.Fprintf(&b, "Your savings rate of %s suggests focusing on savings before investing.\n", formatPercent(p.savingsRate))
	fmt.Fprintf(&b, "First build an emergency fund of %s and aim to save %s a month.\n", formatCurrency(f.emergencyFund), formatCurrency(f.recommendedSavings))
	b.WriteString("\nAction steps:\n")
	b.WriteString("1. Raise your savings rate above 15% by trimming discretionary spending.\n")
	b.WriteString("2. Pay off high-interest debt before investing.\n")
	b.WriteString("3. Learn the basics of index funds so you're ready when the time comes.")

	return b.String()
}

func budgetAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Here's a budgeting plan based on your numbers:\n\n")
	fmt.Fprintf(&b, "Monthly income: %s\n", formatCurrency(p.monthlyIncome))
	fmt.Fprintf(&b, "Monthly expenses: %s\n", formatCurrency(f.monthlyExpenses))
	fmt.Fprintf(&b, "Current monthly savings: %s\n", formatCurrency(f.currentSavings))
	fmt.Fprintf(&b, "Recommended monthly savings: %s\n", formatCurrency(f.recommendedSavings))
	fmt.Fprintf(&b, "Emergency fund target: %s\n\n", formatCurrency(f.emergencyFund))

	b.WriteString("Try the 50/30/20 rule:\n")
	fmt.Fprintf(&b, "- Needs (50%%): %s\n", share(p.monthlyIncome, needsShare))
	fmt.Fprintf(&b, "- Wants (30%%): %s\n", share(p.monthlyIncome, wantsShare))
	fmt.Fprintf(&b, "- Savings (20%%): %s\n\n", formatCurrency(f.recommendedSavings))

	if f.currentSavings >= f.recommendedSavings {
		b.WriteString("You're already saving at least the recommended amount. Great work!\n\n")
	} else {
		fmt.Fprintf(&b, "You're %s short of the recommended savings each month.\n\n", formatCurrency(f.recommendedSavings-f.currentSavings))
	}

	b.WriteString(savingsRateRemark(p, f))

	return b.String()
}

func debtAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Here's a strategy for paying down debt:\n\n")

	if f.currentSavings > 0 {
		fmt.Fprintf(&b, "You have about %s left over each month. Putting half of it, %s, toward debt will speed up your payoff.\n", formatCurrency(f.currentSavings), share(f.currentSavings, halfShare))
	} else {
		fmt.Fprintf(&b, "Your monthly expenses of %s currently exceed your income of %s. Trim spending first to free up money for debt payments.\n", formatCurrency(f.monthlyExpenses), formatCurrency(p.monthlyIncome))
	}

	b.WriteString("\nAction steps:\n")
	b.WriteString("1. List every debt with its balance and interest rate.\n")
	b.WriteString("2. Pay minimums on all debts and put extra money on the highest-interest one (avalanche method).\n")
	b.WriteString("3. Avoid taking on new debt while you pay down existing balances.")

	return b.String()
}

func snapshotAdvice(p profile, f figures) string {
	var b strings.Builder

	b.WriteString("Here's a snapshot of your finances:\n\n")
	fmt.Fprintf(&b, "- Monthly income: %s\n", formatCurrency(p.monthlyIncome))
	fmt.Fprintf(&b, "- Estimated monthly expenses: %s\n", formatCurrency(f.monthlyExpenses))
	fmt.Fprintf(&b, "- Monthly savings: %s\n", formatCurrency(f.currentSavings))
	fmt.Fprintf(&b, "- Net worth: %s\n", formatCurrency(p.netWorth))
	fmt.Fprintf(&b, "- Active goals: %s\n\n", formatCount(p.goalCount))

	b.WriteString(savingsRateRemark(p, f))
	b.WriteString("\n\nAsk me about expenses, emergency funds, investing, budgeting or debt for more specific advice.")

	return b.String()
}

func largestEntry(entries []entry) (entry, bool) {
	if len(entries) == 0 {
		return entry{}, false
	}

	top := entries[0]
	for _, e := range entries[1:] {
		if e.amount > top.amount {
			top = e
		}
	}
	return top, true
}
