package ai

import (
	"fmt"
	"strings"
)

const advisorPersona = "You are an expert personal finance advisor with deep knowledge of budgeting, saving, investing, debt management and financial planning."

// ComposePrompt собирает промпт для провайдера из вопроса пользователя и его финансовых данных.
func ComposePrompt(userMessage string, financial FinancialContext) string {
	p := financial.normalize()

	setup := "Complete"
	if !p.setupCompleted {
		setup = "Incomplete"
	}

	return fmt.Sprintf(`%s You are helping a user of a personal budgeting app.

CURRENT FINANCIAL PROFILE:
- Monthly Income: %s
- Monthly Budget: %s
- Total Income: %s
- Total Expenses: %s
- Net Worth: %s
- Savings Rate: %s
- Transactions Recorded: %s
- Active Goals: %s
- Budget Categories: %s
- Setup Status: %s

SPENDING BREAKDOWN:
%s

GOALS PROGRESS:
%s

BUDGET ALLOCATIONS:
%s

USER QUESTION: "%s"

INSTRUCTIONS:
1. Analyze the user's actual financial data shown above.
2. Give specific advice with concrete dollar amounts.
3. Answer the user's question directly.
4. Provide 2-3 actionable next steps.
5. Reference their goals and budget where relevant.
6. Keep a friendly, conversational tone.
7. Keep the response between 250 and 300 words.
8. Personalize the advice with their real numbers.`,
		advisorPersona,
		formatCurrency(p.monthlyIncome),
		formatCurrency(p.monthlyBudget),
		formatCurrency(p.totalIncome),
		formatCurrency(p.totalExpenses),
		formatCurrency(p.netWorth),
		formatPercent(p.savingsRate),
		formatCount(p.transactionCount),
		formatCount(p.goalCount),
		formatCount(p.budgetCategories),
		setup,
		renderEntries(p.categorySpending, "No spending data available"),
		renderGoals(p.goals),
		renderEntries(p.budgetAllocations, "No budget categories set"),
		userMessage,
	)
}

func renderEntries(entries []entry, empty string) string {
	if len(entries) == 0 {
		return empty
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s: %s", e.name, formatCurrency(e.amount)))
	}
	return strings.Join(lines, "\n")
}

func renderGoals(goals []goal) string {
	if len(goals) == 0 {
		return "No active goals"
	}

	lines := make([]string, 0, len(goals))
	for _, g := range goals {
		lines = append(lines, fmt.Sprintf("- %s: %.1f%% complete, %s remaining", g.title, g.progress, formatCurrency(g.remaining)))
	}
	return strings.Join(lines, "\n")
}
