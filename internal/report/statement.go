package report

import "strings"

// The financial statement works over a fixed, closed account taxonomy.
// Section order and account order within sections are part of the output
// contract.
var (
	revenueAccounts = []string{"Sales Revenue"}

	expenseAccounts = []string{
		"Cost of Goods Sold",
		"Salaries Expense",
		"Rent Expense",
		"Utilities Expense",
		"Interest Expense",
		"Tax Expense",
	}

	assetAccounts = []string{
		"Cash",
		"Accounts Receivable",
		"Inventory",
		"Fixed Assets",
		"Prepaid Expenses",
	}

	liabilityAccounts = []string{
		"Accounts Payable",
		"Loan Payable",
		"Sales Tax Payable",
		"Accrued Liabilities",
		"Unearned Revenue",
		"Dividends Payable",
	}

	equityAccounts = []string{
		"Common Stock",
		"Retained Earnings",
	}
)

// statementAggregator accumulates balances for the closed account set and
// renders the basic financial statement.
type statementAggregator struct {
	balances map[string]float64
}

func newStatementAggregator() aggregator {
	balances := make(map[string]float64)
	for _, group := range [][]string{revenueAccounts, expenseAccounts, assetAccounts, liabilityAccounts, equityAccounts} {
		for _, account := range group {
			balances[account] = 0
		}
	}
	return &statementAggregator{balances: balances}
}

func (s *statementAggregator) excludeInput() string {
	return "fs.csv"
}

func (s *statementAggregator) consumeRow(fields []string) bool {
	account := field(fields, fieldAccount)
	if _, known := s.balances[account]; !known {
		return false
	}
	s.balances[account] += toNumber(field(fields, fieldDebit)) - toNumber(field(fields, fieldCredit))
	return true
}

func (s *statementAggregator) render() []byte {
	var lines []string
	push := func(line string) { lines = append(lines, line) }

	push("Basic Financial Statement")
	push("")
	push("Income Statement")
	var totalRevenue, totalExpenses float64
	for _, account := range revenueAccounts {
		value := s.balances[account]
		push(account + "," + formatAmount(value))
		totalRevenue += value
	}
	for _, account := range expenseAccounts {
		value := s.balances[account]
		push(account + "," + formatAmount(value))
		totalExpenses += value
	}
	netIncome := totalRevenue - totalExpenses
	push("Net Income," + formatAmount(netIncome))
	push("")

	push("Balance Sheet")
	push("Assets")
	var totalAssets float64
	for _, account := range assetAccounts {
		value := s.balances[account]
		push(account + "," + formatAmount(value))
		totalAssets += value
	}
	push("Total Assets," + formatAmount(totalAssets))
	push("")

	push("Liabilities")
	var totalLiabilities float64
	for _, account := range liabilityAccounts {
		value := s.balances[account]
		push(account + "," + formatAmount(value))
		totalLiabilities += value
	}
	push("Total Liabilities," + formatAmount(totalLiabilities))
	push("")

	push("Equity")
	var totalEquity float64
	for _, account := range equityAccounts {
		value := s.balances[account]
		push(account + "," + formatAmount(value))
		totalEquity += value
	}
	push("Retained Earnings (Net Income)," + formatAmount(netIncome))
	totalEquity += netIncome
	push("Total Equity," + formatAmount(totalEquity))
	push("")

	push("Assets = Liabilities + Equity, " + formatAmount(totalAssets) + " = " + formatAmount(totalLiabilities+totalEquity))

	return []byte(strings.Join(lines, "\n"))
}
