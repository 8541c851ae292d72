package report

import "strings"

// accountsAggregator accumulates debit minus credit per account, keeping
// accounts in first-seen order for the output.
type accountsAggregator struct {
	order    []string
	balances map[string]float64
}

func newAccountsAggregator() aggregator {
	return &accountsAggregator{balances: make(map[string]float64)}
}

func (a *accountsAggregator) excludeInput() string {
	return ""
}

func (a *accountsAggregator) consumeRow(fields []string) bool {
	account := field(fields, fieldAccount)
	if strings.TrimSpace(account) == "" {
		return false
	}
	if _, seen := a.balances[account]; !seen {
		a.order = append(a.order, account)
	}
	a.balances[account] += toNumber(field(fields, fieldDebit)) - toNumber(field(fields, fieldCredit))
	return true
}

func (a *accountsAggregator) render() []byte {
	lines := make([]string, 0, len(a.order)+1)
	lines = append(lines, "Account,Balance")
	for _, account := range a.order {
		lines = append(lines, account+","+formatAmount(a.balances[account]))
	}
	return []byte(strings.Join(lines, "\n"))
}
