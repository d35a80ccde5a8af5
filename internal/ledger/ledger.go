package ledger

import (
	"errors"
	"math/big"
	"sync"

	"github.com/solulab/nft-marketplace/internal/helper"
	"go.uber.org/zap"
)

var ErrInsufficientFunds = errors.New("ledger: insufficient funds")

// Payout is a single leg of a settlement, paid out of the payer's balance.
type Payout struct {
	To     string
	Amount *big.Int
}

// Ledger tracks the fungible balances settlement moves between. Settle applies
// a full set of payouts atomically so a failed sale never leaves a partial
// transfer behind.
type Ledger interface {
	Deposit(account string, amount *big.Int)
	Transfer(from, to string, amount *big.Int) error
	Settle(from string, payouts []Payout) error
	Balance(account string) *big.Int
}

type ledger struct {
	mu       sync.Mutex
	balances map[string]*big.Int
}

func NewLedger() Ledger {
	return &ledger{balances: map[string]*big.Int{}}
}

func (l *ledger) Deposit(account string, amount *big.Int) {
	account = helper.NormaliseAddress(account)

	l.mu.Lock()
	l.credit(account, amount)
	l.mu.Unlock()
}

func (l *ledger) Transfer(from, to string, amount *big.Int) error {
	return l.Settle(from, []Payout{{To: to, Amount: amount}})
}

func (l *ledger) Settle(from string, payouts []Payout) error {
	from = helper.NormaliseAddress(from)

	total := big.NewInt(0)
	for _, p := range payouts {
		total.Add(total, p.Amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balanceOf(from).Cmp(total) < 0 {
		zap.L().With(
			zap.String("account", from),
			zap.String("required", total.String()),
			zap.String("available", l.balanceOf(from).String()),
		).Warn("Ledger: settlement rejected")
		return ErrInsufficientFunds
	}

	l.balances[from] = new(big.Int).Sub(l.balanceOf(from), total)
	for _, p := range payouts {
		l.credit(helper.NormaliseAddress(p.To), p.Amount)
	}

	return nil
}

func (l *ledger) Balance(account string) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return new(big.Int).Set(l.balanceOf(account))
}

func (l *ledger) balanceOf(account string) *big.Int {
	if b, ok := l.balances[helper.NormaliseAddress(account)]; ok {
		return b
	}
	return big.NewInt(0)
}

func (l *ledger) credit(account string, amount *big.Int) {
	l.balances[account] = new(big.Int).Add(l.balanceOf(account), amount)
}
