package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_CanCredit(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		amount  int64
		want    bool
	}{
		{"empty account", 0, math.MaxInt64, true},
		{"up to the maximum", math.MaxInt64 - 10, 10, true},
		{"one past the maximum", math.MaxInt64 - 10, 11, false},
		{"full account", math.MaxInt64, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount("alice")
			acc.Lock()
			defer acc.Unlock()
			if tt.balance > 0 {
				acc.Credit(tt.balance)
			}
			assert.Equal(t, tt.want, acc.CanCredit(tt.amount))
		})
	}
}
