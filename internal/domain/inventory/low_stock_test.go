package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalPredicate evalúa el predicado SQL generado sobre valores concretos.
func evalPredicate(t *testing.T, pred string, stock, minStock int) bool {
	t.Helper()
	re := regexp.MustCompile(`^(\w+\.)?stock <= (\w+\.)?min_stock \+ (-?\d+)$`)
	m := re.FindStringSubmatch(pred)
	require.NotNil(t, m, "predicado inesperado: %s", pred)
	margin, err := strconv.Atoi(m[3])
	require.NoError(t, err)
	return stock <= minStock+margin
}

func TestIsLowStock_AgreesWithPredicate(t *testing.T) {
	pred := LowStockPredicate("p")
	for stock := 0; stock <= 30; stock++ {
		for minStock := 0; minStock <= 30; minStock++ {
			want := stock <= minStock
			assert.Equal(t, want, IsLowStock(stock, minStock), "stock=%d min=%d", stock, minStock)
			assert.Equal(t, IsLowStock(stock, minStock), evalPredicate(t, pred, stock, minStock),
				fmt.Sprintf("stock=%d min=%d", stock, minStock))
		}
	}
}

func TestLowStockPredicate_Alias(t *testing.T) {
	assert.Equal(t, "p.stock <= p.min_stock + 0", LowStockPredicate("p"))
	assert.Equal(t, "stock <= min_stock + 0", LowStockPredicate(""))
}

func TestSuggestedOrderQty(t *testing.T) {
	tests := []struct {
		stock, min, want int
	}{
		{0, 10, 15},
		{5, 10, 10},
		{15, 10, 0},
		{20, 10, 0},
		{0, 3, 5},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestedOrderQty(tt.stock, tt.min), "stock=%d min=%d", tt.stock, tt.min)
	}
}
