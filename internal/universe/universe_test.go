package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioOne/internal/domain/models"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestDefaultWeightTables(t *testing.T) {
	eq := DefaultEquityWeights()
	require.NoError(t, ValidateWeights(eq, false))
	// equity weights deliberately do not sum to 1; normalized at use time
	assert.InDelta(t, 0.8816, eq.Sum(), 1e-9)

	rw := DefaultReserveWeights()
	require.NoError(t, ValidateWeights(rw, true))
	assert.InDelta(t, 1.0, rw.Sum(), 1e-9)
}

func TestValidateWeightsRejections(t *testing.T) {
	assert.Error(t, ValidateWeights(models.WeightTable{"unknown_fund": 0.5}, false))
	assert.Error(t, ValidateWeights(models.WeightTable{NorthAmerica: -0.1}, false))
	// reserve tables must sum to exactly 1
	assert.Error(t, ValidateWeights(models.WeightTable{Cash: 0.5}, true))
	assert.NoError(t, ValidateWeights(models.WeightTable{Cash: 1.0}, true))
}

func TestLookupMetadata(t *testing.T) {
	for _, k := range append(append([]string{}, EquityOrder...), ReserveOrder...) {
		m, ok := Lookup(k)
		require.True(t, ok, "missing metadata for %s", k)
		assert.Equal(t, k, m.Key)
		assert.NotEmpty(t, m.Name)
		assert.GreaterOrEqual(t, m.ExpenseRatio, 0.0)
	}
	_, ok := Lookup("unknown_fund")
	assert.False(t, ok)
}

func TestSimpleModelBaseline(t *testing.T) {
	var sum float64
	for _, k := range SimpleOrder {
		leg, ok := SimpleLookup(k)
		require.True(t, ok)
		sum += leg.BaseWeight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := Instruments()
	m[NorthAmerica] = Instrument{Key: NorthAmerica, Name: "mutated"}
	fresh, _ := Lookup(NorthAmerica)
	assert.NotEqual(t, "mutated", fresh.Name)
}
