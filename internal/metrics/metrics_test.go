package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

func TestRecorders(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(QuotesProcessedTotal)
	RecordQuotesProcessed(12)
	assert.Equal(t, before+12, testutil.ToFloat64(QuotesProcessedTotal))

	RecordGroupsMerged(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(LastRunGroups))

	flatBefore := testutil.ToFloat64(FlatFallbacksTotal)
	fitBefore := testutil.ToFloat64(CurvesFittedTotal)
	RecordCurveFitted(true)
	RecordCurveFitted(false)
	assert.Equal(t, flatBefore+1, testutil.ToFloat64(FlatFallbacksTotal))
	assert.Equal(t, fitBefore+2, testutil.ToFloat64(CurvesFittedTotal))

	RecordArbitrageFound("player", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(ArbitrageFoundTotal.WithLabelValues("player")))

	RecordMispricedFlagged("game", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(MispricedFlaggedTotal.WithLabelValues("game")))
}

func TestHandler(t *testing.T) {
	require.NotNil(t, Handler())
}
