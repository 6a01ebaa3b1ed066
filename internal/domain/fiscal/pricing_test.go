package fiscal_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/domain"
	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestComputeBreakdown_VectorPersonaJuridica valida el vector de referencia del
// motor de precios: base 1.000.000 (unidad menor) bajo Persona Jurídica.
//
//	Subtotal   = 1.000.000
//	IVA 19%    =  +190.000
//	Rete 3%    =   -30.000
//	Total      = 1.160.000
// ──────────────────────────────────────────────────────────────────────────────
func TestComputeBreakdown_VectorPersonaJuridica(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaJuridica)

	b, err := fiscal.ComputeBreakdown(1_000_000, regime)
	require.NoError(t, err)

	assert.Equal(t, fiscal.RegimePersonaJuridica, b.Regime)
	assert.Equal(t, int64(1_000_000), b.BaseCents)
	assert.Equal(t, int64(1_000_000), b.AmountFor(fiscal.LineSubtotal))
	assert.Equal(t, int64(190_000), b.AmountFor(fiscal.LineIVA))
	assert.Equal(t, int64(-30_000), b.AmountFor(fiscal.LineReteFuente), "la retención resta del total")
	assert.Equal(t, int64(1_160_000), b.TotalCents)
}

// El total siempre debe ser la suma exacta de las líneas ya redondeadas,
// para cualquier régimen y cualquier base.
func TestComputeBreakdown_TotalEsSumaExactaDeLineas(t *testing.T) {
	bases := []int64{1, 3, 99, 101, 12_345, 999_999, 1_000_000, 123_456_789}

	for _, regime := range fiscal.BuiltinRegimes() {
		for _, base := range bases {
			b, err := fiscal.ComputeBreakdown(base, regime)
			require.NoError(t, err, "régimen %s base %d", regime.Name, base)

			var sum int64
			for _, line := range b.Lines {
				sum += line.AmountCents
			}
			assert.Equal(t, sum, b.TotalCents,
				"régimen %s base %d: el total debe igualar la suma de líneas", regime.Name, base)
		}
	}
}

// Mismo insumo, mismo resultado: el cálculo es una función pura.
func TestComputeBreakdown_Determinista(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimeEspecial)

	first, err := fiscal.ComputeBreakdown(777_777, regime)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := fiscal.ComputeBreakdown(777_777, regime)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// Persona Natural no aplica ningún cargo: el total es exactamente la base,
// con una única línea de subtotal.
func TestComputeBreakdown_PersonaNaturalSinCargos(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaNatural)

	b, err := fiscal.ComputeBreakdown(350_000, regime)
	require.NoError(t, err)

	require.Len(t, b.Lines, 1)
	assert.Equal(t, fiscal.LineSubtotal, b.Lines[0].Kind)
	assert.Equal(t, int64(350_000), b.TotalCents)
}

// Cada impuesto se redondea de forma independiente (mitades alejándose de cero).
// Base 150 con retefuente 3% -> 4.5 se redondea a 5, no a 4.
func TestComputeBreakdown_RedondeoPorImpuesto(t *testing.T) {
	regime := fiscal.TaxRegime{
		Name: "TEST",
		Charges: fiscal.ChargeRules{
			AppliesIVA:        true,
			IVARate:           decimal.NewFromFloat(0.19),
			AppliesReteFuente: true,
			ReteFuenteRate:    decimal.NewFromFloat(0.03),
		},
	}

	b, err := fiscal.ComputeBreakdown(150, regime)
	require.NoError(t, err)

	// IVA: 150*0.19 = 28.5 -> 29. Rete: 150*0.03 = 4.5 -> 5.
	assert.Equal(t, int64(29), b.AmountFor(fiscal.LineIVA))
	assert.Equal(t, int64(-5), b.AmountFor(fiscal.LineReteFuente))
	assert.Equal(t, int64(150+29-5), b.TotalCents)
}

// Los impuestos adicionales del régimen entran al desglose con su propio redondeo.
func TestComputeBreakdown_OtrosImpuestos(t *testing.T) {
	regime := fiscal.TaxRegime{
		Name: "TEST_ICA",
		Charges: fiscal.ChargeRules{
			OtherTaxes: []fiscal.NamedTax{
				{Name: "ICA", Rate: decimal.NewFromFloat(0.00414)},
			},
		},
	}

	b, err := fiscal.ComputeBreakdown(1_000_000, regime)
	require.NoError(t, err)

	// 1.000.000 * 0.00414 = 4140
	assert.Equal(t, int64(4_140), b.AmountFor(fiscal.LineOtherTax))
	assert.Equal(t, int64(1_004_140), b.TotalCents)
}

// Base cero o negativa es inválida y no produce desglose parcial.
func TestComputeBreakdown_MontoInvalido(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaJuridica)

	for _, base := range []int64{0, -1, -1_000_000} {
		_, err := fiscal.ComputeBreakdown(base, regime)
		assert.True(t, errors.Is(err, domain.ErrInvalidAmount), "base %d debe rechazarse", base)
	}
}

// Las etiquetas formatean la tarifa sin ceros finales (1.5%, no 1.50%).
func TestComputeBreakdown_EtiquetaTarifaReducida(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimeEspecial)

	b, err := fiscal.ComputeBreakdown(1_000_000, regime)
	require.NoError(t, err)

	var reteLabel string
	for _, line := range b.Lines {
		if line.Kind == fiscal.LineReteFuente {
			reteLabel = line.Label
		}
	}
	assert.Equal(t, "Retención en la Fuente (1.5%)", reteLabel)
}

func regimeByName(t *testing.T, name string) fiscal.TaxRegime {
	t.Helper()
	for _, r := range fiscal.BuiltinRegimes() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("régimen %s no existe en el conjunto configurado", name)
	return fiscal.TaxRegime{}
}
