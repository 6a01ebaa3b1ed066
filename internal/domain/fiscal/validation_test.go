package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador-api/internal/domain/fiscal"
)

// ─────────────────────────────────────────────
// Validación de datos de factura
// ─────────────────────────────────────────────

func TestValidateInvoiceData_PersonaNaturalSoloCedula(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaNatural)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{
		Cedula:      "1020304050",
		Email:       "cliente@example.com",
		AmountCents: 50_000_000,
	}, regime)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateInvoiceData_PersonaNaturalSinCedula(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaNatural)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{
		NIT:         "900123456-7", // el NIT no sustituye la cédula
		Email:       "cliente@example.com",
		AmountCents: 50_000_000,
	}, regime)

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "cédula")
}

// Todas las violaciones se reportan juntas, no solo la primera.
func TestValidateInvoiceData_AcumulaTodasLasRazones(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaJuridica)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{}, regime)

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 4) // NIT, RUT, email, monto
	assert.Contains(t, res.Errors[0], "NIT")
	assert.Contains(t, res.Errors[1], "RUT")
	assert.Contains(t, res.Errors[2], "email")
	assert.Contains(t, res.Errors[3], "monto")
}

func TestValidateInvoiceData_PersonaJuridicaCompleta(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaJuridica)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{
		NIT:         "900123456-7",
		RUT:         "RUT-900123456",
		Email:       "facturacion@empresa.co",
		AmountCents: 116_000_000,
	}, regime)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateInvoiceData_EspaciosNoCuentanComoDato(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaJuridica)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{
		NIT:         "   ",
		RUT:         "\t",
		Email:       " ",
		AmountCents: 116_000_000,
	}, regime)

	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
}

func TestValidateInvoiceData_MontoCeroInvalido(t *testing.T) {
	regime := regimeByName(t, fiscal.RegimePersonaNatural)

	res := fiscal.ValidateInvoiceData(fiscal.ClientFiscalData{
		Cedula:      "1020304050",
		Email:       "cliente@example.com",
		AmountCents: 0,
	}, regime)

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "monto")
}

// ─────────────────────────────────────────────
// Obligaciones de reporte
// ─────────────────────────────────────────────

func TestReportingFor_PersonaNaturalSinObligaciones(t *testing.T) {
	req := fiscal.ReportingFor(regimeByName(t, fiscal.RegimePersonaNatural))

	assert.False(t, req.Required)
	assert.Equal(t, fiscal.FrequencyNone, req.Frequency)
	assert.Empty(t, req.Reports)
}

func TestReportingFor_PersonaJuridicaMensual(t *testing.T) {
	req := fiscal.ReportingFor(regimeByName(t, fiscal.RegimePersonaJuridica))

	require.True(t, req.Required)
	assert.Equal(t, fiscal.FrequencyMonthly, req.Frequency)
	assert.Equal(t, []string{
		"Declaración de IVA",
		"Declaración de Renta y Complementarios",
	}, req.Reports)
}

func TestReportingFor_RegimenesConResolucionTrimestrales(t *testing.T) {
	for _, name := range []string{fiscal.RegimeSimplificado, fiscal.RegimeEspecial} {
		req := fiscal.ReportingFor(regimeByName(t, name))

		require.True(t, req.Required, "régimen %s", name)
		assert.Equal(t, fiscal.FrequencyQuarterly, req.Frequency, "régimen %s", name)
		assert.Len(t, req.Reports, 2, "régimen %s", name)
	}
}
