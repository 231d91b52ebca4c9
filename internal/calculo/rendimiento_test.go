package calculo

import (
	"testing"

	"liquidaciones/internal/domain/models"
)

func TestEvaluarRendimiento(t *testing.T) {
	cases := []struct {
		name       string
		liq        models.Liquidacion
		tipo       TipoRendimiento
		monto      float64
		sinTabular bool
	}{
		{
			name: "bono por ahorro",
			liq:  models.Liquidacion{RendimientoTabulado: 4.5, DieselAFavor: 500},
			tipo: RendimientoBono, monto: 500,
		},
		{
			name: "cargo por exceso",
			liq:  models.Liquidacion{RendimientoTabulado: 4.5, DieselEnContra: 320},
			tipo: RendimientoCargo, monto: 320,
		},
		{
			name: "sin diferencia",
			liq:  models.Liquidacion{RendimientoTabulado: 4.5},
			tipo: RendimientoNinguno, monto: 0,
		},
		{
			name: "sin tabular",
			liq:  models.Liquidacion{RendimientoTabulado: 0},
			tipo: RendimientoNinguno, monto: 0, sinTabular: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluarRendimiento(tc.liq)
			if got.Tipo != tc.tipo || !casiIgual(got.Monto, tc.monto) || got.SinTabular != tc.sinTabular {
				t.Fatalf("EvaluarRendimiento = %+v", got)
			}
		})
	}
}

func TestBonoYCargoSonExcluyentes(t *testing.T) {
	// Si el backend llegara a mandar ambos, gana el bono y el cargo queda
	// solo informativo.
	liq := models.Liquidacion{RendimientoTabulado: 4.5, DieselAFavor: 500, DieselEnContra: 200}
	got := EvaluarRendimiento(liq)
	if got.Tipo != RendimientoBono || !casiIgual(got.Monto, 500) {
		t.Fatalf("EvaluarRendimiento = %+v", got)
	}
}
