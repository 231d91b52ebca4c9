package calculo

import "testing"

func TestComisionNominalSinOverride(t *testing.T) {
	c := CalcularComision(20000, 8000, 18, nil)
	if !casiIgual(c.Base, 12000) || !casiIgual(c.Nominal, 2160) {
		t.Fatalf("base/nominal = %v/%v", c.Base, c.Nominal)
	}
	if c.Efectiva != c.Nominal || c.AjustadaManualmente {
		t.Fatalf("sin override la efectiva debe ser la nominal: %+v", c)
	}
}

func TestComisionPagadaTomaPrecedencia(t *testing.T) {
	pagada := 2500.0
	c := CalcularComision(20000, 8000, 18, &pagada)
	if !casiIgual(c.Efectiva, 2500) {
		t.Fatalf("efectiva = %v, esperaba la pagada 2500", c.Efectiva)
	}
	if !c.AjustadaManualmente {
		t.Fatal("esperaba bandera ajustada_manualmente")
	}
}

func TestComisionPagadaDentroDeToleranciaNoCuenta(t *testing.T) {
	pagada := 2160.005
	c := CalcularComision(20000, 8000, 18, &pagada)
	if c.AjustadaManualmente {
		t.Fatalf("una diferencia menor a un centavo no es un ajuste: %+v", c)
	}
	if c.Efectiva != c.Nominal {
		t.Fatalf("efectiva = %v, esperaba la nominal %v", c.Efectiva, c.Nominal)
	}
}

func TestComisionPorcentajeCero(t *testing.T) {
	c := CalcularComision(20000, 8000, 0, nil)
	if c.Nominal != 0 || c.Efectiva != 0 {
		t.Fatalf("con 0%% la comisión debe ser 0: %+v", c)
	}
}
