package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"nombreCultivo":      "nombre_cultivo",
		"parcelaId":          "parcela_id",
		"nombreORazonSocial": "nombre_o_razon_social",
		"ivaPorcentaje":      "iva_porcentaje",
		"id":                 "id",
		"address2":           "address2",
		"already_snake":      "already_snake",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToSnake(in), in)
	}
}

func TestToCamel(t *testing.T) {
	cases := map[string]string{
		"nombre_cultivo":        "nombreCultivo",
		"parcela_id":            "parcelaId",
		"nombre_o_razon_social": "nombreORazonSocial",
		"id":                    "id",
		"line_2":                "line_2",
		"_private":              "_private",
		"alreadyCamel":          "alreadyCamel",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToCamel(in), in)
	}
}

func TestRoundTripKeys(t *testing.T) {
	camel := []string{"id", "nombre", "superficieCultivada", "clienteProveedorNif", "nombreORazonSocial", "a1B", "horasTrabajo"}
	for _, k := range camel {
		assert.Equal(t, k, ToCamel(ToSnake(k)), k)
	}
	snake := []string{"fecha_programada", "cultivo_id", "line_2", "x"}
	for _, k := range snake {
		assert.Equal(t, k, ToSnake(ToCamel(k)), k)
	}
}

func TestIdempotent(t *testing.T) {
	for _, k := range []string{"fecha_programada", "total_factura"} {
		assert.Equal(t, k, ToSnake(ToSnake(k)))
	}
	for _, k := range []string{"fechaProgramada", "totalFactura"} {
		assert.Equal(t, k, ToCamel(ToCamel(k)))
	}
}

func TestNormalizeNested(t *testing.T) {
	in := map[string]any{
		"parcelaId": "p-1",
		"datosFiscales": map[string]any{
			"nifCif":   "B123",
			"telefono": nil,
		},
		"trabajos": []any{
			map[string]any{"descripcionTarea": "poda", "horasTrabajo": 2.5},
			"scalar",
		},
		"etiquetas": []map[string]any{{"nombreCorto": "x"}},
	}

	out := Normalize(in).(map[string]any)

	assert.Equal(t, "p-1", out["parcela_id"])
	fiscal := out["datos_fiscales"].(map[string]any)
	assert.Equal(t, "B123", fiscal["nif_cif"])
	assert.Contains(t, fiscal, "telefono")
	tasks := out["trabajos"].([]any)
	assert.Equal(t, map[string]any{"descripcion_tarea": "poda", "horas_trabajo": 2.5}, tasks[0])
	assert.Equal(t, "scalar", tasks[1])
	assert.Equal(t, []map[string]any{{"nombre_corto": "x"}}, out["etiquetas"])

	assert.Equal(t, in, Denormalize(out))
}

func TestScalarsPassThrough(t *testing.T) {
	assert.Equal(t, 42, Normalize(42))
	assert.Equal(t, "camelCase", Normalize("camelCase"))
	assert.Nil(t, Normalize(nil))
	assert.Nil(t, NormalizeMap(nil))
}
