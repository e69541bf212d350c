package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"cuaderno/internal/casing"
	"cuaderno/internal/model"
	"cuaderno/internal/store"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(model.Date(""))
	timeType    = reflect.TypeOf(time.Time{})
)

// EncodeRow turns an entity into a store row: its JSON shape with keys
// normalized to column names.
func EncodeRow(v any) (store.Row, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	// decimal columns keep their exact text; other numbers become float64
	exact := decimalKeys(reflect.TypeOf(v))
	for k, val := range m {
		n, ok := val.(json.Number)
		if !ok {
			continue
		}
		if exact[k] {
			m[k] = n.String()
			continue
		}
		if f, err := n.Float64(); err == nil {
			m[k] = f
		} else {
			m[k] = n.String()
		}
	}
	return casing.NormalizeMap(m), nil
}

var decimalKeyCache sync.Map

// decimalKeys lists the JSON keys of t's decimal.Decimal fields.
func decimalKeys(t reflect.Type) map[string]bool {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := decimalKeyCache.Load(t); ok {
		return cached.(map[string]bool)
	}
	keys := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft != decimalType {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		keys[name] = true
	}
	decimalKeyCache.Store(t, keys)
	return keys
}

// EncodeRows encodes each item with EncodeRow.
func EncodeRows[T any](items []T) ([]store.Row, error) {
	rows := make([]store.Row, 0, len(items))
	for _, it := range items {
		row, err := EncodeRow(it)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DecodeRow turns a store row back into an entity. Driver-specific value
// types (numeric strings, timestamps for dates, integers for booleans) are
// coerced to the entity's field types.
func DecodeRow[T any](row store.Row) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			dateHook,
		),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(casing.DenormalizeMap(row)); err != nil {
		return out, fmt.Errorf("failed to decode row: %w", err)
	}
	return out, nil
}

// DecodeRows decodes each row with DecodeRow.
func DecodeRows[T any](rows []store.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		it, err := DecodeRow[T](r)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(v)
	case []byte:
		return decimal.NewFromString(string(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case nil:
		return decimal.Zero, nil
	}
	return nil, fmt.Errorf("cannot decode %T as decimal", data)
}

func dateHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != dateType {
		return data, nil
	}
	if from == timeType {
		return model.NewDate(data.(time.Time)), nil
	}
	switch v := data.(type) {
	case string:
		return model.ParseDate(v)
	case []byte:
		return model.ParseDate(string(v))
	}
	return data, nil
}
