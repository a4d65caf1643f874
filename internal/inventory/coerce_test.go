package inventory

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		def  int64
		want int64
	}{
		{"plain", "7", 0, 7},
		{"float text truncates", "3.5", 0, 3},
		{"float text integral", "3.0", 0, 3},
		{"negative truncates toward zero", "-3.9", 0, -3},
		{"garbage", "abc", 0, 0},
		{"nil", nil, 0, 0},
		{"nil custom default", nil, 9, 9},
		{"empty", "", 0, 0},
		{"whitespace", "  12  ", 0, 12},
		{"excel formula", `="42"`, 0, 42},
		{"quoted", `"15"`, 0, 15},
		{"thousands", "1,234", 0, 1234},
		{"thousands with decimals", "1,234.99", 0, 1234},
		{"decimal comma", "12,50", 0, 12},
		{"accounting negative", "(5)", 0, -5},
		{"scientific", "1e3", 0, 1000},
		{"int", 5, 0, 5},
		{"int32", int32(-2), 0, -2},
		{"uint64 overflow", uint64(math.MaxUint64), 4, 4},
		{"float64", 9.99, 0, 9},
		{"float NaN", math.NaN(), 1, 1},
		{"float Inf", math.Inf(1), 1, 1},
		{"huge text", "1e40", 2, 2},
		{"json number", json.Number("8"), 0, 8},
		{"bytes", []byte("6"), 0, 6},
		{"bool", true, 0, 0},
		{"slice", []string{"1"}, 0, 0},
		{"NaN text", "NaN", 3, 3},
		{"exponent too large", "1e99999999", 5, 5},
		{"exponent too small", "1e-99999999", 5, 5},
		{"exponent at bound", "1e400", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceInt(tt.raw, tt.def))
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		def  float64
		want float64
	}{
		{"plain", "10.5", 0, 10.5},
		{"integer text", "3", 0, 3},
		{"euro suffix", "12,50 €", 0, 12.5},
		{"euro prefix", "€1,234.50", 0, 1234.5},
		{"dollar", "$99.99", 0, 99.99},
		{"pound", "£5", 0, 5},
		{"accounting negative", "(12.50)", 0, -12.5},
		{"accounting with currency", "($1,000.00)", 0, -1000},
		{"nbsp thousands", "1\u00a0234,5", 0, 1234.5},
		{"european thousands", "1.234,5", 0, 1234.5},
		{"european millions", "1.234.567,89", 0, 1234567.89},
		{"leading point", ".99", 0, 0.99},
		{"garbage", "n/a", 0, 0},
		{"nil", nil, 1.5, 1.5},
		{"NaN text", "NaN", 0, 0},
		{"Inf text", "Inf", 0, 0},
		{"float NaN", math.NaN(), 2, 2},
		{"float Inf", math.Inf(-1), 2, 2},
		{"int", 4, 0, 4},
		{"float32", float32(0.5), 0, 0.5},
		{"json number", json.Number("2.25"), 0, 2.25},
		{"map", map[string]any{}, 7, 7},
		{"scientific", "2.5e2", 0, 250},
		{"exponent too large", "1e99999999", 3, 3},
		{"exponent too small", "1e-99999999", 3, 3},
		{"long fraction", "0." + strings.Repeat("0", 500) + "1", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoerceFloat(tt.raw, tt.def), 1e-9)
		})
	}
}

func TestCoerceHugeExponentReturnsQuickly(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		CoerceInt("1e99999999", 0)
		CoerceFloat("-1E+99999999", 0)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("coercion of a huge exponent did not return")
	}
}

func TestCoerceText(t *testing.T) {
	assert.Equal(t, "", CoerceText(nil))
	assert.Equal(t, "Mensagem", CoerceText("  Mensagem "))
	assert.Equal(t, "1984.0", CoerceText(1984.0))
	assert.Equal(t, "1984", CoerceText(1984))
	assert.Equal(t, "", CoerceText([]int{1}))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{3, "3.0"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{-2, "-2.0"},
		{1234567.25, "1234567.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in), "FormatFloat(%v)", tt.in)
	}
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "abc", CleanCell(`  ="abc"  `))
	assert.Equal(t, "abc", CleanCell(`"abc"`))
	assert.Equal(t, "", CleanCell("   "))
	assert.Equal(t, "NOME", CleanCell(" NOME "))
}
