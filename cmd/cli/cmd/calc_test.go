package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		spec    string
		code    string
		amount  string
		qty     int
		wantErr bool
	}{
		{spec: "A001:1000000", code: "A001", amount: "1000000", qty: 1},
		{spec: "R100:50,000:2", code: "R100", amount: "50000", qty: 2},
		{spec: " X : 12.5 : 3 ", code: "X", amount: "12.5", qty: 3},
		{spec: "A001", wantErr: true},
		{spec: ":100", wantErr: true},
		{spec: "A001:lots", wantErr: true},
		{spec: "A001:100:two", wantErr: true},
		{spec: "A001:100:1:extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			item, err := parseItem(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.code, item.ProductCode)
			assert.True(t, item.FaceAmount.Equal(decimal.RequireFromString(tt.amount)))
			assert.Equal(t, tt.qty, item.Quantity)
		})
	}
}

func TestMoney(t *testing.T) {
	for in, want := range map[string]string{
		"0":        "0",
		"999.4":    "999",
		"1000":     "1,000",
		"1234567":  "1,234,567",
		"2.5":      "3",
		"-12345.5": "-12,346",
	} {
		assert.Equal(t, want, money(decimal.RequireFromString(in)), in)
	}
}

func TestCalcCommand(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	b.WriteString("product_code,product_name,unit,age,sex,rate\n")
	for age := 16; age <= 20; age++ {
		fmt.Fprintf(&b, "A001,TestLife,per_10k,%d,F,5\n", age)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A001.csv"), []byte(b.String()), 0o644))
	yearPath := filepath.Join(dir, "out", "year_sum.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(yearPath), 0o755))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"calc", "--rates", dir, "--sex", "f", "--start", "16", "--end", "18",
		"--item", "A001:1000000", "--year-out", yearPath})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Total premium: 1,500")
	raw, err := os.ReadFile(yearPath)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffage,total_premium,cumulative_premium\n16,500,500\n17,500,1000\n18,500,1500\n", string(raw))
}
