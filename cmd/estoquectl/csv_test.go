package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductsCSV(t *testing.T) {
	in := "nome;unidade;categoria;estoque_minimo;estoque_atual\n" +
		"Luva de procedimento;cx;EPI;10;25,5\n" +
		"\n" +
		"Seringa 5ml;un\n"
	rows, err := parseProductsCSV(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Luva de procedimento", rows[0].Name)
	assert.Equal(t, "EPI", rows[0].Category)
	assert.True(t, rows[0].MinimumStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, rows[0].CurrentStock.Equal(decimal.RequireFromString("25.5")))

	assert.Equal(t, "un", rows[1].Unit)
	assert.True(t, rows[1].CurrentStock.IsZero())
}

func TestParseProductsCSV_Latin1(t *testing.T) {
	// "Algodão" en ISO-8859-1: ã = 0xE3
	raw := append([]byte("Algod"), 0xE3, 'o', ';', 'p', 'c', 't', '\n')
	rows, err := parseProductsCSV(bytes.NewReader(raw), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Algodão", rows[0].Name)
}

func TestParseProductsCSV_Errores(t *testing.T) {
	_, err := parseProductsCSV(strings.NewReader("Luva\n"), false)
	assert.Error(t, err)

	_, err = parseProductsCSV(strings.NewReader("Luva;cx;;-1\n"), false)
	assert.ErrorContains(t, err, "estoque_minimo")

	_, err = parseProductsCSV(strings.NewReader("Luva;cx;;1;abc\n"), false)
	assert.ErrorContains(t, err, "linha 1")
}
