package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-api/internal/application/dto"
)

// parseProductsCSV lee filas nome;unidade;categoria;estoque_minimo;estoque_atual.
// La cabecera es opcional; los decimales aceptan coma.
func parseProductsCSV(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreateProductRequest
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "nome") {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("linha %d: esperado ao menos nome;unidade", line)
		}
		in := dto.CreateProductRequest{
			Name: strings.TrimSpace(rec[0]),
			Unit: strings.TrimSpace(rec[1]),
		}
		if in.Name == "" || in.Unit == "" {
			return nil, fmt.Errorf("linha %d: nome e unidade são obrigatórios", line)
		}
		if len(rec) > 2 {
			in.Category = strings.TrimSpace(rec[2])
		}
		if in.MinimumStock, err = column(rec, 3); err != nil {
			return nil, fmt.Errorf("linha %d: estoque_minimo: %w", line, err)
		}
		if in.CurrentStock, err = column(rec, 4); err != nil {
			return nil, fmt.Errorf("linha %d: estoque_atual: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func column(rec []string, i int) (decimal.Decimal, error) {
	if i >= len(rec) {
		return decimal.Zero, nil
	}
	s := strings.TrimSpace(rec[i])
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("valor negativo")
	}
	return d, nil
}
