// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CellIDTransform converts one cell-header token from an upstream
// tool's naming convention to the cell ID used in cluster membership
// files.
type CellIDTransform func(token string) (string, error)

const previzMarker = "PREVIZ."

// InferCNVCellID is the transform for inferCNV pre_vis_transform
// output: strip surrounding quotes, drop everything through the
// PREVIZ. marker, and normalize the remaining dots.
// `"PREVIZ.AAACATACAAGGGC.1"` becomes `AAACATACAAGGGC-1`.
func InferCNVCellID(token string) (string, error) {
	token = strings.Trim(token, `"`)
	marker := strings.Index(token, previzMarker)
	if marker < 0 {
		return "", fmt.Errorf("%w: cell header token %q does not contain marker %q", ErrParse, token, previzMarker)
	}
	return strings.ReplaceAll(token[marker+len(previzMarker):], ".", "-"), nil
}

// Matrix is a parsed expression matrix: the zero-based column of each
// cell, one row of per-cell values per gene, and the gene IDs in row
// order. Rows share the column order established by CellIndex.
type Matrix struct {
	CellIndex map[string]int
	Rows      map[string][]float64
	GeneOrder []string
}

// ReadMatrix parses a delimited expression matrix. The first line
// holds one cell-header token per column, rewritten by transform;
// each later line is a quoted gene ID followed by one float per cell.
func ReadMatrix(rdr io.Reader, delimiter rune, transform CellIDTransform) (*Matrix, error) {
	scanner := bufio.NewScanner(rdr)
	// rows can run to megabytes with tens of thousands of cells
	scanner.Buffer(make([]byte, 1<<20), 1<<30)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty expression matrix", ErrParse)
	}
	delim := string(delimiter)
	header := strings.Split(strings.TrimSpace(scanner.Text()), delim)
	m := &Matrix{
		CellIndex: make(map[string]int, len(header)),
		Rows:      make(map[string][]float64),
	}
	for i, token := range header {
		cell, err := transform(token)
		if err != nil {
			return nil, fmt.Errorf("header column %d: %w", i+1, err)
		}
		m.CellIndex[cell] = i
	}
	ncells := len(header)
	for lineno := 2; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, delim)
		gene := strings.Trim(fields[0], `"`)
		if len(fields)-1 != ncells {
			return nil, fmt.Errorf("%w: line %d: gene %q has %d values, expected %d", ErrParse, lineno, gene, len(fields)-1, ncells)
		}
		values := make([]float64, ncells)
		for i, token := range fields[1:] {
			v, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: gene %q column %d: bad expression value %q", ErrParse, lineno, gene, i+1, token)
			}
			values[i] = v
		}
		if _, dup := m.Rows[gene]; !dup {
			m.GeneOrder = append(m.GeneOrder, gene)
		}
		m.Rows[gene] = values
	}
	return m, scanner.Err()
}
