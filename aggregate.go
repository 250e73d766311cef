// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// MissingCellPolicy controls what happens when a cluster member does
// not appear in the expression matrix.
type MissingCellPolicy int

const (
	// MissingCellFail aborts with a lookup error naming the cluster
	// and cell.
	MissingCellFail MissingCellPolicy = iota
	// MissingCellSkip drops the cell and logs one warning per
	// cluster.
	MissingCellSkip
)

// ScoreRow is one gene's aggregate expression: the mean over all
// cells followed by one mean per cluster, in cluster declaration
// order. Means are rounded to 3 decimal digits.
type ScoreRow struct {
	Gene  string
	Means []float64
}

const progressInterval = 1000

// ComputeScores produces one ScoreRow per gene, ordered by
// m.GeneOrder. A cluster whose membership resolves to zero matrix
// columns is a data error, never a NaN.
func ComputeScores(m *Matrix, clusters []Cluster, policy MissingCellPolicy) ([]ScoreRow, error) {
	// Resolve cluster members to matrix columns once; every row
	// shares the same column order.
	columns := make([][]int, len(clusters))
	for ci, cluster := range clusters {
		skipped := 0
		for _, cell := range cluster.Cells {
			col, ok := m.CellIndex[cell]
			if !ok {
				if policy == MissingCellSkip {
					skipped++
					continue
				}
				return nil, fmt.Errorf("%w: cluster %q: cell %q not in expression matrix", ErrLookup, cluster.Name, cell)
			}
			columns[ci] = append(columns[ci], col)
		}
		if skipped > 0 {
			log.Warnf("cluster %q: skipped %d of %d cells not in expression matrix", cluster.Name, skipped, len(cluster.Cells))
		}
		if len(columns[ci]) == 0 {
			return nil, fmt.Errorf("%w: cluster %q: no usable cells in expression matrix", ErrData, cluster.Name)
		}
	}

	scores := make([]ScoreRow, 0, len(m.GeneOrder))
	for i, gene := range m.GeneOrder {
		row := m.Rows[gene]
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: gene %q: no expression values", ErrData, gene)
		}
		means := make([]float64, 0, 1+len(clusters))
		means = append(means, round3(stat.Mean(row, nil)))
		for ci := range clusters {
			vals := make([]float64, len(columns[ci]))
			for vi, col := range columns[ci] {
				vals[vi] = row[col]
			}
			means = append(means, round3(stat.Mean(vals, nil)))
		}
		scores = append(scores, ScoreRow{Gene: gene, Means: means})
		if (i+1)%progressInterval == 0 {
			log.Infof("computed means for %d of %d genes", i+1, len(m.GeneOrder))
		}
	}
	return scores, nil
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
