// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Annot is one Ideogram.js annotation: gene name, start, length,
// then the aggregate means. It marshals as a heterogeneous JSON
// array whose layout is named by IdeogramAnnots.Keys.
type Annot struct {
	Name   string
	Start  int
	Length int
	Means  []float64
}

func (a Annot) MarshalJSON() ([]byte, error) {
	row := make([]interface{}, 0, 3+len(a.Means))
	row = append(row, a.Name, a.Start, a.Length)
	for _, m := range a.Means {
		row = append(row, m)
	}
	return json.Marshal(row)
}

// ChrAnnots groups the annotations on one chromosome.
type ChrAnnots struct {
	Chr    string  `json:"chr"`
	Annots []Annot `json:"annots"`
}

// IdeogramAnnots is the document consumed by Ideogram.js. See
// https://github.com/eweitz/ideogram/wiki/Annotations for the format.
type IdeogramAnnots struct {
	Keys   []string    `json:"keys"`
	Annots []ChrAnnots `json:"annots"`
}

// BuildAnnots joins aggregate scores against the gene table and
// groups them by chromosome. Gene order follows scores; chromosome
// buckets appear in first-seen order.
func BuildAnnots(scores []ScoreRow, genes map[string]Gene, clusters []Cluster) (*IdeogramAnnots, error) {
	keys := []string{"name", "start", "length", "all"}
	for _, cluster := range clusters {
		keys = append(keys, cluster.Name)
	}
	out := &IdeogramAnnots{Keys: keys}
	bucket := map[string]int{} // chromosome -> index into out.Annots
	for i, score := range scores {
		gene, ok := genes[score.Gene]
		if !ok {
			return nil, fmt.Errorf("%w: gene %q not in genomic position table", ErrLookup, score.Gene)
		}
		bi, ok := bucket[gene.Chr]
		if !ok {
			bi = len(out.Annots)
			bucket[gene.Chr] = bi
			out.Annots = append(out.Annots, ChrAnnots{Chr: gene.Chr})
		}
		out.Annots[bi].Annots = append(out.Annots[bi].Annots, Annot{
			Name:   score.Gene,
			Start:  gene.Start,
			Length: gene.Stop - gene.Start,
			Means:  score.Means,
		})
		if (i+1)%progressInterval == 0 {
			log.Infof("assembled %d of %d annotations", i+1, len(scores))
		}
	}
	return out, nil
}
