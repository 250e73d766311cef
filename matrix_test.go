// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"errors"
	"strings"

	"gopkg.in/check.v1"
)

type matrixSuite struct{}

var _ = check.Suite(&matrixSuite{})

func (s *matrixSuite) TestInferCNVCellID(c *check.C) {
	for _, trial := range []struct {
		token string
		cell  string
	}{
		{`"PREVIZ.AAACATACAAGGGC.1"`, "AAACATACAAGGGC-1"},
		{`PREVIZ.AAACATACAAGGGC.1`, "AAACATACAAGGGC-1"},
		{`"PREVIZ.CELLA.1.2"`, "CELLA-1-2"},
		{`"PREVIZ.CELLA"`, "CELLA"},
	} {
		cell, err := InferCNVCellID(trial.token)
		c.Check(err, check.IsNil)
		c.Check(cell, check.Equals, trial.cell, check.Commentf("token %q", trial.token))
	}

	_, err := InferCNVCellID(`"AAACATACAAGGGC.1"`)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrParse), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*does not contain marker "PREVIZ\."`)
}

func (s *matrixSuite) TestReadMatrix(c *check.C) {
	m, err := ReadMatrix(strings.NewReader(
		"\"PREVIZ.CELLA.1\"\t\"PREVIZ.CELLB.1\"\t\"PREVIZ.CELLC.1\"\n"+
			"\"G1\"\t2.0\t4.0\t6.5\n"+
			"\"G2\"\t-1\t0\t1e-3\n"), '\t', InferCNVCellID)
	c.Assert(err, check.IsNil)
	c.Check(m.CellIndex, check.DeepEquals, map[string]int{"CELLA-1": 0, "CELLB-1": 1, "CELLC-1": 2})
	c.Check(m.GeneOrder, check.DeepEquals, []string{"G1", "G2"})
	c.Check(m.Rows["G1"], check.DeepEquals, []float64{2, 4, 6.5})
	c.Check(m.Rows["G2"], check.DeepEquals, []float64{-1, 0, 0.001})
}

func (s *matrixSuite) TestReadMatrixCommaDelimiter(c *check.C) {
	m, err := ReadMatrix(strings.NewReader(
		"\"PREVIZ.CELLA.1\",\"PREVIZ.CELLB.1\"\n\"G1\",1.5,2.5\n"), ',', InferCNVCellID)
	c.Assert(err, check.IsNil)
	c.Check(m.Rows["G1"], check.DeepEquals, []float64{1.5, 2.5})
}

func (s *matrixSuite) TestBadExpressionValue(c *check.C) {
	_, err := ReadMatrix(strings.NewReader(
		"\"PREVIZ.CELLA.1\"\n\"G1\"\tlots\n"), '\t', InferCNVCellID)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrParse), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*gene "G1" column 1: bad expression value "lots"`)
}

func (s *matrixSuite) TestBadHeaderToken(c *check.C) {
	_, err := ReadMatrix(strings.NewReader(
		"\"PREVIZ.CELLA.1\"\t\"CELLB.1\"\n"), '\t', InferCNVCellID)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrParse), check.Equals, true)
	c.Check(err, check.ErrorMatches, `header column 2: .*`)
}

func (s *matrixSuite) TestRowLengthMismatch(c *check.C) {
	_, err := ReadMatrix(strings.NewReader(
		"\"PREVIZ.CELLA.1\"\t\"PREVIZ.CELLB.1\"\n\"G1\"\t1.0\n"), '\t', InferCNVCellID)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrParse), check.Equals, true)
	c.Check(err, check.ErrorMatches, `.*gene "G1" has 1 values, expected 2`)
}

func (s *matrixSuite) TestEmptyMatrix(c *check.C) {
	_, err := ReadMatrix(strings.NewReader(""), '\t', InferCNVCellID)
	c.Assert(err, check.NotNil)
	c.Check(errors.Is(err, ErrParse), check.Equals, true)
}
