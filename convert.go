// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

type converter struct {
	matrixPath   string
	delimiter    string
	genePosPath  string
	clusterNames multiString
	clusterPaths multiString
	outputPath   string
	scoresNpy    string
	missingCells string
	transform    CellIDTransform
}

func (cmd *converter) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&cmd.matrixPath, "infercnv_output", "-", "expression matrix `file` from inferCNV (pre_vis_transform.txt)")
	flags.StringVar(&cmd.delimiter, "infercnv_delimiter", "\t", "field `delimiter` in the expression matrix")
	flags.StringVar(&cmd.genePosPath, "gen_pos_file", "", "genomic position `file` (gene chromosome start stop)")
	flags.Var(&cmd.clusterNames, "cluster_names", "cluster `name` (repeatable, or comma-separated)")
	flags.Var(&cmd.clusterPaths, "cluster_paths", "cluster membership `file` (repeatable, or comma-separated)")
	flags.StringVar(&cmd.outputPath, "output_file", "-", "output `file` for Ideogram.js annotations")
	flags.StringVar(&cmd.scoresNpy, "scores_npy", "", "also write the aggregate score matrix to this .npy `file`")
	flags.StringVar(&cmd.missingCells, "missing_cells", "fail", "`policy` for cluster cells absent from the matrix: fail or skip")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}
	if cmd.transform == nil {
		cmd.transform = InferCNVCellID
	}
	err = cmd.convert(stdin, stdout)
	if err != nil {
		return 1
	}
	return 0
}

func (cmd *converter) convert(stdin io.Reader, stdout io.Writer) error {
	delim := []rune(cmd.delimiter)
	if len(delim) != 1 {
		return fmt.Errorf("%w: -infercnv_delimiter must be a single character, got %q", ErrConfig, cmd.delimiter)
	}
	if cmd.genePosPath == "" {
		return fmt.Errorf("%w: -gen_pos_file is required", ErrConfig)
	}
	var policy MissingCellPolicy
	switch cmd.missingCells {
	case "fail":
		policy = MissingCellFail
	case "skip":
		policy = MissingCellSkip
	default:
		return fmt.Errorf("%w: unknown -missing_cells policy %q (want fail or skip)", ErrConfig, cmd.missingCells)
	}

	clusters, err := LoadClusters(cmd.clusterNames, cmd.clusterPaths)
	if err != nil {
		return err
	}
	genes, _, err := LoadGeneTable(cmd.genePosPath)
	if err != nil {
		return err
	}

	var input io.ReadCloser
	if cmd.matrixPath == "-" {
		input = ioutil.NopCloser(stdin)
	} else {
		input, err = openPath(cmd.matrixPath)
		if err != nil {
			return err
		}
	}
	matrix, err := ReadMatrix(input, delim[0], cmd.transform)
	if cerr := input.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.matrixPath, err)
	}

	scores, err := ComputeScores(matrix, clusters, policy)
	if err != nil {
		return err
	}
	ideo, err := BuildAnnots(scores, genes, clusters)
	if err != nil {
		return err
	}

	if cmd.scoresNpy != "" {
		if err := writeScoresNpy(cmd.scoresNpy, scores); err != nil {
			return err
		}
	}

	// Serialize before opening the destination so a failed run never
	// leaves a truncated annotation file behind.
	buf, err := json.Marshal(ideo)
	if err != nil {
		return err
	}

	var output io.WriteCloser
	if cmd.outputPath == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(cmd.outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			return err
		}
		defer output.Close()
	}
	bufw := bufio.NewWriter(output)
	w := io.Writer(bufw)
	var gzw *pgzip.Writer
	if strings.HasSuffix(cmd.outputPath, ".gz") {
		gzw = pgzip.NewWriter(bufw)
		w = gzw
	}
	_, err = w.Write(buf)
	if err != nil {
		return err
	}
	if gzw != nil {
		if err = gzw.Close(); err != nil {
			return err
		}
	}
	if err = bufw.Flush(); err != nil {
		return err
	}
	if err = output.Close(); err != nil {
		return err
	}
	log.Infof("wrote Ideogram.js annotations for %d genes to %s", len(scores), cmd.outputPath)
	return nil
}

// writeScoresNpy dumps the aggregate means as a genes x (1+clusters)
// float64 matrix in C order, rows in annotation gene order.
func writeScoresNpy(path string, scores []ScoreRow) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bufw := bufio.NewWriter(f)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return err
	}
	cols := 0
	if len(scores) > 0 {
		cols = len(scores[0].Means)
	}
	data := make([]float64, 0, len(scores)*cols)
	for _, score := range scores {
		data = append(data, score.Means...)
	}
	npw.Shape = []int{len(scores), cols}
	if err = npw.WriteFloat64(data); err != nil {
		return err
	}
	if err = bufw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// multiString collects repeated and/or comma-separated flag values.
type multiString []string

func (ms *multiString) String() string { return strings.Join(*ms, ",") }

func (ms *multiString) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v != "" {
			*ms = append(*ms, v)
		}
	}
	return nil
}

// openPath opens a local file for reading, decompressing
// transparently if the name ends in .gz.
func openPath(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gzr, err := pgzip.NewReader(bufio.NewReaderSize(f, 4*1024*1024))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gzipReadCloser{gzr, f}, nil
}

type gzipReadCloser struct {
	*pgzip.Reader
	f *os.File
}

func (g gzipReadCloser) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
