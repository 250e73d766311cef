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

	log "github.com/sirupsen/logrus"
)

// Gene is one record from an inferCNV genomic position file.
type Gene struct {
	ID    string
	Chr   string
	Start int
	Stop  int
}

// LoadGeneTable reads a whitespace-delimited genomic position file
// (gene, chromosome, start, stop) into a map keyed by gene ID, plus
// the gene IDs in file order. Files named *.gz are decompressed
// transparently.
func LoadGeneTable(path string) (map[string]Gene, []string, error) {
	f, err := openPath(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	genes, order, err := ReadGeneTable(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return genes, order, nil
}

// ReadGeneTable parses genomic position records from rdr. A repeated
// gene ID keeps the last occurrence and logs a warning.
func ReadGeneTable(rdr io.Reader) (map[string]Gene, []string, error) {
	genes := map[string]Gene{}
	var order []string
	scanner := bufio.NewScanner(rdr)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, nil, fmt.Errorf("%w: line %d: expected 4 fields, got %d in %q", ErrParse, lineno, len(fields), line)
		}
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: bad start position %q", ErrParse, lineno, fields[2])
		}
		stop, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: bad stop position %q", ErrParse, lineno, fields[3])
		}
		id := fields[0]
		if _, dup := genes[id]; dup {
			log.Warnf("gene table: line %d: duplicate gene %q overrides earlier entry", lineno, id)
		} else {
			order = append(order, id)
		}
		genes[id] = Gene{ID: id, Chr: fields[1], Start: start, Stop: stop}
	}
	return genes, order, scanner.Err()
}
