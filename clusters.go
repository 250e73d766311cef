// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"bufio"
	"fmt"
	"strings"
)

// Cluster is a named group of cells, as emitted by an upstream
// clustering step. Cells keeps membership-file order; duplicates are
// kept as-is.
type Cluster struct {
	Name  string
	Cells []string
}

// Membership files start with a fixed-format header before the first
// cell row.
const clusterHeaderLines = 3

// LoadClusters reads one membership file per cluster name. The
// name/path counts are checked before any file is opened.
func LoadClusters(names, paths []string) ([]Cluster, error) {
	if len(names) != len(paths) {
		return nil, fmt.Errorf("%w: %d cluster names but %d cluster paths", ErrConfig, len(names), len(paths))
	}
	clusters := make([]Cluster, 0, len(names))
	for i, name := range names {
		cells, err := loadClusterCells(paths[i])
		if err != nil {
			return nil, fmt.Errorf("cluster %q: %w", name, err)
		}
		clusters = append(clusters, Cluster{Name: name, Cells: cells})
	}
	return clusters, nil
}

// loadClusterCells skips the header, then takes the first whitespace
// token of each line as a cell ID.
func loadClusterCells(path string) ([]string, error) {
	f, err := openPath(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var cells []string
	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		if lineno <= clusterHeaderLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cells = append(cells, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cells, nil
}
