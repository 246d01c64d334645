// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// deploymentFile is the on-disk layout of a deployments file.
type deploymentFile struct {
	Deployments []deploymentEntry `yaml:"deployments"`
}

// deploymentEntry is the on-disk layout of a single deployment.
type deploymentEntry struct {
	Bit             *uint8 `yaml:"bit"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	StartTime       int64  `yaml:"starttime"`
	Timeout         int64  `yaml:"timeout"`
	WindowSize      uint32 `yaml:"windowsize"`
	Threshold       uint32 `yaml:"threshold"`
	MinLockedBlocks int64  `yaml:"minlockedblocks"`
	MinLockedTime   int64  `yaml:"minlockedtime"`
	GBTForce        bool   `yaml:"gbtforce"`
}

// LoadDeployments decodes a YAML list of deployments from the provided reader.
// The result is not validated beyond ensuring every entry specifies a bit, so
// callers are expected to pass it through the version bits registry which
// performs the full consistency checks.
//
// An example file:
//
//	deployments:
//	  - bit: 1
//	    name: example
//	    starttime: 1700000000
//	    timeout: 0
//	    windowsize: 2016
//	    threshold: 1916
//	    minlockedblocks: 2016
//	    minlockedtime: 0
func LoadDeployments(r io.Reader) ([]Deployment, error) {
	var file deploymentFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("deployments file is empty")
		}
		return nil, fmt.Errorf("unable to decode deployments: %w", err)
	}

	deployments := make([]Deployment, 0, len(file.Deployments))
	for i, entry := range file.Deployments {
		if entry.Bit == nil {
			return nil, fmt.Errorf("deployment %d (%q) does not specify a bit",
				i, entry.Name)
		}
		timeout := entry.Timeout
		if timeout == 0 {
			timeout = NoTimeout
		}
		deployments = append(deployments, Deployment{
			Bit:             *entry.Bit,
			Name:            entry.Name,
			Description:     entry.Description,
			StartTime:       entry.StartTime,
			Timeout:         timeout,
			WindowSize:      entry.WindowSize,
			Threshold:       entry.Threshold,
			MinLockedBlocks: entry.MinLockedBlocks,
			MinLockedTime:   entry.MinLockedTime,
			GBTForce:        entry.GBTForce,
		})
	}
	return deployments, nil
}
