// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package versionbits

import (
	"fmt"
	"sort"

	"github.com/vbits/vbitsd/chaincfg"
)

// MaxDeploymentBit is the highest block version bit that may be used to
// signal for a deployment.  The bits above it are reserved for the version
// bits marker.
const MaxDeploymentBit = 28

// Registry houses an immutable set of deployments along with the window
// origin height they are aligned to.  It is safe for concurrent access.
type Registry struct {
	origin      int64
	deployments []chaincfg.Deployment
	byName      map[string]*chaincfg.Deployment
	byBit       map[uint8]*chaincfg.Deployment
}

// validateDeployment returns a ConfigError when the provided deployment
// violates any of the rules that all deployments must satisfy.
func validateDeployment(d *chaincfg.Deployment) error {
	if d.Name == "" {
		str := fmt.Sprintf("deployment with bit %d does not have a name", d.Bit)
		return configError(ErrMissingName, str)
	}
	if d.Bit > MaxDeploymentBit {
		str := fmt.Sprintf("deployment %q uses bit %d which is above the "+
			"maximum allowed bit %d", d.Name, d.Bit, MaxDeploymentBit)
		return configError(ErrInvalidBit, str)
	}
	if d.WindowSize == 0 {
		str := fmt.Sprintf("deployment %q has a zero window size", d.Name)
		return configError(ErrInvalidWindow, str)
	}
	if d.Threshold == 0 || d.Threshold > d.WindowSize {
		str := fmt.Sprintf("deployment %q threshold %d is not in the range "+
			"[1, %d]", d.Name, d.Threshold, d.WindowSize)
		return configError(ErrInvalidThreshold, str)
	}
	if d.MinLockedBlocks < 0 || d.MinLockedTime < 0 {
		str := fmt.Sprintf("deployment %q has a negative grace period "+
			"(min locked blocks %d, min locked time %d)", d.Name,
			d.MinLockedBlocks, d.MinLockedTime)
		return configError(ErrInvalidGracePeriod, str)
	}
	if d.StartTime < 0 {
		str := fmt.Sprintf("deployment %q has a negative start time %d",
			d.Name, d.StartTime)
		return configError(ErrInvalidTimeRange, str)
	}
	if d.HasTimeout() && d.Timeout < d.StartTime {
		str := fmt.Sprintf("deployment %q timeout %d is before its start "+
			"time %d", d.Name, d.Timeout, d.StartTime)
		return configError(ErrInvalidTimeRange, str)
	}
	return nil
}

// NewRegistry returns a registry of the provided deployments aligned to the
// given window origin height.  The deployments are copied, so the caller may
// reuse the passed slice.
//
// A ConfigError is returned when any deployment is invalid or when the
// deployments do not have unique names and bits.
func NewRegistry(origin int64, deployments []chaincfg.Deployment) (*Registry, error) {
	if origin < 0 {
		str := fmt.Sprintf("window origin height %d is negative", origin)
		return nil, configError(ErrInvalidOrigin, str)
	}

	r := &Registry{
		origin:      origin,
		deployments: make([]chaincfg.Deployment, len(deployments)),
		byName:      make(map[string]*chaincfg.Deployment, len(deployments)),
		byBit:       make(map[uint8]*chaincfg.Deployment, len(deployments)),
	}
	copy(r.deployments, deployments)
	sort.SliceStable(r.deployments, func(i, j int) bool {
		return r.deployments[i].Bit < r.deployments[j].Bit
	})

	for i := range r.deployments {
		d := &r.deployments[i]
		if err := validateDeployment(d); err != nil {
			return nil, err
		}
		if d.Timeout == 0 {
			d.Timeout = chaincfg.NoTimeout
		}
		if other, ok := r.byBit[d.Bit]; ok {
			str := fmt.Sprintf("deployments %q and %q both use bit %d",
				other.Name, d.Name, d.Bit)
			return nil, configError(ErrDuplicateBit, str)
		}
		if _, ok := r.byName[d.Name]; ok {
			str := fmt.Sprintf("deployment name %q is used more than once",
				d.Name)
			return nil, configError(ErrDuplicateName, str)
		}
		r.byBit[d.Bit] = d
		r.byName[d.Name] = d
	}

	return r, nil
}

// NewRegistryFromParams returns a registry of the deployments defined by the
// provided network parameters.
func NewRegistryFromParams(params *chaincfg.Params) (*Registry, error) {
	return NewRegistry(params.VersionBitsOrigin, params.Deployments)
}

// Origin returns the height that all deployment windows are aligned to.
func (r *Registry) Origin() int64 {
	return r.origin
}

// Len returns the number of deployments in the registry.
func (r *Registry) Len() int {
	return len(r.deployments)
}

// Deployments returns a copy of all deployments in ascending bit order.
func (r *Registry) Deployments() []chaincfg.Deployment {
	deployments := make([]chaincfg.Deployment, len(r.deployments))
	copy(deployments, r.deployments)
	return deployments
}

// Lookup returns the deployment with the provided name.  The returned
// deployment must not be modified.
func (r *Registry) Lookup(name string) (*chaincfg.Deployment, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, unknownDeploymentError(name)
	}
	return d, nil
}

// LookupBit returns the deployment that signals with the provided bit.  The
// returned deployment must not be modified.
func (r *Registry) LookupBit(bit uint8) (*chaincfg.Deployment, error) {
	d, ok := r.byBit[bit]
	if !ok {
		str := fmt.Sprintf("no deployment uses bit %d", bit)
		return nil, contextError(ErrUnknownDeployment, str)
	}
	return d, nil
}
