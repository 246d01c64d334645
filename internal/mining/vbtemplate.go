// Copyright (c) 2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/vbits/vbitsd/internal/versionbits"
)

// TemplateRequest describes the version bits capabilities and preferences of
// a block template client.
type TemplateRequest struct {
	// Rules lists the names of the deployments the client supports.  A nil
	// list means the client did not advertise any rules, in which case
	// active deployments are not checked against it.
	Rules []string

	// Signal lists the names of started deployments the client wants to
	// signal for in addition to the ones that are always signalled for.
	Signal []string
}

// TemplateFields houses the version bits related fields of a block template
// for the block after a given tip.
type TemplateFields struct {
	// PrevHash is the hash of the tip the template builds on.
	PrevHash string `json:"previousblockhash"`

	// Version is the recommended block version.
	Version uint32 `json:"version"`

	// Rules lists the names of the active deployments in ascending bit
	// order.
	Rules []string `json:"rules"`

	// VBAvailable maps the names of the started deployments to their bits.
	VBAvailable map[string]uint8 `json:"vbavailable"`

	// VBRequired is the mask of the bits of the locked in deployments.
	VBRequired uint32 `json:"vbrequired"`
}

// BlockTemplateFields returns the version bits fields of a block template that
// builds on the provided tip.
//
// The recommended version carries the version bits marker along with the bits
// of all locked in deployments and the bits of the started deployments that
// either allow being forced or that the client asked to signal for.
//
// When the request advertises the rules the client supports, every active
// deployment that does not allow being forced must be among them.  The first
// name in the signal list of the request that is not a known deployment is
// reported as ErrUnknownSignal.  Errors from the state source are returned
// unchanged.
func BlockTemplateFields(src StateSource, tipHash *chainhash.Hash, req *TemplateRequest) (*TemplateFields, error) {
	if req == nil {
		req = &TemplateRequest{}
	}

	states, err := src.NextStates(tipHash)
	if err != nil {
		return nil, err
	}

	var clientRules map[string]struct{}
	if req.Rules != nil {
		clientRules = make(map[string]struct{}, len(req.Rules))
		for _, rule := range req.Rules {
			clientRules[rule] = struct{}{}
		}
	}
	signal := make(map[string]struct{}, len(req.Signal))
	for _, name := range req.Signal {
		signal[name] = struct{}{}
	}

	fields := &TemplateFields{
		PrevHash:    tipHash.String(),
		Rules:       make([]string, 0, len(states)),
		VBAvailable: make(map[string]uint8),
	}
	version := versionbits.TopBits
	known := make(map[string]struct{}, len(states))
	for _, state := range states {
		d := state.Deployment
		_, wantSignal := signal[d.Name]
		known[d.Name] = struct{}{}

		switch state.Record.State {
		case versionbits.ThresholdStarted:
			fields.VBAvailable[d.Name] = d.Bit
			if d.GBTForce || wantSignal {
				version |= d.Mask()
			}

		case versionbits.ThresholdLockedIn:
			fields.VBRequired |= d.Mask()

		case versionbits.ThresholdActive:
			fields.Rules = append(fields.Rules, d.Name)
			if clientRules == nil || d.GBTForce {
				continue
			}
			if _, ok := clientRules[d.Name]; !ok {
				str := fmt.Sprintf("support for rule %q is required by "+
					"the block template", d.Name)
				return nil, makeError(ErrUnsupportedRule, str)
			}
		}
	}
	for _, name := range req.Signal {
		if _, ok := known[name]; ok {
			continue
		}
		str := fmt.Sprintf("deployment %q requested for signalling does "+
			"not exist", name)
		return nil, makeError(ErrUnknownSignal, str)
	}
	fields.Version = version | fields.VBRequired

	log.Debugf("Template version %08x for block after %s (%d available, "+
		"required mask %08x, %d active)", fields.Version, tipHash,
		len(fields.VBAvailable), fields.VBRequired, len(fields.Rules))
	return fields, nil
}
