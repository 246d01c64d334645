// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/wire"
	"github.com/vbits/vbitsd/chaincfg"
	"github.com/vbits/vbitsd/internal/blockindex"
	"github.com/vbits/vbitsd/internal/chaingen"
	"github.com/vbits/vbitsd/internal/mining"
	"github.com/vbits/vbitsd/internal/progresslog"
	"github.com/vbits/vbitsd/internal/version"
	"github.com/vbits/vbitsd/internal/versionbits"
)

const (
	// headerDBName is the name of the header database directory within the
	// network data directory.
	headerDBName = "headers"

	// generateBatchSize is the maximum number of generated headers that are
	// written to the header database at once.
	generateBatchSize = 2000
)

var cfg *config

// statusResult is the output of a run.
type statusResult struct {
	Tip         string                                  `json:"tip"`
	Height      int64                                   `json:"height"`
	Deployments map[string]versionbits.DeploymentStatus `json:"deployments"`
	Template    *mining.TemplateFields                  `json:"template"`
	Unexpected  uint32                                  `json:"unexpectedversions"`
}

// loadRegistry returns the registry of the deployments of the configured
// network or, when a deployments file is configured, of the deployments it
// lists.
func loadRegistry(cfg *config) (*versionbits.Registry, error) {
	if cfg.DeploymentsFile == "" {
		return versionbits.NewRegistryFromParams(cfg.params)
	}

	f, err := os.Open(cfg.DeploymentsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	deployments, err := chaincfg.LoadDeployments(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load deployments file %q: %w",
			cfg.DeploymentsFile, err)
	}
	vbtdLog.Infof("Loaded %d deployments from %s", len(deployments),
		cfg.DeploymentsFile)
	return versionbits.NewRegistry(cfg.params.VersionBitsOrigin, deployments)
}

// generateBase returns the header the generated headers build on.  That is the
// tip of the active chain unless a fork height is configured.
func generateBase(idx *blockindex.Index, db *blockindex.HeaderDB) (*wire.BlockHeader, error) {
	hash, height := idx.Tip()
	if cfg.ForkHeight >= 0 {
		if cfg.ForkHeight > height {
			return nil, fmt.Errorf("fork height %d is above the tip height %d",
				cfg.ForkHeight, height)
		}
		var err error
		hash, err = idx.BlockAt(cfg.ForkHeight)
		if err != nil {
			return nil, err
		}
		height = cfg.ForkHeight
	}
	if height == 0 {
		genesis := cfg.params.GenesisHeader
		return &genesis, nil
	}
	return db.FetchHeader(height, &hash)
}

// generateHeaders appends the configured number of generated headers to the
// index and stores them in the header database.  Generation stops early when a
// shutdown is requested.
func generateHeaders(ctx context.Context, idx *blockindex.Index, db *blockindex.HeaderDB, calc *versionbits.Calculator) error {
	base, err := generateBase(idx, db)
	if err != nil {
		return err
	}
	g := chaingen.MakeGeneratorFrom(cfg.params, "base", base)
	if cfg.BlockInterval > 0 {
		g.SetBlockInterval(cfg.BlockInterval)
	}
	vbtdLog.Infof("Generating %d headers on block %s (height %d)",
		cfg.Generate, base.BlockHash(), base.Height)

	// Headers of a side branch can't be queried until the branch becomes
	// active, so they carry the expected version of the block after the fork
	// block until then.
	var forkVersion uint32
	if cfg.BlockVersion == 0 {
		baseHash := base.BlockHash()
		forkVersion, err = calc.ExpectedVersion(&baseHash)
		if err != nil {
			return err
		}
	}

	randomNonce := func(header *wire.BlockHeader) {
		header.Nonce = rand.Uint32()
	}
	progress := progresslog.New("Generated", vbtdLog)
	batch := make([]*wire.BlockHeader, 0, generateBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.PutHeaders(batch); err != nil {
			return err
		}
		batch = batch[:0]
		tip := idx.ActiveTip()
		return db.PutBestTip(&tip)
	}
	for i := 0; i < cfg.Generate; i++ {
		if shutdownRequested(ctx) {
			vbtdLog.Infof("Header generation interrupted after %d headers", i)
			break
		}

		blockVersion := cfg.BlockVersion
		if blockVersion == 0 {
			blockVersion = forkVersion
			prevHash := g.Tip().BlockHash()
			if idx.IsOnActiveChain(&prevHash) {
				blockVersion, err = calc.ExpectedVersion(&prevHash)
				if err != nil {
					return err
				}
			}
		}
		name := fmt.Sprintf("g%d", g.Tip().Height+1)
		header := g.NextHeader(name, int32(blockVersion), randomNonce)
		if _, err := idx.AddHeader(header); err != nil {
			return err
		}
		progress.LogProgress(header, false)

		batch = append(batch, header)
		if len(batch) == generateBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	progress.LogProgress(g.Tip(), true)
	return nil
}

// vbitsdMain is the real main function for vbitsd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func vbitsdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	tcfg, _, err := loadConfig(appName)
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()
	defer vbtdLog.Info("Shutdown complete")

	// Show version and home dir at startup.
	vbtdLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	vbtdLog.Infof("Home dir: %s", cfg.HomeDir)
	vbtdLog.Infof("Active network: %s", cfg.params.Name)
	if cfg.NoFileLogging {
		vbtdLog.Info("File logging disabled")
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		vbtdLog.Errorf("%v", err)
		return err
	}

	// Load the header database.
	db, err := blockindex.OpenHeaderDB(filepath.Join(cfg.netDir, headerDBName))
	if err != nil {
		vbtdLog.Errorf("%v", err)
		return err
	}
	defer func() {
		vbtdLog.Infof("Gracefully shutting down the header database...")
		db.Close()
	}()

	idx := blockindex.New(cfg.params)
	if err := idx.LoadFrom(db); err != nil {
		vbtdLog.Errorf("%v", err)
		return err
	}

	calc := versionbits.New(&versionbits.Config{
		Registry:  registry,
		Chain:     idx,
		CacheSize: cfg.CacheSize,
	})
	idx.Subscribe(calc.HandleReorg)
	idx.Subscribe(func(oldTip, newTip chainhash.Hash, forkHeight int64) {
		vbtdLog.Infof("Reorganized from %s to %s (fork height %d)", oldTip,
			newTip, forkHeight)
	})

	// Return now if a shutdown signal was triggered.
	if shutdownRequested(ctx) {
		return nil
	}

	if cfg.Generate > 0 {
		if err := generateHeaders(ctx, idx, db, calc); err != nil {
			vbtdLog.Errorf("Unable to generate headers: %v", err)
			return err
		}
	}

	tipHash, tipHeight := idx.Tip()
	warner := versionbits.NewUnknownBitsWarner(calc,
		cfg.params.UnknownBitsWindow, cfg.params.UnknownBitsThreshold,
		func(count, window uint32, alreadyTriggered bool) {
			if !alreadyTriggered {
				vbtdLog.Warnf("Warning: %d of the last %d blocks signal "+
					"for unknown rules", count, window)
			}
		})
	unknown, err := warner.Check(&tipHash)
	if err != nil {
		vbtdLog.Errorf("Unable to check for unknown versions: %v", err)
		return err
	}

	report, err := calc.StatusReportAt(&tipHash)
	if err != nil {
		vbtdLog.Errorf("Unable to create status report: %v", err)
		return err
	}
	template, err := mining.BlockTemplateFields(calc, &tipHash,
		&mining.TemplateRequest{Rules: cfg.Rules, Signal: cfg.Signal})
	if err != nil {
		vbtdLog.Errorf("Unable to create block template: %v", err)
		return err
	}

	result := statusResult{
		Tip:         tipHash.String(),
		Height:      tipHeight,
		Deployments: report,
		Template:    template,
		Unexpected:  unknown.Unexpected,
	}
	output, err := json.MarshalIndent(&result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := vbitsdMain(); err != nil {
		os.Exit(1)
	}
}
