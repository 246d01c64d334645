// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
vbitsd tracks the activation state of version bits deployments over a chain of
block headers.

It loads the headers stored in its header database, optionally generates and
stores additional headers, and then prints the state of every deployment for
the block after the tip of the active chain along with the version bits fields
of a block template that builds on the tip.

The long form of all of the options (except -C) can be specified in a
configuration file that is automatically parsed when vbitsd starts up.  By
default, the configuration file is located at ~/.vbitsd/vbitsd.conf on
POSIX-style operating systems and %LOCALAPPDATA%\vbitsd\vbitsd.conf on Windows.
The -C (--configfile) flag can be used to override this location.

Usage:

	vbitsd [OPTIONS]

Application Options:

	-A, --appdata=          Path to application home directory
	-V, --version           Display version information and exit
	-C, --configfile=       Path to configuration file
	-b, --datadir=          Directory to store data
	    --logdir=           Directory to log output
	    --nofilelogging     Disable file logging
	-d, --debuglevel=       Logging level for all subsystems {trace, debug,
	                        info, warn, error, critical} -- You may also
	                        specify <subsystem>=<level>,<subsystem2>=<level>,...
	                        to set the log level for individual subsystems --
	                        Use show to list available subsystems (info)
	    --testnet           Use the test network
	    --regnet            Use the regression test network
	    --simnet            Use the simulation test network
	    --deploymentsfile=  Path to a YAML file that replaces the deployments
	                        of the selected network
	    --cachesize=        Maximum number of window boundary states retained
	                        per deployment (4096)
	    --generate=         Number of headers to generate on top of the active
	                        chain
	    --blockversion=     Version of the generated headers (0 uses the
	                        expected version of each block)
	    --blockinterval=    Time between the timestamps of generated headers
	                        (0 uses the network target)
	    --forkheight=       Height of the active chain block to build the
	                        generated headers on (-1 uses the tip)
	    --signal=           Deployment to signal for in the block template;
	                        may be specified multiple times
	    --rules=            Deployment rule supported by the block template
	                        client; may be specified multiple times

Help Options:

	-h, --help              Show this help message
*/
package main
