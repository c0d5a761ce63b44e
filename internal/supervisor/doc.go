// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package supervisor runs the long-lived services of Cinematch under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("cinematch")
	├── MonitorSupervisor ("monitor-layer")
	│   └── BreakerWatchService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The catalog is loaded before the tree starts and never changes, so no
service owns it. A crash in the monitor layer does not restart the HTTP
server.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	tree.AddMonitorService(services.NewBreakerWatchService("tmdb-api", tmdbClient, 15*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog, which writes to zerolog via logging.SlogHandler.
*/
package supervisor
