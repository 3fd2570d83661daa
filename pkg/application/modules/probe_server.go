package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pricewatch/pkg/probe"
)

type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
}

// Run starts the probe server in g and returns it so the caller can flip
// readiness once the process is serving.
func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group) probe.Server {
	probeServer := probe.NewServer(
		p.ListenAddress,
		probe.Options{
			Name:    p.Name,
			Version: p.Version,
		},
	)

	g.Go(func() error {
		if err := probeServer.Run(ctx); err != nil {
			return fmt.Errorf("probeServer.Run: %w", err)
		}

		return nil
	})

	return probeServer
}
