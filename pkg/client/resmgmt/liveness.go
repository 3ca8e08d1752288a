/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resmgmt

import (
	reqContext "context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/fabsetup/fabric-setup-go/pkg/common/providers/fab"
)

// HealthyOrderers returns the orderers unchanged unless healthyOnly is set, in
// which case every orderer is pinged and only the live ones are returned, in
// their original order. A ping that fails aborts the query: no partial list
// is returned.
func (rc *Client) HealthyOrderers(ctx reqContext.Context, orderers []fab.Orderer, healthyOnly bool) ([]fab.Orderer, error) {
	if !healthyOnly {
		return orderers, nil
	}

	alive := make([]bool, len(orderers))
	g, gctx := errgroup.WithContext(ctx)
	for i, o := range orderers {
		i, o := i, o
		g.Go(func() error {
			ok, err := o.Ping(gctx)
			if err != nil {
				return errors.WithMessagef(err, "ping of orderer [%s] failed", o.URL())
			}
			alive[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		rc.logger.Warnf("orderer liveness query failed: %s", err)
		return nil, err
	}

	var healthy []fab.Orderer
	for i, o := range orderers {
		if alive[i] {
			healthy = append(healthy, o)
		} else {
			rc.logger.Debugf("orderer [%s] is not alive", o.URL())
		}
	}
	return healthy, nil
}
