// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/node"
)

// simulate steps n until its head reaches target.
func simulate(ctx context.Context, n *node.Node, target uint32, showProgress bool) error {
	head := n.Head()
	if head >= target {
		return nil
	}
	fmt.Printf(">> Simulating blocks #%v to #%v <<\n", head+1, target)

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.New64(int64(target - head)).
			SetMaxWidth(90).
			Start()
		defer func() { bar.NotPrint = true }()
	}

	start := time.Now()
	err := n.Run(ctx, target, func(blk *node.Block) {
		logEvents(blk)
		if bar != nil {
			bar.Add64(1)
		}
	})
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}
	log.Info("simulation done", "blocks", target-head, "head", n.Head(), "elapsed", time.Since(start))
	return nil
}
