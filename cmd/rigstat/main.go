// Package main prints a summary of a camera rig stored on disk.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/vicam/rig"
)

var logger = golog.NewDebugLogger("rigstat")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	if len(args) != 2 {
		return errors.New("usage: rigstat <rig_dir>")
	}
	dir := args[1]

	n, err := rig.NumOfCameras(dir)
	if err != nil {
		return err
	}
	logger.Infof("%d camera(s) in %q", n, dir)

	r, err := rig.LoadCamerasFromDir(dir, logger)
	if err != nil {
		return err
	}
	for i := 0; i < r.Size(); i++ {
		logger.Infof("cam%d: %s", i, r.Camera(i))
	}
	return nil
}
