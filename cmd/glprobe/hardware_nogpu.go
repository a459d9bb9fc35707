//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/glstore"
)

func openHardware([]glstore.Option) (*glstore.Storage, func(), error) {
	return nil, nil, errors.New("built without GPU support, run with -soft")
}
