package aarch64_linux

import "github.com/iley/cgpipe/internal/codegen/aarch64"

const Name = "aarch64-linux"

func New() *aarch64.Target {
	return aarch64.New(Name, aarch64.Features{
		CollectLOH: false,
	})
}
