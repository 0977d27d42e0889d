package aarch64_darwin

import "github.com/iley/cgpipe/internal/codegen/aarch64"

const Name = "aarch64-darwin"

func New() *aarch64.Target {
	return aarch64.New(Name, aarch64.Features{
		CollectLOH: true,
	})
}
