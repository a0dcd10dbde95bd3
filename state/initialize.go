package state

import (
	"time"

	"go.uber.org/zap"

	"qrender/common"
)

// newLocalEnv returns environment usable before configuration is loaded:
// logger discards everything, render options have their defaults.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:           zap.NewNop(),
		RenderOptions: RenderOptions{Format: common.OutputFmtYaml},
		start:         time.Now(),
	}
}
