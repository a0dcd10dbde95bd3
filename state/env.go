// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"qrender/common"
	"qrender/config"
)

type envKey struct{}

// RenderOptions are parameters of render command taken from command line.
type RenderOptions struct {
	Format    common.OutputFmt
	NoDirs    bool
	Overwrite bool
	// Assets overrides configured store path when not empty.
	Assets string
	// CodePage decodes non UTF-8 names of archive entries, nil keeps them
	// as is.
	CodePage encoding.Encoding
}

// SetFormat selects output format by name. Unknown names select yaml and
// return error suitable for a warning.
func (o *RenderOptions) SetFormat(name string) error {
	f, err := common.ParseOutputFmt(name)
	if err != nil {
		o.Format = common.OutputFmtYaml
		return err
	}
	o.Format = f
	return nil
}

// SetCodePage selects archive names encoding by IANA name and returns
// canonical name of selected encoding. Unknown names leave names undecoded.
func (o *RenderOptions) SetCodePage(name string) (string, error) {
	o.CodePage = nil
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return "", fmt.Errorf("character set %q is not supported", name)
	}
	o.CodePage = enc
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	return canonical, nil
}

// LocalEnv keeps everything program needs in a single place. It is created
// before command line is parsed and filled in by command hooks.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	RenderOptions

	start         time.Time
	restoreStdLog func()
}

// EnvFromContext returns environment put into ctx by ContextWithEnv.
func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library logger (used by some
// dependencies) to program log.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log.Named("stdlog"))
}

// RestoreStdLog flushes program log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
