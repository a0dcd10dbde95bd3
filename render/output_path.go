package render

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"qrender/common"
	"qrender/config"
	"qrender/state"
)

// buildOutputPath returns output name relative to destination. Source
// directory structure is preserved unless requested otherwise. File name is
// either record identifier or expansion of user-defined template, which may
// add subdirectories. Every path segment is cleaned up and transliterated if
// configured.
func buildOutputPath(rec *record, src string, format common.OutputFmt, env *state.LocalEnv) string {
	outDir := makeOutputDir(src, env)
	defaultFile := cleanPathSegment(string(rec.ID), env) + format.Ext()

	if env.Cfg.Output.FileNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandFileNameTemplate(rec, src, format, env)
	segments := splitAndCleanPath(expandedName)
	if len(segments) == 0 {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, segments, format, env)
}

func makeOutputDir(src string, env *state.LocalEnv) string {
	if env.NoDirs {
		return ""
	}
	dir := filepath.Dir(src)
	if dir == "." {
		return ""
	}
	return dir
}

func expandFileNameTemplate(rec *record, src string, format common.OutputFmt, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(rec, config.FileNameTemplateFieldName, env.Cfg.Output.FileNameTemplate, src, format)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.String("id", string(rec.ID)), zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs joins cleaned segments of expanded template under
// outDir, last segment is the file name.
func assemblePathWithSubdirs(outDir string, segments []string, format common.OutputFmt, env *state.LocalEnv) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+format.Ext())
	return filepath.Join(parts...)
}

// splitAndCleanPath returns non-empty path segments, "." and ".." are
// dropped so expansion never escapes destination.
func splitAndCleanPath(path string) []string {
	segments := make([]string, 0, 8)
	for _, s := range strings.Split(path, string(os.PathSeparator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
