package manifest

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/danieljhkim/publisher/internal/pathutil"
)

// HookInstallerToken installs local commit hooks. It must not run when the
// published package is installed by consumers.
const HookInstallerToken = "husky install"

// hookInstallerPattern matches the token together with the && that chains
// it to a neighbouring command. The leftmost alternative wins, so a
// trailing token takes its preceding operator and any other position takes
// the following one.
var hookInstallerPattern = regexp.MustCompile(
	`\s*&&\s*` + regexp.QuoteMeta(HookInstallerToken) + `\b|` +
		regexp.QuoteMeta(HookInstallerToken) + `\b(?:\s*&&\s*)?`,
)

// hookScripts are the lifecycle scripts consumers' installs execute.
var hookScripts = []string{"prepare", "postinstall"}

// StripHookInstaller removes every hook-installer invocation from a chained
// script, re-joining the remaining commands.
func StripHookInstaller(script string) string {
	return strings.TrimSpace(hookInstallerPattern.ReplaceAllString(script, ""))
}

// Rewrite prepares m for publishing from outDir: entry points become
// relative to outDir, the publish blocker and hook installers are removed,
// and devDependencies are dropped. m is modified in place and returned.
func Rewrite(m *Manifest, outDir string) *Manifest {
	outDir = pathutil.StripLeadingSlash(outDir)

	if m.Main != "" {
		m.Main = pathutil.Normalize(m.Main, outDir)
	}
	if m.Types != "" {
		m.Types = pathutil.Normalize(m.Types, outDir)
	}
	if m.Bin != nil {
		for _, name := range m.Bin.Keys() {
			target, _ := m.Bin.Get(name)
			m.Bin.Set(name, pathutil.Normalize(target, outDir))
		}
	} else if m.BinPath != "" {
		m.BinPath = pathutil.Normalize(m.BinPath, outDir)
	}

	if m.Scripts != nil {
		m.Scripts.Delete(PublishBlockerScript)
		for _, name := range hookScripts {
			script, ok := m.Scripts.Get(name)
			if !ok || !hookInstallerPattern.MatchString(script) {
				continue
			}
			if stripped := StripHookInstaller(script); stripped != "" {
				m.Scripts.Set(name, stripped)
			} else {
				m.Scripts.Delete(name)
			}
		}
	} else {
		// A scripts object with a non-string value has no typed view.
		m.editObject(keyScripts, rewriteRawScripts)
	}

	m.DevDependencies = nil
	m.deleteKey(keyDevDependencies)
	return m
}

func rewriteRawScripts(scripts *OrderedMap[json.RawMessage]) {
	scripts.Delete(PublishBlockerScript)
	for _, name := range hookScripts {
		raw, ok := scripts.Get(name)
		if !ok {
			continue
		}
		var script string
		if err := json.Unmarshal(raw, &script); err != nil || !hookInstallerPattern.MatchString(script) {
			continue
		}
		stripped := StripHookInstaller(script)
		if stripped == "" {
			scripts.Delete(name)
			continue
		}
		if data, err := encode(stripped); err == nil {
			scripts.Set(name, data)
		}
	}
}
