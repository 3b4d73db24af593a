package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

// DiskDir is checked before the embedded copies so edited files win.
const DiskDir = "prefabs"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, DiskDir+"/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, DiskDir+"/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}

// PrefabName maps a changed file path to the name Load expects, for example
// "prefabs/ship.yaml" -> "ship.yaml" and "prefabs/scripts/wobble.tengo" ->
// "scripts/wobble.tengo".
func PrefabName(path string) string {
	s := filepath.ToSlash(path)
	if i := strings.LastIndex(s, DiskDir+"/"); i >= 0 {
		return s[i+len(DiskDir)+1:]
	}
	return filepath.Base(s)
}
