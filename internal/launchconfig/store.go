package launchconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"
)

// renderOptions indent with four spaces and keep every array element on its
// own line.
var renderOptions = &pretty.Options{
	Width:    0,
	Prefix:   "",
	Indent:   "    ",
	SortKeys: false,
}

// Render returns the bytes Save writes for lj.
func Render(lj *LaunchJSON) ([]byte, error) {
	data, err := lj.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode launch.json: %w", err)
	}
	return pretty.PrettyOptions(data, renderOptions), nil
}

// Save writes lj to path. An existing file is first moved to path+".bak",
// replacing any earlier backup, and the backup path is returned ("" when
// there was nothing to back up). The new content is staged in a temporary
// sibling so a failed encode or write leaves the old file in place.
func Save(path string, lj *LaunchJSON) (string, error) {
	data, err := Render(lj)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	backup := ""
	if _, err := os.Stat(path); err == nil {
		backup = path + BackupSuffix
		if err := os.Rename(path, backup); err != nil {
			_ = os.Remove(tmp)
			return "", fmt.Errorf("failed to back up %s: %w", path, err)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return backup, fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return backup, nil
}
