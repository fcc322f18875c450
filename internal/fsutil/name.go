// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsutil provides filesystem naming helpers shared across stages.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// NextAvailableName returns path unchanged if nothing exists there.
// Otherwise it strips a trailing <sep><digits> counter from the base name,
// increments it (starting at 0 when absent), and retries until an unused
// path is found. The extension and parent directory are always preserved.
//
// Concurrent creation of the returned path by another process is not
// guarded against; callers tolerate that overwrite risk.
func NextAvailableName(path, sep string) string {
	if !exists(path) {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	n := 0
	if sep != "" {
		if i := strings.LastIndex(stem, sep); i >= 0 {
			if num, err := strconv.Atoi(stem[i+len(sep):]); err == nil {
				stem = stem[:i]
				n = num + 1
			}
		}
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s%s%d%s", stem, sep, n, ext))
		if !exists(candidate) {
			return candidate
		}
		n++
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
