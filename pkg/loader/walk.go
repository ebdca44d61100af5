package loader

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// walkFunc is called for every directory and regular file found by walk.
type walkFunc func(path string, isDir bool) error

// walk visits root and everything below it in lexical order. Symbolic links
// are followed: a link to a file is visited as that file and a link to a
// directory is walked. Each directory is walked at most once, so link cycles
// end. Names starting with a dot are skipped below root, and broken links are
// logged and skipped. Paths are reported as found, not resolved.
func walk(root string, fn walkFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return &FileError{Path: root, Err: err}
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil
		}

		return fn(root, false)
	}

	return walkDir(root, map[string]bool{}, fn)
}

func walkDir(dir string, visited map[string]bool, fn walkFunc) error {
	target, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return &FileError{Path: dir, Err: err}
	}

	if visited[target] {
		slog.Warn("skip directory already walked",
			slog.String("path", dir),
			slog.String("target", target),
		)

		return nil
	}

	visited[target] = true

	err = fn(dir, true)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &FileError{Path: dir, Err: err}
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, e.Name())

		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				slog.Warn("skip broken symlink",
					slog.String("path", path),
					slog.Any("error", err),
				)

				continue
			}

			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			err = walkDir(path, visited, fn)
		case mode.IsRegular():
			err = fn(path, false)
		default:
			continue
		}

		if err != nil {
			return err
		}
	}

	return nil
}
