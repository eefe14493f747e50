// Package atomicfile writes files so that readers either see the old content
// or the complete new content, never a partial write.
package atomicfile

import (
	"io/ioutil"
	"os"
	"path/filepath"
)

// WriteFile writes "data" to a temporary file next to "path", syncs it and
// renames it to "path". On error, the temporary file is removed and "path"
// is left untouched.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if err == nil {
		// This can fail with EINVAL (e.g. on tmpfs) which we can ignore
		tmp.Sync()
	}
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
