package tagio

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/xattr"

	"github.com/rfjakob/gcmseal/internal/atomicfile"
	"github.com/rfjakob/gcmseal/internal/cryptocore"
	"github.com/rfjakob/gcmseal/internal/tlog"
)

// XattrName is the extended attribute the tag is stored in with "-xattr".
const XattrName = "user.gcmseal.tag"

// WriteTagFile writes the raw 16-byte tag to "path". Like all other outputs,
// the file is replaced atomically.
func WriteTagFile(path string, tag []byte) error {
	if len(tag) != cryptocore.AuthTagLen {
		return fmt.Errorf("WriteTagFile: invalid tag length %d", len(tag))
	}
	return atomicfile.WriteFile(path, tag, 0600)
}

// WriteReportFile writes "r" in text form to "path".
func WriteReportFile(path string, r *Report) error {
	return atomicfile.WriteFile(path, []byte(r.String()), 0600)
}

// ReadTagFile loads a tag from "path". The file may either contain exactly
// the raw tag, or be a report.
func ReadTagFile(path string) ([]byte, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(buf) == cryptocore.AuthTagLen {
		return buf, nil
	}
	r, err := ParseReport(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: not a raw tag and not a report: %v", path, err)
	}
	tlog.Debug.Printf("ReadTagFile: parsed report %q", path)
	return r.Tag, nil
}

// SetXattr stores "tag" in the extended attribute XattrName of "path".
func SetXattr(path string, tag []byte) error {
	if len(tag) != cryptocore.AuthTagLen {
		return fmt.Errorf("SetXattr: invalid tag length %d", len(tag))
	}
	return xattr.Set(path, XattrName, tag)
}

// GetXattr loads the tag stored by SetXattr.
func GetXattr(path string) ([]byte, error) {
	tag, err := xattr.Get(path, XattrName)
	if err != nil {
		return nil, err
	}
	if len(tag) != cryptocore.AuthTagLen {
		return nil, fmt.Errorf("%s: xattr %s has invalid length %d", path, XattrName, len(tag))
	}
	return tag, nil
}

// HasXattr reports whether "path" carries a tag xattr.
func HasXattr(path string) bool {
	names, err := xattr.List(path)
	if err != nil {
		if !os.IsNotExist(err) {
			tlog.Debug.Printf("HasXattr: %v", err)
		}
		return false
	}
	for _, n := range names {
		if n == XattrName {
			return true
		}
	}
	return false
}
