package batch

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// makeTree creates files (and their parent directories) below a new
// temporary directory.
func makeTree(t *testing.T, files ...string) string {
	dir, err := ioutil.TempDir("", "batch")
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
			t.Fatal(err)
		}
		if err := ioutil.WriteFile(p, []byte(f), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func collect(t *testing.T, root string, opts Options) []string {
	var mu sync.Mutex
	var seen []string
	n, err := Run(context.Background(), root, opts, func(ctx context.Context, path string, rel string) error {
		mu.Lock()
		seen = append(seen, rel)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != len(seen) {
		t.Errorf("Run returned %d, but %d jobs ran", n, len(seen))
	}
	sort.Strings(seen)
	return seen
}

func TestRunAll(t *testing.T) {
	root := makeTree(t, "a", "b.txt", "dir1/c", "dir1/dir2/d~")
	defer os.RemoveAll(root)
	want := []string{"a", "b.txt", "dir1/c", "dir1/dir2/d~"}
	if have := collect(t, root, Options{}); !reflect.DeepEqual(have, want) {
		t.Errorf("want %q have %q", want, have)
	}
}

func TestRunExclude(t *testing.T) {
	root := makeTree(t, "a", "b.txt", "dir1/c", "dir1/a", "dir1/dir2/d~", "build/x.o")
	defer os.RemoveAll(root)
	opts := Options{
		// only the top-level "a"
		Exclude:         []string{"a"},
		ExcludeWildcard: []string{"*~", "build/"},
		Jobs:            2,
	}
	want := []string{"b.txt", "dir1/a", "dir1/c"}
	if have := collect(t, root, opts); !reflect.DeepEqual(have, want) {
		t.Errorf("want %q have %q", want, have)
	}
}

func TestRunFilter(t *testing.T) {
	root := makeTree(t, "a", "a.gcm", "b")
	defer os.RemoveAll(root)
	opts := Options{
		Filter: func(rel string) bool { return filepath.Ext(rel) != ".gcm" },
	}
	want := []string{"a", "b"}
	if have := collect(t, root, opts); !reflect.DeepEqual(have, want) {
		t.Errorf("want %q have %q", want, have)
	}
}

// No more than Jobs jobs may run at the same time
func TestRunJobsLimit(t *testing.T) {
	var files []string
	for i := 0; i < 20; i++ {
		files = append(files, string(rune('a'+i)))
	}
	root := makeTree(t, files...)
	defer os.RemoveAll(root)

	var cur, max int64
	_, err := Run(context.Background(), root, Options{Jobs: 3}, func(ctx context.Context, path string, rel string) error {
		c := atomic.AddInt64(&cur, 1)
		for {
			m := atomic.LoadInt64(&max)
			if c <= m || atomic.CompareAndSwapInt64(&max, m, c) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&cur, -1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if max > 3 {
		t.Errorf("%d jobs ran concurrently", max)
	}
}

func TestRunError(t *testing.T) {
	root := makeTree(t, "a", "b", "c")
	defer os.RemoveAll(root)
	boom := errors.New("boom")
	_, err := Run(context.Background(), root, Options{Jobs: 1}, func(ctx context.Context, path string, rel string) error {
		if rel == "b" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("want boom, have %v", err)
	}
}

// Jobs that start after the first error see a cancelled context.
func TestRunErrorCancels(t *testing.T) {
	root := makeTree(t, "a", "b", "c", "d", "e", "f")
	defer os.RemoveAll(root)
	boom := errors.New("boom")
	var mu sync.Mutex
	var late []string
	_, err := Run(context.Background(), root, Options{Jobs: 1}, func(ctx context.Context, path string, rel string) error {
		if rel == "a" {
			return boom
		}
		if ctx.Err() == nil {
			mu.Lock()
			late = append(late, rel)
			mu.Unlock()
		}
		return ctx.Err()
	})
	if !errors.Is(err, boom) {
		t.Errorf("want boom, have %v", err)
	}
	if len(late) != 0 {
		t.Errorf("jobs ran with a live context after the error: %q", late)
	}
}

func TestShouldPrefixExcludeValuesWithSlash(t *testing.T) {
	var opts Options
	opts.Exclude = []string{"file1", "dir1/file2.txt"}
	opts.ExcludeWildcard = []string{"*~", "build/*.o"}

	expected := []string{"/file1", "/dir1/file2.txt", "*~", "build/*.o"}

	patterns, err := getExclusionPatterns(opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(patterns, expected) {
		t.Errorf("expected %q, got %q", expected, patterns)
	}
}

func TestShouldReadExcludePatternsFromFiles(t *testing.T) {
	tmpfile1, err := ioutil.TempFile("", "excludetest")
	if err != nil {
		t.Fatal(err)
	}
	exclude1 := tmpfile1.Name()
	defer os.Remove(exclude1)
	defer tmpfile1.Close()

	tmpfile2, err := ioutil.TempFile("", "excludetest")
	if err != nil {
		t.Fatal(err)
	}
	exclude2 := tmpfile2.Name()
	defer os.Remove(exclude2)
	defer tmpfile2.Close()

	tmpfile1.WriteString("file1.1\n")
	tmpfile1.WriteString("file1.2\n")
	tmpfile2.WriteString("file2.1\n")
	tmpfile2.WriteString("file2.2\n")

	var opts Options
	opts.ExcludeWildcard = []string{"cmdline1"}
	opts.ExcludeFrom = []string{exclude1, exclude2}

	// An empty string is returned for the last empty line
	// It's ignored when the patterns are actually compiled
	expected := []string{"cmdline1", "file1.1", "file1.2", "", "file2.1", "file2.2", ""}

	patterns, err := getExclusionPatterns(opts)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(patterns, expected) {
		t.Errorf("expected %q, got %q", expected, patterns)
	}
}

func TestExcludeFromMissing(t *testing.T) {
	_, err := getExclusionPatterns(Options{ExcludeFrom: []string{"/does/not/exist"}})
	if err == nil {
		t.Error("missing -exclude-from file should fail")
	}
}

func TestShouldReturnNilIfThereAreNoExclusions(t *testing.T) {
	e, err := prepareExcluder(Options{})
	if err != nil || e != nil {
		t.Errorf("want nil, nil; have %v, %v", e, err)
	}
}
