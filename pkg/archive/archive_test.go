// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const validManifest = `{"name":"ekgame/boo","version":"1.0.0","include":["**/*.ua","boo.json"]}`

type testEntry struct {
	name string
	body string
	dir  bool
}

// makeArchive builds a gzip-compressed tar stream from entries in the given order.
func makeArchive(t *testing.T, entries ...testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader(%s): %v", e.name, err)
		}
		if !e.dir {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("Write(%s): %v", e.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func manifestEntry(body string) testEntry { return testEntry{name: "boo.json", body: body} }

func mainEntry() testEntry { return testEntry{name: "main.ua", body: "&p \"hello\"\n"} }

func messages(issues Issues) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, string(i.Severity)+": "+i.Message)
	}
	return out
}

func requireSingleError(t *testing.T, issues Issues, want string) {
	t.Helper()

	if len(issues) != 1 {
		t.Fatalf("got %d issues %q, want exactly one containing %q", len(issues), messages(issues), want)
	}
	if issues[0].Severity != SeverityError || !strings.Contains(issues[0].Message, want) {
		t.Fatalf("issue = %+v, want Error containing %q", issues[0], want)
	}
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}
