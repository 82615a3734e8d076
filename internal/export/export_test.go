package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	s := New("")
	out := string(s.Serialize("<h1>Hi</h1>", "h1{color:red}"))

	for _, want := range []string{"<h1>Hi</h1>", "h1{color:red}", "<title>My Project</title>", "<meta charset=\"UTF-8\">"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.HasSuffix(out, "</html>") {
		t.Errorf("export is not a single complete document:\n%s", out)
	}
	if strings.Count(out, "<html") != 1 || strings.Count(out, "<title>") != 1 {
		t.Errorf("expected exactly one html and title element:\n%s", out)
	}
}

func TestSerializeOmitsResetRule(t *testing.T) {
	out := string(New("").Serialize("", ""))
	if strings.Contains(out, "box-sizing") {
		t.Errorf("export should not include the preview reset rule:\n%s", out)
	}
}

func TestSerializeEscapesTitle(t *testing.T) {
	out := string(New("A <b> & C").Serialize("", ""))
	if !strings.Contains(out, "<title>A &lt;b&gt; &amp; C</title>") {
		t.Errorf("title not escaped:\n%s", out)
	}
}

func TestExportArtifact(t *testing.T) {
	a := New("Demo").Export("<p>x</p>", "")

	if a.Name != "index.html" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.ContentType != "text/html; charset=utf-8" {
		t.Errorf("ContentType = %q", a.ContentType)
	}
	if a.ContentDisposition() != `attachment; filename="index.html"` {
		t.Errorf("ContentDisposition() = %q", a.ContentDisposition())
	}

	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), a.Body) {
		t.Error("WriteTo wrote different bytes")
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	a := New("").Export("<p>x</p>", "p{}")

	path, err := a.WriteFile(dir)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Base(path) != "index.html" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, a.Body) {
		t.Error("file contents differ from artifact body")
	}
}
