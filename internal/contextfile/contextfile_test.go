package contextfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Text(t *testing.T) {
	for _, name := range []string{"notes.txt", "notes.md", "notes"} {
		path := writeFile(t, name, []byte("\n  • Thema: Markteintritt\n• Ziel: Entscheidung  \n\n"))
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if got != "• Thema: Markteintritt\n• Ziel: Entscheidung" {
			t.Errorf("Load(%s) = %q", name, got)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "bin.txt", []byte{0xff, 0xfe, 0x00})
	if _, err := Load(path); err == nil {
		t.Error("expected error for binary content")
	}
}

func TestLoad_InvalidPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("not a pdf"))
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed pdf")
	}
}

// onePagePDF returns a single-page PDF whose page draws content with a
// Helvetica font bound to /F1.
func onePagePDF(content string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestLoad_PDF(t *testing.T) {
	path := writeFile(t, "brief.pdf", onePagePDF("BT /F1 12 Tf 72 712 Td (Hello Cockpit) Tj ET"))
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "Hello Cockpit" {
		t.Errorf("Load = %q, want %q", got, "Hello Cockpit")
	}
}

func TestLoad_PDFTruncates(t *testing.T) {
	line := "(" + strings.Repeat("x", 1000) + ") Tj\n"
	content := "BT /F1 12 Tf 72 712 Td\n" + strings.Repeat(line, 100) + "ET"
	path := writeFile(t, "big.pdf", onePagePDF(content))

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != MaxBytes {
		t.Errorf("len = %d, want %d", len(got), MaxBytes)
	}
	if strings.Trim(got, "x") != "" {
		t.Errorf("unexpected text in truncated output: %q", strings.Trim(got, "x"))
	}
}

func TestLoad_Truncates(t *testing.T) {
	body := strings.Repeat("ä", MaxBytes)
	path := writeFile(t, "big.txt", []byte(body))
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) > MaxBytes {
		t.Errorf("len = %d, want <= %d", len(got), MaxBytes)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation split a rune")
	}
}
