package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/catalog"
	"github.com/jmylchreest/posbridge/pkg/fetcher"
)

const export = `<!DOCTYPE html>
<html>
<head><title>Till export</title></head>
<body>
<div class="nav"><a href="/">Home</a></div>
<div class="table-scrollable">
<table>
<tr><th>Name</th><th>Group</th><th>VAT</th><th>Stock</th><th>Price</th></tr>
<tr><td>Coffee</td><td>Drinks</td><td>12</td><td>40</td><td>$3.50 USD</td></tr>
<tr></tr>
<tr><td>Bun, cinnamon</td><td>Bakery</td><td>12</td><td>8</td><td>25.00 kr</td></tr>
</table>
</div>
</body>
</html>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	return records
}

// --- ExtractTable Tests ---

func TestExtractTable_CSV(t *testing.T) {
	in := writeFile(t, "export.html", export)
	out := filepath.Join(t.TempDir(), "items.csv")

	stats, err := ExtractTable(context.Background(), ExtractOptions{
		Input:         in,
		Output:        out,
		StripCurrency: true,
	})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if stats.Rows != 2 || stats.InputBytes != len(export) {
		t.Errorf("stats = %+v", stats)
	}

	want := [][]string{
		{"Coffee", "Drinks", "12", "40", "$3.50"},
		{"Bun, cinnamon", "Bakery", "12", "8", "25.00"},
	}
	if got := readCSV(t, out); !reflect.DeepEqual(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
}

func TestExtractTable_Idempotent(t *testing.T) {
	in := writeFile(t, "export.html", export)
	dir := t.TempDir()

	var outputs [][]byte
	for _, name := range []string{"a.csv", "b.csv"} {
		out := filepath.Join(dir, name)
		if _, err := ExtractTable(context.Background(), ExtractOptions{Input: in, Output: out}); err != nil {
			t.Fatalf("ExtractTable() error = %v", err)
		}
		data, _ := os.ReadFile(out)
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("repeated runs produced different output")
	}
}

func TestExtractTable_EmptyTable(t *testing.T) {
	in := writeFile(t, "empty.html", `<html><body><div class="table-scrollable"><table></table></div></body></html>`)
	out := filepath.Join(t.TempDir(), "items.csv")

	stats, err := ExtractTable(context.Background(), ExtractOptions{Input: in, Output: out})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if stats.Rows != 0 {
		t.Errorf("Rows = %d, want 0", stats.Rows)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("output size = %d, want 0", info.Size())
	}
}

func TestExtractTable_Stdout(t *testing.T) {
	in := writeFile(t, "export.html", export)
	buf := &bytes.Buffer{}

	_, err := ExtractTable(context.Background(), ExtractOptions{
		Input:  in,
		Output: Stdio,
		Format: output.FormatJSONL,
		Stdout: buf,
	})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), `["Coffee","Drinks","12","40","$3.50 USD"]`) {
		t.Errorf("stdout = %q", buf.String())
	}
}

func TestExtractTable_CustomColumnAndClass(t *testing.T) {
	in := writeFile(t, "x.html", `<html><body><div class="prices"><table><tr><td>Tea</td><td>2.00 EUR</td></tr></table></div></body></html>`)
	buf := &bytes.Buffer{}
	col := 1

	_, err := ExtractTable(context.Background(), ExtractOptions{
		Input:          in,
		Output:         Stdio,
		Stdout:         buf,
		StripCurrency:  true,
		CurrencyColumn: &col,
		ContainerClass: "prices",
		Delimiter:      ';',
	})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if buf.String() != "Tea;2.00\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestExtractTable_MissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "items.csv")
	missing := filepath.Join(dir, "missing.html")

	_, err := ExtractTable(context.Background(), ExtractOptions{Input: missing, Output: out})

	var fe *FileError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FileError", err)
	}
	if fe.Op != OpRead || fe.Path != missing || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %+v", fe)
	}
	if !strings.HasPrefix(err.Error(), "failed to read from file ") {
		t.Errorf("message = %q", err.Error())
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Error("output created although input could not be read")
	}
}

func TestExtractTable_UnwritableOutput(t *testing.T) {
	in := writeFile(t, "export.html", export)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "items.csv")

	_, err := ExtractTable(context.Background(), ExtractOptions{Input: in, Output: out})

	var fe *FileError
	if !errors.As(err, &fe) || fe.Op != OpWrite || fe.Path != out {
		t.Fatalf("error = %v, want write FileError", err)
	}
}

func TestExtractTable_RaggedRowsKeepEarlierRecords(t *testing.T) {
	doc := `<html><body><div class="table-scrollable"><table>` +
		`<tr><td>a</td><td>b</td></tr><tr><td>c</td></tr><tr><td>d</td><td>e</td></tr>` +
		`</table></div></body></html>`
	in := writeFile(t, "ragged.html", doc)
	out := filepath.Join(t.TempDir(), "items.csv")

	stats, err := ExtractTable(context.Background(), ExtractOptions{Input: in, Output: out})

	var re *RecordError
	if !errors.As(err, &re) || re.Op != RecordWrite {
		t.Fatalf("error = %v, want write RecordError", err)
	}
	var fce *output.FieldCountError
	if !errors.As(err, &fce) {
		t.Errorf("error = %v, want wrapped *output.FieldCountError", err)
	}
	if stats.Rows != 1 {
		t.Errorf("Rows = %d, want 1", stats.Rows)
	}
	if got := readCSV(t, out); !reflect.DeepEqual(got, [][]string{{"a", "b"}}) {
		t.Errorf("records on disk = %q", got)
	}
}

func TestExtractTable_Flexible(t *testing.T) {
	doc := `<html><body><div class="table-scrollable"><table>` +
		`<tr><td>a</td><td>b</td></tr><tr><td>c</td></tr>` +
		`</table></div></body></html>`
	in := writeFile(t, "ragged.html", doc)
	buf := &bytes.Buffer{}

	stats, err := ExtractTable(context.Background(), ExtractOptions{Input: in, Output: Stdio, Stdout: buf, Flexible: true})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if stats.Rows != 2 || buf.String() != "a,b\nc\n" {
		t.Errorf("rows = %d, output = %q", stats.Rows, buf.String())
	}
}

func TestExtractTable_UnsupportedFormat(t *testing.T) {
	_, err := ExtractTable(context.Background(), ExtractOptions{Input: "x.html", Output: Stdio, Format: "xml"})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("error = %v", err)
	}
}

func TestExtractTable_RemoteInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(export))
	}))
	defer srv.Close()

	buf := &bytes.Buffer{}
	stats, err := ExtractTable(context.Background(), ExtractOptions{Input: srv.URL, Output: Stdio, Stdout: buf})
	if err != nil {
		t.Fatalf("ExtractTable() error = %v", err)
	}
	if stats.Rows != 2 {
		t.Errorf("Rows = %d, want 2", stats.Rows)
	}
}

func TestExtractTable_InputTooLarge(t *testing.T) {
	in := writeFile(t, "export.html", export)

	_, err := ExtractTable(context.Background(), ExtractOptions{
		Input:  in,
		Output: Stdio,
		Stdout: &bytes.Buffer{},
		Fetch:  fetcher.Options{MaxSize: 64},
	})
	if !errors.Is(err, fetcher.ErrTooLarge) {
		t.Errorf("error = %v, want ErrTooLarge", err)
	}
}

// --- BuildCatalog Tests ---

const itemsCSV = `name,group,vat,stock,price
Coffee,Drinks,12,40,3.50
Bun,Bakery,12,8,25.00
`

func TestBuildCatalog_YAML(t *testing.T) {
	in := writeFile(t, "items.csv", itemsCSV)
	out := filepath.Join(t.TempDir(), "template.yml")
	prefix := 1

	n, err := BuildCatalog(context.Background(), CatalogOptions{
		Input:  in,
		Output: out,
		Fields: catalog.Fields{Title: 0, Price: 4, Prefix: &prefix},
	})
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}
	if n != 2 {
		t.Errorf("items = %d, want 2", n)
	}

	data, _ := os.ReadFile(out)
	var got map[string]catalog.Item
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	want := map[string]catalog.Item{
		"drinks - coffee": {Title: "Drinks - Coffee", Price: "3.50"},
		"bakery - bun":    {Title: "Bakery - Bun", Price: "25.00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("catalog = %+v, want %+v", got, want)
	}
}

func TestBuildCatalog_JSONStdout(t *testing.T) {
	in := writeFile(t, "items.csv", itemsCSV)
	buf := &bytes.Buffer{}

	_, err := BuildCatalog(context.Background(), CatalogOptions{
		Input:  in,
		Output: Stdio,
		Stdout: buf,
		Format: output.FormatJSON,
		Fields: catalog.Fields{Title: 0, Price: 4},
	})
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"coffee": {`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestBuildCatalog_MissingColumn(t *testing.T) {
	in := writeFile(t, "items.csv", itemsCSV)
	out := filepath.Join(t.TempDir(), "template.yml")

	_, err := BuildCatalog(context.Background(), CatalogOptions{
		Input:  in,
		Output: out,
		Fields: catalog.Fields{Title: 0, Price: 9},
	})

	var mce *catalog.MissingColumnError
	if !errors.As(err, &mce) || mce.Description != "price" || mce.Index != 9 {
		t.Fatalf("error = %v, want missing price column", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Error("output created for failed run")
	}
}

func TestBuildCatalog_BadCSV(t *testing.T) {
	in := writeFile(t, "items.csv", "a,b\nc\n")

	_, err := BuildCatalog(context.Background(), CatalogOptions{
		Input:  in,
		Output: Stdio,
		Stdout: &bytes.Buffer{},
		Fields: catalog.Fields{Title: 0, Price: 1},
	})

	var re *RecordError
	if !errors.As(err, &re) || re.Op != RecordRead || re.Path != in {
		t.Fatalf("error = %v, want read RecordError", err)
	}
	if !strings.HasPrefix(err.Error(), "failed to read CSV file ") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestBuildCatalog_MissingInput(t *testing.T) {
	_, err := BuildCatalog(context.Background(), CatalogOptions{
		Input:  filepath.Join(t.TempDir(), "nope.csv"),
		Output: Stdio,
		Fields: catalog.Fields{Title: 0, Price: 1},
	})

	var fe *FileError
	if !errors.As(err, &fe) || fe.Op != OpRead {
		t.Errorf("error = %v, want read FileError", err)
	}
}

func TestBuildCatalog_UnsupportedFormat(t *testing.T) {
	_, err := BuildCatalog(context.Background(), CatalogOptions{Input: "x.csv", Output: Stdio, Format: output.FormatCSV})
	if err == nil {
		t.Error("expected error for csv catalog format")
	}
}

// --- Error Tests ---

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestExtractTable_WriteErrorNamesFormat(t *testing.T) {
	in := writeFile(t, "export.html", export)

	_, err := ExtractTable(context.Background(), ExtractOptions{
		Input:  in,
		Output: Stdio,
		Format: output.FormatJSON,
		Stdout: failingWriter{},
	})

	var re *RecordError
	if !errors.As(err, &re) || re.Op != "write JSON" {
		t.Fatalf("error = %v, want write JSON RecordError", err)
	}
	if want := "failed to write JSON file -: disk full"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRecordWriteOp(t *testing.T) {
	tests := map[output.Format]string{
		"":                 RecordWrite,
		output.FormatCSV:   "write CSV",
		output.FormatJSON:  "write JSON",
		output.FormatJSONL: "write JSONL",
		output.FormatYAML:  "write YAML",
	}
	for format, want := range tests {
		if got := RecordWriteOp(format); got != want {
			t.Errorf("RecordWriteOp(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  error
		want string
	}{
		{&FileError{Path: "a.html", Op: OpRead, Err: cause}, "failed to read from file a.html: boom"},
		{&FileError{Path: "b.csv", Op: OpWrite, Err: cause}, "failed to write to file b.csv: boom"},
		{&RecordError{Path: "b.csv", Op: RecordWrite, Err: cause}, "failed to write CSV file b.csv: boom"},
		{&RecordError{Path: "c.yml", Op: RecordSerialize, Err: cause}, "failed to serialize YAML file c.yml: boom"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
		if !errors.Is(tt.err, cause) {
			t.Errorf("%T does not unwrap to its cause", tt.err)
		}
	}
}
