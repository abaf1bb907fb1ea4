package slicedoc

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	doc := &Document{
		Name: "bracket",
		Unit: "mm",
		Layers: []Layer{
			{Z: 0.2, Islands: []Island{fixedIsland(0, 1, 2)}},
			{Z: 0.4, Islands: []Island{adaptiveIsland(0, 1), fixedIsland(0)}},
		},
	}

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Errorf("round trip changed document:\n got %+v\nwant %+v", back, doc)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("ReadJSON accepted malformed input")
	}
}

func TestReadJSONRejectsInvalidDocument(t *testing.T) {
	payload := `{"layers":[{"z":0.2,"islands":[{"loops":[{"polygon":[[0,0]],"depth":-2,"width":0.4}]}]}]}`
	_, err := ReadJSON(strings.NewReader(payload))
	if !errors.Is(err, ErrNegativeDepth) {
		t.Errorf("ReadJSON error = %v, want ErrNegativeDepth", err)
	}
}

func TestExportImportFile(t *testing.T) {
	doc := &Document{
		Name:   "bracket",
		Layers: []Layer{{Z: 0.2, Islands: []Island{fixedIsland(0, 1)}}},
	}
	path := filepath.Join(t.TempDir(), "bracket.json")

	if err := ExportJSON(doc, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if !reflect.DeepEqual(doc, back) {
		t.Errorf("file round trip changed document:\n got %+v\nwant %+v", back, doc)
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON("testdata/does-not-exist.json"); err == nil {
		t.Error("ImportJSON accepted a missing file")
	}
}
