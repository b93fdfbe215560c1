package extract

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestScan_GoldenProject(t *testing.T) {
	res := scan(t, defaultOptions(), "testdata/project")
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("encode: %v", err)
	}
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "scan_project", buf.Bytes())
}
