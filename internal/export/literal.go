package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ivlev/hotspots/internal/hotspot"
)

// LiteralExporter writes a source-code array literal, one record per line:
//
//	export const hotspots = [
//	  { uMin: 0.2500, uMax: 0.2500, vMin: 0.2500, vMax: 0.2500 },
//	];
//
// Header and Footer are format strings; every %s is replaced by Name.
type LiteralExporter struct {
	Name   string
	Header string
	Footer string
}

func (e *LiteralExporter) Export(w io.Writer, list hotspot.List) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(e.expand(e.Header))
	for _, r := range list {
		fmt.Fprintf(bw, "  { uMin: %.4f, uMax: %.4f, vMin: %.4f, vMax: %.4f },\n",
			r.UMin, r.UMax, r.VMin, r.VMax)
	}
	bw.WriteString(e.expand(e.Footer))

	return bw.Flush()
}

func (e *LiteralExporter) expand(format string) string {
	return strings.ReplaceAll(format, "%s", e.Name)
}
