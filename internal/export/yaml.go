package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/hotspots/internal/hotspot"
)

// YAMLExporter writes the list as a YAML mapping of Name to a sequence of
// flow-style records. Values keep exactly four decimals.
type YAMLExporter struct {
	Name string
}

func (e *YAMLExporter) Export(w io.Writer, list hotspot.List) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, r := range list {
		seq.Content = append(seq.Content, recordNode(r))
	}

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			seq,
		},
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func recordNode(r hotspot.UVRect) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}
	fields := []struct {
		key string
		val float64
	}{
		{"uMin", r.UMin},
		{"uMax", r.UMax},
		{"vMin", r.VMin},
		{"vMax", r.VMax},
	}
	for _, f := range fields {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprintf("%.4f", f.val)},
		)
	}
	return n
}
