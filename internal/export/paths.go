package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath derives the output file for one page of input. Multi-page inputs
// get a _p<N> suffix (1-based) so each page lands in its own file.
func OutputPath(dir, input string, page, pages int, format string) string {
	name := cleanName(input)
	if pages > 1 {
		name = fmt.Sprintf("%s_p%d", name, page+1)
	}
	return filepath.Join(dir, name+Extension(format))
}

// PagePath applies the page suffix to an explicitly chosen output path.
func PagePath(output string, page, pages int) string {
	if pages <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_p%d%s", strings.TrimSuffix(output, ext), page+1, ext)
}

func cleanName(input string) string {
	var name string
	if rest, ok := strings.CutPrefix(input, "qr:"); ok {
		name = "qr_" + rest
	} else {
		base := filepath.Base(input)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = DefaultName
	}
	return name
}
