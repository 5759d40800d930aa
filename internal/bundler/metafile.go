package bundler

import (
	"encoding/json"
	"sort"
	"strings"
)

// Subset of the esbuild metafile.
type metafile struct {
	Inputs  map[string]metaInput  `json:"inputs"`
	Outputs map[string]metaOutput `json:"outputs"`
}

type metaInput struct {
	Bytes int `json:"bytes"`
}

type metaOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
}

func parseMetafile(data string) (*metafile, error) {
	var m metafile
	if data == "" {
		return &m, nil
	}
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Returns the absolute, sorted paths of the on-disk inputs. Virtual modules
// such as "(disabled):fs" or "<stdin>" are skipped.
func (m *metafile) inputFiles(root string) []string {
	files := make([]string, 0, len(m.Inputs))
	for name := range m.Inputs {
		if strings.HasPrefix(name, "(") || strings.HasPrefix(name, "<") {
			continue
		}
		files = append(files, absPath(root, name))
	}
	sort.Strings(files)
	return files
}
