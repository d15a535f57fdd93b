package inspect

import (
	"sort"
	"strings"

	"github.com/jortiz-slac/pcdsdevices/pkg/model"
)

// ComponentPaths returns the dotted path of every component below the
// device, sub-devices included, in sorted order.
func ComponentPaths(d *model.Device) []string {
	var paths []string
	collectPaths(d, "", &paths)
	sort.Strings(paths)
	return paths
}

func collectPaths(d *model.Device, base string, paths *[]string) {
	for _, attr := range d.ComponentNames() {
		c, err := d.Component(attr)
		if err != nil {
			continue
		}
		path := attr
		if base != "" {
			path = base + "." + attr
		}
		*paths = append(*paths, path)
		if sub, ok := c.(interface{ Base() *model.Device }); ok {
			collectPaths(sub.Base(), path, paths)
		}
	}
}

// CompletePath returns the component paths that start with prefix
// (case-insensitive).
func CompletePath(d *model.Device, prefix string) []string {
	lprefix := strings.ToLower(prefix)
	var matches []string
	for _, p := range ComponentPaths(d) {
		if strings.HasPrefix(strings.ToLower(p), lprefix) {
			matches = append(matches, p)
		}
	}
	return matches
}
