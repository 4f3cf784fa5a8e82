package subtitle

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Formatter renders an ordered cue list in one target syntax.
type Formatter interface {
	Name() string
	Render(cues []Cue) (string, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Formatter)
)

// Register adds a formatter to the registry, replacing any previous entry
// with the same name.
func Register(f Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(f.Name())] = f
}

// Lookup returns the formatter registered under name.
func Lookup(name string) (Formatter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported subtitle format %q", name)
	}
	return f, nil
}

// Names lists the registered format names sorted alphabetically.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(srtFormatter{})
	Register(vttFormatter{})
	Register(jsonFormatter{})
	Register(rawFormatter{})
}
