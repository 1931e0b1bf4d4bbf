package parsers

import "fmt"

// GetAdapter returns the adapter for a configured source. nameToISIN is the
// security reference map used by adapters whose exports lack an ISIN column.
func GetAdapter(source, dir string, nameToISIN map[string]string) (Adapter, error) {
	switch source {
	case "avanza":
		return NewAvanzaAdapter(dir), nil
	case "lysa":
		return NewLysaAdapter(dir, nameToISIN), nil
	case "pareto":
		return NewParetoAdapter(dir), nil
	case "generic":
		return NewGenericAdapter(dir, nameToISIN), nil
	default:
		return nil, fmt.Errorf("no adapter available for source: %s", source)
	}
}
