package license

// License is a named entitlement binding a plugin artifact to a fixed set of
// allowed (address, port) pairs.
type License struct {
	// Library is the filesystem path of the artifact released to
	// authorized clients.
	Library string

	// Addresses maps an allowed client address to the ports that address
	// may connect from.
	Addresses map[string][]int
}

// AllowsAddr reports whether addr appears in the license allow-list.
func (l License) AllowsAddr(addr string) bool {
	_, ok := l.Addresses[addr]
	return ok
}

// AllowsPort reports whether port is allowed for addr under this license.
func (l License) AllowsPort(addr string, port int) bool {
	for _, p := range l.Addresses[addr] {
		if p == port {
			return true
		}
	}
	return false
}

// Registry is the static license table, built once from configuration and
// read-only for the process lifetime.
type Registry struct {
	licenses map[string]License
}

// NewRegistry builds a registry from the configured license table. The map
// is copied so later mutation of the input cannot leak into the registry.
func NewRegistry(licenses map[string]License) *Registry {
	table := make(map[string]License, len(licenses))
	for name, lic := range licenses {
		table[name] = lic
	}
	return &Registry{licenses: table}
}

// Find returns the license registered under name.
func (r *Registry) Find(name string) (License, bool) {
	lic, ok := r.licenses[name]
	return lic, ok
}

// Names returns the registered license names, for startup logging.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.licenses))
	for name := range r.licenses {
		names = append(names, name)
	}
	return names
}

// Len reports the number of registered licenses.
func (r *Registry) Len() int {
	return len(r.licenses)
}
