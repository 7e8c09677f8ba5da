package credstore

// Backend describes a registered credential backend.
type Backend struct {
	Name     string
	OneLiner string
	Writable bool
}

// Backend names as used in configuration.
const (
	BackendNetrc   = "netrc"
	BackendKeyring = "keyring"
	BackendEnv     = "env"
)

var backends = []Backend{
	{Name: BackendNetrc, OneLiner: "Store credentials in .netrc(5)", Writable: true},
	{Name: BackendKeyring, OneLiner: "Store credentials in the OS keyring", Writable: true},
	{Name: BackendEnv, OneLiner: "Read credentials from environment variables", Writable: false},
}

// Backends returns all registered backends.
func Backends() []Backend {
	return append([]Backend(nil), backends...)
}

// LookupBackend returns the backend registered under name.
func LookupBackend(name string) (Backend, bool) {
	for _, b := range backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}
