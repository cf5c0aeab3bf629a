package meta

import "sync"

//nolint:gochecknoglobals // set once at module assembly, read by every dispatch
var (
	serviceName    string
	serviceVersion string
	serviceOnce    sync.Once
)

// SetServiceInfo records the name and version stamped on every dispatch.
// Only the first call has an effect.
func SetServiceInfo(name, version string) {
	serviceOnce.Do(func() {
		serviceName = name
		serviceVersion = version
	})
}

// GetServiceName returns the name passed to SetServiceInfo.
func GetServiceName() string {
	return serviceName
}

// GetServiceVersion returns the version passed to SetServiceInfo.
func GetServiceVersion() string {
	return serviceVersion
}
