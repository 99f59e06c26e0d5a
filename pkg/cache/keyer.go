package cache

// GeometryKeyOpts captures everything that changes chart geometry beyond the
// computed series itself.
type GeometryKeyOpts struct {
	ChartType string
	Width     float64
	Height    float64
	TickMode  string
}

// ArtifactKeyOpts captures everything that changes a rendered artifact beyond
// its geometry.
type ArtifactKeyOpts struct {
	Format string
	Style  string
}

// Keyer derives cache keys for the three pipeline stages. Implementations
// must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// ComputeKey keys a calculator run: the calculator name plus the full
	// user input set.
	ComputeKey(calculator string, inputs any) string

	// GeometryKey keys chart geometry by the compute-result hash and the
	// layout options.
	GeometryKey(computeHash string, opts GeometryKeyOpts) string

	// ArtifactKey keys a rendered artifact by the geometry hash and the
	// render options.
	ArtifactKey(geometryHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all inputs with SHA-256 and prefixes each key with its
// stage name, so backends can inspect and clear per stage.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) ComputeKey(calculator string, inputs any) string {
	return hashKey("compute", calculator, inputs)
}

func (k *DefaultKeyer) GeometryKey(computeHash string, opts GeometryKeyOpts) string {
	return hashKey("geometry", computeHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(geometryHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", geometryHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so multiple tenants can share one
// backend without key collisions. The serve command scopes a shared Redis
// cache per deployment; the CLI's local file cache uses the unscoped default.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ComputeKey(calculator string, inputs any) string {
	return k.prefix + k.inner.ComputeKey(calculator, inputs)
}

func (k *ScopedKeyer) GeometryKey(computeHash string, opts GeometryKeyOpts) string {
	return k.prefix + k.inner.GeometryKey(computeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(geometryHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(geometryHash, opts)
}
