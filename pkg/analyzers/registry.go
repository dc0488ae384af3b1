package analyzers

// Factory constructs a fresh, stateless analyzer instance. Analyzers
// hold only constant keyword tables and thresholds, so one is built
// per analysis call and discarded afterwards.
type Factory func() SectionAnalyzer

// Registry maps section names to analyzer factories. It is populated
// once at startup and read-only during analysis; orchestration is
// single threaded, so no locking is needed.
type Registry struct {
	factories map[string]Factory
	order     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory keyed by its analyzer's declared section
// name. Registering the same name again overwrites the previous entry,
// which lets tests install doubles over production analyzers.
func (r *Registry) Register(factory Factory) {
	name := factory().SectionName()
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Lookup returns a freshly constructed analyzer for the section, or
// false when none is registered. An unknown section is not an error;
// the caller falls back to the generic prompt.
func (r *Registry) Lookup(sectionName string) (SectionAnalyzer, bool) {
	factory, ok := r.factories[sectionName]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Has reports whether an analyzer is registered for the section.
func (r *Registry) Has(sectionName string) bool {
	_, ok := r.factories[sectionName]
	return ok
}

// Names returns the registered section names in registration order.
// Used for diagnostics and the analyzers listing command.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Default builds a registry holding every known section analyzer. It
// is called once at process start; nothing registers afterwards.
func Default() *Registry {
	r := NewRegistry()
	r.Register(func() SectionAnalyzer { return NewPathAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewDiskSpaceAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewInstalledProgramsAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewStartupProgramsAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewRunningServicesAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewPerformanceDataAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewEnvironmentAnalyzer() })
	r.Register(func() SectionAnalyzer { return NewNetworkAnalyzer() })
	return r
}
