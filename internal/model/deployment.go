package model

// Deployment is the configuration context for one run: every catalog service
// with its resolved state, in catalog order. It is passed explicitly to each
// component; there is no package-level state.
type Deployment struct {
	services []*ServiceConfig
	index    map[string]*ServiceConfig
}

// NewDeployment seeds one ServiceConfig per descriptor.
func NewDeployment(descriptors []*ServiceDescriptor) *Deployment {
	d := &Deployment{index: make(map[string]*ServiceConfig, len(descriptors))}
	for _, desc := range descriptors {
		sc := NewServiceConfig(desc)
		d.services = append(d.services, sc)
		d.index[desc.Key] = sc
	}
	return d
}

// Services returns the configs in catalog order.
func (d *Deployment) Services() []*ServiceConfig {
	return d.services
}

// Get looks up a service by key.
func (d *Deployment) Get(key string) (*ServiceConfig, bool) {
	sc, ok := d.index[key]
	return sc, ok
}

// ApplyDetection clears every detected endpoint, then stores the new results.
func (d *Deployment) ApplyDetection(results map[string]Detection) {
	for _, sc := range d.services {
		sc.SetDetected(results[sc.Key()])
	}
}

// Override is an explicit user decision for one service. Nil fields are left alone.
type Override struct {
	Key          string
	UseExisting  *bool
	Endpoint     *Endpoint
	ExternalPort *int
	Force        *bool
}

// ApplyOverride records an explicit user decision.
func (d *Deployment) ApplyOverride(o Override) error {
	sc, ok := d.Get(o.Key)
	if !ok {
		return &ServiceError{Kind: KindUnknownService, Service: o.Key, Detail: "not in the service catalog"}
	}
	if o.UseExisting != nil {
		sc.UseExisting = *o.UseExisting
	}
	if o.Endpoint != nil {
		sc.SetCustom(*o.Endpoint)
	}
	if o.ExternalPort != nil {
		port := *o.ExternalPort
		sc.ExternalPort = &port
	}
	if o.Force != nil {
		sc.ForceOverride = *o.Force
	}
	return nil
}

// Existing returns the services bound to external infrastructure.
func (d *Deployment) Existing() []*ServiceConfig {
	var out []*ServiceConfig
	for _, sc := range d.services {
		if sc.UseExisting {
			out = append(out, sc)
		}
	}
	return out
}
