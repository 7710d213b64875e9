package manifest

import corev1 "k8s.io/api/core/v1"

// EnvSet is a container environment keyed by variable name. Insertion
// order is preserved so rendered manifests are deterministic, but all
// access goes through names; the positional []corev1.EnvVar form exists
// only at the manifest boundary.
type EnvSet struct {
	order []string
	vars  map[string]corev1.EnvVar
}

// NewEnvSet returns an empty environment.
func NewEnvSet() *EnvSet {
	return &EnvSet{vars: make(map[string]corev1.EnvVar)}
}

// EnvSetFrom rebuilds a name-keyed view from a rendered container
// environment. Used by tests and by anything inspecting output manifests.
func EnvSetFrom(env []corev1.EnvVar) *EnvSet {
	s := NewEnvSet()
	for _, v := range env {
		s.SetVar(v)
	}
	return s
}

// Set adds or replaces a plain-valued variable. Replacing keeps the
// original position.
func (s *EnvSet) Set(name, value string) {
	s.SetVar(corev1.EnvVar{Name: name, Value: value})
}

// SetVar adds or replaces a variable, including source-referencing ones.
func (s *EnvSet) SetVar(v corev1.EnvVar) {
	if _, exists := s.vars[v.Name]; !exists {
		s.order = append(s.order, v.Name)
	}
	s.vars[v.Name] = v
}

// Lookup returns the variable with the given name.
func (s *EnvSet) Lookup(name string) (corev1.EnvVar, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Value returns the plain value of the named variable, or "" if absent.
func (s *EnvSet) Value(name string) string {
	return s.vars[name].Value
}

// Has reports whether the named variable is present.
func (s *EnvSet) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Len returns the number of variables.
func (s *EnvSet) Len() int {
	return len(s.order)
}

// Names returns the variable names in insertion order.
func (s *EnvSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// List serializes the set to the positional form required by the pod spec.
func (s *EnvSet) List() []corev1.EnvVar {
	env := make([]corev1.EnvVar, 0, len(s.order))
	for _, name := range s.order {
		env = append(env, s.vars[name])
	}
	return env
}
