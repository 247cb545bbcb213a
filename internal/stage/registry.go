package stage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// spanTolerance absorbs float error when fades exactly fill a window.
const spanTolerance = 1e-9

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func stageValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(fadesFitWindow, Stage{})
	})
	return validate
}

// fadesFitWindow rejects stages whose fade-in and fade-out would overlap,
// which would leave no plateau and make the fade shape undefined.
func fadesFitWindow(sl validator.StructLevel) {
	s := sl.Current().Interface().(Stage)
	if s.TransitionIn+s.TransitionOut > s.Span()+spanTolerance {
		sl.ReportError(s.TransitionOut, "TransitionOut", "TransitionOut", "fadesfit", "")
	}
}

// FieldError is one failed check on one stage.
type FieldError struct {
	Stage string
	Field string
	Rule  string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s.%s failed %q", e.Stage, e.Field, e.Rule)
}

// ConfigError reports every defect found while building a Registry.
type ConfigError struct {
	Problems []FieldError
}

func (e *ConfigError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return "stage: invalid registry: " + strings.Join(parts, "; ")
}

// Registry is an immutable, ordered set of stages. Render order is list order.
type Registry struct {
	stages []Stage
}

// NewRegistry validates stages and returns them as a registry. Names must be
// unique; bounds must lie in [0,1] with ScrollStart < ScrollEnd; both fades
// must be positive and together fit inside the window; every stage needs a
// renderer.
func NewRegistry(stages ...Stage) (*Registry, error) {
	v := stageValidator()
	cerr := &ConfigError{}
	seen := make(map[string]bool, len(stages))

	for i, s := range stages {
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if err := v.Struct(s); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return nil, fmt.Errorf("stage %s: %w", label, err)
			}
			for _, fe := range verrs {
				cerr.Problems = append(cerr.Problems, FieldError{Stage: label, Field: fe.Field(), Rule: fe.Tag()})
			}
		}
		if s.Name != "" && seen[s.Name] {
			cerr.Problems = append(cerr.Problems, FieldError{Stage: label, Field: "Name", Rule: "unique"})
		}
		seen[s.Name] = true
	}
	if len(cerr.Problems) > 0 {
		return nil, cerr
	}

	out := make([]Stage, len(stages))
	copy(out, stages)
	return &Registry{stages: out}, nil
}

// MustRegistry is like NewRegistry but panics on an invalid list. It is meant
// for package-level registries built from literals.
func MustRegistry(stages ...Stage) *Registry {
	r, err := NewRegistry(stages...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of stages.
func (r *Registry) Len() int { return len(r.stages) }

// Stages returns a copy of the registry's stages.
func (r *Registry) Stages() []Stage {
	out := make([]Stage, len(r.stages))
	copy(out, r.stages)
	return out
}

// Lookup finds a stage by name.
func (r *Registry) Lookup(name string) (Stage, bool) {
	for _, s := range r.stages {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// Active returns the visible stages at global progress p.
func (r *Registry) Active(p float64) []Active {
	return appendActive(nil, p, r.stages)
}

// AppendActive appends the visible stages at p to dst, letting the frame
// loop reuse one slice.
func (r *Registry) AppendActive(dst []Active, p float64) []Active {
	return appendActive(dst, p, r.stages)
}
