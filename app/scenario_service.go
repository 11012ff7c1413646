package app

import (
	"context"
	_ "embed"
	"fmt"

	"hypolab/domain/core"
	"hypolab/domain/stats"
	"hypolab/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var builtinScenarios []byte

// ScenarioKind selects which computation a scenario runs
type ScenarioKind string

const (
	KindTest                ScenarioKind = "test"
	KindInterval            ScenarioKind = "interval"
	KindTwoProportion       ScenarioKind = "two-proportion"
	KindTailComparison      ScenarioKind = "tail-comparison"
	KindErrorRates          ScenarioKind = "error-rates"
	KindBinomialProbability ScenarioKind = "binomial-probability"
)

// ScenarioInputs is the flat parameter set of a worked example. Which
// fields matter depends on the scenario kind.
type ScenarioInputs struct {
	Mean         float64            `yaml:"mean" json:"mean,omitempty"`
	StdDev       float64            `yaml:"std_dev" json:"std_dev,omitempty"`
	Size         int                `yaml:"size" json:"size,omitempty"`
	Successes    *int               `yaml:"successes" json:"successes,omitempty"`
	NullValue    float64            `yaml:"null_value" json:"null_value,omitempty"`
	Alternative  stats.Alternative  `yaml:"alternative" json:"alternative,omitempty"`
	Alpha        float64            `yaml:"alpha" json:"alpha,omitempty"`
	Distribution stats.Distribution `yaml:"distribution" json:"distribution,omitempty"`
	Confidence   float64            `yaml:"confidence" json:"confidence,omitempty"`
	SuccessesB   int                `yaml:"successes_b" json:"successes_b,omitempty"`
	SizeB        int                `yaml:"size_b" json:"size_b,omitempty"`
	AltMean      float64            `yaml:"alt_mean" json:"alt_mean,omitempty"`
	P            float64            `yaml:"p" json:"p,omitempty"`
	K            int                `yaml:"k" json:"k,omitempty"`
	Mode         stats.TailMode     `yaml:"mode" json:"mode,omitempty"`
}

func (in ScenarioInputs) summary() stats.SampleSummary {
	s := stats.SampleSummary{Mean: in.Mean, StdDev: in.StdDev, Size: in.Size}
	if in.Successes != nil {
		s = s.WithSuccesses(*in.Successes)
	}
	return s
}

func (in ScenarioInputs) testConfig() stats.TestConfig {
	return stats.TestConfig{
		NullValue:    in.NullValue,
		Alternative:  in.Alternative,
		Alpha:        in.Alpha,
		Distribution: in.Distribution,
	}
}

// Scenario is one worked example. Description is markdown.
type Scenario struct {
	ID          core.ScenarioID `yaml:"id" json:"id"`
	Title       string          `yaml:"title" json:"title"`
	Kind        ScenarioKind    `yaml:"kind" json:"kind"`
	Description string          `yaml:"description" json:"description"`
	Inputs      ScenarioInputs  `yaml:"inputs" json:"inputs"`
}

// ScenarioOutcome holds whichever results the scenario kind produces
type ScenarioOutcome struct {
	Scenario    Scenario                  `json:"scenario"`
	Tests       []stats.TestResult        `json:"tests,omitempty"`
	Interval    *stats.ConfidenceInterval `json:"interval,omitempty"`
	Proportion  *stats.ProportionTest     `json:"proportion,omitempty"`
	ErrorRates  *stats.ErrorRates         `json:"error_rates,omitempty"`
	Probability *float64                  `json:"probability,omitempty"`
	Curve       *stats.DensityCurve       `json:"curve,omitempty"`
}

// ScenarioService is the catalog of worked examples
type ScenarioService struct {
	inference *InferenceService
	order     []core.ScenarioID
	byID      map[core.ScenarioID]Scenario
}

// NewScenarioService loads the built-in catalog
func NewScenarioService(inference *InferenceService) (*ScenarioService, error) {
	return NewScenarioServiceFromYAML(inference, builtinScenarios)
}

// NewScenarioServiceFromYAML loads a catalog from raw YAML
func NewScenarioServiceFromYAML(inference *InferenceService, raw []byte) (*ScenarioService, error) {
	var scenarios []Scenario
	if err := yaml.Unmarshal(raw, &scenarios); err != nil {
		return nil, errors.Wrap(err, "failed to parse scenario catalog")
	}

	svc := &ScenarioService{
		inference: inference,
		byID:      make(map[core.ScenarioID]Scenario, len(scenarios)),
	}
	for i, sc := range scenarios {
		id, err := core.ParseScenarioID(string(sc.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %d", i)
		}
		if _, dup := svc.byID[id]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate scenario id %q", id))
		}
		sc.ID = id
		svc.byID[id] = sc
		svc.order = append(svc.order, id)
	}
	return svc, nil
}

// List returns the scenarios in catalog order
func (s *ScenarioService) List() []Scenario {
	out := make([]Scenario, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Get looks a scenario up by id (case-insensitive)
func (s *ScenarioService) Get(id string) (*Scenario, error) {
	key, err := core.ParseScenarioID(id)
	if err != nil {
		return nil, err
	}
	sc, ok := s.byID[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrScenarioNotFound, id)
	}
	return &sc, nil
}

// Run computes a scenario's outcome
func (s *ScenarioService) Run(ctx context.Context, id string) (*ScenarioOutcome, error) {
	sc, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	in := sc.Inputs
	out := &ScenarioOutcome{Scenario: *sc}

	switch sc.Kind {
	case KindTest:
		resp, err := s.inference.Evaluate(ctx, EvaluationRequest{Summary: in.summary(), Config: in.testConfig(), IncludeCurve: true})
		if err != nil {
			return nil, err
		}
		out.Tests = []stats.TestResult{resp.Result}
		out.Curve = resp.Curve

	case KindTailComparison:
		for _, alt := range []stats.Alternative{in.Alternative, stats.TwoSided} {
			cfg := in.testConfig()
			cfg.Alternative = alt
			resp, err := s.inference.Evaluate(ctx, EvaluationRequest{Summary: in.summary(), Config: cfg})
			if err != nil {
				return nil, err
			}
			out.Tests = append(out.Tests, resp.Result)
		}

	case KindInterval:
		ci, curve, err := s.inference.ConfidenceInterval(ctx, in.summary(), in.Confidence, in.Distribution)
		if err != nil {
			return nil, err
		}
		out.Interval = ci
		out.Curve = curve

	case KindTwoProportion:
		successes := 0
		if in.Successes != nil {
			successes = *in.Successes
		}
		result, err := s.inference.TwoProportion(ctx, successes, in.Size, in.SuccessesB, in.SizeB, in.Alternative, in.Alpha)
		if err != nil {
			return nil, err
		}
		out.Proportion = result

	case KindErrorRates:
		rates, err := s.inference.ErrorRates(ctx, in.Mean, in.AltMean, in.StdDev, in.Size, in.Alternative, in.Alpha)
		if err != nil {
			return nil, err
		}
		out.ErrorRates = rates

	case KindBinomialProbability:
		p, err := s.inference.BinomialProbability(ctx, in.Size, in.P, in.K, in.Mode)
		if err != nil {
			return nil, err
		}
		out.Probability = &p

	default:
		return nil, errors.ValidationError(fmt.Sprintf("scenario %q has unknown kind %q", sc.ID, sc.Kind))
	}
	return out, nil
}
