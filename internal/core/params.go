package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
)

// Parameter describes a single tunable value exposed by a stage.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// Keys lists the parameter keys of the group in declaration order.
func (g ParameterGroup) Keys() []string {
	keys := make([]string, 0, len(g.Params))
	for _, p := range g.Params {
		keys = append(keys, p.Key)
	}
	return keys
}

// Has reports whether the group declares the given key.
func (g ParameterGroup) Has(key string) bool {
	for _, p := range g.Params {
		if p.Key == key {
			return true
		}
	}
	return false
}

// ParameterSnapshot captures the current set of tunables of a run.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// IntParam builds an integer parameter entry.
func IntParam(key, label string, value int) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

// Uint64Param builds an unsigned integer parameter entry such as a seed.
func Uint64Param(key, label string, value uint64) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeInt,
		Value: strconv.FormatUint(value, 10),
	}
}

// FloatParam builds a floating-point parameter entry.
func FloatParam(key, label string, value float32) Parameter {
	return Parameter{
		Key:   key,
		Label: label,
		Type:  ParamTypeFloat,
		Value: strconv.FormatFloat(float64(value), 'f', -1, 32),
	}
}
