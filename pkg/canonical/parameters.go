package canonical

import "fmt"

// Deployment parameter file envelope.
const (
	ParametersSchema = "http://schema.management.azure.com/schemas/2015-01-01/deploymentParameters.json#"
	ContentVersion   = "1.0.0.0"
)

// ParametersFile canonicalizes a deployment parameter file. A bare
// parameter map (no $schema and no parameters member) is wrapped in the
// deployment parameters envelope first.
func ParametersFile(text string, opts ...Option) (string, error) {
	o := newOptions(opts)

	v, err := parse([]byte(text), o)
	if err != nil {
		return "", err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("parameter file must be a JSON object, got %T", v)
	}

	_, hasSchema := obj["$schema"]
	_, hasParameters := obj["parameters"]
	if !hasSchema && !hasParameters {
		v = map[string]any{
			"$schema":        ParametersSchema,
			"contentVersion": ContentVersion,
			"parameters":     obj,
		}
	}

	return render(v, o)
}
