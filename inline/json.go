package inline

import (
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/thrombe/kolekk/searcher"
)

// Output is what inline mode prints with --json.
type Output struct {
	Query   string           `json:"query" jsonschema:"description=The query as given."`
	Kind    searcher.Kind    `json:"kind" jsonschema:"description=Kind of the searched target."`
	Binding string           `json:"binding,omitempty" jsonschema:"description=Facet, source, manga or script the kind was bound to."`
	HasNext bool             `json:"has_next" jsonschema:"description=Whether more pages were left unfetched."`
	Result  []searcher.Entry `json:"result"`
}

// Schema describes Output as JSON Schema.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "entry", "output":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	return reflector.Reflect(&Output{})
}

func writeJson(out io.Writer, output *Output) error {
	if output.Result == nil {
		output.Result = []searcher.Entry{}
	}
	return json.NewEncoder(out).Encode(output)
}
