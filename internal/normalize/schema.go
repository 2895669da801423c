package normalize

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Shape names one of the embedded result schemas
type Shape string

const (
	ShapeCandidate Shape = "candidate"
	ShapeReview    Shape = "review"
	ShapeRanking   Shape = "ranking"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

var compiled = map[Shape]*gojsonschema.Schema{}

func init() {
	for _, shape := range []Shape{ShapeCandidate, ShapeReview, ShapeRanking} {
		data, err := schemaFS.ReadFile("schemas/" + string(shape) + ".schema.json")
		if err != nil {
			panic(fmt.Sprintf("reading %s schema: %v", shape, err))
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			panic(fmt.Sprintf("compiling %s schema: %v", shape, err))
		}
		compiled[shape] = schema
	}
}

// ShapeError lists the fields of a result that do not match its schema
type ShapeError struct {
	Shape  Shape
	Errors []FieldError
}

// FieldError is a single schema violation at a field path
type FieldError struct {
	Field   string
	Message string
}

func (e *ShapeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s result does not match schema:", e.Shape)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// CheckShape validates doc against the schema for shape. It returns a
// *ShapeError for violations and a plain error when doc is not JSON.
func CheckShape(shape Shape, doc string) error {
	schema, ok := compiled[shape]
	if !ok {
		return fmt.Errorf("unknown shape %q", shape)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("loading %s result: %w", shape, err)
	}
	if result.Valid() {
		return nil
	}

	shapeErr := &ShapeError{
		Shape:  shape,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		shapeErr.Errors = append(shapeErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return shapeErr
}
