package errs

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Codes defined by the default catalog.
const (
	CodeSplitName          = "SPLIT-NAME"
	CodeFieldNotFound      = "FIELD-NOT-FOUND"
	CodeUnknownOption      = "UNKNOWN-OPTION"
	CodeInvalidOptionType  = "INVALID-OPTION-TYPE"
	CodeUnknownProc        = "UNKNOWN-PROC"
	CodeInvalidTime        = "INVALID-TIME"
	CodeProgramSyntax      = "PROGRAM-SYNTAX"
	CodeProgramMissingProc = "PROGRAM-MISSING-PROC"
	CodeProgramInvalid     = "PROGRAM-INVALID"
	CodeInputInvalid       = "INPUT-INVALID"
)

// Undefined is substituted for a placeholder whose key is absent from Info.
// Templates are not checked against Info, so a missing key is never an error.
const Undefined = "undefined"

//go:embed messages.yaml
var defaultMessages []byte

var placeholder = regexp.MustCompile(`\{([^}]*)\}`)

// Catalog maps error codes to message templates. It is immutable once built
// and safe for concurrent use.
type Catalog struct {
	templates map[string]string
}

// NewCatalog builds a catalog from a code to template mapping.
func NewCatalog(templates map[string]string) *Catalog {
	c := &Catalog{templates: make(map[string]string, len(templates))}
	for code, tmpl := range templates {
		c.templates[code] = tmpl
	}
	return c
}

// LoadCatalog reads a YAML mapping of code to template.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var templates map[string]string
	if err := yaml.NewDecoder(r).Decode(&templates); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog: %w", err)
	}
	return NewCatalog(templates), nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the catalog embedded in this package, parsed once.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		var templates map[string]string
		if err := yaml.Unmarshal(defaultMessages, &templates); err != nil {
			panic(fmt.Sprintf("errs: embedded message catalog is invalid: %v", err))
		}
		defaultCatalog = NewCatalog(templates)
	})
	return defaultCatalog
}

// Template returns the template registered for code.
func (c *Catalog) Template(code string) (string, bool) {
	tmpl, ok := c.templates[code]
	return tmpl, ok
}

// Build returns an Error with its message rendered from code's template.
// An unknown code renders as the code itself. A nil info becomes empty.
func (c *Catalog) Build(kind Kind, code string, info Info) *Error {
	if info == nil {
		info = Info{}
	}
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: c.render(code, info),
		Info:    info,
	}
}

// Syntax builds a syntax-kind Error.
func (c *Catalog) Syntax(code string, info Info) *Error {
	return c.Build(KindSyntax, code, info)
}

// Compile builds a compile-kind Error.
func (c *Catalog) Compile(code string, info Info) *Error {
	return c.Build(KindCompile, code, info)
}

// Runtime builds a runtime-kind Error.
func (c *Catalog) Runtime(code string, info Info) *Error {
	return c.Build(KindRuntime, code, info)
}

// render substitutes {key} placeholders in a single pass. Substituted text is
// not scanned again, so values containing braces come through verbatim.
func (c *Catalog) render(code string, info Info) string {
	tmpl, ok := c.templates[code]
	if !ok {
		return code
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[1 : len(match)-1]
		v, ok := info[key]
		if !ok {
			return Undefined
		}
		return formatValue(v)
	})
}

// formatValue renders v the way the dataflow language prints values inside
// messages: integral numbers without a fraction, sequences comma-joined.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatValue(elem)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
