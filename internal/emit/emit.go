package emit

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"datafile-gen/datafile"
	"datafile-gen/internal/common"
	"datafile-gen/internal/config"
	"datafile-gen/internal/signature"
)

// Input is everything needed to render one wrapper.
type Input struct {
	Signature *signature.Signature
	Ref       config.FileReference
	// Inner is the name of the renamed test logic function.
	Inner string
	// Runtime and OS are the local names of the datafile and os imports.
	Runtime string
	OS      string
	// Reserved lists file-level identifiers the body must not shadow.
	Reserved []string
}

// Output is a rendered wrapper.
type Output struct {
	// TestParam is the name of the wrapper's *testing.T parameter.
	TestParam string
	// Body holds the statements of the wrapper, without braces.
	Body []byte
}

// Messages of generated tests.
const (
	MsgEmpty   = "Empty test data provided in %s"
	MsgInvalid = "Invalid value in row=%d column=%d %s %v"
	MsgLoad    = "Failed to load data in %s %v"
	MsgRecord  = "Failed on record %d in %s %v"
)

// kindIdents names the datafile constants of the structured kinds.
var kindIdents = map[datafile.Kind]string{
	datafile.JSON: "JSON",
	datafile.YAML: "YAML",
	datafile.RON:  "RON",
	datafile.TOML: "TOML",
}

// builtins used by the templates.
var builtins = []string{"len", "nil"}

type templateData struct {
	T       string
	OS      string
	Runtime string
	Path    string
	PathVar string
	Ctx     string
	Kind    string

	Record  string
	Fields  []fieldData
	Columns []columnData
	Width   int

	Records string
	Rec     string
	Err     string
	Index   string
	File    string
	Data    string

	Call         string
	ReturnsError bool
	Msg          messages
}

type messages struct {
	Empty, Invalid, Load, Record string
}

type fieldData struct {
	Name string
	Type string
	Tag  string
}

type columnData struct {
	Var    string
	Type   string
	Column int
}

// Emit renders the wrapper body for the kind of in.Ref.
func Emit(in *Input) (*Output, error) {
	family := in.Ref.Kind.Family()

	tmpl, ok := strategies[family]
	if !ok {
		return nil, fmt.Errorf("no emitter for kind %s", in.Ref.Kind)
	}

	data := buildTemplateData(in)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", family, err)
	}

	return &Output{TestParam: data.T, Body: buf.Bytes()}, nil
}

func buildTemplateData(in *Input) *templateData {
	sig := in.Signature
	family := in.Ref.Kind.Family()

	ns := common.NewNS(in.Reserved...)
	ns.Reserve(in.Inner)
	ns.Reserve(in.Runtime)
	ns.Reserve(in.OS)

	for _, name := range builtins {
		ns.Reserve(name)
	}

	for _, p := range sig.Params {
		for _, ref := range p.Refs {
			ns.Reserve(ref)
		}
	}

	data := &templateData{
		OS:           in.OS,
		Runtime:      in.Runtime,
		Path:         strconv.Quote(in.Ref.Path),
		ReturnsError: sig.ReturnsError,
		Msg: messages{
			Empty:   strconv.Quote(MsgEmpty),
			Invalid: strconv.Quote(MsgInvalid),
			Load:    strconv.Quote(MsgLoad),
			Record:  strconv.Quote(MsgRecord),
		},
	}

	// List records are bound to locals named after the parameters, so they
	// get the first pick of names.
	locals := make(map[int]string, len(sig.Schema))
	if family == datafile.FamilyList {
		for i, p := range sig.Schema {
			name := ns.Name(p.Name)
			locals[p.Index] = name
			data.Columns = append(data.Columns, columnData{Var: name, Type: p.Type, Column: i})
		}

		data.Width = len(sig.Schema)
		data.Records = ns.Name("lines")
		data.Rec = ns.Name("line")
	} else {
		data.Record = ns.Name("record")
		data.Records = ns.Name("records")
		data.Rec = ns.Name("rec")
		data.Fields = recordFields(sig.Schema, locals)
	}

	data.T = ns.Name("t")
	data.PathVar = ns.Name("path")
	data.Err = ns.Name("err")
	data.Index = ns.Name("i")

	if sig.HasContext {
		data.Ctx = ns.Name("ctx")
	}

	if family == datafile.FamilyCSV {
		data.File = ns.Name("f")
	}

	if family == datafile.FamilyStructured {
		data.Data = ns.Name("data")
		data.Kind = kindIdents[in.Ref.Kind]
	}

	data.Call = buildCall(in.Inner, sig, data, locals)

	return data
}

// recordFields declares one exported field per schema entry. locals receives
// the field of each parameter index.
func recordFields(schema signature.Schema, locals map[int]string) []fieldData {
	fieldNS := common.NewNS()
	fields := make([]fieldData, 0, len(schema))

	for _, p := range schema {
		name := fieldNS.Name(ExportName(p.Name))
		locals[p.Index] = name

		csvName := p.Name
		if strings.HasPrefix(p.Type, "*") {
			csvName += ",omitempty"
		}

		fields = append(fields, fieldData{
			Name: name,
			Type: p.Type,
			Tag:  fmt.Sprintf("json:%q yaml:%q toml:%q csv:%q", p.Name, p.Name, p.Name, csvName),
		})
	}

	return fields
}

// buildCall renders the call of the inner function with injected values at
// their declared positions.
func buildCall(inner string, sig *signature.Signature, data *templateData, locals map[int]string) string {
	args := make([]string, 0, len(sig.Params))

	for _, p := range sig.Params {
		switch p.Role {
		case signature.RoleTest:
			args = append(args, data.T)
		case signature.RoleContext:
			args = append(args, data.Ctx)
		case signature.RoleRecord:
			if data.Record != "" {
				args = append(args, data.Rec+"."+locals[p.Index])
			} else {
				args = append(args, locals[p.Index])
			}
		}
	}

	return inner + "(" + strings.Join(args, ", ") + ")"
}

var strategies = map[datafile.Family]*template.Template{
	datafile.FamilyList:       mustStrategy("list", listTemplate),
	datafile.FamilyCSV:        mustStrategy("csv", csvTemplate),
	datafile.FamilyStructured: mustStrategy("structured", structuredTemplate),
}

func mustStrategy(name, body string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(sharedTemplates)).Parse(body))
}

const sharedTemplates = `
{{- define "prelude"}}	const {{.PathVar}} = {{.Path}}
{{if .Ctx}}	{{.Ctx}} := {{.T}}.Context()
{{end}}{{end}}

{{- define "record"}}
	type {{.Record}} struct {
{{range .Fields}}		{{.Name}} {{.Type}} ` + "`{{.Tag}}`" + `
{{end}}	}
{{end}}

{{- define "load"}}	if {{.Err}} != nil {
		{{.T}}.Fatalf({{.Msg.Load}}, {{.PathVar}}, {{.Err}})
	}
{{end}}

{{- define "empty"}}
	if len({{.Records}}) == 0 {
		{{.T}}.Fatalf({{.Msg.Empty}}, {{.PathVar}})
	}
{{end}}

{{- define "loop"}}
	for {{if .ReturnsError}}{{.Index}}{{else}}_{{end}}, {{.Rec}} := range {{.Records}} {
{{end}}

{{- define "call"}}{{if .ReturnsError}}		if {{.Err}} := {{.Call}}; {{.Err}} != nil {
			{{.T}}.Fatalf({{.Msg.Record}}, {{.Index}}, {{.PathVar}}, {{.Err}})
		}
{{else}}		{{.Call}}
{{end}}	}
{{end}}`

const listTemplate = `{{template "prelude" .}}
	{{.Records}}, {{.Err}} := {{.Runtime}}.ReadList({{.PathVar}})
{{template "load" .}}{{template "empty" .}}{{template "loop" .}}
{{- range .Columns}}		{{.Var}}, {{$.Err}} := {{$.Runtime}}.ParseField[{{.Type}}]({{$.Rec}}, {{.Column}})
		if {{$.Err}} != nil {
			{{$.T}}.Fatalf({{$.Msg.Invalid}}, {{$.Rec}}.Row, {{.Column}}, {{$.PathVar}}, {{$.Err}})
		}

{{end}}		if {{.Err}} := {{.Rec}}.CheckWidth({{.Width}}); {{.Err}} != nil {
			{{.T}}.Fatalf({{.Msg.Invalid}}, {{.Rec}}.Row, {{.Width}}, {{.PathVar}}, {{.Err}})
		}

{{template "call" .}}`

const csvTemplate = `{{template "prelude" .}}{{template "record" .}}
	{{.File}}, {{.Err}} := {{.OS}}.Open({{.PathVar}})
{{template "load" .}}	defer {{.File}}.Close()

	{{.Records}}, {{.Err}} := {{.Runtime}}.ReadCSV[{{.Record}}]({{.File}})
{{template "load" .}}{{template "empty" .}}{{template "loop" .}}{{template "call" .}}`

const structuredTemplate = `{{template "prelude" .}}{{template "record" .}}
	{{.Data}}, {{.Err}} := {{.OS}}.ReadFile({{.PathVar}})
{{template "load" .}}
	{{.Records}}, {{.Err}} := {{.Runtime}}.Decode[{{.Record}}]({{.Runtime}}.{{.Kind}}, {{.Data}})
{{template "load" .}}{{template "empty" .}}{{template "loop" .}}{{template "call" .}}`
