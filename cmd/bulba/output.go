package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/Azure/bulba/pkg/document"
)

func writeDocument(w io.Writer, format string, doc *document.Object) error {
	switch format {
	case "json":
		js, err := doc.MarshalJSON()
		if err != nil {
			return err
		}
		return writeIndentedJSON(w, js)
	case "yaml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "toml":
		return document.EncodeTOML(w, doc)
	default:
		return document.Fprint(w, doc)
	}
}

// writeValue writes a single value, as produced by eval. Objects are written like documents.
func writeValue(w io.Writer, format string, v document.Value) error {
	if obj, ok := v.AsObject(); ok {
		return writeDocument(w, format, obj)
	}

	switch format {
	case "json":
		js, err := v.MarshalJSON()
		if err != nil {
			return err
		}
		return writeIndentedJSON(w, js)
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "toml":
		return fmt.Errorf("toml output requires an object, got %s", v.Kind())
	default:
		if v.Kind() == document.ArrayKind {
			_, err := io.WriteString(w, v.String())
			return err
		}
		_, err := fmt.Fprintln(w, v.String())
		return err
	}
}

func writeIndentedJSON(w io.Writer, js []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, js, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
