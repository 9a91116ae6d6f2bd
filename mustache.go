// Package mustache renders Mustache templates (https://mustache.github.io/)
// against JSON data. It implements the official spec's core modules -- tags,
// sections, inverted sections, partials, standalone-line stripping,
// dotted-name lookups and Set-Delimiter tags; the optional lambda and
// inheritance modules are not implemented -- plus two local extensions:
// a `{{:name}}` tag that uses name verbatim as a literal key (skipping the
// usual sigil handling so keys that start with `#`, `^`, `&`, `>` or `:`
// can still be interpolated), and a `{{$name}}` tag that emits the value's
// JSON text with outer string quotes stripped.
package mustache

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/cbroglie/mustache/internal/outbuf"
	"github.com/cbroglie/mustache/internal/partials"
	"github.com/cbroglie/mustache/internal/render"
)

// PartialLoader resolves the text referenced by a {{>name}} tag. See
// internal/partials for the FileLoader and StaticLoader implementations.
type PartialLoader = partials.Loader

// FileLoader resolves partials from the filesystem, relative to the
// directory of whichever template is currently rendering.
type FileLoader = partials.FileLoader

// StaticLoader resolves partials from an in-memory name-to-source map.
type StaticLoader = partials.StaticLoader

// Logger receives a diagnostic entry whenever ingress JSON fails to parse.
// Rendering itself still proceeds against an absent value; this is purely
// an observability hook. It defaults to logrus's standard logger.
var Logger = logrus.StandardLogger()

// Render renders template against data, writing the result to out.
// searchDir is the directory partial resolution starts from; loader may be
// nil if the template references no partials.
func Render(template string, data gjson.Result, out io.Writer, searchDir string, loader PartialLoader) error {
	buf := outbuf.New(len(template))
	r := render.New(buf, loader)
	if err := r.Run(template, data, searchDir, searchDir); err != nil {
		return err
	}
	_, err := buf.WriteTo(out)
	return err
}

// RenderFromJSONText parses jsonText as JSON (or, failing that, logs a
// diagnostic and falls back to an absent root value -- nothing in the
// template errors out over malformed input) and renders template against
// it, resolving partials from searchDir via a FileLoader.
func RenderFromJSONText(template, jsonText string, out io.Writer, searchDir string) error {
	data := parseJSON(jsonText)
	return Render(template, data, out, searchDir, &FileLoader{})
}

// RenderFromJSONFile reads path as a JSON data file and renders template
// against it, resolving partials from searchDir.
func RenderFromJSONFile(template, path string, out io.Writer, searchDir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("mustache: reading data file: %w", err)
	}
	return RenderFromJSONText(template, string(raw), out, searchDir)
}

// RenderText renders templateText against jsonText and returns the result
// as a string, resolving partials from searchDir.
func RenderText(templateText, jsonText string, searchDir string) (string, error) {
	data := parseJSON(jsonText)
	buf := outbuf.New(len(templateText))
	r := render.New(buf, &FileLoader{})
	if err := r.Run(templateText, data, searchDir, searchDir); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parseJSON(jsonText string) gjson.Result {
	if !gjson.Valid(jsonText) {
		Logger.WithField("bytes", len(jsonText)).Warn("mustache: ingress JSON failed to parse, rendering against an absent value")
		return gjson.Result{}
	}
	return gjson.Parse(jsonText)
}
