// Command checklist-cli drives a Collection+JSON API from the terminal. It
// fetches a document, walks you through one of its templates with interactive
// prompts and submits the filled form, printing the response document to
// stdout. Point it at any collection served by this module:
//
//	checklist-cli -url http://localhost:8080/cj/workflow-definitions/
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-hypermedia/pkg/collection"
)

func main() {
	target := flag.String("url", "http://localhost:8080/cj/", "document URL to fetch")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP timeout")
	flag.Parse()

	if err := run(*target, *timeout); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "checklist-cli:", err)
		os.Exit(1)
	}
}

func run(target string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	doc, base, err := fetchDocument(client, target)
	if err != nil {
		return err
	}
	if len(doc.Templates) == 0 {
		return fmt.Errorf("document at %s has no templates; point the client at a collection or form", target)
	}

	tpl, err := pickTemplate(doc.Templates)
	if err != nil {
		return err
	}
	filled, err := fillTemplate(tpl)
	if err != nil {
		return err
	}

	method, submitURL := submitTarget(base, doc, tpl)
	fmt.Fprintf(os.Stderr, "%s %s\n", method, submitURL)

	response, status, err := submit(client, method, submitURL, filled)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, http.StatusText(status))
	if response != nil {
		pretty, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Println(string(pretty))
	}
	if status >= http.StatusBadRequest {
		return fmt.Errorf("server answered %d", status)
	}
	return nil
}

func fetchDocument(client *http.Client, target string) (*collection.Document, *url.URL, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, nil, fmt.Errorf("parse url %q: %w", target, err)
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", collection.MediaType)

	res, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", target, err)
	}
	var doc collection.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", target, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		if doc.Error != nil {
			return nil, nil, fmt.Errorf("fetch %s: %s: %s", target, res.Status, doc.Error.Message)
		}
		return nil, nil, fmt.Errorf("fetch %s: %s", target, res.Status)
	}
	return &doc, base, nil
}

func pickTemplate(templates []collection.Template) (collection.Template, error) {
	if len(templates) == 1 {
		return templates[0], nil
	}
	labels := make([]string, len(templates))
	for i, t := range templates {
		label := t.Prompt
		if label == "" {
			label = fmt.Sprintf("template %d", i+1)
		}
		labels[i] = label
	}
	var picked string
	prompt := &survey.Select{Message: "Template", Options: labels}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return collection.Template{}, err
	}
	for i, label := range labels {
		if label == picked {
			return templates[i], nil
		}
	}
	return templates[0], nil
}

// fillTemplate prompts once per descriptor. The prompt style follows the
// field type the same way the HTML renderer picks its controls: booleans
// confirm, options select, textareas go multiline, everything else is a
// plain input.
func fillTemplate(tpl collection.Template) ([]collection.TemplateData, error) {
	filled := make([]collection.TemplateData, 0, len(tpl.Data))
	for _, field := range tpl.Data {
		value, err := promptField(field)
		if err != nil {
			return nil, err
		}
		filled = append(filled, collection.TemplateData{Name: field.Name, Value: value})
	}
	return filled, nil
}

func promptField(field collection.TemplateData) (any, error) {
	message := field.Prompt
	if message == "" {
		message = field.Name
	}
	kind := strings.ToLower(strings.TrimSpace(field.Type))

	switch {
	case kind == "checkbox" || kind == "boolean":
		def := strings.EqualFold(valueText(field.Value), "true")
		var out bool
		if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out); err != nil {
			return nil, err
		}
		return strconv.FormatBool(out), nil

	case kind == "select" || len(field.Options) > 0:
		prompt := &survey.Select{Message: message, Options: field.Options}
		if def := valueText(field.Value); def != "" {
			prompt.Default = def
		}
		var out string
		if err := survey.AskOne(prompt, &out); err != nil {
			return nil, err
		}
		return out, nil

	case kind == "textarea":
		var out string
		if err := survey.AskOne(&survey.Multiline{Message: message, Default: valueText(field.Value)}, &out); err != nil {
			return nil, err
		}
		return out, nil

	default:
		prompt := &survey.Input{Message: message, Default: valueText(field.Value)}
		var opts []survey.AskOpt
		if field.Required {
			opts = append(opts, survey.WithValidator(survey.Required))
		}
		var out string
		if err := survey.AskOne(prompt, &out, opts...); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// submitTarget resolves where the filled template goes: the template's own
// href when stamped, the collection href otherwise, both made absolute
// against the fetched URL.
func submitTarget(base *url.URL, doc *collection.Document, tpl collection.Template) (string, string) {
	method := strings.ToUpper(tpl.Method)
	if method == "" {
		method = http.MethodPost
	}
	href := tpl.Href
	if href == "" {
		href = doc.Collection.Href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return method, href
	}
	return method, base.ResolveReference(ref).String()
}

func submit(client *http.Client, method, target string, data []collection.TemplateData) (*collection.Document, int, error) {
	payload, err := json.Marshal(map[string]collection.Template{
		"template": {Data: data},
	})
	if err != nil {
		return nil, 0, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequest(method, target, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", collection.MediaType)
	req.Header.Set("Accept", collection.MediaType)

	res, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, res.StatusCode, nil
	}
	var doc collection.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode response: %w", err)
	}
	return &doc, res.StatusCode, nil
}

func valueText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
