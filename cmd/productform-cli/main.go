package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	productform "github.com/goliatone/go-productform"
	"github.com/goliatone/go-productform/pkg/client"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/tabs"
	"github.com/goliatone/go-productform/pkg/template"
)

// fileTemplates serves one YAML template definition for every product type,
// letting the form run against a local file instead of the template service.
type fileTemplates struct {
	path string
}

func (f fileTemplates) Template(_ context.Context, productTypeID string) (*model.TypeTemplate, error) {
	tpl, err := template.LoadTemplate(f.path)
	if err != nil {
		return nil, err
	}
	tpl.ID = productTypeID
	return tpl, nil
}

func main() {
	base := flag.String("base", "http://localhost:8080", "service base URL")
	id := flag.String("id", "", "product id to edit (create when empty)")
	templatePath := flag.String("template", "", "YAML template file (overrides the template service)")
	flag.Parse()

	ctx := context.Background()

	svc := client.New(*base)
	var sess *productform.Session
	if *templatePath != "" {
		sess = productform.NewSession(svc, fileTemplates{path: *templatePath}, svc)
	} else {
		sess = productform.New(svc)
	}

	if err := sess.Load(ctx, *id); err != nil {
		if errors.Is(err, productform.ErrNotFound) {
			log.Fatalf("product %q not found", *id)
		}
		log.Fatalf("load product: %v", err)
	}

	if err := runForm(ctx, sess); err != nil {
		log.Fatalf("form aborted: %v", err)
	}
}

func runForm(ctx context.Context, sess *productform.Session) error {
	if err := askBasics(ctx, sess); err != nil {
		return err
	}
	sess.ChangeTab(tabs.SectionConfiguration)
	if err := askConfiguration(sess); err != nil {
		return err
	}
	sess.ChangeTab(tabs.SectionSpecification)
	if err := askSpecification(sess); err != nil {
		return err
	}
	sess.ChangeTab(tabs.SectionImages)

	return submitLoop(ctx, sess)
}

func askBasics(ctx context.Context, sess *productform.Session) error {
	values := sess.Values()

	answers := struct {
		Name        string
		Code        string
		Description string
	}{Name: values.Name, Code: values.Code, Description: values.Description}

	questions := []*survey.Question{
		{Name: "name", Prompt: &survey.Input{Message: "Product name:", Default: values.Name}},
		{Name: "code", Prompt: &survey.Input{Message: "Temporary code:", Default: values.Code}},
		{Name: "description", Prompt: &survey.Input{Message: "Description:", Default: values.Description}},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	sess.SetField("name", func(v *model.FormValues) { v.Name = answers.Name })
	sess.SetField("code", func(v *model.FormValues) { v.Code = answers.Code })
	sess.SetField("description", func(v *model.FormValues) { v.Description = answers.Description })

	var productTypeID string
	if err := survey.AskOne(&survey.Input{
		Message: "Product type id:",
		Default: values.ProductTypeValue(),
	}, &productTypeID); err != nil {
		return err
	}
	if productTypeID != "" {
		ref := model.Ref{Value: productTypeID, Label: productTypeID}
		if err := sess.SetProductType(ctx, &ref); err != nil {
			fmt.Fprintf(os.Stderr, "warning: template fetch failed: %v\n", err)
		}
	}
	return nil
}

func askConfiguration(sess *productform.Session) error {
	values := sess.Values()

	var gst string
	if err := survey.AskOne(&survey.Input{Message: "GST:", Default: values.GST}, &gst); err != nil {
		return err
	}
	sess.SetField("gst", func(v *model.FormValues) { v.GST = gst })

	labels := make([]string, 0, len(model.Statuses))
	byLabel := make(map[string]string, len(model.Statuses))
	for _, status := range model.Statuses {
		labels = append(labels, status.Label)
		byLabel[status.Label] = status.Value
	}
	var picked string
	if err := survey.AskOne(&survey.Select{Message: "Status:", Options: labels}, &picked); err != nil {
		return err
	}
	sess.SetField("status", func(v *model.FormValues) { v.Status = byLabel[picked] })

	var exclude bool
	if err := survey.AskOne(&survey.Confirm{
		Message: "Exclude product specification?",
		Default: values.ExcludeProductSpec,
	}, &exclude); err != nil {
		return err
	}
	sess.SetExcludeSpec(exclude)
	return nil
}

func askSpecification(sess *productform.Session) error {
	values := sess.Values()

	var size1, size2 string
	if err := survey.AskOne(&survey.Input{Message: "Size 1:", Default: values.Size1}, &size1); err != nil {
		return err
	}
	if err := survey.AskOne(&survey.Input{Message: "Size 2:", Default: values.Size2}, &size2); err != nil {
		return err
	}
	sess.SetField("specification.size1", func(v *model.FormValues) { v.Size1 = size1 })
	sess.SetField("specification.size2", func(v *model.FormValues) { v.Size2 = size2 })

	for _, field := range sess.ActiveFields() {
		value, err := askSpecField(field, values.Specification[field.FieldName])
		if err != nil {
			return err
		}
		sess.SetSpecValue(field.FieldName, value)
	}
	return nil
}

func askSpecField(field model.SpecField, prev model.FieldValue) (model.FieldValue, error) {
	if field.FieldType != model.FieldTypeSelect || len(field.Options) == 0 {
		var text string
		if err := survey.AskOne(&survey.Input{Message: field.FieldName + ":"}, &text); err != nil {
			return model.FieldValue{}, err
		}
		return model.FieldValue{
			Supplier:         model.SupplierText(text),
			Client:           field.ClientDescriptionFor(text),
			ArtworkDimension: field.ArtworkDimension,
		}, nil
	}

	labels := make([]string, 0, len(field.Options))
	for _, opt := range field.Options {
		labels = append(labels, opt.SupplierDescription)
	}

	if field.Multiple {
		var picked []string
		if err := survey.AskOne(&survey.MultiSelect{Message: field.FieldName + ":", Options: labels}, &picked); err != nil {
			return model.FieldValue{}, err
		}
		return model.ApplyMultiSelection(field, prev, picked), nil
	}

	var picked string
	if err := survey.AskOne(&survey.Select{Message: field.FieldName + ":", Options: labels}, &picked); err != nil {
		return model.FieldValue{}, err
	}
	return model.ApplySelection(field, prev, picked), nil
}

func submitLoop(ctx context.Context, sess *productform.Session) error {
	err := sess.Submit(ctx)
	if err == nil {
		fmt.Println("Product saved.")
		return nil
	}

	var valErr *productform.ValidationError
	if !errors.As(err, &valErr) {
		return err
	}

	fmt.Fprintln(os.Stderr, "Validation failed:")
	flat := valErr.Errors.Flatten()
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", path, flat[path])
	}

	var retry bool
	if err := survey.AskOne(&survey.Confirm{Message: "Edit and retry?", Default: true}, &retry); err != nil {
		return err
	}
	if !retry {
		return errors.New("submission cancelled")
	}
	return runForm(ctx, sess)
}
