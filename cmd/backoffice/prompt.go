package main

import (
	"github.com/AlecAivazis/survey/v2"

	"github.com/splinxplanet/go-backoffice/pkg/form"
	"github.com/splinxplanet/go-backoffice/pkg/resource"
)

// promptForm walks the schema and fills the form session from terminal
// prompts. Values come back as strings; the form engine does the kind
// checking so the prompts stay dumb.
func promptForm(sess *form.Session, schema resource.FieldSchema) error {
	return promptFields(sess, schema, "")
}

func promptFields(sess *form.Session, schema resource.FieldSchema, prefix string) error {
	values := sess.Values()
	for _, spec := range schema {
		path := spec.Name
		if prefix != "" {
			path = prefix + "." + spec.Name
		}

		if spec.Kind == resource.FieldGroup {
			if err := promptFields(sess, resource.FieldSchema(spec.Nested), path); err != nil {
				return err
			}
			continue
		}

		current := values.StringValue(path)
		answer, err := askField(spec, current)
		if err != nil {
			return err
		}
		sess.SetValue(path, answer)
	}
	return nil
}

func askField(spec resource.FieldSpec, current string) (string, error) {
	label := spec.DisplayLabel()
	var answer string

	switch {
	case spec.Kind == resource.FieldSelect:
		prompt := &survey.Select{
			Message: label,
			Options: spec.Options,
		}
		for _, option := range spec.Options {
			if option == current {
				prompt.Default = current
				break
			}
		}
		err := survey.AskOne(prompt, &answer)
		return answer, err
	case spec.Secret:
		// Never echo the stored value back; blank keeps the old secret.
		err := survey.AskOne(&survey.Password{Message: label}, &answer)
		return answer, err
	default:
		err := survey.AskOne(&survey.Input{Message: label, Default: current}, &answer)
		return answer, err
	}
}
