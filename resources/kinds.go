package resources

import (
	"sort"
	"toloka-kit/domain/model"

	"github.com/samber/lo"
)

// Kind ties a resource name to its schema and to the constructor of its Go type.
type Kind struct {
	Name   string
	Schema *model.Schema
	// Parse builds the resource from server data.
	Parse func(values model.Mapping, opts ...model.Option) (model.Modeler, error)
}

var kinds = map[string]Kind{
	"training": {
		Name:   "training",
		Schema: TrainingSchema,
		Parse: func(values model.Mapping, opts ...model.Option) (model.Modeler, error) {
			t, err := ParseTraining(values, opts...)
			if err != nil {
				return nil, err
			}
			return t, nil
		},
	},
	"attachment": {
		Name:   "attachment",
		Schema: AttachmentSchema,
		Parse: func(values model.Mapping, opts ...model.Option) (model.Modeler, error) {
			return ParseAttachment(values, opts...)
		},
	},
	"owner": {
		Name:   "owner",
		Schema: OwnerSchema,
		Parse: func(values model.Mapping, opts ...model.Option) (model.Modeler, error) {
			o, err := model.Construct(OwnerSchema, values, append([]model.Option{model.FromServer()}, opts...)...)
			if err != nil {
				return nil, err
			}
			return &Owner{o}, nil
		},
	},
}

func LookupKind(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

func KindNames() []string {
	names := lo.Keys(kinds)
	sort.Strings(names)
	return names
}
