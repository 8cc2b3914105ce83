package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"toloka-kit/domain/model"
	"toloka-kit/errors"
	"toloka-kit/repositories"
	"toloka-kit/resources"

	"github.com/samber/lo"
)

type ICatalogService interface {
	Parse(kind string, payload []byte) (model.Modeler, error)
	Ingest(kind string, payload []byte) (model.Modeler, error)
	Get(kind, id string) (model.Modeler, error)
	List(kind string) ([]model.Modeler, error)
	Describe(resource model.Modeler) []AttributeRow
}

// AttributeRow is one line of a resource description.
type AttributeRow struct {
	Name     string
	WireName string
	Type     string
	Value    string
	Set      bool
	Required bool
	Readonly bool
	Unknown  bool
}

type CatalogService struct {
	log        *slog.Logger
	repository repositories.IResourceRepository
}

func NewCatalogService(log *slog.Logger, repository repositories.IResourceRepository) *CatalogService {
	return &CatalogService{log: log, repository: repository}
}

// Parse decodes a server payload of the given kind into its concrete Go type.
func (s CatalogService) Parse(kind string, payload []byte) (model.Modeler, error) {
	k, ok := resources.LookupKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownKind, kind)
	}

	// 1. Find the concrete model from the discriminator alone
	concrete, known, err := model.Peek(k.Schema, payload)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Payload peeked", "kind", kind, "model", concrete.Name(), "registered", known)

	// 2. Decode and construct it
	mapping, err := model.DecodeMapping(k.Schema, payload)
	if err != nil {
		return nil, err
	}
	resource, err := k.Parse(mapping, model.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	if unknown := resource.Model().Unknown(); len(unknown) > 0 {
		s.log.Debug("Payload carries attributes this client does not know",
			"kind", kind, "keys", lo.Keys(unknown))
	}
	return resource, nil
}

// Ingest parses a payload and stores it.
func (s CatalogService) Ingest(kind string, payload []byte) (model.Modeler, error) {
	resource, err := s.Parse(kind, payload)
	if err != nil {
		return nil, err
	}
	if err = s.repository.StoreResource(kind, resource); err != nil {
		return nil, err
	}
	s.log.Info("Resource ingested", "kind", kind, "model", resource.Model().Schema().Name())
	return resource, nil
}

func (s CatalogService) Get(kind, id string) (model.Modeler, error) {
	return s.repository.GetResource(kind, id)
}

func (s CatalogService) List(kind string) ([]model.Modeler, error) {
	return s.repository.ListResources(kind)
}

// Describe lists every attribute of the resource model, set or not, then the
// unknown keys it was built with.
func (s CatalogService) Describe(resource model.Modeler) []AttributeRow {
	o := resource.Model()
	mapping := o.ToMapping()
	rows := lo.Map(o.Schema().Attributes(), func(a model.Attribute, _ int) AttributeRow {
		v, set := mapping[a.WireName()]
		return AttributeRow{
			Name:     a.Name,
			WireName: a.WireName(),
			Type:     a.Type.String(),
			Value:    render(v, set),
			Set:      set,
			Required: a.Required,
			Readonly: a.Readonly,
		}
	})

	unknown := o.Unknown()
	keys := lo.Keys(unknown)
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, AttributeRow{
			Name:     k,
			WireName: k,
			Type:     "?",
			Value:    render(unknown[k], true),
			Set:      true,
			Unknown:  true,
		})
	}
	return rows
}

func render(v any, set bool) string {
	if !set {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
