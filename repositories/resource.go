//go:generate go run go.uber.org/mock/mockgen -source=resource.go -destination=../mocks/mock_resource_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"toloka-kit/domain/model"
	"toloka-kit/errors"
	"toloka-kit/resources"

	"github.com/dgraph-io/badger/v4"
)

const resourcePrefix = "res:"

type IResourceRepository interface {
	StoreResource(kind string, resource model.Modeler) error
	GetResource(kind, id string) (model.Modeler, error)
	ListResources(kind string) ([]model.Modeler, error)
	DeleteResource(kind, id string) error
}

type ResourceRepository struct {
	db             *badger.DB
	log            *slog.Logger
	limitResources *int
}

func NewResourceRepository(db *badger.DB, log *slog.Logger, limitResources *int) ResourceRepository {
	return ResourceRepository{db: db, log: log, limitResources: limitResources}
}

// ResourceKey is formatted as "res:{kind}:{id}" so that a prefix scan lists one kind.
func ResourceKey(kind, id string) string {
	return fmt.Sprintf("%s%s:%s", resourcePrefix, kind, id)
}

func KindPrefix(kind string) string {
	return resourcePrefix + kind + ":"
}

// StoreResource persists the wire form of a resource, keys in attribute order.
// Unknown keys received from the server are stored too.
func (r ResourceRepository) StoreResource(kind string, resource model.Modeler) error {
	k, ok := resources.LookupKind(kind)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownKind, kind)
	}
	o := resource.Model()
	if !o.Schema().Is(k.Schema) {
		return &errors.ValidationError{
			Model:  k.Schema.Name(),
			Reason: fmt.Sprintf("cannot store %s as %s", o.Schema().Name(), kind),
			Err:    errors.ErrWrongType,
		}
	}
	id, _ := model.Field[string](o, "id")
	if id == "" {
		return fmt.Errorf("%w: %s", errors.ErrMissingID, o.Schema().Name())
	}
	bytes, err := o.MarshalJSON()
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(ResourceKey(kind, id)), bytes)
	})
}

// GetResource loads a resource and dispatches it to its concrete Go type again.
func (r ResourceRepository) GetResource(kind, id string) (model.Modeler, error) {
	k, ok := resources.LookupKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownKind, kind)
	}
	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(ResourceKey(kind, id)))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errors.ErrResourceNotFound, ResourceKey(kind, id))
	}
	if err != nil {
		return nil, err
	}
	return r.decode(k, value)
}

// ListResources returns the resources of a kind ordered by id.
// It stops once the configured limitResources is reached.
func (r ResourceRepository) ListResources(kind string) ([]model.Modeler, error) {
	k, ok := resources.LookupKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownKind, kind)
	}
	var values [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(KindPrefix(kind))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if r.limitResources != nil && len(values) == *r.limitResources {
				r.log.Debug(fmt.Sprintf("Maximum of %d resources reached", *r.limitResources))
				break
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	list := make([]model.Modeler, 0, len(values))
	for _, value := range values {
		resource, err := r.decode(k, value)
		if err != nil {
			return nil, err
		}
		list = append(list, resource)
	}
	return list, nil
}

func (r ResourceRepository) DeleteResource(kind, id string) error {
	if _, ok := resources.LookupKind(kind); !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownKind, kind)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(ResourceKey(kind, id)))
	})
}

func (r ResourceRepository) decode(k resources.Kind, value []byte) (model.Modeler, error) {
	mapping, err := model.DecodeMapping(k.Schema, value)
	if err != nil {
		return nil, err
	}
	return k.Parse(mapping, model.WithLogger(r.log))
}
