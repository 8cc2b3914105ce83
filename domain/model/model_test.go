package model

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
	"toloka-kit/domain/enum"
	"toloka-kit/errors"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	state    = enum.MustExtendable("State", "ACTIVE", "PAUSED")
	petKind  = enum.MustFixed("PetKind", "DOG", "CAT", "FISH")
	tagModel = MustDefine("Tag",
		Attr("label", String),
		Attr("weight", Float),
	)
	taskModel = MustDefine("Task",
		Attr("project_id", String, Required()),
		Attr("title", String, Origin("name")),
		Attr("overlap", Int, Rules("gte=1"), Default(1)),
		Attr("urgent", Bool, Default(false)),
		Attr("tags", ListOf(ObjectOf(tagModel))),
		Attr("metadata", MapOf(ListOf(String))),
		Attr("id", String, Readonly()),
		Attr("state", Enum(state), Readonly()),
		Attr("created", DateTime, Readonly()),
	)
	petModel = MustDefinePolymorphic("Pet", "kind", petKind,
		Attr("id", String),
		Attr("name", String),
	)
	dogModel = MustVariant(petModel, petKind.Member("DOG"), "Dog",
		Attr("good_boy", Bool),
	)
	catModel = MustVariant(petModel, petKind.Member("CAT"), "Cat")
)

func serverTask() Mapping {
	return Mapping{
		"project_id": "42",
		"name":       "label the cats",
		"overlap":    json.Number("3"),
		"urgent":     true,
		"tags": []any{
			Mapping{"label": "animals", "weight": json.Number("0.5")},
		},
		"metadata": Mapping{"team": []any{"a", "b"}},
		"id":       "task-1",
		"state":    "ACTIVE",
		"created":  "2016-03-29T10:54:59.437",
	}
}

func TestAttribute_DefinitionErrors(t *testing.T) {
	tests := []struct {
		description string
		attrs       []Attribute
	}{
		{"required with default", []Attribute{Attr("a", Int, Required(), Default(1))}},
		{"readonly and required", []Attribute{Attr("a", Int, Required(), Readonly())}},
		{"default and default factory", []Attribute{Attr("a", Int, Default(1), DefaultFactory(func() any { return 2 }))}},
		{"default of the wrong type", []Attribute{Attr("a", Int, Default("one"))}},
		{"unknown rule", []Attribute{Attr("a", Int, Rules("no_such_rule"))}},
		{"declared twice", []Attribute{Attr("a", Int), Attr("a", String)}},
		{"wire name collision", []Attribute{Attr("a", Int), Attr("b", Int, Origin("a"))}},
		{"empty name", []Attribute{Attr("", Int)}},
		{"incomplete type", []Attribute{Attr("a", Type{kind: KindEnum})}},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := Define("Broken", tt.attrs...)
			require.ErrorIs(t, err, errors.ErrDefinition)
			require.Panics(t, func() { MustDefine("Broken", tt.attrs...) })
		})
	}
}

func TestSchema_Extend_OverridesInPlace(t *testing.T) {
	req := require.New(t)
	child, err := Extend(tagModel, "HeavyTag",
		Attr("weight", Float, Required()),
		Attr("color", String),
	)
	req.NoError(err)
	req.Equal([]string{"label", "weight", "color"}, child.AttributeNames())
	a, ok := child.Attribute("weight")
	req.True(ok)
	req.True(a.Required)
	req.True(child.Is(tagModel))
	req.False(tagModel.Is(child))
}

func TestDispatch_DefinitionErrors(t *testing.T) {
	req := require.New(t)

	// Given DOG is already bound to Dog
	_, err := Variant(petModel, petKind.Member("DOG"), "Puppy")
	req.ErrorIs(err, errors.ErrDefinition)

	// A value of another vocabulary
	_, err = Variant(petModel, state.Member("ACTIVE"), "Active")
	req.ErrorIs(err, errors.ErrDefinition)

	// A model without discriminator
	_, err = Variant(tagModel, petKind.Member("FISH"), "Fish")
	req.ErrorIs(err, errors.ErrDefinition)

	// Variants cannot redeclare the discriminator
	_, err = Variant(petModel, petKind.Member("FISH"), "Fish", Attr("kind", Enum(petKind)))
	req.ErrorIs(err, errors.ErrDefinition)

	// Discriminator declared with another type
	_, err = DefinePolymorphic("Broken", "kind", petKind, Attr("kind", String))
	req.ErrorIs(err, errors.ErrDefinition)
}

func TestConstruct_FromServer_RoundTrip(t *testing.T) {
	req := require.New(t)

	task, err := Construct(taskModel, serverTask(), FromServer())
	req.NoError(err)

	title, ok := Field[string](task, "title")
	req.True(ok)
	req.Equal("label the cats", title)

	overlap, _ := Field[int](task, "overlap")
	req.Equal(3, overlap)

	created, _ := Field[time.Time](task, "created")
	req.Equal(time.Date(2016, 3, 29, 10, 54, 59, 437000000, time.UTC), created)

	st, _ := Field[enum.Value](task, "state")
	req.Equal(state.Member("ACTIVE"), st)

	mapping := task.ToMapping()
	req.Equal("label the cats", mapping["name"])
	req.NotContains(mapping, "title")
	req.Equal("2016-03-29T10:54:59.437", mapping["created"])
	req.Equal("ACTIVE", mapping["state"])

	again, err := Construct(taskModel, mapping, FromServer())
	req.NoError(err)
	req.True(task.Equal(again), "%s != %s", task, again)
}

func TestConstruct_Client_MissingRequired(t *testing.T) {
	req := require.New(t)

	_, err := Construct(taskModel, Mapping{"name": "no project"})

	req.ErrorIs(err, errors.ErrValidation)
	req.ErrorIs(err, errors.ErrMissingField)
	var ve *errors.ValidationError
	req.ErrorAs(err, &ve)
	req.Equal([]string{"project_id"}, ve.Fields)
	req.Contains(err.Error(), "project_id")
}

func TestConstruct_Client_RejectsReadonlyKeys(t *testing.T) {
	req := require.New(t)

	_, err := Construct(taskModel, Mapping{"project_id": "42", "id": "forged"})

	req.ErrorIs(err, errors.ErrReadonlyKey)
}

func TestConstruct_Server_ToleratesMissingFields(t *testing.T) {
	req := require.New(t)

	task, err := Construct(taskModel, Mapping{"id": "task-1"}, FromServer())

	req.NoError(err)
	req.False(task.Has("project_id"))
	req.Error(task.Complete())
}

func TestConstruct_AppliesDefaults(t *testing.T) {
	req := require.New(t)

	task, err := Construct(taskModel, Mapping{"project_id": "42"})
	req.NoError(err)

	overlap, _ := Field[int](task, "overlap")
	req.Equal(1, overlap)
	urgent, ok := Field[bool](task, "urgent")
	req.True(ok)
	req.False(urgent)
	req.False(task.Has("tags"))
}

func TestConstruct_WrongTypes(t *testing.T) {
	tests := []struct {
		description string
		key         string
		value       any
		cause       error
	}{
		{"string for an int", "overlap", "three", errors.ErrWrongType},
		{"fractional int", "overlap", 2.5, errors.ErrWrongType},
		{"rule violated", "overlap", 0, errors.ErrConstraint},
		{"bool as string", "urgent", "yes", errors.ErrWrongType},
		{"list of wrong items", "tags", []any{"x"}, errors.ErrWrongType},
		{"map of wrong values", "metadata", Mapping{"k": "v"}, errors.ErrWrongType},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := Construct(taskModel, Mapping{"project_id": "42", tt.key: tt.value})
			require.ErrorIs(t, err, errors.ErrValidation)
			require.ErrorIs(t, err, tt.cause)
		})
	}
}

func TestConstruct_NestedErrorsCarryPath(t *testing.T) {
	req := require.New(t)

	_, err := Construct(taskModel, Mapping{
		"project_id": "42",
		"tags":       []any{Mapping{"weight": "heavy"}},
	})

	var ve *errors.ValidationError
	req.ErrorAs(err, &ve)
	req.Equal([]string{"tags.weight"}, ve.Fields)
}

func TestConstruct_UnknownKeysRoundTrip(t *testing.T) {
	req := require.New(t)
	payload := serverTask()
	payload["future_field"] = Mapping{"nested": []any{json.Number("1")}}

	task, err := Construct(taskModel, payload, FromServer())
	req.NoError(err)

	req.Equal(Mapping{"future_field": Mapping{"nested": []any{json.Number("1")}}}, task.Unknown())
	mapping := task.ToMapping()
	req.Equal(payload["future_field"], mapping["future_field"])

	again, err := Construct(taskModel, mapping, FromServer())
	req.NoError(err)
	req.True(task.Equal(again))
}

func TestObject_Set(t *testing.T) {
	req := require.New(t)
	task := New(taskModel)

	// ISO strings are coerced for datetime attributes
	req.NoError(task.Set("project_id", "42"))
	req.NoError(task.Set("overlap", int64(5)))
	overlap, _ := Field[int](task, "overlap")
	req.Equal(5, overlap)

	// Nested mappings become objects
	req.NoError(task.Set("tags", []map[string]any{{"label": "x"}}))
	tags, ok := Field[[]any](task, "tags")
	req.True(ok)
	req.IsType(&Object{}, tags[0])

	// Wrong types fail and keep the previous value
	err := task.Set("overlap", "many")
	req.ErrorIs(err, errors.ErrWrongType)
	overlap, _ = Field[int](task, "overlap")
	req.Equal(5, overlap)

	// nil unsets
	req.NoError(task.Set("overlap", nil))
	req.False(task.Has("overlap"))

	// Unknown attributes
	req.ErrorIs(task.Set("nope", 1), errors.ErrUnknownField)
}

type taggedObject struct{ *Object }

func TestObject_Set_NilEmbeddingUnsets(t *testing.T) {
	req := require.New(t)
	labelled := MustDefine("Labelled", Attr("tag", ObjectOf(tagModel)))
	o := New(labelled)
	req.NoError(o.Set("tag", New(tagModel)))

	var nilTag *taggedObject
	req.NotPanics(func() { req.NoError(o.Set("tag", nilTag)) })
	req.False(o.Has("tag"))

	_, err := Construct(labelled, Mapping{"tag": nilTag})
	req.NoError(err)
}

func TestObject_Set_IntegerKinds(t *testing.T) {
	tests := []struct {
		description string
		value       any
		expected    int
		wrongType   bool
	}{
		{"uint", uint(3), 3, false},
		{"uintptr", uintptr(4), 4, false},
		{"uint64", uint64(5), 5, false},
		{"whole float", 6.0, 6, false},
		{"json number", json.Number("7"), 7, false},
		{"uint64 above int64", uint64(1 << 63), 0, true},
		{"float above int64", 1e19, 0, true},
		{"float below int64", -1e19, 0, true},
		{"float at 2^63", 9223372036854775808.0, 0, true},
		{"json number above int64", json.Number("1e19"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			task := New(taskModel)

			err := task.Set("overlap", tt.value)

			if tt.wrongType {
				req.ErrorIs(err, errors.ErrWrongType)
				req.False(task.Has("overlap"))
				return
			}
			req.NoError(err)
			overlap, _ := Field[int](task, "overlap")
			req.Equal(tt.expected, overlap)
		})
	}
}

func TestDecode_RejectsOutOfRangeIntegers(t *testing.T) {
	for _, data := range []string{`{"overlap": 1e19}`, `{"overlap": -1e19}`, `{"overlap": 9223372036854775808}`} {
		t.Run(data, func(t *testing.T) {
			_, err := Decode(taskModel, []byte(data), FromServer())
			require.ErrorIs(t, err, errors.ErrValidation)
			require.ErrorIs(t, err, errors.ErrWrongType)
		})
	}
}

func TestConstruct_RulesBindClientValuesOnly(t *testing.T) {
	req := require.New(t)

	// Given a server value below the overlap rule
	task, err := Construct(taskModel, Mapping{"project_id": "42", "overlap": json.Number("0")}, FromServer())

	// Then it is kept as sent
	req.NoError(err)
	overlap, _ := Field[int](task, "overlap")
	req.Equal(0, overlap)

	// While the client still cannot write it
	req.ErrorIs(task.Set("overlap", 0), errors.ErrConstraint)
	_, err = Construct(taskModel, Mapping{"project_id": "42", "overlap": 0})
	req.ErrorIs(err, errors.ErrConstraint)
}

func TestObject_ReadonlyAttributesAreImmutable(t *testing.T) {
	task, err := Construct(taskModel, serverTask(), FromServer())
	require.NoError(t, err)

	for _, a := range taskModel.Attributes() {
		if !a.Readonly {
			continue
		}
		t.Run(a.Name, func(t *testing.T) {
			req := require.New(t)
			before, _ := task.Get(a.Name)

			err := task.Set(a.Name, before)
			req.ErrorIs(err, errors.ErrImmutable)
			var ie *errors.ImmutabilityError
			req.ErrorAs(err, &ie)
			req.Equal(a.Name, ie.Field)

			req.ErrorIs(task.Unset(a.Name), errors.ErrImmutable)
			after, _ := task.Get(a.Name)
			req.Equal(before, after)
		})
	}
}

func TestObject_Complete(t *testing.T) {
	req := require.New(t)
	task := New(taskModel)

	_, err := task.Outbound()
	req.ErrorIs(err, errors.ErrMissingField)

	req.NoError(task.Set("project_id", "42"))
	out, err := task.Outbound()
	req.NoError(err)
	req.Equal(Mapping{"project_id": "42", "overlap": 1, "urgent": false}, out)
}

func TestObject_EqualAndClone(t *testing.T) {
	req := require.New(t)
	task, err := Construct(taskModel, serverTask(), FromServer())
	req.NoError(err)

	clone := task.Clone()
	req.True(task.Equal(clone))

	req.NoError(clone.Set("title", "something else"))
	req.False(task.Equal(clone))

	// Same values under a different schema are not equal
	tag, _ := Construct(tagModel, Mapping{"label": "x"})
	other, _ := Construct(MustExtend(tagModel, "OtherTag"), Mapping{"label": "x"})
	req.False(tag.Equal(other))

	// Instants compare, not locations
	a := New(taskModel)
	b := New(taskModel)
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a.values["created"] = at
	b.values["created"] = at.In(time.FixedZone("X", 3600))
	req.True(a.Equal(b))
}

func TestObject_String(t *testing.T) {
	req := require.New(t)
	tag, err := Construct(tagModel, Mapping{"label": "x", "weight": 1.5, "extra": true})
	req.NoError(err)

	req.Equal(`Tag(label="x", weight=1.5, extra=true)`, tag.String())
}

func TestDispatch_SelectsVariant(t *testing.T) {
	req := require.New(t)

	pet, err := Construct(petModel, Mapping{"kind": "DOG", "id": "p1", "good_boy": true}, FromServer())
	req.NoError(err)
	req.Same(dogModel, pet.Schema())
	_, unresolved := pet.UnresolvedVariant()
	req.False(unresolved)

	kind, _ := Field[enum.Value](pet, "kind")
	req.Equal(petKind.Member("DOG"), kind)

	// The discriminator of a variant never changes
	req.ErrorIs(pet.Set("kind", "CAT"), errors.ErrImmutable)
}

func TestDispatch_UnknownValueFallsBackToBase(t *testing.T) {
	req := require.New(t)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	pet, err := Construct(petModel, Mapping{"kind": "PARROT", "id": "p2"}, FromServer(), WithLogger(log))

	req.NoError(err)
	req.Same(petModel, pet.Schema())
	value, unresolved := pet.UnresolvedVariant()
	req.True(unresolved)
	req.Equal("PARROT", value)
	req.Contains(logs.String(), "PARROT")

	// The unknown discriminator round-trips
	req.Equal("PARROT", pet.ToMapping()["kind"])
	again, err := Construct(petModel, pet.ToMapping(), FromServer())
	req.NoError(err)
	req.True(pet.Equal(again))
}

func TestDispatch_KnownValueWithoutVariantFallsBack(t *testing.T) {
	req := require.New(t)

	pet, err := Construct(petModel, Mapping{"kind": "FISH"}, FromServer())

	req.NoError(err)
	req.Same(petModel, pet.Schema())
	kind, _ := Field[enum.Value](pet, "kind")
	req.True(kind.IsKnown())
}

func TestDispatch_VariantRejectsOtherTag(t *testing.T) {
	req := require.New(t)

	_, err := Construct(dogModel, Mapping{"kind": "CAT"}, FromServer())
	req.ErrorIs(err, errors.ErrValidation)

	_, err = Construct(catModel, Mapping{"kind": "PARROT"}, FromServer())
	req.ErrorIs(err, errors.ErrValidation)
}

func TestDispatch_ClientObjects(t *testing.T) {
	req := require.New(t)

	// New presets the tag of a variant
	dog := New(dogModel)
	req.Equal("DOG", dog.ToMapping()["kind"])

	// A client mapping may carry the discriminator
	cat, err := Construct(petModel, Mapping{"kind": "CAT", "name": "Tom"})
	req.NoError(err)
	req.Same(catModel, cat.Schema())
	req.Equal([]*Schema{dogModel, catModel}, petModel.Variants())
}

func TestDecode_KeepsNumbersAndOrder(t *testing.T) {
	req := require.New(t)
	data := []byte(`{"project_id":"42","name":"t","overlap":2,"urgent":false,"id":"x","big":12345678901234567890}`)

	task, err := Decode(taskModel, data, FromServer())
	req.NoError(err)

	out, err := json.Marshal(task)
	req.NoError(err)
	req.Equal(string(data), string(out))
}

func TestDecode_RejectsNonObjects(t *testing.T) {
	req := require.New(t)

	_, err := Decode(taskModel, []byte(`[1, 2]`))
	req.ErrorIs(err, errors.ErrValidation)

	_, err = Decode(taskModel, []byte(`{"broken"`))
	req.ErrorIs(err, errors.ErrValidation)
}

func TestPeek(t *testing.T) {
	req := require.New(t)

	s, known, err := Peek(petModel, []byte(`{"id":"p","kind":"CAT"}`))
	req.NoError(err)
	req.True(known)
	req.Same(catModel, s)

	s, known, err = Peek(petModel, []byte(`{"kind":"PARROT"}`))
	req.NoError(err)
	req.False(known)
	req.Same(petModel, s)

	_, _, err = Peek(petModel, []byte(`{"kind":3}`))
	req.ErrorIs(err, errors.ErrWrongType)
}

func TestMarshalYAML_Ordered(t *testing.T) {
	req := require.New(t)
	task, err := Construct(taskModel, Mapping{
		"project_id": "42",
		"tags":       []any{Mapping{"label": "a"}},
	})
	req.NoError(err)

	out, err := yaml.Marshal(task)
	req.NoError(err)
	req.Equal("project_id: \"42\"\noverlap: 1\nurgent: false\ntags:\n    - label: a\n", string(out))
}
