package resources

import (
	"time"
	"toloka-kit/domain/enum"
	"toloka-kit/domain/model"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

const (
	TrainingProjectID                      = "project_id"
	TrainingPrivateName                    = "private_name"
	TrainingMayContainAdultContent         = "may_contain_adult_content"
	TrainingAssignmentMaxDurationSeconds   = "assignment_max_duration_seconds"
	TrainingMixTasksInCreationOrder        = "mix_tasks_in_creation_order"
	TrainingShuffleTasksInTaskSuite        = "shuffle_tasks_in_task_suite"
	TrainingTrainingTasksInTaskSuiteCount  = "training_tasks_in_task_suite_count"
	TrainingTaskSuitesRequiredToPass       = "task_suites_required_to_pass"
	TrainingRetryTrainingAfterDays         = "retry_training_after_days"
	TrainingInheritedInstructions          = "inherited_instructions"
	TrainingPublicInstructions             = "public_instructions"
	TrainingMetadata                       = "metadata"
	TrainingOwner                          = "owner"
	TrainingID                             = "id"
	TrainingStatus                         = "status"
	TrainingLastCloseReason                = "last_close_reason"
	TrainingCreated                        = "created"
	TrainingLastStarted                    = "last_started"
	TrainingLastStopped                    = "last_stopped"
)

var (
	// TrainingStatuses can receive new values from the server.
	TrainingStatuses = enum.MustExtendable("Training.Status", "OPEN", "CLOSED", "ARCHIVED", "LOCKED")

	TrainingStatusOpen     = TrainingStatuses.Member("OPEN")
	TrainingStatusClosed   = TrainingStatuses.Member("CLOSED")
	TrainingStatusArchived = TrainingStatuses.Member("ARCHIVED")
	TrainingStatusLocked   = TrainingStatuses.Member("LOCKED")

	// TrainingCloseReasons explain why a training pool was closed last time.
	TrainingCloseReasons = enum.MustExtendable("Training.CloseReason",
		"MANUAL", "EXPIRED", "COMPLETED", "NOT_ENOUGH_BALANCE",
		"ASSIGNMENTS_LIMIT_EXCEEDED", "BLOCKED", "FOR_UPDATE",
	)

	CloseReasonManual                   = TrainingCloseReasons.Member("MANUAL")
	CloseReasonExpired                  = TrainingCloseReasons.Member("EXPIRED")
	CloseReasonCompleted                = TrainingCloseReasons.Member("COMPLETED")
	CloseReasonNotEnoughBalance         = TrainingCloseReasons.Member("NOT_ENOUGH_BALANCE")
	CloseReasonAssignmentsLimitExceeded = TrainingCloseReasons.Member("ASSIGNMENTS_LIMIT_EXCEEDED")
	CloseReasonBlocked                  = TrainingCloseReasons.Member("BLOCKED")
	CloseReasonForUpdate                = TrainingCloseReasons.Member("FOR_UPDATE")
)

// TrainingSchema describes a training pool: tasks with known solutions and hints
// used to teach Tolokers and to select those who pass.
var TrainingSchema = model.MustDefine("Training",
	model.Attr(TrainingProjectID, model.String, model.Required(), model.Rules("min=1")),
	model.Attr(TrainingPrivateName, model.String, model.Required(), model.Rules("min=1")),
	model.Attr(TrainingMayContainAdultContent, model.Bool, model.Required()),
	model.Attr(TrainingAssignmentMaxDurationSeconds, model.Int, model.Required(), model.Rules("gt=0")),
	model.Attr(TrainingMixTasksInCreationOrder, model.Bool, model.Default(false)),
	model.Attr(TrainingShuffleTasksInTaskSuite, model.Bool, model.Default(false)),
	model.Attr(TrainingTrainingTasksInTaskSuiteCount, model.Int, model.Required(), model.Rules("gt=0")),
	model.Attr(TrainingTaskSuitesRequiredToPass, model.Int, model.Required(), model.Rules("gt=0")),
	model.Attr(TrainingRetryTrainingAfterDays, model.Int, model.Rules("gte=0")),
	model.Attr(TrainingInheritedInstructions, model.Bool, model.Default(false)),
	model.Attr(TrainingPublicInstructions, model.String),
	model.Attr(TrainingMetadata, model.MapOf(model.ListOf(model.String))),
	model.Attr(TrainingOwner, model.ObjectOf(OwnerSchema)),

	model.Attr(TrainingID, model.String, model.Readonly()),
	model.Attr(TrainingStatus, model.Enum(TrainingStatuses), model.Readonly()),
	model.Attr(TrainingLastCloseReason, model.Enum(TrainingCloseReasons), model.Readonly()),
	model.Attr(TrainingCreated, model.DateTime, model.Readonly()),
	model.Attr(TrainingLastStarted, model.DateTime, model.Readonly()),
	model.Attr(TrainingLastStopped, model.DateTime, model.Readonly()),
)

type Training struct {
	*model.Object
}

// NewTraining returns an empty training pool to fill in before creating it.
func NewTraining() *Training {
	return &Training{model.New(TrainingSchema)}
}

// ConstructTraining builds a client-authored training pool; required attributes must be present.
func ConstructTraining(values model.Mapping, opts ...model.Option) (*Training, error) {
	o, err := model.Construct(TrainingSchema, values, opts...)
	if err != nil {
		return nil, err
	}
	return &Training{o}, nil
}

// ParseTraining builds a training pool from server data.
func ParseTraining(values model.Mapping, opts ...model.Option) (*Training, error) {
	return ConstructTraining(values, append([]model.Option{model.FromServer()}, opts...)...)
}

func DecodeTraining(data []byte, opts ...model.Option) (*Training, error) {
	o, err := model.Decode(TrainingSchema, data, append([]model.Option{model.FromServer()}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Training{o}, nil
}

func (t *Training) IsOpen() bool     { return t.Status() == TrainingStatusOpen }
func (t *Training) IsClosed() bool   { return t.Status() == TrainingStatusClosed }
func (t *Training) IsArchived() bool { return t.Status() == TrainingStatusArchived }
func (t *Training) IsLocked() bool   { return t.Status() == TrainingStatusLocked }

// Status is the zero Value when the server did not send one.
func (t *Training) Status() enum.Value {
	v, _ := model.Field[enum.Value](t.Object, TrainingStatus)
	return v
}

func (t *Training) LastCloseReason() enum.Value {
	v, _ := model.Field[enum.Value](t.Object, TrainingLastCloseReason)
	return v
}

func (t *Training) ID() string                   { return str(t.Object, TrainingID) }
func (t *Training) ProjectID() string            { return str(t.Object, TrainingProjectID) }
func (t *Training) PrivateName() string          { return str(t.Object, TrainingPrivateName) }
func (t *Training) PublicInstructions() string   { return str(t.Object, TrainingPublicInstructions) }
func (t *Training) MayContainAdultContent() bool { return flag(t.Object, TrainingMayContainAdultContent) }
func (t *Training) MixTasksInCreationOrder() bool {
	return flag(t.Object, TrainingMixTasksInCreationOrder)
}
func (t *Training) ShuffleTasksInTaskSuite() bool {
	return flag(t.Object, TrainingShuffleTasksInTaskSuite)
}
func (t *Training) InheritedInstructions() bool { return flag(t.Object, TrainingInheritedInstructions) }

func (t *Training) AssignmentMaxDuration() time.Duration {
	return time.Duration(num(t.Object, TrainingAssignmentMaxDurationSeconds)) * time.Second
}

func (t *Training) TrainingTasksInTaskSuiteCount() int {
	return num(t.Object, TrainingTrainingTasksInTaskSuiteCount)
}

func (t *Training) TaskSuitesRequiredToPass() int {
	return num(t.Object, TrainingTaskSuitesRequiredToPass)
}

// RetryTrainingAfterDays is false when the training skill never expires.
func (t *Training) RetryTrainingAfterDays() (int, bool) {
	return model.Field[int](t.Object, TrainingRetryTrainingAfterDays)
}

func (t *Training) Metadata() map[string][]string {
	raw, ok := model.Field[map[string]any](t.Object, TrainingMetadata)
	if !ok {
		return nil
	}
	return lo.MapValues(raw, func(v any, _ string) []string {
		items, _ := v.([]any)
		return lo.Map(items, func(item any, _ int) string {
			s, _ := item.(string)
			return s
		})
	})
}

func (t *Training) Owner() *Owner { return ownerOf(t.Object, TrainingOwner) }

func (t *Training) Created() time.Time     { return when(t.Object, TrainingCreated) }
func (t *Training) LastStarted() time.Time { return when(t.Object, TrainingLastStarted) }
func (t *Training) LastStopped() time.Time { return when(t.Object, TrainingLastStopped) }

func (t *Training) SetProjectID(id string) error { return t.Set(TrainingProjectID, id) }

func (t *Training) SetPrivateName(name string) error { return t.Set(TrainingPrivateName, name) }

func (t *Training) SetMayContainAdultContent(v bool) error {
	return t.Set(TrainingMayContainAdultContent, v)
}

func (t *Training) SetAssignmentMaxDuration(d time.Duration) error {
	return t.Set(TrainingAssignmentMaxDurationSeconds, int(d/time.Second))
}

func (t *Training) SetMixTasksInCreationOrder(v bool) error {
	return t.Set(TrainingMixTasksInCreationOrder, v)
}

func (t *Training) SetShuffleTasksInTaskSuite(v bool) error {
	return t.Set(TrainingShuffleTasksInTaskSuite, v)
}

func (t *Training) SetTrainingTasksInTaskSuiteCount(n int) error {
	return t.Set(TrainingTrainingTasksInTaskSuiteCount, n)
}

func (t *Training) SetTaskSuitesRequiredToPass(n int) error {
	return t.Set(TrainingTaskSuitesRequiredToPass, n)
}

func (t *Training) SetRetryTrainingAfterDays(days int) error {
	return t.Set(TrainingRetryTrainingAfterDays, days)
}

func (t *Training) SetInheritedInstructions(v bool) error {
	return t.Set(TrainingInheritedInstructions, v)
}

func (t *Training) SetPublicInstructions(html string) error {
	return t.Set(TrainingPublicInstructions, html)
}

func (t *Training) SetMetadata(metadata map[string][]string) error {
	return t.Set(TrainingMetadata, metadata)
}

func (t *Training) SetOwner(owner *Owner) error {
	if owner == nil {
		return t.Unset(TrainingOwner)
	}
	return t.Set(TrainingOwner, owner)
}

// InstructionsLanguage guesses the ISO 639-1 language of the public instructions.
// It is false when instructions are inherited, empty, or too short to tell.
func (t *Training) InstructionsLanguage() (string, bool) {
	text := t.PublicInstructions()
	if t.InheritedInstructions() || text == "" {
		return "", false
	}
	info := whatlanggo.Detect(stripMarkup(text))
	if !info.IsReliable() {
		return "", false
	}
	return info.Lang.Iso6391(), true
}
