package resources

import (
	"time"
	"toloka-kit/domain/enum"
	"toloka-kit/domain/mimetypes"
	"toloka-kit/domain/model"
)

const (
	AttachmentType      = "attachment_type"
	AttachmentID        = "id"
	AttachmentName      = "name"
	AttachmentDetails   = "details"
	AttachmentCreated   = "created"
	AttachmentMediaType = "media_type"
	AttachmentOwner     = "owner"

	DetailsUserID       = "user_id"
	DetailsAssignmentID = "assignment_id"
	DetailsPoolID       = "pool_id"
)

var (
	AttachmentTypes = enum.MustFixed("Attachment.Type", "ASSIGNMENT_ATTACHMENT")

	AssignmentAttachmentType = AttachmentTypes.Member("ASSIGNMENT_ATTACHMENT")

	// AttachmentDetailsSchema tells which pool, assignment and user a file came from.
	AttachmentDetailsSchema = model.MustDefine("Attachment.Details",
		model.Attr(DetailsUserID, model.String),
		model.Attr(DetailsAssignmentID, model.String),
		model.Attr(DetailsPoolID, model.String),
	)

	// AttachmentSchema describes a file uploaded by a Toloker and kept by the platform.
	// Its concrete model is chosen by attachment_type.
	AttachmentSchema = model.MustDefinePolymorphic("Attachment", AttachmentType, AttachmentTypes,
		model.Attr(AttachmentID, model.String),
		model.Attr(AttachmentName, model.String),
		model.Attr(AttachmentDetails, model.ObjectOf(AttachmentDetailsSchema)),
		model.Attr(AttachmentCreated, model.DateTime),
		model.Attr(AttachmentMediaType, model.String),
		model.Attr(AttachmentOwner, model.ObjectOf(OwnerSchema)),
	)

	AssignmentAttachmentSchema = model.MustVariant(AttachmentSchema, AssignmentAttachmentType, "AssignmentAttachment")
)

// AttachmentVariant is implemented by Attachment and every concrete attachment.
type AttachmentVariant interface {
	model.Modeler
	Base() *Attachment
}

type Attachment struct {
	*model.Object
}

// AssignmentAttachment is a file attached to a task suite assignment.
type AssignmentAttachment struct {
	Attachment
}

// UploadDetails tells which pool, assignment and user an attachment came from.
type UploadDetails struct {
	*model.Object
}

// attachmentKinds builds the Go type of each registered variant.
var attachmentKinds = map[*model.Schema]func(*model.Object) AttachmentVariant{
	AssignmentAttachmentSchema: func(o *model.Object) AttachmentVariant {
		return &AssignmentAttachment{Attachment{o}}
	},
}

func wrapAttachment(o *model.Object) AttachmentVariant {
	if wrap, ok := attachmentKinds[o.Schema()]; ok {
		return wrap(o)
	}
	return &Attachment{o}
}

// ParseAttachment builds an attachment from server data. The result is an
// *AssignmentAttachment for ASSIGNMENT_ATTACHMENT and a plain *Attachment for
// types this client does not know.
func ParseAttachment(values model.Mapping, opts ...model.Option) (AttachmentVariant, error) {
	o, err := model.Construct(AttachmentSchema, values, append([]model.Option{model.FromServer()}, opts...)...)
	if err != nil {
		return nil, err
	}
	return wrapAttachment(o), nil
}

func DecodeAttachment(data []byte, opts ...model.Option) (AttachmentVariant, error) {
	o, err := model.Decode(AttachmentSchema, data, append([]model.Option{model.FromServer()}, opts...)...)
	if err != nil {
		return nil, err
	}
	return wrapAttachment(o), nil
}

func NewAssignmentAttachment() *AssignmentAttachment {
	return &AssignmentAttachment{Attachment{model.New(AssignmentAttachmentSchema)}}
}

func (a *Attachment) Base() *Attachment { return a }

func (a *Attachment) Type() enum.Value {
	v, _ := model.Field[enum.Value](a.Object, AttachmentType)
	return v
}

func (a *Attachment) ID() string         { return str(a.Object, AttachmentID) }
func (a *Attachment) Name() string       { return str(a.Object, AttachmentName) }
func (a *Attachment) MediaType() string  { return str(a.Object, AttachmentMediaType) }
func (a *Attachment) Created() time.Time { return when(a.Object, AttachmentCreated) }
func (a *Attachment) Owner() *Owner      { return ownerOf(a.Object, AttachmentOwner) }

func (a *Attachment) Details() *UploadDetails {
	nested, ok := model.Field[*model.Object](a.Object, AttachmentDetails)
	if !ok {
		return nil
	}
	return &UploadDetails{nested}
}

func (a *Attachment) SetID(id string) error         { return a.Set(AttachmentID, id) }
func (a *Attachment) SetName(name string) error     { return a.Set(AttachmentName, name) }
func (a *Attachment) SetMediaType(mt string) error  { return a.Set(AttachmentMediaType, mt) }
func (a *Attachment) SetCreated(at time.Time) error { return a.Set(AttachmentCreated, at) }

func (a *Attachment) SetOwner(owner *Owner) error {
	if owner == nil {
		return a.Unset(AttachmentOwner)
	}
	return a.Set(AttachmentOwner, owner)
}

func (a *Attachment) SetDetails(d *UploadDetails) error {
	if d == nil {
		return a.Unset(AttachmentDetails)
	}
	return a.Set(AttachmentDetails, d)
}

// MatchesContent tells whether downloaded content looks like the declared media type.
func (a *Attachment) MatchesContent(content []byte) bool {
	return mimetypes.Matches(content, a.MediaType())
}

func NewAttachmentDetails(userID, assignmentID, poolID string) (*UploadDetails, error) {
	o, err := model.Construct(AttachmentDetailsSchema, model.Mapping{
		DetailsUserID:       userID,
		DetailsAssignmentID: assignmentID,
		DetailsPoolID:       poolID,
	})
	if err != nil {
		return nil, err
	}
	return &UploadDetails{o}, nil
}

func (d *UploadDetails) UserID() string       { return str(d.Object, DetailsUserID) }
func (d *UploadDetails) AssignmentID() string { return str(d.Object, DetailsAssignmentID) }
func (d *UploadDetails) PoolID() string       { return str(d.Object, DetailsPoolID) }
