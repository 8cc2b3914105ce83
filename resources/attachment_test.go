package resources

import (
	"bytes"
	"log/slog"
	"testing"
	"time"
	"toloka-kit/domain/model"
	"toloka-kit/errors"

	"github.com/stretchr/testify/require"
)

func serverAttachment(kind string) model.Mapping {
	return model.Mapping{
		"attachment_type": kind,
		"id":              "0a0b0c",
		"name":            "image.png",
		"details": map[string]any{
			"user_id":       "user-1",
			"assignment_id": "assignment-1",
			"pool_id":       "pool-1",
		},
		"created":    "2016-04-18T12:43:04.988",
		"media_type": "image/png",
		"owner":      map[string]any{"id": "requester-1", "myself": true, "company_id": "company-1"},
	}
}

func TestParseAttachment_SelectsVariant(t *testing.T) {
	req := require.New(t)

	parsed, err := ParseAttachment(serverAttachment("ASSIGNMENT_ATTACHMENT"))
	req.NoError(err)

	attachment, ok := parsed.(*AssignmentAttachment)
	req.True(ok)
	req.Same(AssignmentAttachmentSchema, attachment.Schema())
	req.Equal(AssignmentAttachmentType, attachment.Type())
	req.Equal("0a0b0c", attachment.ID())
	req.Equal("image.png", attachment.Name())
	req.Equal("image/png", attachment.MediaType())
	req.Equal(time.Date(2016, 4, 18, 12, 43, 4, 988_000_000, time.UTC), attachment.Created())
	req.Equal("pool-1", attachment.Details().PoolID())
	req.Equal("assignment-1", attachment.Details().AssignmentID())
	req.Equal("user-1", attachment.Details().UserID())
	req.Equal("company-1", attachment.Owner().CompanyID())
	_, unresolved := attachment.UnresolvedVariant()
	req.False(unresolved)

	// The variant is still an attachment
	req.True(attachment.Schema().Is(AttachmentSchema))
	req.Equal("0a0b0c", parsed.Base().ID())
}

func TestParseAttachment_UnknownTypeFallsBack(t *testing.T) {
	req := require.New(t)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	parsed, err := ParseAttachment(serverAttachment("TASK_ATTACHMENT"), model.WithLogger(log))
	req.NoError(err)

	_, isVariant := parsed.(*AssignmentAttachment)
	req.False(isVariant)
	attachment, ok := parsed.(*Attachment)
	req.True(ok)
	req.Same(AttachmentSchema, attachment.Schema())
	req.Equal("TASK_ATTACHMENT", attachment.Type().String())
	req.False(attachment.Type().IsKnown())
	value, unresolved := attachment.UnresolvedVariant()
	req.True(unresolved)
	req.Equal("TASK_ATTACHMENT", value)
	req.Contains(logs.String(), "No variant registered")
	req.Contains(logs.String(), "TASK_ATTACHMENT")

	// The unknown type survives serialisation
	req.Equal(serverAttachment("TASK_ATTACHMENT"), attachment.ToMapping())
}

func TestParseAttachment_RoundTrip(t *testing.T) {
	req := require.New(t)
	payload := serverAttachment("ASSIGNMENT_ATTACHMENT")

	parsed, err := ParseAttachment(payload)
	req.NoError(err)
	req.Equal(payload, parsed.Model().ToMapping())

	again, err := ParseAttachment(parsed.Model().ToMapping())
	req.NoError(err)
	req.True(parsed.Model().Equal(again.Model()))
}

func TestDecodeAttachment(t *testing.T) {
	req := require.New(t)
	data := `{"attachment_type":"ASSIGNMENT_ATTACHMENT","id":"1","name":"a.pdf",` +
		`"details":{"user_id":"u","assignment_id":"a","pool_id":"p"},"created":"2020-05-01T10:00:00",` +
		`"media_type":"application/pdf"}`

	parsed, err := DecodeAttachment([]byte(data))
	req.NoError(err)
	req.IsType(&AssignmentAttachment{}, parsed)

	out, err := parsed.Model().MarshalJSON()
	req.NoError(err)
	req.Equal(data, string(out))

	_, err = DecodeAttachment([]byte(`{"attachment_type":7}`))
	req.ErrorIs(err, errors.ErrValidation)
}

func TestAttachment_ReadonlyType(t *testing.T) {
	req := require.New(t)
	parsed, err := ParseAttachment(serverAttachment("ASSIGNMENT_ATTACHMENT"))
	req.NoError(err)
	attachment := parsed.Base()

	err = attachment.Set(AttachmentType, "ASSIGNMENT_ATTACHMENT")
	req.ErrorIs(err, errors.ErrImmutable)
	var ie *errors.ImmutabilityError
	req.ErrorAs(err, &ie)
	req.Equal(AttachmentType, ie.Field)
	req.ErrorIs(attachment.Unset(AttachmentType), errors.ErrImmutable)
	req.Equal(AssignmentAttachmentType, attachment.Type())

	// The other attributes stay writable
	req.NoError(attachment.SetName("renamed.png"))
	req.Equal("renamed.png", attachment.Name())
}

func TestNewAssignmentAttachment(t *testing.T) {
	req := require.New(t)
	attachment := NewAssignmentAttachment()

	req.Equal(AssignmentAttachmentType, attachment.Type())
	req.NoError(attachment.SetName("voice.wav"))
	req.NoError(attachment.SetMediaType("audio/wav"))
	req.NoError(attachment.SetCreated(time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)))
	details, err := NewAttachmentDetails("u", "a", "p")
	req.NoError(err)
	req.Equal("a", details.AssignmentID())
	req.NoError(attachment.SetDetails(details))

	req.Equal(model.Mapping{
		"attachment_type": "ASSIGNMENT_ATTACHMENT",
		"name":            "voice.wav",
		"media_type":      "audio/wav",
		"created":         "2021-01-02T03:04:05",
		"details":         map[string]any{"user_id": "u", "assignment_id": "a", "pool_id": "p"},
	}, attachment.ToMapping())

	req.NoError(attachment.SetDetails(nil))
	req.Nil(attachment.Details())

	// Objects of another model are rejected
	req.ErrorIs(attachment.Set(AttachmentOwner, NewTraining()), errors.ErrValidation)
}

func TestAttachment_MatchesContent(t *testing.T) {
	req := require.New(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	attachment := NewAssignmentAttachment()

	req.NoError(attachment.SetMediaType("image/png"))
	req.True(attachment.MatchesContent(png))

	req.NoError(attachment.SetMediaType("application/pdf"))
	req.False(attachment.MatchesContent(png))
}

func TestLookupKind(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"attachment", "owner", "training"}, KindNames())

	kind, ok := LookupKind("attachment")
	req.True(ok)
	req.Same(AttachmentSchema, kind.Schema)
	parsed, err := kind.Parse(serverAttachment("ASSIGNMENT_ATTACHMENT"))
	req.NoError(err)
	req.IsType(&AssignmentAttachment{}, parsed)

	kind, ok = LookupKind("training")
	req.True(ok)
	parsed, err = kind.Parse(model.Mapping{"private_name": "x", "status": "LOCKED"})
	req.NoError(err)
	training, ok := parsed.(*Training)
	req.True(ok)
	req.True(training.IsLocked())

	_, err = kind.Parse(model.Mapping{"assignment_max_duration_seconds": "soon"})
	req.ErrorIs(err, errors.ErrValidation)

	_, ok = LookupKind("pool")
	req.False(ok)
}
