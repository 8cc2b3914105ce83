package resources

import (
	"toloka-kit/domain/model"
)

const (
	OwnerID        = "id"
	OwnerMyself    = "myself"
	OwnerCompanyID = "company_id"
)

// OwnerSchema describes the requester owning a resource.
var OwnerSchema = model.MustDefine("Owner",
	model.Attr(OwnerID, model.String),
	model.Attr(OwnerMyself, model.Bool),
	model.Attr(OwnerCompanyID, model.String),
)

type Owner struct {
	*model.Object
}

func NewOwner() *Owner {
	return &Owner{model.New(OwnerSchema)}
}

func ownerOf(o *model.Object, name string) *Owner {
	nested, ok := model.Field[*model.Object](o, name)
	if !ok {
		return nil
	}
	return &Owner{nested}
}

func (o *Owner) ID() string {
	v, _ := model.Field[string](o.Object, OwnerID)
	return v
}

// Myself is true when the owner is the requester making the request.
func (o *Owner) Myself() bool {
	v, _ := model.Field[bool](o.Object, OwnerMyself)
	return v
}

func (o *Owner) CompanyID() string {
	v, _ := model.Field[string](o.Object, OwnerCompanyID)
	return v
}

func (o *Owner) SetID(id string) error { return o.Set(OwnerID, id) }

func (o *Owner) SetMyself(myself bool) error { return o.Set(OwnerMyself, myself) }

func (o *Owner) SetCompanyID(id string) error { return o.Set(OwnerCompanyID, id) }
