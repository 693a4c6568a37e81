package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleVendor        = "vendor"
	RolePremiumVendor = "premium_vendor"

	unknownVendor = "N/A"
)

type Vendor struct {
	Id       primitive.ObjectID `json:"_id" bson:"_id"`
	Name     string             `json:"name" bson:"name,omitempty"`
	Email    string             `json:"email" bson:"email,omitempty"`
	Phone    string             `json:"phone" bson:"phone,omitempty"`
	OrgName  string             `json:"orgName" bson:"orgName,omitempty"`
	Location string             `json:"location" bson:"location,omitempty"`
	Type     string             `json:"type" bson:"type,omitempty"`
	Role     string             `json:"role" bson:"role,omitempty"`
	IsActive bool               `json:"isActive" bson:"isActive"`
}

func (v *Vendor) DisplayName() string {
	if v == nil {
		return unknownVendor
	}
	if v.OrgName != "" {
		return v.OrgName
	}
	if v.Name != "" {
		return v.Name
	}
	return unknownVendor
}

// VendorName resolves the display name of a vendor joined into a raw document.
func VendorName(vendor any) string {
	doc := AsMap(vendor)
	if doc == nil {
		return unknownVendor
	}
	org, _ := doc["orgName"].(string)
	name, _ := doc["name"].(string)
	return (&Vendor{OrgName: org, Name: name}).DisplayName()
}
