package model

import "time"

// VerificationRequest asks an admin to raise a user to LevelVerified. The
// document ID is the requesting user's ID, so a user has at most one.
type VerificationRequest struct {
	RequestID              string      `json:"id"`
	Fullname               string      `json:"fullname"`
	Address                string      `json:"address"`
	Phone                  string      `json:"phone"`
	FrontIDURL             string      `json:"frontIdUrl"`
	BackIDURL              string      `json:"backIdUrl"`
	BusinessCertificateURL string      `json:"businessCertificateUrl"`
	RequestedBy            RequestedBy `json:"requestedBy"`
	CreatedAt              time.Time   `json:"createdAt"`

	// Email is joined from the requester's user record when listing.
	Email string `json:"email,omitempty"`
}

type RequestedBy struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

func (v VerificationRequest) ToData() map[string]interface{} {
	return map[string]interface{}{
		"fullname":               v.Fullname,
		"address":                v.Address,
		"phone":                  v.Phone,
		"frontIdUrl":             v.FrontIDURL,
		"backIdUrl":              v.BackIDURL,
		"businessCertificateUrl": v.BusinessCertificateURL,
		"requestedBy": map[string]interface{}{
			"uid":      v.RequestedBy.UID,
			"username": v.RequestedBy.Username,
		},
		"createdAt": v.CreatedAt,
	}
}

func VerificationRequestFromData(id string, data map[string]interface{}) VerificationRequest {
	by := getMap(data, "requestedBy")
	return VerificationRequest{
		RequestID:              id,
		Fullname:               getString(data, "fullname"),
		Address:                getString(data, "address"),
		Phone:                  getString(data, "phone"),
		FrontIDURL:             getString(data, "frontIdUrl"),
		BackIDURL:              getString(data, "backIdUrl"),
		BusinessCertificateURL: getString(data, "businessCertificateUrl"),
		RequestedBy: RequestedBy{
			UID:      getString(by, "uid"),
			Username: getString(by, "username"),
		},
		CreatedAt: getTime(data, "createdAt"),
	}
}
