package dto

type CommentRequest struct {
	Content string `json:"content"`
}

type PanelRequest struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

// VerificationForm is the multipart form of an account upgrade request;
// the three documents come as "frontId", "backId" and
// "businessCertificate" file parts.
type VerificationForm struct {
	Fullname string `form:"fullname" binding:"required"`
	Address  string `form:"address" binding:"required"`
	Phone    string `form:"phone" binding:"required"`
}
