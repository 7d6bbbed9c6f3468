package services

import (
	"context"
	"fmt"
	"log"

	recaptcha "cloud.google.com/go/recaptchaenterprise/v2/apiv1"
	"cloud.google.com/go/recaptchaenterprise/v2/apiv1/recaptchaenterprisepb"
	"google.golang.org/api/option"

	"hotelbooking/dto"
)

// CaptchaVerifier scores a client-side captcha token. A nil result with a
// nil error means the token was rejected.
type CaptchaVerifier interface {
	Assess(ctx context.Context, token, action, userIPAddress, userAgent string) (*dto.AssessmentResult, error)
}

// RecaptchaVerifier asks reCAPTCHA Enterprise for an assessment.
type RecaptchaVerifier struct {
	ProjectID       string
	SiteKey         string
	CredentialsPath string
}

func (v *RecaptchaVerifier) Assess(ctx context.Context, token, action, userIPAddress, userAgent string) (*dto.AssessmentResult, error) {
	var opts []option.ClientOption
	if v.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(v.CredentialsPath))
	}
	client, err := recaptcha.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create reCAPTCHA client: %w", err)
	}
	defer client.Close()

	req := &recaptchaenterprisepb.CreateAssessmentRequest{
		Parent: fmt.Sprintf("projects/%s", v.ProjectID),
		Assessment: &recaptchaenterprisepb.Assessment{
			Event: &recaptchaenterprisepb.Event{
				Token:         token,
				SiteKey:       v.SiteKey,
				UserIpAddress: userIPAddress,
				UserAgent:     userAgent,
			},
		},
	}

	response, err := client.CreateAssessment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	if response.TokenProperties == nil || !response.TokenProperties.Valid {
		if response.TokenProperties != nil {
			log.Printf("captcha token invalid: %s", response.TokenProperties.InvalidReason)
		} else {
			log.Println("captcha token properties missing")
		}
		return nil, nil
	}

	if action != "" && response.TokenProperties.Action != action {
		log.Printf("captcha action mismatch: expected %s, got %s", action, response.TokenProperties.Action)
		return nil, nil
	}

	result := &dto.AssessmentResult{
		Action: response.TokenProperties.Action,
	}
	if response.RiskAnalysis != nil {
		result.Score = response.RiskAnalysis.Score
		for _, reason := range response.RiskAnalysis.Reasons {
			result.Reasons = append(result.Reasons, reason.String())
		}
	}
	return result, nil
}
