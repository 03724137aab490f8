package app

import (
	"fmt"
	"time"

	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/drive"
	"github.com/Sathviksu/College-Placement-Management-Portal/internal/domain/student"
)

type IssueType string

const (
	// IssueCritical blocks applying outright (no resume, unapproved
	// profile, deadline passed).
	IssueCritical IssueType = "critical"
	// IssueEligibility marks an unmet drive criterion (CGPA, backlogs).
	IssueEligibility IssueType = "eligibility"
	// IssueProfile marks data the student still has to fill in.
	IssueProfile IssueType = "profile"
)

type Issue struct {
	Type    IssueType `json:"type"`
	Message string    `json:"message"`
}

type EligibilityVerdict struct {
	Eligible bool    `json:"eligible"`
	Issues   []Issue `json:"issues"`
}

func (v EligibilityVerdict) IssueMessages() []string {
	messages := make([]string, 0, len(v.Issues))
	for _, issue := range v.Issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// EvaluateEligibility checks a student against a drive's criteria. All
// rules run independently and every violation is collected; the verdict
// is eligible only when no issue was raised. The caller supplies now so
// the deadline rule stays deterministic under test.
func EvaluateEligibility(profile student.Profile, d drive.Drive, now time.Time) EligibilityVerdict {
	var issues []Issue

	if !profile.IsApproved {
		issues = append(issues, Issue{Type: IssueCritical, Message: "Profile not approved by HOD"})
	}
	if profile.ResumeURL == "" {
		issues = append(issues, Issue{Type: IssueCritical, Message: "Resume not uploaded"})
	}
	if now.After(d.ApplicationDeadline) {
		issues = append(issues, Issue{Type: IssueCritical, Message: "Application deadline passed"})
	}
	if !profile.HasCGPA {
		issues = append(issues, Issue{Type: IssueProfile, Message: "CGPA not updated in profile"})
	} else if profile.CGPA < d.MinCGPA {
		issues = append(issues, Issue{
			Type:    IssueEligibility,
			Message: fmt.Sprintf("CGPA too low (required: %.2f, yours: %.2f)", d.MinCGPA, profile.CGPA),
		})
	}
	if profile.Backlogs > d.MaxBacklogs {
		issues = append(issues, Issue{
			Type:    IssueEligibility,
			Message: fmt.Sprintf("Too many backlogs (allowed: %d, yours: %d)", d.MaxBacklogs, profile.Backlogs),
		})
	}

	return EligibilityVerdict{Eligible: len(issues) == 0, Issues: issues}
}
