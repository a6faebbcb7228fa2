package port

// Имена форм, для которых есть JSON-схемы.
const (
	FormInquiry            = "inquiry"
	FormSiteVisit          = "site-visit"
	FormPropertySubmission = "property-submission"
)

// FormValidatorPort проверяет пользовательскую форму до отправки в backend.
type FormValidatorPort interface {
	Validate(form string, value interface{}) error
}
